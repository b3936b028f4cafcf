package admin

import (
	"github.com/storefront-next/internal/constants"
	handlershared "github.com/storefront-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, constants.ContextKeyAdminID, "error.admin_id_invalid", "error.admin_id_type_invalid")
}
