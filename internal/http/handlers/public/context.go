package public

import (
	"github.com/storefront-next/internal/constants"
	handlershared "github.com/storefront-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, constants.ContextKeyUserID, "error.user_id_invalid", "error.user_id_type_invalid")
}
