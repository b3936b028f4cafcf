package admin

import (
	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

type mappedHandlerError = handlershared.MappedError

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, fallbackCode, fallbackKey)
}

var adminAuthErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrUserBanned, Code: response.CodeForbidden, Key: "error.user_banned"},
	{Target: service.ErrForbidden, Code: response.CodeForbidden, Key: "error.forbidden"},
}

var adminProductErrorRules = []mappedHandlerError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrProductInUse, Code: response.CodeConflict, Key: "error.product_in_use"},
}

var adminUploadErrorRules = []mappedHandlerError{
	{Target: service.ErrUploadTooLarge, Code: response.CodeBadRequest, Key: "error.upload_too_large"},
	{Target: service.ErrUploadTypeInvalid, Code: response.CodeBadRequest, Key: "error.upload_type_invalid"},
}

var adminOrderErrorRules = []mappedHandlerError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusChanged, Code: response.CodeConflict, Key: "error.order_status_changed"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
}

var adminUserErrorRules = []mappedHandlerError{
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
}
