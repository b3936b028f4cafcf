package public

import (
	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError = handlershared.MappedError

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	handlershared.RespondMappedError(c, err, rules, fallbackCode, fallbackKey)
}

var authErrorRules = []mappedHandlerError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrUserBanned, Code: response.CodeForbidden, Key: "error.user_banned"},
	{Target: service.ErrEmailExists, Code: response.CodeConflict, Key: "error.email_exists"},
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
}

var productErrorRules = []mappedHandlerError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
}

var cartErrorRules = []mappedHandlerError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound, Key: "error.cart_item_not_found"},
}

var orderErrorRules = []mappedHandlerError{
	{Target: service.ErrEmptyCart, Code: response.CodeBadRequest, Key: "error.empty_cart"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderNotCancellable, Code: response.CodeBadRequest, Key: "error.order_not_cancellable"},
	{Target: service.ErrOrderStatusChanged, Code: response.CodeConflict, Key: "error.order_status_changed"},
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
}
