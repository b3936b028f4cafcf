package shared

import (
	"errors"
	"strings"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/i18n"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

type localizedError interface {
	Key() string
	Args() []interface{}
}

// RespondMappedError 依次处理库存错误、校验错误与映射表，未命中时使用兜底错误。
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	if RespondStockError(c, err) || RespondValidationError(c, err) {
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// RespondStockError 库存不足时返回 400，并在 data 中列出不足的商品。
func RespondStockError(c *gin.Context, err error) bool {
	locale := i18n.ResolveLocale(c)

	var outOfStock *service.OutOfStockError
	if errors.As(err, &outOfStock) {
		msg := i18n.Sprintf(locale, "error.out_of_stock", outOfStock.Name, outOfStock.Available, outOfStock.Requested)
		response.ErrorWithData(c, response.CodeBadRequest, msg, gin.H{
			"items": []service.StockShortage{{
				ProductID: outOfStock.ProductID,
				Name:      outOfStock.Name,
				Available: outOfStock.Available,
				Requested: outOfStock.Requested,
			}},
		})
		return true
	}

	var insufficient *service.InsufficientStockError
	if errors.As(err, &insufficient) {
		parts := make([]string, 0, len(insufficient.Items))
		for _, item := range insufficient.Items {
			parts = append(parts, i18n.Sprintf(locale, "error.stock_item", item.Name, item.Available, item.Requested))
		}
		msg := i18n.Sprintf(locale, "error.insufficient_stock", strings.Join(parts, ", "))
		response.ErrorWithData(c, response.CodeBadRequest, msg, gin.H{"items": insufficient.Items})
		return true
	}
	return false
}

// RespondValidationError 校验错误返回 400，带字段名。
func RespondValidationError(c *gin.Context, err error) bool {
	if !errors.Is(err, service.ErrValidation) {
		return false
	}
	locale := i18n.ResolveLocale(c)

	var localized localizedError
	if errors.As(err, &localized) {
		response.Error(c, response.CodeBadRequest, i18n.Sprintf(locale, localized.Key(), localized.Args()...))
		return true
	}
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		msg := i18n.Sprintf(locale, "error.validation_failed", validation.Field, validation.Message)
		response.ErrorWithData(c, response.CodeBadRequest, msg, gin.H{"field": validation.Field})
		return true
	}
	response.Error(c, response.CodeBadRequest, i18n.T(locale, "error.bad_request"))
	return true
}
