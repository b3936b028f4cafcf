package service

import (
	"errors"
	"fmt"
	"strings"
)

// 通用错误类别
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("resource conflict")
)

// 具体业务错误
var (
	ErrProductNotFound  = fmt.Errorf("%w: product", ErrNotFound)
	ErrCartItemNotFound = fmt.Errorf("%w: cart item", ErrNotFound)
	ErrOrderNotFound    = fmt.Errorf("%w: order", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("%w: user", ErrNotFound)

	ErrEmailExists  = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrProductInUse = fmt.Errorf("%w: product referenced by orders", ErrConflict)

	ErrEmptyCart           = errors.New("cart is empty")
	ErrOrderNotCancellable = errors.New("order can not be cancelled")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserBanned         = errors.New("user is banned")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidToken       = errors.New("invalid token")

	ErrUploadTooLarge    = errors.New("upload file too large")
	ErrUploadTypeInvalid = errors.New("upload file type not allowed")
)

// ValidationError 输入校验失败
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is 使 errors.Is(err, ErrValidation) 成立
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// OutOfStockError 单个商品库存不足
type OutOfStockError struct {
	ProductID uint
	Name      string
	Available int
	Requested int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("out of stock: %s (stock: %d, requested: %d)", e.Name, e.Available, e.Requested)
}

// StockShortage 结账时库存不足的明细
type StockShortage struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

// InsufficientStockError 结账时一个或多个商品库存不足
type InsufficientStockError struct {
	Items []StockShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		parts = append(parts, fmt.Sprintf("%s (stock: %d, requested: %d)", item.Name, item.Available, item.Requested))
	}
	return "insufficient stock: " + strings.Join(parts, ", ")
}

func asOutOfStock(err error) (*OutOfStockError, bool) {
	var target *OutOfStockError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ErrOrderStatusChanged 订单状态已被并发修改
var ErrOrderStatusChanged = fmt.Errorf("%w: order status changed concurrently", ErrConflict)

// ErrWeakPassword 密码不满足策略
var ErrWeakPassword = fmt.Errorf("%w: weak password", ErrValidation)
