package service

import (
	"strings"

	"github.com/storefront-next/internal/constants"
)

// NormalizeOrderStatus 规范化订单状态，非法值返回空串
func NormalizeOrderStatus(raw string) string {
	status := strings.ToLower(strings.TrimSpace(raw))
	for _, candidate := range constants.OrderStatuses {
		if candidate == status {
			return status
		}
	}
	return ""
}

// IsCancellableByOwner 仅待处理订单允许用户取消
func IsCancellableByOwner(status string) bool {
	return status == constants.OrderStatusPending
}

// stockDirection 状态变更对库存的影响：-1 回补，+1 重新预占，0 不变
func stockDirection(from, to string) int {
	fromCancelled := from == constants.OrderStatusCancelled
	toCancelled := to == constants.OrderStatusCancelled
	switch {
	case !fromCancelled && toCancelled:
		return -1
	case fromCancelled && !toCancelled:
		return 1
	default:
		return 0
	}
}
