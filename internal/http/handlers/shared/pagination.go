package shared

import (
	"strconv"

	"github.com/storefront-next/internal/constants"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

// NormalizePagination 归一化分页参数。
func NormalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// ParsePagination 从查询参数读取分页，defaultSize 为空值时的每页条数。
func ParsePagination(c *gin.Context, defaultSize int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	return NormalizePagination(page, pageSize)
}

// ParseIDParam 解析路径中的正整数 ID。
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
