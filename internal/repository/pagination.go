package repository

import "gorm.io/gorm"

const maxPageSize = 100

// applyPagination 应用分页参数，统一处理非法页码与偏移量。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// likePattern 构造子串匹配模式
func likePattern(keyword string) string {
	return "%" + keyword + "%"
}
