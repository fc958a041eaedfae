package dto

// 列表接口分页上限；考场名单类列表一次最多取 100 条
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationRequest 列表查询参数，嵌入各模块的 XxxListRequest
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 页码，未传时为 1
func (p *PaginationRequest) GetPage() int {
	return max(p.Page, 1)
}

// GetPageSize 每页条数，未传时取 DefaultPageSize，超限截断到 MaxPageSize
func (p *PaginationRequest) GetPageSize() int {
	switch {
	case p.PageSize <= 0:
		return DefaultPageSize
	case p.PageSize > MaxPageSize:
		return MaxPageSize
	default:
		return p.PageSize
	}
}

// GetOffset 数据库偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}
