package dto

// ListResponse is the paginated body of every list endpoint.
type ListResponse[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Pagination is embedded by every list filter.
type Pagination struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=200"`
}

// Normalize clamps page and limit to sane values.
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 200 {
		p.Limit = 50
	}
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// NewList builds a ListResponse from a page of rows.
func NewList[T any](data []T, total int64, p Pagination) *ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return &ListResponse[T]{Data: data, Total: total, Page: p.Page, Limit: p.Limit}
}
