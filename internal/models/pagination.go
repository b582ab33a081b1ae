package models

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination is a limit/offset window
type Pagination struct {
	Limit  int `json:"limit" form:"limit"`
	Offset int `json:"offset" form:"offset"`
}

// Normalize clamps the window, using def when no limit was given
func (p Pagination) Normalize(def int) Pagination {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
