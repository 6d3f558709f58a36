// internal/view/pagination.go
package view

// Pagination describes the current page of a result set
type Pagination struct {
	Page     int
	PageSize int
	Total    int
}

// FirstRow is the 1-based number of the first row on the page
func (p Pagination) FirstRow() int {
	return (p.Page-1)*p.PageSize + 1
}

// LastRow is the number of the last row on the page
func (p Pagination) LastRow() int {
	return min(p.Page*p.PageSize, p.Total)
}

func (p Pagination) HasPrev() bool {
	return p.Page > 1
}

func (p Pagination) HasNext() bool {
	return p.LastRow() < p.Total
}

func (p Pagination) Prev() int {
	return max(p.Page-1, 1)
}

func (p Pagination) Next() int {
	if p.PageSize <= 0 {
		return p.Page
	}
	pages := (p.Total + p.PageSize - 1) / p.PageSize
	return min(p.Page+1, pages)
}
