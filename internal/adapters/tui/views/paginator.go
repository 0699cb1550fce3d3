package views

import "fmt"

// Paginator tracks a cursor over a list and the page window around it.
// The window always contains the cursor: page = cursor / size.
type Paginator struct {
	size   int
	total  int
	cursor int
}

// NewPaginator creates a paginator showing size rows per page
func NewPaginator(size int) *Paginator {
	if size <= 0 {
		size = 10
	}
	return &Paginator{size: size}
}

// SetPageSize changes how many rows fit on a page
func (p *Paginator) SetPageSize(size int) {
	if size > 0 {
		p.size = size
	}
}

// PageSize returns the number of rows per page
func (p *Paginator) PageSize() int {
	return p.size
}

// SetTotal sets the list length and pulls the cursor back inside it
func (p *Paginator) SetTotal(total int) {
	p.total = max(0, total)
	p.SetCursor(p.cursor)
}

// Cursor returns the absolute index under the cursor
func (p *Paginator) Cursor() int {
	return p.cursor
}

// SetCursor moves the cursor, clamped to the list
func (p *Paginator) SetCursor(pos int) {
	p.cursor = max(0, min(pos, p.total-1))
}

// CursorUp moves the cursor one row up
func (p *Paginator) CursorUp() {
	p.SetCursor(p.cursor - 1)
}

// CursorDown moves the cursor one row down
func (p *Paginator) CursorDown() {
	p.SetCursor(p.cursor + 1)
}

// NextPage jumps to the first row of the next page, if any
func (p *Paginator) NextPage() {
	if next := p.PageOffset() + p.size; next < p.total {
		p.cursor = next
	}
}

// PrevPage jumps to the first row of the previous page, or the top
func (p *Paginator) PrevPage() {
	p.cursor = max(0, p.PageOffset()-p.size)
}

// PageOffset returns the index of the first row on the current page
func (p *Paginator) PageOffset() int {
	return p.cursor / p.size * p.size
}

// VisibleRange returns the [start, end) slice bounds of the current page
func (p *Paginator) VisibleRange() (start, end int) {
	start = p.PageOffset()
	return start, min(start+p.size, p.total)
}

// CursorInPage returns the cursor position relative to the current page
func (p *Paginator) CursorInPage() int {
	return p.cursor - p.PageOffset()
}

// TotalPages is at least 1, even for an empty list
func (p *Paginator) TotalPages() int {
	return max(1, (p.total+p.size-1)/p.size)
}

// CurrentPage is 1-based
func (p *Paginator) CurrentPage() int {
	return p.cursor/p.size + 1
}

// Reset empties the list
func (p *Paginator) Reset() {
	p.cursor = 0
	p.total = 0
}

// PageInfo renders "page x/y" when there is more than one page
func (p *Paginator) PageInfo() string {
	if p.TotalPages() <= 1 {
		return ""
	}
	return fmt.Sprintf("page %d/%d", p.CurrentPage(), p.TotalPages())
}
