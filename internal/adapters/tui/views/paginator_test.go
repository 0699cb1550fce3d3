package views

import "testing"

func TestPaginator_CursorStaysInPage(t *testing.T) {
	p := NewPaginator(3)
	p.SetTotal(8)

	for i := 0; i < 4; i++ {
		p.CursorDown()
	}
	if p.Cursor() != 4 || p.CurrentPage() != 2 {
		t.Errorf("cursor %d page %d, want 4 and 2", p.Cursor(), p.CurrentPage())
	}
	start, end := p.VisibleRange()
	if start != 3 || end != 6 {
		t.Errorf("VisibleRange() = %d,%d, want 3,6", start, end)
	}
	if p.PageInfo() != "page 2/3" {
		t.Errorf("PageInfo() = %q", p.PageInfo())
	}

	p.SetTotal(2)
	if p.Cursor() != 1 || p.CurrentPage() != 1 {
		t.Errorf("after shrink cursor %d page %d", p.Cursor(), p.CurrentPage())
	}
	if p.PageInfo() != "" {
		t.Errorf("PageInfo() on single page = %q", p.PageInfo())
	}
}

func TestPaginator_SetPageSize(t *testing.T) {
	p := NewPaginator(2)
	p.SetTotal(10)
	p.SetCursor(7)

	p.SetPageSize(5)
	if p.PageSize() != 5 || p.CurrentPage() != 2 || p.CursorInPage() != 2 {
		t.Errorf("size %d page %d in-page %d", p.PageSize(), p.CurrentPage(), p.CursorInPage())
	}
	if p.PageOffset() != 5 {
		t.Errorf("PageOffset() = %d, want 5", p.PageOffset())
	}
}

func TestPaginator_PageJumps(t *testing.T) {
	tests := []struct {
		name       string
		start      int
		move       func(p *Paginator)
		wantCursor int
	}{
		{"next from middle of page", 4, (*Paginator).NextPage, 6},
		{"next on last page stays", 7, (*Paginator).NextPage, 7},
		{"prev from middle of page", 4, (*Paginator).PrevPage, 0},
		{"prev on first page goes to top", 2, (*Paginator).PrevPage, 0},
		{"up at top stays", 0, (*Paginator).CursorUp, 0},
		{"down at bottom stays", 7, (*Paginator).CursorDown, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPaginator(3)
			p.SetTotal(8)
			p.SetCursor(tt.start)
			tt.move(p)
			if p.Cursor() != tt.wantCursor {
				t.Errorf("Cursor() = %d, want %d", p.Cursor(), tt.wantCursor)
			}
		})
	}
}

func TestPaginator_Empty(t *testing.T) {
	p := NewPaginator(0)
	p.SetCursor(5)
	if p.Cursor() != 0 || p.TotalPages() != 1 || p.PageSize() != 10 {
		t.Errorf("cursor %d pages %d size %d", p.Cursor(), p.TotalPages(), p.PageSize())
	}
	start, end := p.VisibleRange()
	if start != 0 || end != 0 {
		t.Errorf("VisibleRange() = %d,%d on empty list", start, end)
	}
}
