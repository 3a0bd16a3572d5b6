package views

// Paginator tracks the selected row of a flattened result tree and the
// window of rows shown on screen
type Paginator struct {
	size   int // rows per page
	offset int // first visible row
	cursor int // selected row, absolute
	total  int
}

// NewPaginator returns a paginator showing pageSize rows at a time
func NewPaginator(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Paginator{size: pageSize}
}

// SetPageSize resizes the window, e.g. after a terminal resize. The page is
// recomputed from the cursor.
func (p *Paginator) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	p.size = size
	p.offset = (p.cursor / size) * size
}

// SetTotal updates the row count after the tree is rebuilt or collapsed
func (p *Paginator) SetTotal(total int) {
	p.total = max(total, 0)
	p.cursor = p.clamp(p.cursor)
	p.follow()
}

// Cursor returns the selected row
func (p *Paginator) Cursor() int {
	return p.cursor
}

// SetCursor selects row pos, clamped to the rows that exist
func (p *Paginator) SetCursor(pos int) {
	p.cursor = p.clamp(pos)
	p.follow()
}

// CursorUp selects the previous row and reports whether it moved
func (p *Paginator) CursorUp() bool {
	return p.move(p.cursor - 1)
}

// CursorDown selects the next row and reports whether it moved
func (p *Paginator) CursorDown() bool {
	return p.move(p.cursor + 1)
}

// Home selects the first row
func (p *Paginator) Home() {
	p.SetCursor(0)
}

// End selects the last row
func (p *Paginator) End() {
	p.SetCursor(p.total - 1)
}

// NextPage jumps to the first row of the next page
func (p *Paginator) NextPage() bool {
	if p.offset+p.size >= p.total {
		return false
	}
	p.offset += p.size
	p.cursor = p.offset
	return true
}

// PrevPage jumps to the first row of the previous page
func (p *Paginator) PrevPage() bool {
	if p.offset == 0 {
		return false
	}
	p.offset = max(p.offset-p.size, 0)
	p.cursor = p.offset
	return true
}

// PageOffset returns the first visible row
func (p *Paginator) PageOffset() int {
	return p.offset
}

// VisibleRange returns the half-open range of rows on screen
func (p *Paginator) VisibleRange() (start, end int) {
	return p.offset, min(p.offset+p.size, p.total)
}

// CursorInPage returns the selected row relative to the window
func (p *Paginator) CursorInPage() int {
	return p.cursor - p.offset
}

// TotalPages returns the page count; an empty list still has one page
func (p *Paginator) TotalPages() int {
	if p.total == 0 {
		return 1
	}
	return (p.total + p.size - 1) / p.size
}

// CurrentPage returns the 1-based page holding the window
func (p *Paginator) CurrentPage() int {
	return p.offset/p.size + 1
}

// Reset forgets the rows, e.g. before a new search is shown
func (p *Paginator) Reset() {
	*p = Paginator{size: p.size}
}

func (p *Paginator) move(pos int) bool {
	if pos < 0 || pos >= p.total {
		return false
	}
	p.cursor = pos
	p.follow()
	return true
}

func (p *Paginator) clamp(pos int) int {
	return max(min(pos, p.total-1), 0)
}

// follow snaps the window to the page containing the cursor
func (p *Paginator) follow() {
	if p.cursor < p.offset || p.cursor >= p.offset+p.size {
		p.offset = (p.cursor / p.size) * p.size
	}
}
