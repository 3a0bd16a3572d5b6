package views

import "testing"

func TestPaginator_Navigation(t *testing.T) {
	p := NewPaginator(3)
	p.SetTotal(7)

	if p.TotalPages() != 3 {
		t.Fatalf("TotalPages() = %d, want 3", p.TotalPages())
	}

	for range 3 {
		p.CursorDown()
	}
	if p.Cursor() != 3 || p.CurrentPage() != 2 {
		t.Errorf("after 3 downs: cursor=%d page=%d, want 3 and 2", p.Cursor(), p.CurrentPage())
	}
	if p.CursorInPage() != 0 {
		t.Errorf("CursorInPage() = %d, want 0", p.CursorInPage())
	}

	p.End()
	if p.Cursor() != 6 || p.CurrentPage() != 3 {
		t.Errorf("End: cursor=%d page=%d, want 6 and 3", p.Cursor(), p.CurrentPage())
	}
	if start, end := p.VisibleRange(); start != 6 || end != 7 {
		t.Errorf("VisibleRange() = %d,%d, want 6,7", start, end)
	}
	if p.CursorDown() {
		t.Error("CursorDown at the last row should not move")
	}

	p.Home()
	if p.Cursor() != 0 || p.PageOffset() != 0 {
		t.Errorf("Home: cursor=%d offset=%d, want 0 and 0", p.Cursor(), p.PageOffset())
	}
	if p.CursorUp() {
		t.Error("CursorUp at the first row should not move")
	}
}

func TestPaginator_Pages(t *testing.T) {
	p := NewPaginator(4)
	p.SetTotal(10)

	if !p.NextPage() || p.Cursor() != 4 {
		t.Fatalf("NextPage: cursor=%d, want 4", p.Cursor())
	}
	p.NextPage()
	if p.NextPage() {
		t.Error("NextPage past the last page should fail")
	}
	if !p.PrevPage() || p.Cursor() != 4 {
		t.Errorf("PrevPage: cursor=%d, want 4", p.Cursor())
	}
}

func TestPaginator_ShrinkingTotalClampsCursor(t *testing.T) {
	p := NewPaginator(5)
	p.SetTotal(12)
	p.SetCursor(11)

	p.SetTotal(4)
	if p.Cursor() != 3 {
		t.Errorf("Cursor() = %d, want 3", p.Cursor())
	}
	if p.PageOffset() != 0 {
		t.Errorf("PageOffset() = %d, want 0", p.PageOffset())
	}
}

func TestPaginator_SetPageSize(t *testing.T) {
	p := NewPaginator(10)
	p.SetTotal(30)
	p.SetCursor(25)

	p.SetPageSize(4)
	if p.PageOffset() != 24 {
		t.Errorf("PageOffset() = %d, want 24", p.PageOffset())
	}

	p.SetPageSize(0)
	if p.TotalPages() != 8 {
		t.Errorf("TotalPages() = %d, want 8 (zero size ignored)", p.TotalPages())
	}
}
