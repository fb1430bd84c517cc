package ui

import (
	"testing"

	"github.com/me/dealerdash/pkg/model"
)

func TestBuildPager(t *testing.T) {
	tests := []struct {
		name    string
		query   model.ListQuery
		pag     model.Pagination
		hasPrev bool
		hasNext bool
	}{
		{
			name:    "middle page",
			query:   model.ListQuery{Page: 2, Limit: 10},
			pag:     model.Pagination{Page: 2, Pages: 3, Total: 25},
			hasPrev: true,
			hasNext: true,
		},
		{
			name:    "first page boundary",
			query:   model.ListQuery{Page: 1, Limit: 10},
			pag:     model.Pagination{Page: 1, Pages: 3, Total: 25},
			hasPrev: false,
			hasNext: true,
		},
		{
			name:    "last page boundary",
			query:   model.ListQuery{Page: 3, Limit: 10},
			pag:     model.Pagination{Page: 3, Pages: 3, Total: 25},
			hasPrev: true,
			hasNext: false,
		},
		{
			name:    "single page",
			query:   model.ListQuery{Page: 1, Limit: 10},
			pag:     model.Pagination{Page: 1, Pages: 1, Total: 5},
			hasPrev: false,
			hasNext: false,
		},
		{
			name:    "zero total",
			query:   model.ListQuery{Page: 1, Limit: 10},
			pag:     model.Pagination{Total: 0},
			hasPrev: false,
			hasNext: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPager(tt.query, tt.pag)
			if got.HasPrev != tt.hasPrev || got.HasNext != tt.hasNext {
				t.Errorf("prev/next = %v/%v, want %v/%v",
					got.HasPrev, got.HasNext, tt.hasPrev, tt.hasNext)
			}
			if got.Page < 1 || got.Pages < 1 {
				t.Errorf("page %d of %d, both must be >= 1", got.Page, got.Pages)
			}
		})
	}
}

func TestBuildPagerClampsOutOfRangePage(t *testing.T) {
	// Requested page 9 of a 2-page collection clamps to 2.
	got := BuildPager(model.ListQuery{Page: 9, Limit: 10}, model.Pagination{Pages: 2, Total: 12})
	if got.Page != 2 {
		t.Errorf("page = %d, want clamped to 2", got.Page)
	}
	if got.HasNext {
		t.Error("clamped final page must not offer next")
	}
	if !got.HasPrev {
		t.Error("clamped final page of 2 must offer prev")
	}
}

func TestBuildPagerZeroTotal(t *testing.T) {
	got := BuildPager(model.ListQuery{Page: 5, Limit: 20}, model.Pagination{})
	if got.Page != 1 || got.Pages != 1 {
		t.Errorf("empty collection: page %d of %d, want 1 of 1", got.Page, got.Pages)
	}
	if got.HasPrev || got.HasNext {
		t.Error("empty collection must disable both controls")
	}
	if got.From != 0 {
		t.Errorf("From = %d, want 0 for empty collection", got.From)
	}
}

func TestBuildPagerDerivesPagesWhenMissing(t *testing.T) {
	got := BuildPager(model.ListQuery{Page: 1, Limit: 20}, model.Pagination{Total: 45})
	if got.Pages != 3 {
		t.Errorf("pages = %d, want ceil(45/20) = 3", got.Pages)
	}
}

func TestBuildPagerRowRange(t *testing.T) {
	got := BuildPager(model.ListQuery{Page: 3, Limit: 10}, model.Pagination{Page: 3, Pages: 3, Total: 25})
	if got.From != 21 || got.To != 25 {
		t.Errorf("rows %d-%d, want 21-25", got.From, got.To)
	}
}
