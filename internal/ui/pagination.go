package ui

import "github.com/me/dealerdash/pkg/model"

// Pager is the view model for pagination controls. The page index is always
// clamped to [1, max(pages, 1)], so a stale or hand-edited page parameter can
// never render out-of-range links; prev/next are disabled exactly at the
// boundaries. Zero total yields a single empty page with both controls off.
type Pager struct {
	Page    int
	Pages   int
	Total   int
	Limit   int
	HasPrev bool
	HasNext bool
	Prev    int
	Next    int
	From    int // 1-based index of the first row shown, 0 when empty
	To      int // 1-based index of the last row shown
}

// BuildPager derives pagination controls from a query and the backend's
// pagination block.
func BuildPager(q model.ListQuery, p model.Pagination) Pager {
	q.Normalize()

	pages := p.Pages
	if pages < 1 {
		pages = model.PageCount(p.Total, q.Limit)
	}
	if pages < 1 {
		pages = 1
	}

	page := q.Page
	if p.Page > 0 {
		page = p.Page
	}
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	pg := Pager{
		Page:    page,
		Pages:   pages,
		Total:   p.Total,
		Limit:   q.Limit,
		HasPrev: page > 1,
		HasNext: page < pages,
		Prev:    page - 1,
		Next:    page + 1,
	}
	if p.Total > 0 {
		pg.From = (page-1)*q.Limit + 1
		pg.To = page * q.Limit
		if pg.To > p.Total {
			pg.To = p.Total
		}
	}
	return pg
}
