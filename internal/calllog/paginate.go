package calllog

// TotalPages is ceil(count/size) with a floor of one page.
func TotalPages(count, size int) int {
	if size < 1 {
		size = 1
	}
	pages := (count + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}

// Paginate returns the 1-based page of items. It never returns more than
// size items and returns nil for pages past the end.
func Paginate[T any](items []T, page, size int) []T {
	if size < 1 {
		size = 1
	}
	if page < 1 {
		page = 1
	}
	lo := (page - 1) * size
	if lo >= len(items) {
		return nil
	}
	hi := lo + size
	if hi > len(items) {
		hi = len(items)
	}
	return items[lo:hi]
}

// Pager describes the navigation state of a paginated list.
type Pager struct {
	Page       int
	TotalPages int
}

// NewPager clamps page into [1, TotalPages].
func NewPager(count, page, size int) Pager {
	total := TotalPages(count, size)
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	return Pager{Page: page, TotalPages: total}
}

func (p Pager) CanPrev() bool { return p.Page > 1 }

func (p Pager) CanNext() bool { return p.Page < p.TotalPages }

// Visible reports whether navigation controls should be rendered at all.
func (p Pager) Visible() bool { return p.TotalPages > 1 }
