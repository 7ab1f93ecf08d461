package paging

// Gap is the page value used for an ellipsis marker between page numbers.
const Gap = -1

const defaultWindowSize = 5

// Item is a single pagination control: either a concrete page number or a
// gap marker (Page == Gap) standing in for a run of hidden pages.
type Item struct {
	Page int
}

// IsGap reports whether the item is an ellipsis marker.
func (i Item) IsGap() bool {
	return i.Page == Gap
}

// Window describes the pagination controls to render for a listing.
type Window struct {
	Items       []Item
	PrevEnabled bool
	NextEnabled bool
}

// Compute derives the visible page controls for the given position.
// currentPage is 1-indexed; windowSize should be an odd positive integer and
// falls back to 5 otherwise. With zero pages or a single page there is
// nothing to navigate, so no page buttons are produced and both nav
// controls stay disabled.
func Compute(currentPage, totalPages, windowSize int) Window {
	if totalPages <= 1 {
		return Window{}
	}
	if windowSize <= 0 || windowSize%2 == 0 {
		windowSize = defaultWindowSize
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	start := currentPage - windowSize/2
	if start < 1 {
		start = 1
	}
	end := start + windowSize - 1
	if end > totalPages {
		end = totalPages
		// Slide the window left when it hit the upper bound short.
		start = end - windowSize + 1
		if start < 1 {
			start = 1
		}
	}

	var items []Item
	switch {
	case start > 2:
		items = append(items, Item{Page: 1}, Item{Page: Gap})
	case start == 2:
		items = append(items, Item{Page: 1})
	}
	for p := start; p <= end; p++ {
		items = append(items, Item{Page: p})
	}
	switch {
	case end < totalPages-1:
		items = append(items, Item{Page: Gap}, Item{Page: totalPages})
	case end == totalPages-1:
		items = append(items, Item{Page: totalPages})
	}

	return Window{
		Items:       items,
		PrevEnabled: currentPage > 1,
		NextEnabled: currentPage < totalPages,
	}
}

// TotalPages returns the page count for a collection size at the given page
// size. Zero or negative inputs yield zero pages.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}
