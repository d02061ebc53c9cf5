package table

// TotalPages returns the number of pages for a total row count, never less
// than 1 so an empty collection still has a page to stand on.
func TotalPages(totalCount int64, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		return 1
	}
	return pages
}

// PageNumber converts a row offset into a 1-indexed page number.
func PageNumber(offset, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	return offset/pageSize + 1
}

// PageWindow returns the inclusive range of page numbers to show in the
// pagination controls: up to three pages either side of the current one,
// clamped to [1, totalPages].
func PageWindow(page, totalPages int) []int {
	first := page - 3
	if first < 1 {
		first = 1
	}
	last := page + 3
	if last > totalPages {
		last = totalPages
	}
	if last < first {
		return nil
	}
	window := make([]int, 0, last-first+1)
	for p := first; p <= last; p++ {
		window = append(window, p)
	}
	return window
}
