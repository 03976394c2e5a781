package catalog

// Ellipsis marks a collapsed run of page numbers in a page window.
const Ellipsis = -1

// PageWindow computes the page-number controls for the current page: all
// pages when there are at most seven, otherwise the first and last page
// plus a window around the current page, with runs collapsed to Ellipsis.
func PageWindow(current, pageCount int) []int {
	if pageCount <= 0 {
		return nil
	}
	if pageCount <= 7 {
		window := make([]int, 0, pageCount)
		for i := 1; i <= pageCount; i++ {
			window = append(window, i)
		}
		return window
	}

	window := []int{1}
	if current > 3 {
		window = append(window, Ellipsis)
	}

	start := max(2, current-1)
	end := min(pageCount-1, current+1)
	// Keep the window three wide at the boundaries.
	if current <= 3 {
		end = 4
	}
	if current >= pageCount-2 {
		start = pageCount - 3
	}
	for i := start; i <= end; i++ {
		window = append(window, i)
	}

	if current < pageCount-2 {
		window = append(window, Ellipsis)
	}
	return append(window, pageCount)
}
