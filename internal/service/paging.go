package service

// MaxPage bounds 1-based page numbers so offsets cannot overflow.
const MaxPage = 100_000

// clampPage returns page limited to [1, MaxPage].
func clampPage(page int) int {
	return min(max(page, 1), MaxPage)
}

// pageOffset returns the row offset of a clamped 1-based page.
func pageOffset(page, size int) int {
	return (page - 1) * size
}
