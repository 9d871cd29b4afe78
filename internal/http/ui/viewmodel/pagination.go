package viewmodel

// Pagination contains the prev/next links for a paged list.
type Pagination struct {
	Page    int
	HasPrev bool
	HasNext bool
	PrevURL string
	NextURL string
}
