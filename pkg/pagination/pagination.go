package pagination

// Page is the list envelope returned by every collection endpoint.
type Page[T any] struct {
	Docs        []T   `json:"docs"`
	TotalDocs   int64 `json:"totalDocs"`
	Limit       int   `json:"limit"`
	TotalPages  int   `json:"totalPages"`
	Page        int   `json:"page"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	NextPage    *int  `json:"nextPage"`
	PrevPage    *int  `json:"prevPage"`
}

// New derives the envelope for one page of results. page is 1-indexed.
func New[T any](docs []T, total int64, limit, page int) Page[T] {
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	p := Page[T]{
		Docs:        docs,
		TotalDocs:   total,
		Limit:       limit,
		TotalPages:  totalPages,
		Page:        page,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	if p.HasPrevPage {
		prev := page - 1
		p.PrevPage = &prev
	}
	if p.Docs == nil {
		p.Docs = []T{}
	}
	return p
}
