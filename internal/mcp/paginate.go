package mcp

// restPage mirrors the list envelope the REST API returns.
type restPage struct {
	Docs        []map[string]any `json:"docs"`
	TotalDocs   int              `json:"totalDocs"`
	Limit       int              `json:"limit"`
	TotalPages  int              `json:"totalPages"`
	Page        int              `json:"page"`
	HasNextPage bool             `json:"hasNextPage"`
	HasPrevPage bool             `json:"hasPrevPage"`
}

type pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalItems  int  `json:"totalItems"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
	NextPage    *int `json:"nextPage"`
	PrevPage    *int `json:"prevPage"`
}

// envelope is the tool-facing list shape: items plus derived page numbers.
type envelope struct {
	Items      []map[string]any `json:"items"`
	Pagination pagination       `json:"pagination"`
}

func formatPaginated(page restPage) envelope {
	items := page.Docs
	if items == nil {
		items = []map[string]any{}
	}

	p := pagination{
		Page:        page.Page,
		Limit:       page.Limit,
		TotalItems:  page.TotalDocs,
		TotalPages:  page.TotalPages,
		HasNextPage: page.HasNextPage,
		HasPrevPage: page.HasPrevPage,
	}
	if page.HasNextPage {
		next := page.Page + 1
		p.NextPage = &next
	}
	if page.HasPrevPage {
		prev := page.Page - 1
		p.PrevPage = &prev
	}

	return envelope{Items: items, Pagination: p}
}
