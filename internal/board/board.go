package board

import (
	"sort"

	"localpm/internal/model"
)

// Board groups tickets into Kanban columns. Column order follows sort_order;
// ties fall back to creation order via ID.
type Board struct {
	Todo       []model.Ticket `json:"todo"`
	InProgress []model.Ticket `json:"in_progress"`
	Done       []model.Ticket `json:"done"`
	Summary    Summary        `json:"summary"`
}

type Summary struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
}

func Build(tickets []model.Ticket) Board {
	b := Board{
		Todo:       []model.Ticket{},
		InProgress: []model.Ticket{},
		Done:       []model.Ticket{},
	}
	for _, t := range tickets {
		switch t.Status {
		case model.StatusInProgress:
			b.InProgress = append(b.InProgress, t)
		case model.StatusDone:
			b.Done = append(b.Done, t)
		default:
			b.Todo = append(b.Todo, t)
		}
	}
	for _, col := range [][]model.Ticket{b.Todo, b.InProgress, b.Done} {
		sort.SliceStable(col, func(i, j int) bool {
			if col[i].SortOrder != col[j].SortOrder {
				return col[i].SortOrder < col[j].SortOrder
			}
			return col[i].ID < col[j].ID
		})
	}
	b.Summary = Summary{
		Total:      len(tickets),
		Todo:       len(b.Todo),
		InProgress: len(b.InProgress),
		Done:       len(b.Done),
	}
	return b
}
