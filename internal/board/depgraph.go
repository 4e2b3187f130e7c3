package board

import "localpm/internal/model"

// BlockerIndex maps a ticket ID to the tickets that list it in their
// blocked_by set. Only one direction is stored on tickets; the inverse
// ("blocks") is derived here from the loaded ticket set, so there is no dual
// write to drift.
type BlockerIndex map[int64][]int64

func NewBlockerIndex(tickets []model.Ticket) BlockerIndex {
	idx := make(BlockerIndex)
	for _, t := range tickets {
		for _, blocker := range t.BlockedBy {
			idx[blocker] = append(idx[blocker], t.ID)
		}
	}
	return idx
}

// Blocking returns the IDs of tickets that name id as a blocker.
func (idx BlockerIndex) Blocking(id int64) []int64 {
	blocked := idx[id]
	if blocked == nil {
		return []int64{}
	}
	return blocked
}

// Graph is the three-tier dependency view around one ticket: the tickets it
// waits on, the ticket itself, and the tickets waiting on it. The graph is
// advisory only; cycles are neither detected nor rejected, and no status
// transition is ever blocked by it.
type Graph struct {
	Blockers []model.Ticket `json:"blockers"`
	Ticket   model.Ticket   `json:"ticket"`
	Blocked  []model.Ticket `json:"blocked"`
}

func BuildGraph(ticket model.Ticket, all []model.Ticket) Graph {
	byID := make(map[int64]model.Ticket, len(all))
	for _, t := range all {
		byID[t.ID] = t
	}

	g := Graph{
		Ticket:   ticket,
		Blockers: []model.Ticket{},
		Blocked:  []model.Ticket{},
	}
	for _, id := range ticket.BlockedBy {
		if t, ok := byID[id]; ok {
			g.Blockers = append(g.Blockers, t)
		}
	}
	for _, id := range NewBlockerIndex(all).Blocking(ticket.ID) {
		if t, ok := byID[id]; ok {
			g.Blocked = append(g.Blocked, t)
		}
	}
	return g
}
