package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a row does not exist. Handlers map it to 404.
var ErrNotFound = errors.New("not found")

// ListParams are shared by the collection list queries. Filters maps column
// names (already validated by the handler layer) to exact-match values.
type ListParams struct {
	Filters map[string]any
	Limit   int
	Offset  int
	OrderBy string // validated "column ASC|DESC" fragment, empty for the default
}

// buildWhere renders a WHERE clause from exact-match filters. Returns the
// clause (may be empty) and the positional args, starting at $1.
func buildWhere(filters map[string]any) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	// keep a stable clause order for predictable queries in logs
	cols := make([]string, 0, len(filters))
	for col := range filters {
		cols = append(cols, col)
	}
	sortStrings(cols)

	var conds []string
	var args []any
	for _, col := range cols {
		args = append(args, filters[col])
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// buildSet renders a SET clause for a partial update. Columns are validated by
// the caller. Arg numbering starts after nExisting.
func buildSet(fields map[string]any, nExisting int) (string, []any) {
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sortStrings(cols)

	var parts []string
	var args []any
	for _, col := range cols {
		args = append(args, fields[col])
		parts = append(parts, fmt.Sprintf("%s = $%d", col, nExisting+len(args)))
	}
	parts = append(parts, "updated_at = NOW()")
	return strings.Join(parts, ", "), args
}
