package handler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"localpm/internal/repository"
)

// fieldSpec describes one filterable/sortable field of a collection: the
// external name maps to a column, and numeric values are parsed before being
// handed to the repository.
type fieldSpec struct {
	column  string
	numeric bool
}

var whereKeyPattern = regexp.MustCompile(`^where\[(\w+)\]\[equals\]$`)

const defaultLimit = 20

// parseListQuery handles the collection list parameters:
// where[field][equals]=v, limit, page (1-indexed), sort (leading '-' for
// descending) and depth.
func parseListQuery(c *gin.Context, fields map[string]fieldSpec) (repository.ListParams, int, int, error) {
	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return repository.ListParams{}, 0, 0, fmt.Errorf("invalid limit %q", raw)
		}
		limit = n
	}
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return repository.ListParams{}, 0, 0, fmt.Errorf("invalid page %q", raw)
		}
		page = n
	}
	depth := 0
	if raw := c.Query("depth"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return repository.ListParams{}, 0, 0, fmt.Errorf("invalid depth %q", raw)
		}
		depth = n
	}

	filters := map[string]any{}
	for key, values := range c.Request.URL.Query() {
		m := whereKeyPattern.FindStringSubmatch(key)
		if m == nil || len(values) == 0 {
			continue
		}
		spec, ok := fields[m[1]]
		if !ok {
			return repository.ListParams{}, 0, 0, fmt.Errorf("cannot filter on field %q", m[1])
		}
		if spec.numeric {
			n, err := strconv.ParseInt(values[0], 10, 64)
			if err != nil {
				return repository.ListParams{}, 0, 0, fmt.Errorf("invalid value %q for field %q", values[0], m[1])
			}
			filters[spec.column] = n
		} else {
			filters[spec.column] = values[0]
		}
	}

	orderBy := ""
	if raw := c.Query("sort"); raw != "" {
		dir := "ASC"
		name := raw
		if strings.HasPrefix(raw, "-") {
			dir = "DESC"
			name = raw[1:]
		}
		spec, ok := fields[name]
		if !ok {
			return repository.ListParams{}, 0, 0, fmt.Errorf("cannot sort on field %q", name)
		}
		orderBy = spec.column + " " + dir
	}

	return repository.ListParams{
		Filters: filters,
		Limit:   limit,
		Offset:  (page - 1) * limit,
		OrderBy: orderBy,
	}, page, depth, nil
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", c.Param("id"))
	}
	return id, nil
}
