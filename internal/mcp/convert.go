package mcp

import "strconv"

// toNumber converts a string ID into a number for the REST API. Non-numeric
// input passes through unchanged and the API rejects it.
func toNumber(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}

func orEmptySlice(v any) any {
	if v == nil {
		return []any{}
	}
	return v
}

// numberSlice converts a tool-call array of ticket IDs (strings or numbers)
// into numeric IDs.
func numberSlice(v any) []any {
	raw, _ := v.([]any)
	out := make([]any, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, toNumber(s))
			continue
		}
		out = append(out, item)
	}
	return out
}
