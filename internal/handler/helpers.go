package handler

import "encoding/json"

// graphFetchLimit bounds how many tickets a graph or board request loads in
// one query. Matches the board view, which renders a whole project at once.
const graphFetchLimit = 1000

// reencode converts a decoded JSON value into a typed destination by
// round-tripping it through the encoder.
func reencode(value any, dest any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
