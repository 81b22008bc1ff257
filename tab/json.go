package tab

import "encoding/json"

// MarshalJSON serializes a Tab as pretty-printed JSON, matching the
// document shape in spec.md 3.
func MarshalJSON(t *Tab) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ParseJSON is the inverse of MarshalJSON.
func ParseJSON(data []byte) (*Tab, error) {
	var t Tab
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
