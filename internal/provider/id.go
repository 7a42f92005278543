package provider

import "encoding/json"

// ID is a provider identifier that may arrive as a JSON number or string.
// Dry-run responses use string ids where the live API returns numbers.
type ID string

// UnmarshalJSON accepts a JSON number, string or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// String returns the id as a string.
func (id ID) String() string { return string(id) }
