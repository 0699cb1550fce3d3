package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Authors is the ordered author list of a book.
//
// On the wire the list travels as a JSON string holding a JSON array, e.g.
// "authors": "[\"Ursula K. Le Guin\"]". Decoding also accepts a bare array,
// null, and a plain string that is not an encoded array (one author).
type Authors []string

// MarshalJSON encodes the list as a string containing a JSON array
func (a Authors) MarshalJSON() ([]byte, error) {
	list := []string(a)
	if list == nil {
		list = []string{}
	}
	inner, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(inner))
}

// UnmarshalJSON decodes every accepted wire form
func (a *Authors) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = nil
		return nil
	}

	if data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*a = list
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = ParseAuthors(s)
	return nil
}

// ParseAuthors decodes the string form. Anything that is not an encoded
// array is treated as a single author name.
func ParseAuthors(s string) Authors {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") {
		var list []string
		if err := json.Unmarshal([]byte(s), &list); err == nil {
			return list
		}
	}
	return Authors{s}
}

// Joined returns the authors separated by ", "
func (a Authors) Joined() string {
	return strings.Join(a, ", ")
}

// SplitList splits free text on commas, trims every entry and drops the
// empty ones. Used for authors and tags typed into forms.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
