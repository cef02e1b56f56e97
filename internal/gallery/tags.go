package gallery

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tags accepts either a JSON array of strings or a single comma-separated string.
type Tags []string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Tags) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = NormalizeTags(list...)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tags must be an array of strings or a comma-separated string")
	}
	*t = NormalizeTags(s)
	return nil
}

// NormalizeTags flattens raw tag values into a trimmed, de-duplicated list. Each value may be a
// single tag, a comma-separated list or a JSON array, as sent by forms and older clients.
func NormalizeTags(values ...string) []string {
	out := []string{}
	seen := map[string]bool{}
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		out = append(out, tag)
	}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if strings.HasPrefix(v, "[") {
			var list []string
			if err := json.Unmarshal([]byte(v), &list); err == nil {
				for _, tag := range list {
					add(tag)
				}
				continue
			}
		}
		for _, tag := range strings.Split(v, ",") {
			add(tag)
		}
	}
	return out
}
