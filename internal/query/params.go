package query

import (
	"net/url"
	"strings"
)

// Params is the untyped parameter bag a resource filter reads from.
// Every key maps to one or more raw values; array-style keys ("status[]")
// are folded into their bare name.
type Params map[string][]string

// FromValues builds a Params bag from URL query or form values.
func FromValues(v url.Values) Params {
	p := make(Params, len(v))
	for key, values := range v {
		key = strings.TrimSuffix(key, "[]")
		p[key] = append(p[key], values...)
	}
	return p
}

// Set replaces the values stored under key and returns p for chaining.
func (p Params) Set(key string, values ...string) Params {
	p[key] = values
	return p
}

// Values returns the non-blank, trimmed values stored under key.
func (p Params) Values(key string) []string {
	raw := p[key]
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// First returns the first non-blank value stored under key, or "".
func (p Params) First(key string) string {
	for _, v := range p[key] {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Has reports whether key carries at least one non-blank value.
func (p Params) Has(key string) bool {
	return p.First(key) != ""
}
