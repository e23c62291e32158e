package query

import (
	"strconv"
	"strings"
)

// boolWords is the accepted textual form of booleans.
var boolWords = map[string]bool{
	"1":     true,
	"true":  true,
	"t":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"0":     false,
	"false": false,
	"f":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// ParseBool coerces a loosely typed request value to a bool.
// ok is false when v has no boolean reading; callers drop such values.
func ParseBool(v any) (value bool, ok bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		value, ok = boolWords[strings.ToLower(strings.TrimSpace(b))]
		return value, ok
	case int:
		return intBool(int64(b))
	case int8:
		return intBool(int64(b))
	case int16:
		return intBool(int64(b))
	case int32:
		return intBool(int64(b))
	case int64:
		return intBool(b)
	case uint:
		return intBool(int64(b))
	case uint8:
		return intBool(int64(b))
	case uint16:
		return intBool(int64(b))
	case uint32:
		return intBool(int64(b))
	case uint64:
		if b > 1 {
			return false, false
		}
		return intBool(int64(b))
	case float32:
		return floatBool(float64(b))
	case float64:
		return floatBool(b)
	default:
		return false, false
	}
}

func intBool(n int64) (bool, bool) {
	switch n {
	case 1:
		return true, true
	case 0:
		return false, true
	default:
		return false, false
	}
}

func floatBool(f float64) (bool, bool) {
	switch f {
	case 1:
		return true, true
	case 0:
		return false, true
	default:
		return false, false
	}
}

// ParseID parses a positive integer identifier. Blank strings, "null" and
// anything non-numeric are reported as not ok.
func ParseID(s string) (uint, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// parseIDs keeps the values of vs that parse as identifiers.
func parseIDs(vs []string) []uint {
	ids := make([]uint, 0, len(vs))
	for _, v := range vs {
		if id, ok := ParseID(v); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
