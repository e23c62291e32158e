package query

import (
	"database/sql/driver"
	"strings"

	sqlite "github.com/glebarez/go-sqlite"
)

// unicodeLowerFunc lower-cases text with Go's Unicode tables. SQLite's own
// LOWER only folds ASCII.
const unicodeLowerFunc = "unicode_lower"

// Functions registered on the driver apply to every connection opened later.
func init() {
	sqlite.MustRegisterDeterministicScalarFunction(unicodeLowerFunc, 1, unicodeLower)
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
