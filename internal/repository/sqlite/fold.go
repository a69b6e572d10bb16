package sqlite

import (
	"database/sql/driver"
	"strings"

	sqlitedriver "modernc.org/sqlite"
)

// foldFunction is the SQL name of the Unicode lower-casing function. The
// builtin lower() and LIKE only fold ASCII letters.
const foldFunction = "casefold"

func init() {
	sqlitedriver.MustRegisterDeterministicScalarFunction(foldFunction, 1, casefold)
}

func casefold(_ *sqlitedriver.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return FoldText(v), nil
	case []byte:
		return FoldText(string(v)), nil
	default:
		return v, nil
	}
}

// FoldText lower-cases s for case-insensitive matching
func FoldText(s string) string {
	return strings.ToLower(s)
}
