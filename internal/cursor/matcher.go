package cursor

import (
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

// ColumnMatcher is a pluggable equality predicate used by the FindRow
// family. Implementations must be pure (no side effects, no hidden state
// tied to a particular call) so they can be swapped per cursor.
type ColumnMatcher interface {
	Matches(table *Table, columnName string, value1, value2 interface{}) bool
}

// SimpleColumnMatcher implements null-safe object equality: two nils match,
// nil and non-nil never match, and otherwise values are compared using the
// column's logical type (decimal.Decimal values compare via Equal rather
// than raw struct equality, since two decimals can be numerically equal
// with different internal scale).
type SimpleColumnMatcher struct{}

// Matches implements ColumnMatcher.
func (SimpleColumnMatcher) Matches(table *Table, columnName string, value1, value2 interface{}) bool {
	return valuesMatch(value1, value2, false)
}

// CaseInsensitiveColumnMatcher behaves like SimpleColumnMatcher except that
// string-valued columns are compared case-insensitively.
type CaseInsensitiveColumnMatcher struct{}

// Matches implements ColumnMatcher.
func (CaseInsensitiveColumnMatcher) Matches(table *Table, columnName string, value1, value2 interface{}) bool {
	return valuesMatch(value1, value2, true)
}

func valuesMatch(value1, value2 interface{}, foldCase bool) bool {
	if value1 == nil || value2 == nil {
		return value1 == nil && value2 == nil
	}
	if d1, ok := value1.(decimal.Decimal); ok {
		d2, ok := value2.(decimal.Decimal)
		return ok && d1.Equal(d2)
	}
	if foldCase {
		if s1, ok := value1.(string); ok {
			if s2, ok := value2.(string); ok {
				return strings.EqualFold(s1, s2)
			}
		}
	}
	return reflect.DeepEqual(value1, value2)
}

var defaultColumnMatcher ColumnMatcher = SimpleColumnMatcher{}
