package cursor_test

import (
	"testing"

	"github.com/example/accessdb/internal/cursor"
	"github.com/shopspring/decimal"
)

func TestSimpleColumnMatcherNullSafety(t *testing.T) {
	m := cursor.SimpleColumnMatcher{}
	if !m.Matches(nil, "x", nil, nil) {
		t.Fatalf("expected nil to match nil")
	}
	if m.Matches(nil, "x", nil, "a") {
		t.Fatalf("expected nil not to match a non-nil value")
	}
	if m.Matches(nil, "x", "a", nil) {
		t.Fatalf("expected a non-nil value not to match nil")
	}
}

func TestSimpleColumnMatcherDecimalEquality(t *testing.T) {
	m := cursor.SimpleColumnMatcher{}
	a := decimal.New(150, -2)
	b := decimal.New(15, -1)
	if !m.Matches(nil, "price", a, b) {
		t.Fatalf("expected numerically equal decimals with different scale to match")
	}
	c := decimal.New(151, -2)
	if m.Matches(nil, "price", a, c) {
		t.Fatalf("expected different decimals not to match")
	}
}

func TestSimpleColumnMatcherIsCaseSensitive(t *testing.T) {
	m := cursor.SimpleColumnMatcher{}
	if m.Matches(nil, "name", "Alice", "alice") {
		t.Fatalf("expected SimpleColumnMatcher to be case-sensitive")
	}
}

func TestCaseInsensitiveColumnMatcherFoldsCase(t *testing.T) {
	m := cursor.CaseInsensitiveColumnMatcher{}
	if !m.Matches(nil, "name", "Alice", "alice") {
		t.Fatalf("expected case-insensitive match")
	}
	if m.Matches(nil, "name", "Alice", "bob") {
		t.Fatalf("expected distinct names not to match")
	}
}
