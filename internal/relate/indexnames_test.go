package relate

import (
	"strings"
	"testing"
)

func TestNextPrimaryIndexNameAdvancesThroughASCII(t *testing.T) {
	existing := map[string]bool{}
	want := []string{".rC", ".rD", ".rE"}
	for _, w := range want {
		got := nextPrimaryIndexName(existing)
		if got != w {
			t.Fatalf("expected %s, got %s", w, got)
		}
		existing[strings.ToUpper(got)] = true
	}
}

func TestNextPrimaryIndexNameSkipsCaseInsensitiveCollisions(t *testing.T) {
	existing := map[string]bool{".RC": true, ".RD": true}
	got := nextPrimaryIndexName(existing)
	if got != ".rE" {
		t.Fatalf("expected .rE, got %s", got)
	}
}

func TestNextPrimaryIndexNameWrapsAfterZ(t *testing.T) {
	existing := map[string]bool{}
	for c := byte('C'); c <= 'Z'; c++ {
		existing[".R"+string(c)] = true
	}
	got := nextPrimaryIndexName(existing)
	if got != ".ra" {
		t.Fatalf("expected .ra after exhausting C-Z, got %s", got)
	}
}

func TestNextSecondaryIndexNameAppendsCounterOnCollision(t *testing.T) {
	existing := map[string]bool{}
	first := nextSecondaryIndexName("orders", "items", existing)
	if first != "ordersitems" {
		t.Fatalf("expected ordersitems, got %s", first)
	}
	existing[strings.ToUpper(first)] = true
	second := nextSecondaryIndexName("orders", "items", existing)
	if second != "ordersitems1" {
		t.Fatalf("expected ordersitems1, got %s", second)
	}
	existing[strings.ToUpper(second)] = true
	third := nextSecondaryIndexName("orders", "items", existing)
	if third != "ordersitems2" {
		t.Fatalf("expected ordersitems2, got %s", third)
	}
}
