package relate

import (
	"fmt"
	"strings"

	"github.com/example/accessdb/internal/catalog"
	"github.com/example/accessdb/internal/cursor"
)

func existingIndexNames(table *cursor.Table) map[string]bool {
	names := map[string]bool{}
	for _, idx := range table.Database().Catalog.TableIndexes(table.Name()) {
		names[strings.ToUpper(idx.Name)] = true
	}
	return names
}

// nextPrimaryIndexName generates the next unused primary-side index name:
// ".rC", ".rD", ... ".rZ", ".ra", ".rb", ..., comparing case-insensitively
// against existing.
func nextPrimaryIndexName(existing map[string]bool) string {
	suffix := byte('C')
	for {
		name := ".r" + string(suffix)
		if !existing[strings.ToUpper(name)] {
			return name
		}
		suffix = advanceIndexSuffixChar(suffix)
	}
}

func advanceIndexSuffixChar(c byte) byte {
	next := c + 1
	if next == '[' {
		return 'a'
	}
	return next
}

// nextSecondaryIndexName generates the next unused secondary-side index
// name: "PS", "PS1", "PS2", ..., where P and S are the primary and
// secondary table names.
func nextSecondaryIndexName(primaryName, secondaryName string, existing map[string]bool) string {
	base := primaryName + secondaryName
	if !existing[strings.ToUpper(base)] {
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s%d", base, i)
		if !existing[strings.ToUpper(candidate)] {
			return candidate
		}
	}
}

func resolveColumns(columns []catalog.Column, names []string) ([]catalog.Column, error) {
	byName := make(map[string]catalog.Column, len(columns))
	for _, col := range columns {
		byName[col.Name] = col
	}
	resolved := make([]catalog.Column, len(names))
	for i, name := range names {
		col, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("relate: %w: unknown column %q", ErrInvalidArgument, name)
		}
		resolved[i] = col
	}
	return resolved, nil
}
