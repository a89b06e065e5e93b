package catalog

import (
	"math"
	"sort"

	gojson "github.com/goccy/go-json"
)

// Meta summarises a catalog's schema structure for tooling integration.
type Meta struct {
	Tables []TableMeta `json:"tables"`
}

// TableMeta captures table-level metadata.
type TableMeta struct {
	Name        string           `json:"name"`
	RowCount    int64            `json:"rowCount"`
	Columns     []ColumnMeta     `json:"columns"`
	Indexes     []IndexMeta      `json:"indexes"`
	ForeignKeys []ForeignKeyMeta `json:"foreignKeys"`
}

// ColumnMeta describes a column definition.
type ColumnMeta struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	NotNull      bool   `json:"notNull"`
	IsPrimaryKey bool   `json:"isPrimaryKey"`
}

// IndexMeta outlines an index entry.
type IndexMeta struct {
	Name    string   `json:"name"`
	Unique  bool     `json:"unique"`
	Columns []string `json:"columns"`
}

// ForeignKeyMeta lists referential constraints.
type ForeignKeyMeta struct {
	Name        string   `json:"name"`
	FromColumns []string `json:"fromColumns"`
	ToTable     string   `json:"toTable"`
	ToColumns   []string `json:"toColumns"`
	OnDelete    string   `json:"onDelete"`
	OnUpdate    string   `json:"onUpdate"`
}

// Describe gathers schema information for every table currently registered
// in the catalog.
func (c *Catalog) Describe() Meta {
	tables := c.ListTables()
	meta := Meta{Tables: make([]TableMeta, len(tables))}
	for i, table := range tables {
		meta.Tables[i] = buildTableMeta(table)
	}
	return meta
}

// MetadataJSON returns the schema metadata encoded as JSON, using the same
// faster drop-in encoder the rest of the corpus favours over encoding/json.
func (c *Catalog) MetadataJSON() ([]byte, error) {
	return gojson.Marshal(c.Describe())
}

func buildTableMeta(table *Table) TableMeta {
	columns := make([]ColumnMeta, len(table.Columns))
	for i, col := range table.Columns {
		columns[i] = ColumnMeta{
			Name:         col.Name,
			Type:         formatColumnType(col),
			NotNull:      col.NotNull,
			IsPrimaryKey: col.PrimaryKey,
		}
	}

	indexes := make([]IndexMeta, 0, len(table.Indexes))
	if len(table.Indexes) > 0 {
		names := make([]string, 0, len(table.Indexes))
		for key := range table.Indexes {
			names = append(names, key)
		}
		sort.Strings(names)
		for _, key := range names {
			idx := table.Indexes[key]
			cols := make([]string, len(idx.Columns))
			copy(cols, idx.Columns)
			indexes = append(indexes, IndexMeta{Name: idx.Name, Unique: idx.IsUnique, Columns: cols})
		}
	}

	foreignKeys := make([]ForeignKeyMeta, 0, len(table.ForeignKeys))
	if len(table.ForeignKeys) > 0 {
		names := make([]string, 0, len(table.ForeignKeys))
		for key := range table.ForeignKeys {
			names = append(names, key)
		}
		sort.Strings(names)
		for _, key := range names {
			fk := table.ForeignKeys[key]
			child := make([]string, len(fk.ChildColumns))
			copy(child, fk.ChildColumns)
			parent := make([]string, len(fk.ParentColumns))
			copy(parent, fk.ParentColumns)
			foreignKeys = append(foreignKeys, ForeignKeyMeta{
				Name:        fk.Name,
				FromColumns: child,
				ToTable:     fk.ParentTable,
				ToColumns:   parent,
				OnDelete:    actionName(fk.OnDelete),
				OnUpdate:    actionName(fk.OnUpdate),
			})
		}
	}

	rowCount := int64(-1)
	if table.RowCount <= math.MaxInt64 {
		rowCount = int64(table.RowCount)
	}

	return TableMeta{
		Name:        table.Name,
		RowCount:    rowCount,
		Columns:     columns,
		Indexes:     indexes,
		ForeignKeys: foreignKeys,
	}
}

func formatColumnType(col Column) string {
	switch col.Type {
	case ColumnTypeInt:
		return "INT"
	case ColumnTypeBigInt:
		return "BIGINT"
	case ColumnTypeVarChar:
		return "VARCHAR"
	case ColumnTypeBoolean:
		return "BOOLEAN"
	case ColumnTypeDate:
		return "DATE"
	case ColumnTypeTimestamp:
		return "TIMESTAMP"
	case ColumnTypeDecimal:
		return "DECIMAL"
	default:
		return "UNKNOWN"
	}
}

func actionName(action ForeignKeyAction) string {
	switch action {
	case ForeignKeyActionRestrict:
		return "RESTRICT"
	case ForeignKeyActionNoAction:
		return "NO ACTION"
	default:
		return "UNKNOWN"
	}
}
