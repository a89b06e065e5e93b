package accessdb_test

import (
	"context"
	"path/filepath"
	"testing"

	accessdb "github.com/example/accessdb"
	"github.com/example/accessdb/internal/catalog"
	"github.com/example/accessdb/internal/cursor"
	"github.com/example/accessdb/internal/relate"
)

func newTestDatabase(t *testing.T) *accessdb.Database {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.gdb")
	if err := accessdb.Create(path); err != nil {
		t.Fatalf("create: %v", err)
	}
	db, err := accessdb.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenAndCloseRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.gdb")
	if err := accessdb.Create(path); err != nil {
		t.Fatalf("create: %v", err)
	}
	db, err := accessdb.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(db.Tables()) != 0 {
		t.Fatalf("expected a fresh database to have no tables")
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := accessdb.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
}

func TestTableRoundTripThroughCursor(t *testing.T) {
	db := newTestDatabase(t)
	cols := []catalog.Column{
		{Name: "id", Type: catalog.ColumnTypeInt, NotNull: true},
		{Name: "name", Type: catalog.ColumnTypeVarChar, Length: 32},
	}
	if _, err := db.Catalog.CreateTable("people", cols, "id", nil); err != nil {
		t.Fatalf("create table: %v", err)
	}

	table, err := db.Table("people")
	if err != nil {
		t.Fatalf("resolve table: %v", err)
	}
	ctx := context.Background()
	if _, err := table.InsertRow(ctx, []interface{}{int32(1), "alice"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	c, err := cursor.New(table)
	if err != nil {
		t.Fatalf("new cursor: %v", err)
	}
	row, ok, err := c.NextRow(ctx)
	if err != nil || !ok {
		t.Fatalf("expected a row, got ok=%v err=%v", ok, err)
	}
	v, _ := row.Value("name")
	if v.(string) != "alice" {
		t.Fatalf("expected alice, got %v", v)
	}
}

func TestWriteRelationshipThroughDatabase(t *testing.T) {
	db := newTestDatabase(t)
	orderCols := []catalog.Column{{Name: "id", Type: catalog.ColumnTypeInt, NotNull: true}}
	itemCols := []catalog.Column{
		{Name: "id", Type: catalog.ColumnTypeInt, NotNull: true},
		{Name: "order_id", Type: catalog.ColumnTypeInt},
	}
	if _, err := db.Catalog.CreateTable("orders", orderCols, "id", nil); err != nil {
		t.Fatalf("create orders: %v", err)
	}
	if _, err := db.Catalog.CreateTable("items", itemCols, "id", nil); err != nil {
		t.Fatalf("create items: %v", err)
	}
	orders, err := db.Table("orders")
	if err != nil {
		t.Fatalf("resolve orders: %v", err)
	}
	items, err := db.Table("items")
	if err != nil {
		t.Fatalf("resolve items: %v", err)
	}

	record, err := relate.CreateRelationship(context.Background(), db, &relate.Builder{
		Name:             "orders_items",
		PrimaryTable:     orders,
		SecondaryTable:   items,
		PrimaryColumns:   []string{"id"},
		SecondaryColumns: []string{"order_id"},
	})
	if err != nil {
		t.Fatalf("create relationship: %v", err)
	}
	if record.Name != "orders_items" {
		t.Fatalf("expected relationship name to round-trip, got %s", record.Name)
	}

	rels := db.Relationships()
	if len(rels) != 1 || rels[0].Name != "orders_items" {
		t.Fatalf("expected the relationship to be recorded, got %v", rels)
	}
}
