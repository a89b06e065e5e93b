package cursor

import (
	"context"
	"fmt"

	"github.com/example/accessdb/internal/catalog"
	"github.com/example/accessdb/internal/storage"
	"github.com/example/accessdb/internal/txn"
)

// Table is a cursor-ready view of a catalog table: its metadata plus the
// row-page chain backing it. It is the single collaborator a Cursor needs
// to read, project and delete rows.
type Table struct {
	db      *Database
	meta    *catalog.Table
	rowFile *storage.RowFile
}

// Name returns the table's name.
func (t *Table) Name() string {
	return t.meta.Name
}

// Columns returns the table's columns in declared order.
func (t *Table) Columns() []catalog.Column {
	return t.meta.Columns
}

// Database returns the table's owning database.
func (t *Table) Database() *Database {
	return t.db
}

// Format returns the page layout this table's rows are stored under.
func (t *Table) Format() storage.FormatDescriptor {
	return storage.DefaultFormat
}

// PageChannel returns the page manager backing this table's storage.
func (t *Table) PageChannel() *storage.Manager {
	return t.db.Storage
}

// IsDeletedRow reports whether a raw, unmasked row-start value carries the
// deleted flag.
func (t *Table) IsDeletedRow(raw uint16) bool {
	return storage.IsDeletedRowStart(raw)
}

// CreateRowState allocates a fresh, unloaded row-state scratch buffer for
// use by a cursor over this table.
func (t *Table) CreateRowState() *RowState {
	return NewRowState()
}

// OwnedPagesIterator returns a bidirectional iterator over every page this
// table's row chain owns, in chain order.
func (t *Table) OwnedPagesIterator() (*storage.PageIterator, error) {
	pages, err := t.rowFile.Pages()
	if err != nil {
		return nil, fmt.Errorf("cursor: %s: %w", t.meta.Name, err)
	}
	return storage.NewPageIterator(pages), nil
}

// Row materialises the row identified by rowState's final page/row
// position, projected onto columnNames (all columns when none are given).
func (t *Table) Row(ctx context.Context, rowState *RowState, columnNames ...string) (Row, error) {
	if err := ctx.Err(); err != nil {
		return Row{}, err
	}
	payload, err := t.rowFile.Fetch(storage.RowID{
		Page: storage.PageID(rowState.FinalPage),
		Slot: uint16(rowState.FinalRowNumber),
	})
	if err != nil {
		return Row{}, fmt.Errorf("cursor: %s: %w", t.meta.Name, err)
	}
	values, err := catalog.DecodeRow(t.meta.Columns, payload)
	if err != nil {
		return Row{}, fmt.Errorf("cursor: %s: %w", t.meta.Name, err)
	}
	names := make([]string, len(t.meta.Columns))
	for i, col := range t.meta.Columns {
		names[i] = col.Name
	}
	return newRow(names, values, columnNames), nil
}

// RowValue is a convenience for reading a single column of rowState's
// current row.
func (t *Table) RowValue(ctx context.Context, rowState *RowState, column string) (interface{}, error) {
	row, err := t.Row(ctx, rowState, column)
	if err != nil {
		return nil, err
	}
	v, ok := row.Value(column)
	if !ok {
		return nil, fmt.Errorf("cursor: %s: column %q not found", t.meta.Name, column)
	}
	return v, nil
}

// InsertRow encodes and appends a new row, returning its row id. It exists
// to give the cursor test suite (and the relationship creator's fixtures)
// a way to populate a table without a SQL execution engine.
func (t *Table) InsertRow(ctx context.Context, values []interface{}) (RowID, error) {
	if err := ctx.Err(); err != nil {
		return RowID{}, err
	}
	payload, err := catalog.EncodeRow(t.meta.Columns, values)
	if err != nil {
		return RowID{}, fmt.Errorf("cursor: %s: %w", t.meta.Name, err)
	}
	id, err := t.rowFile.Insert(nil, t.db.WAL, payload)
	if err != nil {
		return RowID{}, fmt.Errorf("cursor: %s: %w", t.meta.Name, err)
	}
	if err := t.db.Catalog.IncrementRowCount(t.meta.Name); err != nil {
		return RowID{}, fmt.Errorf("cursor: %s: %w", t.meta.Name, err)
	}
	return NewRowID(int32(id.Page), int16(id.Slot)), nil
}

// DeleteRow marks the row identified by rowID as deleted, holding an
// exclusive row lock for the duration of the change and the page
// channel's exclusive-write latch while the page itself is mutated.
func (t *Table) DeleteRow(ctx context.Context, rowState *RowState, rowID RowID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lockKey := fmt.Sprintf("%d:%d", rowID.PageNumber, rowID.RowNumber)
	tx := t.db.Txns.Begin()
	if err := t.db.Locks.Acquire(tx, txn.RowResource(t.meta.Name, lockKey), txn.LockModeExclusive); err != nil {
		t.db.Txns.Rollback(tx.ID())
		return fmt.Errorf("cursor: %s: %w", t.meta.Name, err)
	}

	t.db.Storage.StartExclusiveWrite()
	err := t.rowFile.Delete(nil, t.db.WAL, storage.RowID{
		Page: storage.PageID(rowID.PageNumber),
		Slot: uint16(rowID.RowNumber),
	})
	t.db.Storage.FinishWrite()
	if err != nil {
		t.db.Txns.Rollback(tx.ID())
		return fmt.Errorf("cursor: %s: %w", t.meta.Name, err)
	}
	rowState.reset()
	if err := t.db.Catalog.DecrementRowCount(t.meta.Name); err != nil {
		t.db.Txns.Rollback(tx.ID())
		return fmt.Errorf("cursor: %s: %w", t.meta.Name, err)
	}
	if err := t.db.Txns.Commit(tx.ID()); err != nil {
		return fmt.Errorf("cursor: %s: %w", t.meta.Name, err)
	}
	return nil
}
