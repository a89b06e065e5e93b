package cursor

import (
	"context"
	"math"

	"github.com/example/accessdb/internal/storage"
)

// Cursor is a bidirectional, mutation-robust iterator over a table's rows.
// It holds no row content itself: every move re-reads the row-start table
// from the underlying page, so a row deleted by a concurrent writer between
// two moves is simply skipped rather than returned stale.
type Cursor struct {
	table        *Table
	rowState     *RowState
	currentRowID RowID
	owned        *storage.PageIterator
	matcher      ColumnMatcher
}

// New constructs a cursor over table, seated before the first row.
func New(table *Table) (*Cursor, error) {
	owned, err := table.OwnedPagesIterator()
	if err != nil {
		return nil, err
	}
	c := &Cursor{
		table:   table,
		matcher: defaultColumnMatcher,
		owned:   owned,
	}
	c.BeforeFirst()
	return c, nil
}

// SetColumnMatcher overrides the equality predicate used by FindRow and
// FindRowColumn.
func (c *Cursor) SetColumnMatcher(m ColumnMatcher) {
	c.matcher = m
}

// Reset seats the cursor before the first row, same as BeforeFirst.
func (c *Cursor) Reset() {
	c.BeforeFirst()
}

// BeforeFirst seats the cursor before the first row.
func (c *Cursor) BeforeFirst() {
	c.currentRowID = FirstRowID
	c.rowState = c.table.CreateRowState()
	c.owned.Reset(true)
}

// AfterLast seats the cursor after the last row.
func (c *Cursor) AfterLast() {
	c.currentRowID = LastRowID
	c.rowState = c.table.CreateRowState()
	c.owned.Reset(false)
}

// IsCurrentRowValid reports whether the cursor is currently seated on a
// real row, as opposed to the before-first/after-last sentinel positions.
// RowID.IsValidRow already excludes both sentinels (their RowNumber is
// InvalidRowNumber), but the sentinel identity is checked explicitly too,
// so this reads correctly even if a future sentinel reuses a non-negative
// row number.
func (c *Cursor) IsCurrentRowValid() bool {
	return c.currentRowID.IsValidRow() &&
		c.currentRowID != FirstRowID &&
		c.currentRowID != LastRowID
}

// MoveToNextRow advances the cursor to the next non-deleted row, returning
// false if it lands after the last row.
func (c *Cursor) MoveToNextRow(ctx context.Context) (bool, error) {
	return c.moveToAnotherRow(ctx, true)
}

// MoveToPreviousRow moves the cursor to the previous non-deleted row,
// returning false if it lands before the first row.
func (c *Cursor) MoveToPreviousRow(ctx context.Context) (bool, error) {
	return c.moveToAnotherRow(ctx, false)
}

func (c *Cursor) moveToAnotherRow(ctx context.Context, moveForward bool) (bool, error) {
	dir := dirHandlerFor(moveForward)
	newID, err := c.findAnotherRowID(ctx, c.currentRowID, dir)
	if err != nil {
		return false, err
	}
	c.currentRowID = newID
	return newID != dir.endRowID(), nil
}

// findAnotherRowID is the cursor's core traversal step. Starting from
// currentRowID, it walks row slots in dir's direction, skipping deleted
// slots, crossing into owned pages as the current page runs out, until it
// finds a live row or exhausts every owned page. It never assumes the
// current row still exists: the row-start table is re-read from the page
// buffer on every step, so concurrent deletes are observed rather than
// missed.
func (c *Cursor) findAnotherRowID(ctx context.Context, currentRowID RowID, dir *dirHandler) (RowID, error) {
	if err := ctx.Err(); err != nil {
		return RowID{}, err
	}

	c.rowState.reset()
	mgr := c.table.PageChannel()

	currentPageNumber := currentRowID.PageNumber
	currentRowNumber := currentRowID.RowNumber

	var rowsOnPage int16
	if isRealPageNumber(currentPageNumber) {
		if err := c.rowState.setPage(mgr, currentPageNumber); err != nil {
			return RowID{}, err
		}
		rowsOnPage = storage.RowsOnDataPage(c.rowState.Page())
	}

	for {
		if err := ctx.Err(); err != nil {
			return RowID{}, err
		}

		currentRowNumber += dir.rowIncrement

		if currentRowNumber >= 0 && currentRowNumber < rowsOnPage {
			c.rowState.setRow(currentRowNumber)
			raw := storage.ReadRowStartRaw(c.rowState.Page(), currentRowNumber)
			if storage.IsDeletedRowStart(raw) {
				continue
			}
			return NewRowID(currentPageNumber, currentRowNumber), nil
		}

		nextPage := dir.anotherPage(c.owned)
		if nextPage == storage.InvalidPageNumber {
			return dir.endRowID(), nil
		}
		currentPageNumber = nextPage
		if err := c.rowState.setPage(mgr, currentPageNumber); err != nil {
			return RowID{}, err
		}
		rowsOnPage = storage.RowsOnDataPage(c.rowState.Page())
		currentRowNumber = dir.initialRowNumber(rowsOnPage)
	}
}

func isRealPageNumber(pageNumber int32) bool {
	return pageNumber != InvalidPageNumber && pageNumber != math.MaxInt32
}

// NextRow advances to and returns the next row, projected onto
// columnNames. The bool result is false once the cursor has moved past
// the last row, in which case the returned Row is the zero value.
func (c *Cursor) NextRow(ctx context.Context, columnNames ...string) (Row, bool, error) {
	ok, err := c.MoveToNextRow(ctx)
	if err != nil || !ok {
		return Row{}, false, err
	}
	row, err := c.CurrentRow(ctx, columnNames...)
	return row, err == nil, err
}

// PreviousRow moves to and returns the previous row, projected onto
// columnNames.
func (c *Cursor) PreviousRow(ctx context.Context, columnNames ...string) (Row, bool, error) {
	ok, err := c.MoveToPreviousRow(ctx)
	if err != nil || !ok {
		return Row{}, false, err
	}
	row, err := c.CurrentRow(ctx, columnNames...)
	return row, err == nil, err
}

// CurrentRow materialises the row the cursor is currently seated on.
func (c *Cursor) CurrentRow(ctx context.Context, columnNames ...string) (Row, error) {
	if !c.IsCurrentRowValid() {
		return Row{}, ErrInvalidCursorPosition
	}
	return c.table.Row(ctx, c.rowState, columnNames...)
}

// CurrentRowValue reads a single column of the current row.
func (c *Cursor) CurrentRowValue(ctx context.Context, column string) (interface{}, error) {
	if !c.IsCurrentRowValid() {
		return nil, ErrInvalidCursorPosition
	}
	return c.table.RowValue(ctx, c.rowState, column)
}

// DeleteCurrentRow deletes the row the cursor is currently seated on. It
// returns ErrInvalidCursorPosition at a sentinel position or when the row
// is already deleted. The cursor's position (currentRowID) is left as-is;
// the caller must move off the now-deleted row before reading it again.
func (c *Cursor) DeleteCurrentRow(ctx context.Context) error {
	if !c.IsCurrentRowValid() {
		return ErrInvalidCursorPosition
	}
	page, err := c.table.PageChannel().ReadPage(storage.PageID(c.currentRowID.PageNumber))
	if err != nil {
		return err
	}
	if storage.IsDeletedRowStart(storage.ReadRowStartRaw(page, c.currentRowID.RowNumber)) {
		return ErrInvalidCursorPosition
	}
	return c.table.DeleteRow(ctx, c.rowState, c.currentRowID)
}

// FindRow seats the cursor before the first row, then searches forward for
// the first row whose columns all match pattern under the cursor's column
// matcher, returning false if no such row is found before the table is
// exhausted. The cursor is left after-last on failure.
func (c *Cursor) FindRow(ctx context.Context, pattern map[string]interface{}) (bool, error) {
	c.BeforeFirst()
	for {
		ok, err := c.MoveToNextRow(ctx)
		if err != nil || !ok {
			return false, err
		}
		row, err := c.CurrentRow(ctx)
		if err != nil {
			return false, err
		}
		if c.rowMatchesPattern(row, pattern) {
			return true, nil
		}
	}
}

// FindRowColumn is FindRow specialised to a single column, matching when
// the row's value for column equals valuePattern.
func (c *Cursor) FindRowColumn(ctx context.Context, column string, valuePattern interface{}) (bool, error) {
	return c.FindRow(ctx, map[string]interface{}{column: valuePattern})
}

func (c *Cursor) rowMatchesPattern(row Row, pattern map[string]interface{}) bool {
	for column, want := range pattern {
		got, ok := row.Value(column)
		if !ok || !c.matcher.Matches(c.table, column, got, want) {
			return false
		}
	}
	return true
}

// SkipNextRows advances the cursor past up to n rows, stopping early if it
// reaches the end of the table. It returns the number of rows actually
// skipped. Negative n is treated as zero.
func (c *Cursor) SkipNextRows(ctx context.Context, n int) (int, error) {
	n = clampSkip(n, math.MaxInt32)
	skipped := 0
	for skipped < n {
		ok, err := c.MoveToNextRow(ctx)
		if err != nil {
			return skipped, err
		}
		if !ok {
			break
		}
		skipped++
	}
	return skipped, nil
}

// SkipPreviousRows is SkipNextRows in the reverse direction.
func (c *Cursor) SkipPreviousRows(ctx context.Context, n int) (int, error) {
	n = clampSkip(n, math.MaxInt32)
	skipped := 0
	for skipped < n {
		ok, err := c.MoveToPreviousRow(ctx)
		if err != nil {
			return skipped, err
		}
		if !ok {
			break
		}
		skipped++
	}
	return skipped, nil
}

// FindRow is a package-level convenience that opens a fresh cursor over
// table and seats it on the first matching row.
func FindRow(ctx context.Context, table *Table, pattern map[string]interface{}) (bool, error) {
	c, err := New(table)
	if err != nil {
		return false, err
	}
	return c.FindRow(ctx, pattern)
}

// FindValue is a package-level convenience that seats a fresh cursor over
// table on the first row where columnPattern matches valuePattern, then
// returns the matched row's value for column.
func FindValue(ctx context.Context, table *Table, column, columnPattern string, valuePattern interface{}) (interface{}, error) {
	c, err := New(table)
	if err != nil {
		return nil, err
	}
	ok, err := c.FindRowColumn(ctx, columnPattern, valuePattern)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return c.CurrentRowValue(ctx, column)
}
