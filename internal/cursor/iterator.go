package cursor

import "context"

// Iterator wraps a Cursor with eager one-row-ahead pre-fetch, giving
// HasNext/Next/Remove semantics on top of the cursor's move-then-read
// protocol. Remove deletes the row most recently returned by Next, not the
// pre-fetched one sitting behind it.
type Iterator struct {
	cursor      *Cursor
	ctx         context.Context
	columnNames []string

	hasNext bool
	next    Row
	nextErr error

	havePrev  bool
	prevRowID RowID
}

// NewIterator constructs an iterator over cursor, projected onto
// columnNames, starting from the cursor's current position.
func NewIterator(ctx context.Context, c *Cursor, columnNames ...string) *Iterator {
	it := &Iterator{cursor: c, ctx: ctx, columnNames: columnNames}
	it.advance()
	return it
}

func (it *Iterator) advance() {
	row, ok, err := it.cursor.NextRow(it.ctx, it.columnNames...)
	it.hasNext = ok
	it.next = row
	it.nextErr = err
}

// HasNext reports whether a further call to Next will return a row rather
// than an error.
func (it *Iterator) HasNext() bool {
	return it.nextErr == nil && it.hasNext
}

// Next returns the pre-fetched row and advances the pre-fetch by one.
func (it *Iterator) Next() (Row, error) {
	if it.nextErr != nil {
		return Row{}, it.nextErr
	}
	if !it.hasNext {
		return Row{}, ErrIteratorExhausted
	}
	row := it.next
	it.prevRowID = it.cursor.currentRowID
	it.havePrev = true
	it.advance()
	return row, nil
}

// Remove deletes the row most recently returned by Next. It is an error to
// call Remove before the first Next, or twice in a row without an
// intervening Next.
func (it *Iterator) Remove() error {
	if !it.havePrev {
		return ErrInvalidCursorPosition
	}
	if err := it.cursor.table.DeleteRow(it.ctx, it.cursor.rowState, it.prevRowID); err != nil {
		return err
	}
	it.havePrev = false
	return nil
}
