package cursor

import "errors"

// ErrInvalidCursorPosition is returned when an operation that requires a
// valid current row (CurrentRow, CurrentRowValue, DeleteCurrentRow) is
// called while the cursor is seated before-first or after-last, and by
// DeleteCurrentRow when the current row is already deleted.
var ErrInvalidCursorPosition = errors.New("cursor: invalid cursor position")

// ErrIteratorExhausted is returned by Iterator.Next once no rows remain.
var ErrIteratorExhausted = errors.New("cursor: iterator exhausted")
