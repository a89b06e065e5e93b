// Package cursor implements a bidirectional, mutation-robust row cursor
// over a table's chain of row-format data pages.
package cursor

import "math"

// InvalidPageNumber marks a RowID field that does not refer to a real page.
const InvalidPageNumber int32 = -1

// InvalidRowNumber marks a RowID field that does not refer to a real row
// slot.
const InvalidRowNumber int16 = -1

// RowID uniquely identifies a row by (page number, row-slot number). It is
// a small immutable value type, cheap to copy, with two reserved sentinel
// values used to represent "before the first row" and "after the last
// row".
type RowID struct {
	PageNumber int32
	RowNumber  int16
}

// FirstRowID seats a cursor before any row.
var FirstRowID = RowID{PageNumber: InvalidPageNumber, RowNumber: InvalidRowNumber}

// LastRowID seats a cursor after any row.
var LastRowID = RowID{PageNumber: math.MaxInt32, RowNumber: InvalidRowNumber}

// NewRowID constructs a row identifier from its page and row-slot numbers.
func NewRowID(pageNumber int32, rowNumber int16) RowID {
	return RowID{PageNumber: pageNumber, RowNumber: rowNumber}
}

// IsValidRow reports whether the row id refers to a real row, i.e. neither
// FirstRowID nor LastRowID.
func (id RowID) IsValidRow() bool {
	return id.RowNumber >= 0
}

// Compare returns -1, 0 or 1 according to the total order
// (PageNumber ASC, RowNumber ASC), under which FirstRowID sorts strictly
// before every valid row id and LastRowID strictly after.
func (id RowID) Compare(other RowID) int {
	if id.PageNumber != other.PageNumber {
		if id.PageNumber < other.PageNumber {
			return -1
		}
		return 1
	}
	if id.RowNumber != other.RowNumber {
		if id.RowNumber < other.RowNumber {
			return -1
		}
		return 1
	}
	return 0
}
