package cursor

import "github.com/example/accessdb/internal/storage"

// dirHandler bundles the handful of operations that differ between a
// forward and a reverse walk. Two stateless package-level values are
// shared by every cursor instance, selected by a single bool.
type dirHandler struct {
	beginningRowID   func() RowID
	endRowID         func() RowID
	rowIncrement     int16
	anotherPage      func(owned *storage.PageIterator) int32
	initialRowNumber func(rowsOnPage int16) int16
}

var forwardDirHandler = dirHandler{
	beginningRowID: func() RowID { return FirstRowID },
	endRowID:       func() RowID { return LastRowID },
	rowIncrement:   1,
	anotherPage: func(owned *storage.PageIterator) int32 {
		return owned.NextPage()
	},
	initialRowNumber: func(rowsOnPage int16) int16 {
		return InvalidRowNumber
	},
}

var reverseDirHandler = dirHandler{
	beginningRowID: func() RowID { return LastRowID },
	endRowID:       func() RowID { return FirstRowID },
	rowIncrement:   -1,
	anotherPage: func(owned *storage.PageIterator) int32 {
		return owned.PreviousPage()
	},
	initialRowNumber: func(rowsOnPage int16) int16 {
		return rowsOnPage
	},
}

func dirHandlerFor(moveForward bool) *dirHandler {
	if moveForward {
		return &forwardDirHandler
	}
	return &reverseDirHandler
}
