package cursor

import "github.com/example/accessdb/internal/storage"

// RowState is the cursor's scratch buffer for the currently loaded page and
// row slot. It is exclusive to its owning cursor, reset on every
// directional move and on explicit reset, and discarded with the cursor.
//
// FinalPage/FinalRowNumber expose the overflow-pointer indirection the
// original row format supports when a row's primary slot is itself a
// pointer to another page; this module does not implement overflow-page
// chasing (no long-value/overflow page format is specified), so they
// default to the primary page/row and are only overwritten by a resolution
// step a caller may choose to layer on top.
type RowState struct {
	PageNumber     int32
	page           []byte
	RowNumber      int16
	FinalPage      int32
	FinalRowNumber int16
}

// NewRowState constructs an empty, unloaded row state.
func NewRowState() *RowState {
	rs := &RowState{}
	rs.reset()
	return rs
}

func (rs *RowState) reset() {
	rs.PageNumber = InvalidPageNumber
	rs.page = nil
	rs.RowNumber = InvalidRowNumber
	rs.FinalPage = InvalidPageNumber
	rs.FinalRowNumber = InvalidRowNumber
}

// setPage loads the row-state's cached buffer for pageNumber, reading
// through the page channel if the buffer isn't already cached.
func (rs *RowState) setPage(mgr *storage.Manager, pageNumber int32) error {
	if rs.PageNumber == pageNumber && rs.page != nil {
		return nil
	}
	buf, err := mgr.ReadPage(storage.PageID(pageNumber))
	if err != nil {
		return err
	}
	rs.PageNumber = pageNumber
	rs.page = buf
	rs.FinalPage = pageNumber
	return nil
}

func (rs *RowState) setRow(rowNumber int16) {
	rs.RowNumber = rowNumber
	rs.FinalRowNumber = rowNumber
}

// Page returns the cached page buffer, or nil if none is loaded.
func (rs *RowState) Page() []byte {
	return rs.page
}
