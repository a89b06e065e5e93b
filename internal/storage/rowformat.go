package storage

import "encoding/binary"

// PageType identifies the structural role of a page within a data file.
type PageType uint8

const (
	// PageTypeFree marks a page that has been returned to the freelist.
	PageTypeFree PageType = 0x00
	// PageTypeData marks a page holding a table's row-slot table.
	PageTypeData PageType = 0x01
)

const (
	rowPageHeaderSize = 12

	offsetPageType = 0
	offsetNextPage = 4
	// OffsetNumRowsOnDataPage is the fixed header offset of the 16-bit row
	// count on a data page, read unconditionally once the page type byte has
	// been confirmed to be PageTypeData.
	OffsetNumRowsOnDataPage = 10

	// rowStartDeletedMask is the high bit of a row-start-offset table entry;
	// when set the row at that slot has been deleted.
	rowStartDeletedMask uint16 = 0x8000
	rowStartOffsetMask  uint16 = 0x7FFF

	// rowLengthPrefixSize is the size, in bytes, of the length prefix stored
	// immediately before each row's payload in the page's data region.
	rowLengthPrefixSize = 2
	// rowSlotSize is the size, in bytes, of one entry in the row-start-offset
	// table that grows backward from the end of the page.
	rowSlotSize = 2
)

// FormatDescriptor exposes the layout constants a cursor needs to interpret
// a data page without depending on the storage package's internals.
type FormatDescriptor struct {
	PageSize int
}

// DefaultFormat describes the fixed-size page layout used throughout this
// module.
var DefaultFormat = FormatDescriptor{PageSize: PageSize}

// RowStartOffset returns the byte position, within a page, of the
// row-start-offset table entry for the given row number. The table grows
// backward from the end of the page, one entry per row.
func (f FormatDescriptor) RowStartOffset(rowNumber int16) int {
	return f.PageSize - (int(rowNumber)+1)*rowSlotSize
}

// ReadPageType returns the page-type discriminator stored in the first byte
// of the page.
func ReadPageType(buf []byte) PageType {
	return PageType(buf[offsetPageType])
}

// RowsOnDataPage returns the row count recorded in a data page's header, or
// zero if the page is not a data page.
func RowsOnDataPage(buf []byte) int16 {
	if ReadPageType(buf) != PageTypeData {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(buf[OffsetNumRowsOnDataPage : OffsetNumRowsOnDataPage+2]))
}

// ReadRowStartRaw reads the row-start-offset table entry for rowNumber
// without masking off the deleted bit. Cursors rely on this being the
// unmasked value so the deleted flag can be inspected directly.
func ReadRowStartRaw(buf []byte, rowNumber int16) uint16 {
	pos := DefaultFormat.RowStartOffset(rowNumber)
	return binary.LittleEndian.Uint16(buf[pos : pos+2])
}

// IsDeletedRowStart reports whether the deleted bit is set on a raw
// row-start-offset value.
func IsDeletedRowStart(raw uint16) bool {
	return raw&rowStartDeletedMask != 0
}

func maskRowStart(raw uint16) uint16 {
	return raw & rowStartOffsetMask
}
