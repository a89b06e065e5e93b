package storage

import (
	"encoding/binary"
	"fmt"
)

// InitialiseRowPage prepares a blank data page for row storage, replacing
// whatever the buffer previously held.
func InitialiseRowPage(page []byte) error {
	if len(page) != PageSize {
		return errShortPage
	}
	for i := range page {
		page[i] = 0
	}
	page[offsetPageType] = byte(PageTypeData)
	binary.LittleEndian.PutUint32(page[offsetNextPage:offsetNextPage+4], 0)
	writeRowFreeStart(page, rowPageHeaderSize)
	writeRowCount(page, 0)
	return nil
}

func readRowFreeStart(page []byte) uint16 {
	return binary.LittleEndian.Uint16(page[8:10])
}

func writeRowFreeStart(page []byte, v uint16) {
	binary.LittleEndian.PutUint16(page[8:10], v)
}

func readRowCount(page []byte) uint16 {
	return binary.LittleEndian.Uint16(page[OffsetNumRowsOnDataPage : OffsetNumRowsOnDataPage+2])
}

func writeRowCount(page []byte, v uint16) {
	binary.LittleEndian.PutUint16(page[OffsetNumRowsOnDataPage:OffsetNumRowsOnDataPage+2], v)
}

// RowPage manages row insertion, lookup and tombstoning for a single data
// page. Unlike the fixed-length-slot layout of a plain heap page, a row's
// slot entry stores only its start offset (with the deleted bit folded into
// the high bit); the row's length travels with the row itself as a 2-byte
// prefix, mirroring an MDB-style row-start-offset table.
type RowPage struct {
	id   PageID
	data []byte
}

// LoadRowPage constructs a row page view over the supplied buffer.
func LoadRowPage(id PageID, buf []byte) (*RowPage, error) {
	if len(buf) != PageSize {
		return nil, errShortPage
	}
	return &RowPage{id: id, data: buf}, nil
}

// Data exposes the underlying buffer for persistence.
func (p *RowPage) Data() []byte { return p.data }

// NextPage returns the linked next page id in the table's page chain.
func (p *RowPage) NextPage() PageID {
	return PageID(binary.LittleEndian.Uint32(p.data[offsetNextPage : offsetNextPage+4]))
}

// SetNextPage updates the link to the next page in the chain.
func (p *RowPage) SetNextPage(id PageID) {
	binary.LittleEndian.PutUint32(p.data[offsetNextPage:offsetNextPage+4], uint32(id))
}

// RowCount returns the number of row slots recorded on this page, including
// deleted ones.
func (p *RowPage) RowCount() int16 {
	return int16(readRowCount(p.data))
}

// FreeSpace returns the number of bytes available for a new row, accounting
// for both the data-region growth and the additional slot-table entry a new
// row requires.
func (p *RowPage) FreeSpace() int {
	freeStart := int(readRowFreeStart(p.data))
	slotTableStart := PageSize - int(readRowCount(p.data))*rowSlotSize
	return slotTableStart - freeStart - rowSlotSize
}

// Insert appends a new row to the page, returning its row number.
func (p *RowPage) Insert(payload []byte) (int16, error) {
	required := rowLengthPrefixSize + len(payload) + rowSlotSize
	if required > p.FreeSpace()+rowSlotSize {
		return 0, fmt.Errorf("storage: insufficient free space in page %d", p.id)
	}
	freeStart := readRowFreeStart(p.data)
	binary.LittleEndian.PutUint16(p.data[freeStart:freeStart+2], uint16(len(payload)))
	copy(p.data[int(freeStart)+2:], payload)
	newFreeStart := freeStart + rowLengthPrefixSize + uint16(len(payload))
	writeRowFreeStart(p.data, newFreeStart)

	rowCount := readRowCount(p.data)
	slotPos := DefaultFormat.RowStartOffset(int16(rowCount))
	binary.LittleEndian.PutUint16(p.data[slotPos:slotPos+2], freeStart)
	writeRowCount(p.data, rowCount+1)
	return int16(rowCount), nil
}

// rowBounds resolves the [start,end) byte range of the payload stored at
// rowNumber, given the already-masked start offset.
func (p *RowPage) rowBounds(startOffset uint16) (int, int, error) {
	if int(startOffset)+rowLengthPrefixSize > len(p.data) {
		return 0, 0, fmt.Errorf("storage: corrupt row start offset in page %d", p.id)
	}
	length := binary.LittleEndian.Uint16(p.data[startOffset : startOffset+2])
	start := int(startOffset) + rowLengthPrefixSize
	end := start + int(length)
	if end > len(p.data) {
		return 0, 0, fmt.Errorf("storage: corrupt row length in page %d", p.id)
	}
	return start, end, nil
}

// Row retrieves the raw bytes stored at the given row number. It fails if
// the row has been deleted or the number is out of range.
func (p *RowPage) Row(rowNumber int16) ([]byte, error) {
	if rowNumber < 0 || rowNumber >= p.RowCount() {
		return nil, fmt.Errorf("storage: row %d out of bounds in page %d", rowNumber, p.id)
	}
	raw := ReadRowStartRaw(p.data, rowNumber)
	if IsDeletedRowStart(raw) {
		return nil, fmt.Errorf("storage: row %d is deleted in page %d", rowNumber, p.id)
	}
	start, end, err := p.rowBounds(maskRowStart(raw))
	if err != nil {
		return nil, err
	}
	return p.data[start:end], nil
}

// Delete marks the given row number as deleted by setting the high bit of
// its row-start-offset entry, without disturbing the payload bytes.
func (p *RowPage) Delete(rowNumber int16) error {
	if rowNumber < 0 || rowNumber >= p.RowCount() {
		return fmt.Errorf("storage: row %d out of bounds in page %d", rowNumber, p.id)
	}
	pos := DefaultFormat.RowStartOffset(rowNumber)
	raw := binary.LittleEndian.Uint16(p.data[pos : pos+2])
	if IsDeletedRowStart(raw) {
		return fmt.Errorf("storage: row %d already deleted in page %d", rowNumber, p.id)
	}
	binary.LittleEndian.PutUint16(p.data[pos:pos+2], raw|rowStartDeletedMask)
	return nil
}

// Rows iterates every non-deleted row on the page in slot order.
func (p *RowPage) Rows(fn func(rowNumber int16, payload []byte) error) error {
	count := p.RowCount()
	for i := int16(0); i < count; i++ {
		raw := ReadRowStartRaw(p.data, i)
		if IsDeletedRowStart(raw) {
			continue
		}
		start, end, err := p.rowBounds(maskRowStart(raw))
		if err != nil {
			return err
		}
		if err := fn(i, p.data[start:end]); err != nil {
			return err
		}
	}
	return nil
}
