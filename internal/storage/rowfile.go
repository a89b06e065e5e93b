package storage

import (
	"fmt"

	"github.com/example/accessdb/internal/txn"
	"github.com/example/accessdb/internal/wal"
)

// RowFile coordinates the chain of row-format data pages owned by a table.
// It is the row-start-offset-table analogue of a heap file: pages are
// linked forward via NextPage, and a fresh page is allocated once the tail
// page has no room left for the next row.
type RowFile struct {
	manager *Manager
	root    PageID
}

// NewRowFile creates a row file rooted at the given page id.
func NewRowFile(mgr *Manager, root PageID) *RowFile {
	return &RowFile{manager: mgr, root: root}
}

// Root returns the first page of the row file.
func (rf *RowFile) Root() PageID { return rf.root }

// Insert writes the payload to the first page in the chain with sufficient
// space, allocating a new tail page if necessary.
func (rf *RowFile) Insert(tx *txn.Transaction, log *wal.Manager, payload []byte) (RowID, error) {
	if rf.root == 0 {
		return RowID{}, fmt.Errorf("storage: row file has no root page")
	}

	currentID := rf.root
	for {
		pageBuf, err := rf.manager.ReadPage(currentID)
		if err != nil {
			return RowID{}, err
		}
		page, err := LoadRowPage(currentID, pageBuf)
		if err != nil {
			return RowID{}, err
		}
		if page.FreeSpace() >= rowLengthPrefixSize+len(payload) {
			rowNumber, err := page.Insert(payload)
			if err != nil {
				return RowID{}, err
			}
			if err := persistRowPage(tx, log, rf.manager, wal.RecordInsert, currentID, page.Data()); err != nil {
				return RowID{}, err
			}
			return RowID{Page: currentID, Slot: uint16(rowNumber)}, nil
		}
		if page.NextPage() == 0 {
			newID, newBuf, err := rf.manager.AllocatePage()
			if err != nil {
				return RowID{}, err
			}
			if err := InitialiseRowPage(newBuf); err != nil {
				return RowID{}, err
			}
			if err := persistRowPage(tx, log, rf.manager, wal.RecordPageMeta, newID, newBuf); err != nil {
				return RowID{}, err
			}
			page.SetNextPage(newID)
			if err := persistRowPage(tx, log, rf.manager, wal.RecordPageMeta, currentID, page.Data()); err != nil {
				return RowID{}, err
			}
			currentID = newID
			continue
		}
		currentID = page.NextPage()
	}
}

// Fetch retrieves the payload stored at the given row identifier.
func (rf *RowFile) Fetch(id RowID) ([]byte, error) {
	pageBuf, err := rf.manager.ReadPage(id.Page)
	if err != nil {
		return nil, err
	}
	page, err := LoadRowPage(id.Page, pageBuf)
	if err != nil {
		return nil, err
	}
	payload, err := page.Row(int16(id.Slot))
	if err != nil {
		return nil, err
	}
	clone := make([]byte, len(payload))
	copy(clone, payload)
	return clone, nil
}

// Delete tombstones the row stored at the given row identifier.
func (rf *RowFile) Delete(tx *txn.Transaction, log *wal.Manager, id RowID) error {
	pageBuf, err := rf.manager.ReadPage(id.Page)
	if err != nil {
		return err
	}
	page, err := LoadRowPage(id.Page, pageBuf)
	if err != nil {
		return err
	}
	if err := page.Delete(int16(id.Slot)); err != nil {
		return err
	}
	return persistRowPage(tx, log, rf.manager, wal.RecordDelete, id.Page, page.Data())
}

func persistRowPage(tx *txn.Transaction, log *wal.Manager, mgr *Manager, typ wal.RecordType, id PageID, data []byte) error {
	if tx != nil && log != nil {
		payload := make([]byte, len(data))
		copy(payload, data)
		prev := tx.LastLSN()
		lsn, err := log.Append(uint64(tx.ID()), prev, typ, uint32(id), payload)
		if err != nil {
			return err
		}
		tx.SetLastLSN(lsn)
		if tx.StartLSN() == 0 {
			tx.SetStartLSN(lsn)
		}
		if err := log.Sync(); err != nil {
			return err
		}
	}
	return mgr.WritePage(id, data)
}

// Pages returns all page ids used by the row file, in chain order.
func (rf *RowFile) Pages() ([]PageID, error) {
	pages := []PageID{}
	currentID := rf.root
	for currentID != 0 {
		pages = append(pages, currentID)
		pageBuf, err := rf.manager.ReadPage(currentID)
		if err != nil {
			return nil, err
		}
		page, err := LoadRowPage(currentID, pageBuf)
		if err != nil {
			return nil, err
		}
		currentID = page.NextPage()
	}
	return pages, nil
}
