package accessdb

import (
	"github.com/example/accessdb/internal/storage"
	"github.com/example/accessdb/internal/wal"
)

// recoverFromLog replays every full-page image recorded in the
// write-ahead log back onto the data file, in the order the log recorded
// them. Every WAL record produced by persistRowPage carries a complete
// post-image of the page it touched, so redo is just "last write for a
// given page id wins" — there is no undo pass. Page writes made without a
// transaction (as Table.InsertRow and Table.DeleteRow make them) are not
// logged, so they leave nothing here to replay.
func recoverFromLog(mgr *storage.Manager, log *wal.Manager) error {
	records, err := log.Scan()
	if err != nil {
		return err
	}
	for _, rec := range records {
		switch rec.Type {
		case wal.RecordInsert, wal.RecordUpdate, wal.RecordDelete, wal.RecordPageMeta:
			if len(rec.Payload) != storage.PageSize {
				continue
			}
			if err := mgr.WritePage(storage.PageID(rec.PageID), rec.Payload); err != nil {
				return err
			}
		}
	}
	return nil
}
