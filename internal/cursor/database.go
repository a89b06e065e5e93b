package cursor

import (
	"fmt"

	"github.com/example/accessdb/internal/catalog"
	"github.com/example/accessdb/internal/storage"
	"github.com/example/accessdb/internal/storage/indexmgr"
	"github.com/example/accessdb/internal/txn"
	"github.com/example/accessdb/internal/wal"
)

// Database is the shared, process-wide state a cursor's Table is built
// from: the page channel, the catalog, the write-ahead log, the physical
// index store and the transaction/lock machinery backing deletes. It is
// explicitly injected into every Table rather than reached for as ambient
// state.
type Database struct {
	Storage *storage.Manager
	Catalog *catalog.Catalog
	WAL     *wal.Manager
	Indexes *indexmgr.Manager
	Locks   *txn.LockManager
	Txns    *txn.Manager
}

// Table resolves a table by name into a cursor-ready Table collaborator.
func (db *Database) Table(name string) (*Table, error) {
	meta, ok := db.Catalog.GetTable(name)
	if !ok {
		return nil, fmt.Errorf("cursor: table %s not found", name)
	}
	return &Table{
		db:      db,
		meta:    meta,
		rowFile: storage.NewRowFile(db.Storage, meta.RootPage),
	}, nil
}
