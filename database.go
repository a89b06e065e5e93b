package accessdb

import (
	"fmt"
	"sync"
	"time"

	"github.com/example/accessdb/internal/catalog"
	"github.com/example/accessdb/internal/cursor"
	"github.com/example/accessdb/internal/relate"
	"github.com/example/accessdb/internal/storage"
	"github.com/example/accessdb/internal/storage/indexmgr"
	"github.com/example/accessdb/internal/txn"
	"github.com/example/accessdb/internal/wal"
)

const lockTimeout = 5 * time.Second

// Database is the top-level handle for an accessdb file. It wires the
// page channel, write-ahead log, lock/transaction managers and catalog
// together, and is the concrete relate.Writer relationship creation
// persists through.
type Database struct {
	*cursor.Database

	path string

	mu            sync.Mutex
	relationships []*relate.Record
}

// Create initialises a brand-new, empty database file at path.
func Create(path string) error {
	return storage.New(path)
}

// Open opens an existing database file, replaying any write-ahead log
// records left by an unclean shutdown before the catalog is loaded.
func Open(path string) (*Database, error) {
	mgr, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("accessdb: %w", err)
	}
	log, err := wal.Open(path)
	if err != nil {
		mgr.Close()
		return nil, fmt.Errorf("accessdb: %w", err)
	}
	if err := recoverFromLog(mgr, log); err != nil {
		log.Close()
		mgr.Close()
		return nil, fmt.Errorf("accessdb: recovery: %w", err)
	}
	cat, err := catalog.Load(mgr)
	if err != nil {
		log.Close()
		mgr.Close()
		return nil, fmt.Errorf("accessdb: %w", err)
	}

	locks := txn.NewLockManager(lockTimeout)
	txns := txn.NewManager(locks, log)
	indexes := indexmgr.New(mgr.Path())

	return &Database{
		Database: &cursor.Database{
			Storage: mgr,
			Catalog: cat,
			WAL:     log,
			Indexes: indexes,
			Locks:   locks,
			Txns:    txns,
		},
		path: path,
	}, nil
}

// Path returns the filesystem path the database was opened from.
func (db *Database) Path() string {
	return db.path
}

// Close flushes and releases every resource the database holds.
func (db *Database) Close() error {
	idxErr := db.Indexes.Close()
	walErr := db.WAL.Close()
	storeErr := db.Storage.Close()
	if idxErr != nil {
		return fmt.Errorf("accessdb: %w", idxErr)
	}
	if walErr != nil {
		return fmt.Errorf("accessdb: %w", walErr)
	}
	if storeErr != nil {
		return fmt.Errorf("accessdb: %w", storeErr)
	}
	return nil
}

// Tables lists every table currently defined in the catalog.
func (db *Database) Tables() []*catalog.Table {
	return db.Catalog.ListTables()
}

// WriteRelationship implements relate.Writer by holding the record in
// memory for the lifetime of the Database handle. It is returned via
// Relationships.
func (db *Database) WriteRelationship(builder *relate.Builder) (*relate.Record, error) {
	if builder.PrimaryTable == nil || builder.SecondaryTable == nil {
		return nil, fmt.Errorf("accessdb: %w: relationship builder missing a table", relate.ErrInvalidArgument)
	}
	record := &relate.Record{
		Name:             builder.Name,
		PrimaryTable:     builder.PrimaryTable.Name(),
		SecondaryTable:   builder.SecondaryTable.Name(),
		PrimaryColumns:   builder.PrimaryColumns,
		SecondaryColumns: builder.SecondaryColumns,
		Flags:            builder.Flags,
	}
	db.mu.Lock()
	db.relationships = append(db.relationships, record)
	db.mu.Unlock()
	return record, nil
}

// Relationships returns a snapshot of every relationship recorded so far.
func (db *Database) Relationships() []*relate.Record {
	db.mu.Lock()
	defer db.mu.Unlock()
	out := make([]*relate.Record, len(db.relationships))
	copy(out, db.relationships)
	return out
}
