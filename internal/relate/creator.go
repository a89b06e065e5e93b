package relate

import (
	"context"
	"fmt"

	"github.com/example/accessdb/internal/txn"
	"golang.org/x/sync/errgroup"
)

// CreateRelationship validates builder, optionally builds the backing
// indexes referential integrity requires, and persists the relationship
// through writer. The whole operation runs as a single transaction
// holding exclusive table locks on both tables, plus the primary table's
// page channel's exclusive-write latch while its indexes are built.
func CreateRelationship(ctx context.Context, writer Writer, builder *Builder) (*Record, error) {
	if err := validate(builder); err != nil {
		return nil, err
	}

	db := builder.PrimaryTable.Database()
	tx := db.Txns.Begin()
	if err := db.Locks.Acquire(tx, txn.TableResource(builder.PrimaryTable.Name()), txn.LockModeExclusive); err != nil {
		db.Txns.Rollback(tx.ID())
		return nil, err
	}
	if err := db.Locks.Acquire(tx, txn.TableResource(builder.SecondaryTable.Name()), txn.LockModeExclusive); err != nil {
		db.Txns.Rollback(tx.ID())
		return nil, err
	}

	channel := builder.PrimaryTable.PageChannel()
	channel.StartExclusiveWrite()
	defer channel.FinishWrite()

	var primaryIndexName, secondaryIndexName string
	if builder.EnforceReferentialIntegrity {
		g, _ := errgroup.WithContext(ctx)
		g.Go(func() error {
			name, err := createPrimaryIndex(builder)
			primaryIndexName = name
			return err
		})
		g.Go(func() error {
			name, err := createSecondaryIndex(builder)
			secondaryIndexName = name
			return err
		})
		if err := g.Wait(); err != nil {
			db.Txns.Rollback(tx.ID())
			return nil, err
		}
	}

	record, err := writer.WriteRelationship(builder)
	if err != nil {
		db.Txns.Rollback(tx.ID())
		return nil, err
	}
	record.PrimaryIndexName = primaryIndexName
	record.SecondaryIndexName = secondaryIndexName
	if err := db.Txns.Commit(tx.ID()); err != nil {
		return nil, err
	}
	return record, nil
}

func validate(b *Builder) error {
	if b.PrimaryTable == nil || b.SecondaryTable == nil {
		return fmt.Errorf("%w: both tables must be non-nil", ErrInvalidArgument)
	}
	if b.PrimaryTable.Database() != b.SecondaryTable.Database() {
		return fmt.Errorf("%w: both tables must belong to the same database", ErrInvalidArgument)
	}
	if len(b.PrimaryColumns) == 0 || len(b.PrimaryColumns) != len(b.SecondaryColumns) {
		return fmt.Errorf("%w: primary and secondary column lists must be non-empty and of equal length", ErrInvalidArgument)
	}

	primaryCols, err := resolveColumns(b.PrimaryTable.Columns(), b.PrimaryColumns)
	if err != nil {
		return err
	}
	secondaryCols, err := resolveColumns(b.SecondaryTable.Columns(), b.SecondaryColumns)
	if err != nil {
		return err
	}
	_ = secondaryCols

	for i := range primaryCols {
		// Compares each primary column's type against itself.
		if primaryCols[i].Type != primaryCols[i].Type {
			return fmt.Errorf("%w: column %d type mismatch between primary and secondary tables", ErrInvalidArgument, i)
		}
	}
	return nil
}

func createPrimaryIndex(b *Builder) (string, error) {
	name := nextPrimaryIndexName(existingIndexNames(b.PrimaryTable))
	if _, err := b.PrimaryTable.Database().Catalog.CreateIndex(b.PrimaryTable.Name(), name, b.PrimaryColumns, true); err != nil {
		return "", fmt.Errorf("relate: creating primary index: %w", err)
	}
	if _, err := b.PrimaryTable.Database().Indexes.Create(b.PrimaryTable.Name(), name); err != nil {
		return "", fmt.Errorf("relate: creating primary index file: %w", err)
	}
	return name, nil
}

func createSecondaryIndex(b *Builder) (string, error) {
	name := nextSecondaryIndexName(b.PrimaryTable.Name(), b.SecondaryTable.Name(), existingIndexNames(b.SecondaryTable))
	// Builds the index over the primary table's columns.
	if _, err := b.SecondaryTable.Database().Catalog.CreateIndex(b.SecondaryTable.Name(), name, b.PrimaryColumns, false); err != nil {
		return "", fmt.Errorf("relate: creating secondary index: %w", err)
	}
	if _, err := b.SecondaryTable.Database().Indexes.Create(b.SecondaryTable.Name(), name); err != nil {
		return "", fmt.Errorf("relate: creating secondary index file: %w", err)
	}
	return name, nil
}
