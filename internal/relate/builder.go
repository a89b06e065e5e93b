// Package relate validates and persists relationship records linking a
// primary table's columns to a secondary table's columns, generating
// unique backing index names in the process.
package relate

import "github.com/example/accessdb/internal/cursor"

// Builder collects the inputs to CreateRelationship. It is a plain value
// the caller fills in and hands to CreateRelationship; it carries no
// behaviour of its own.
type Builder struct {
	Name           string
	PrimaryTable   *cursor.Table
	SecondaryTable *cursor.Table
	PrimaryColumns []string
	SecondaryColumns []string
	Flags          uint32

	// EnforceReferentialIntegrity requests that a unique index be created
	// on the primary columns and a non-unique index on the secondary
	// columns as part of relationship creation.
	EnforceReferentialIntegrity bool
}
