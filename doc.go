// Package accessdb wires together the storage, catalog, write-ahead
// logging, cursor and relationship components into a single database
// handle: open or create a file, resolve tables, scan or mutate rows
// through a cursor, and declare relationships between tables.
package accessdb
