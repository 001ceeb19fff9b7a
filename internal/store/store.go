// Package store provides the tabular storage collaborator used by the
// pipeline. Tables are ordered rows of string cells; row 0 is the header.
package store

// TableStore abstracts the spreadsheet-like backing store. WriteTable is a
// full overwrite; a table that does not exist reads as empty.
type TableStore interface {
	ReadTable(name string) ([][]string, error)
	WriteTable(name string, rows [][]string) error
	ClearTable(name string) error
}
