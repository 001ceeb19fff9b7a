package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) *WorkbookStore {
	t.Helper()
	return NewWorkbookStore(filepath.Join(t.TempDir(), "data", "inventory.xlsx"))
}

func TestReadTableMissingWorkbook(t *testing.T) {
	s := newTestStore(t)

	rows, err := s.ReadTable("Inventory")

	assert.NoError(t, err)
	assert.Nil(t, rows)
}

func TestWriteTableRoundTrip(t *testing.T) {
	s := newTestStore(t)
	in := [][]string{
		{"Category", "Item Name", "Cost Price"},
		{"Rings", "Rings Gold ABCD", "100"},
	}

	err := s.WriteTable("Inventory", in)
	assert.NoError(t, err)

	out, err := s.ReadTable("Inventory")
	assert.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadTableMissingSheet(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.WriteTable("Inventory", [][]string{{"a"}}))

	rows, err := s.ReadTable("Labels")

	assert.NoError(t, err)
	assert.Nil(t, rows)
}

func TestWriteTableReplacesExistingRows(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.WriteTable("Inventory", [][]string{
		{"h1", "h2"},
		{"old", "row"},
		{"another", "row"},
	}))

	assert.NoError(t, s.WriteTable("Inventory", [][]string{{"h1", "h2"}}))

	rows, err := s.ReadTable("Inventory")
	assert.NoError(t, err)
	assert.Equal(t, [][]string{{"h1", "h2"}}, rows)
}

func TestWriteTablePreservesOtherSheets(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.WriteTable("Inventory", [][]string{{"inv"}}))
	assert.NoError(t, s.WriteTable("Labels", [][]string{{"lbl"}}))

	assert.NoError(t, s.WriteTable("Inventory", [][]string{{"replaced"}}))

	rows, err := s.ReadTable("Labels")
	assert.NoError(t, err)
	assert.Equal(t, [][]string{{"lbl"}}, rows)
}

func TestClearTable(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.WriteTable("Inventory", [][]string{{"h"}, {"r"}}))

	assert.NoError(t, s.ClearTable("Inventory"))

	rows, err := s.ReadTable("Inventory")
	assert.NoError(t, err)
	assert.Empty(t, rows)
}
