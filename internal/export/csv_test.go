package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestBackups(t *testing.T) *Backups {
	t.Helper()
	b := NewBackups(t.TempDir(), nil)
	return b
}

func TestSaveWritesTimestampedCSV(t *testing.T) {
	b := newTestBackups(t)
	b.now = func() time.Time { return time.Date(2026, 8, 28, 10, 30, 0, 0, time.UTC) }

	path, err := b.Save(TypeConsolidated, [][]string{
		{"Category", "Item Name"},
		{"Rings", "Rings Gold, ABCD"},
	})

	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(b.baseDir, "inventory", "inventory_20260828_103000.csv"), path)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "Category,Item Name\nRings,\"Rings Gold, ABCD\"\n", string(data))
}

func TestSaveSkipsEmptyData(t *testing.T) {
	b := newTestBackups(t)

	path, err := b.Save(TypeConsolidated, nil)

	assert.NoError(t, err)
	assert.Empty(t, path)
}

func TestSafetyBackupUsesBackupFolder(t *testing.T) {
	b := newTestBackups(t)

	path, err := b.SafetyBackup([][]string{{"h"}})

	assert.NoError(t, err)
	assert.Contains(t, path, string(TypeCatalogBackup))
}

func TestListNewestFirst(t *testing.T) {
	b := newTestBackups(t)
	ts := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		b.now = func() time.Time { return ts.Add(time.Duration(i) * time.Minute) }
		_, err := b.Save(TypeAdd, [][]string{{"h"}})
		assert.NoError(t, err)
	}

	files, err := b.List(TypeAdd)

	assert.NoError(t, err)
	assert.Len(t, files, 3)
	assert.Equal(t, "import_add_20260828_090200.csv", files[0].Name)
	assert.Equal(t, "import_add_20260828_090000.csv", files[2].Name)
}

func TestListUnknownType(t *testing.T) {
	b := newTestBackups(t)

	_, err := b.List(Type("bogus"))

	assert.Error(t, err)
}

func TestListMissingFolder(t *testing.T) {
	b := newTestBackups(t)

	files, err := b.List(TypeLabels)

	assert.NoError(t, err)
	assert.Empty(t, files)
}

func TestListAllSpansTypes(t *testing.T) {
	b := newTestBackups(t)
	b.now = func() time.Time { return time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC) }
	_, err := b.Save(TypeAdd, [][]string{{"h"}})
	assert.NoError(t, err)
	_, err = b.Save(TypeUpdate, [][]string{{"h"}})
	assert.NoError(t, err)

	files, err := b.ListAll()

	assert.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFilePathResolvesSavedExport(t *testing.T) {
	b := newTestBackups(t)
	b.now = func() time.Time { return time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC) }
	saved, err := b.Save(TypeAdd, [][]string{{"h"}})
	assert.NoError(t, err)

	path, err := b.FilePath(TypeAdd, filepath.Base(saved))

	assert.NoError(t, err)
	assert.Equal(t, saved, path)
}

func TestFilePathRejectsTraversal(t *testing.T) {
	b := newTestBackups(t)

	_, err := b.FilePath(TypeAdd, "../../etc/passwd")
	assert.Error(t, err)

	_, err = b.FilePath(TypeAdd, "notes.txt")
	assert.Error(t, err)

	_, err = b.FilePath(Type("bogus"), "file.csv")
	assert.Error(t, err)
}

func TestFilePathMissingFile(t *testing.T) {
	b := newTestBackups(t)

	_, err := b.FilePath(TypeAdd, "import_add_20260101_000000.csv")

	assert.Error(t, err)
}
