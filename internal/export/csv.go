// Package export saves timestamped CSV copies of pipeline tables, one folder
// per export type, plus safety backups taken before destructive overwrites.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"inventory-automation-service/internal/models"
)

// Type identifies an export folder.
type Type string

const (
	TypeRaw           Type = "inventory_raw"
	TypeConsolidated  Type = "inventory"
	TypeCatalog       Type = "catalog_snapshot"
	TypeAdd           Type = "import_add"
	TypeUpdate        Type = "import_update"
	TypeLabels        Type = "labels"
	TypeInvoices      Type = "sales_invoices"
	TypeExpenses      Type = "expenses"
	TypeCatalogBackup Type = "catalog_snapshot_BACKUP"
)

// Types lists every known export type.
var Types = []Type{
	TypeRaw,
	TypeConsolidated,
	TypeCatalog,
	TypeAdd,
	TypeUpdate,
	TypeLabels,
	TypeInvoices,
	TypeExpenses,
	TypeCatalogBackup,
}

// ValidType reports whether s names a known export type.
func ValidType(s string) bool {
	for _, t := range Types {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Backups writes and lists CSV exports under a base directory.
type Backups struct {
	baseDir string
	now     func() time.Time
	logger  *logrus.Entry
}

func NewBackups(baseDir string, logger *logrus.Logger) *Backups {
	log := logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Backups{
		baseDir: baseDir,
		now:     time.Now,
		logger:  log.WithField("component", "csv-export"),
	}
}

// Save writes rows as a timestamped CSV under the type's folder and returns
// the file path. Empty data is skipped without error.
func (b *Backups) Save(t Type, rows [][]string) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	dir := filepath.Join(b.baseDir, string(t))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s.csv", t, b.now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}

	b.logger.WithFields(logrus.Fields{"type": string(t), "path": path, "rows": len(rows)}).Info("Saved CSV export")
	return path, nil
}

// SafetyBackup saves the catalog snapshot before it is cleared. Unlike
// regular exports it never consults the auto-export setting.
func (b *Backups) SafetyBackup(rows [][]string) (string, error) {
	return b.Save(TypeCatalogBackup, rows)
}

// List returns the saved files for a type, newest first. An unknown type is
// an error; a type with no folder yet lists as empty.
func (b *Backups) List(t Type) ([]models.ExportFile, error) {
	if !ValidType(string(t)) {
		return nil, fmt.Errorf("unknown export type %q", t)
	}

	dir := filepath.Join(b.baseDir, string(t))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list exports: %w", err)
	}

	var files []models.ExportFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, models.ExportFile{
			Type:      string(t),
			Name:      e.Name(),
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name > files[j].Name })
	return files, nil
}

// ListAll returns saved files across every type, newest first.
func (b *Backups) ListAll() ([]models.ExportFile, error) {
	var all []models.ExportFile
	for _, t := range Types {
		files, err := b.List(t)
		if err != nil {
			return nil, err
		}
		all = append(all, files...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name > all[j].Name })
	return all, nil
}

// FilePath resolves a previously saved export for download. The name is
// restricted to a bare file name inside the type's folder.
func (b *Backups) FilePath(t Type, name string) (string, error) {
	if !ValidType(string(t)) {
		return "", fmt.Errorf("unknown export type %q", t)
	}
	if name == "" || name != filepath.Base(name) || !strings.HasSuffix(name, ".csv") {
		return "", fmt.Errorf("invalid export file name %q", name)
	}

	path := filepath.Join(b.baseDir, string(t), name)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("export file not found: %w", err)
	}
	return path, nil
}
