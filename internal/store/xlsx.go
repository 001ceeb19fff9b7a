package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
)

// WorkbookStore is a TableStore backed by a single XLSX workbook on disk.
// Each table is a worksheet. Operations are serialized; the pipeline is
// sequential but HTTP handlers may overlap.
type WorkbookStore struct {
	mu   sync.Mutex
	path string
}

var _ TableStore = (*WorkbookStore)(nil)

func NewWorkbookStore(path string) *WorkbookStore {
	return &WorkbookStore{path: path}
}

// ReadTable returns all rows of the named sheet. A missing workbook or sheet
// reads as an empty table.
func (s *WorkbookStore) ReadTable(name string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(name); idx < 0 {
		return nil, nil
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}
	return rows, nil
}

// WriteTable replaces the named sheet with the given rows in one save.
func (s *WorkbookStore) WriteTable(name string, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, created, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := resetSheet(f, name); err != nil {
		return err
	}
	if created && name != "Sheet1" {
		// Drop the default sheet from the fresh workbook.
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("drop default sheet: %w", err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("write sheet %s: %w", name, err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("write sheet %s row %d: %w", name, i+1, err)
		}
	}

	return s.save(f, created)
}

// ClearTable empties the named sheet, creating it if absent.
func (s *WorkbookStore) ClearTable(name string) error {
	return s.WriteTable(name, nil)
}

func (s *WorkbookStore) open() (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(s.path)
	if err == nil {
		return f, false, nil
	}
	if os.IsNotExist(err) {
		return excelize.NewFile(), true, nil
	}
	return nil, false, fmt.Errorf("open workbook %s: %w", s.path, err)
}

func (s *WorkbookStore) save(f *excelize.File, created bool) error {
	if created {
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return fmt.Errorf("create workbook dir: %w", err)
		}
		if err := f.SaveAs(s.path); err != nil {
			return fmt.Errorf("save workbook %s: %w", s.path, err)
		}
		return nil
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook %s: %w", s.path, err)
	}
	return nil
}

// resetSheet leaves the workbook with an empty sheet of the given name. A
// scratch sheet keeps the workbook valid while the target is recreated, since
// a workbook must always contain at least one sheet.
func resetSheet(f *excelize.File, name string) error {
	const scratch = "__scratch__"

	if idx, _ := f.GetSheetIndex(name); idx >= 0 {
		if _, err := f.NewSheet(scratch); err != nil {
			return fmt.Errorf("reset sheet %s: %w", name, err)
		}
		if err := f.DeleteSheet(name); err != nil {
			return fmt.Errorf("reset sheet %s: %w", name, err)
		}
	}

	idx, err := f.NewSheet(name)
	if err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	f.SetActiveSheet(idx)

	if i, _ := f.GetSheetIndex(scratch); i >= 0 {
		if err := f.DeleteSheet(scratch); err != nil {
			return fmt.Errorf("drop scratch sheet: %w", err)
		}
	}
	return nil
}
