// Package pipeline implements the inventory automation pipeline: catalog
// sync, raw intake consolidation with catalog matching, and bulk-import
// export shaping.
package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"inventory-automation-service/internal/export"
	"inventory-automation-service/internal/models"
	"inventory-automation-service/internal/store"
)

// CatalogSource fetches data from the remote billing system.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) ([]models.CatalogItem, error)
	FetchSalesInvoices(ctx context.Context, start, end time.Time) ([]models.SalesInvoice, error)
	FetchExpenses(ctx context.Context, start, end time.Time) ([]models.Expense, error)
}

// Mirror persists remote snapshots into the local database.
type Mirror interface {
	ReplaceCatalog(ctx context.Context, items []models.CatalogItem) error
	ReplaceInvoices(ctx context.Context, invoices []models.SalesInvoice) error
	ReplaceExpenses(ctx context.Context, expenses []models.Expense) error
}

// BackupWriter saves timestamped CSV copies of pipeline tables.
type BackupWriter interface {
	Save(t export.Type, rows [][]string) (string, error)
	SafetyBackup(rows [][]string) (string, error)
}

// EventSink publishes pipeline stage events. Implementations may be absent;
// the pipeline treats a nil sink as "publishing disabled".
type EventSink interface {
	PublishStageCompleted(ctx context.Context, stage, runID string, counts map[string]int) error
}

// Tables names the worksheets the pipeline reads and writes.
type Tables struct {
	Raw          string
	Consolidated string
	Catalog      string
	Add          string
	Update       string
	Labels       string
	Invoices     string
	Expenses     string
}

// Pipeline wires the stages to their collaborators. Each run is one-shot and
// sequential; downstream tables are replaced in a single write only after
// their content is fully computed.
type Pipeline struct {
	store   store.TableStore
	source  CatalogSource
	mirror  Mirror
	backups BackupWriter
	events  EventSink
	rng     *rand.Rand
	tables  Tables
	logger  *logrus.Entry
}

func New(st store.TableStore, source CatalogSource, mirror Mirror, backups BackupWriter, events EventSink, rng *rand.Rand, tables Tables, logger *logrus.Logger) *Pipeline {
	log := logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pipeline{
		store:   st,
		source:  source,
		mirror:  mirror,
		backups: backups,
		events:  events,
		rng:     rng,
		tables:  tables,
		logger:  log.WithField("component", "pipeline"),
	}
}

// Sync pulls the remote catalog, replaces the catalog snapshot table, and
// mirrors it into the database. With syncDocuments it also pulls sales
// invoices and expenses for the last year. A safety backup of the previous
// snapshot is taken before it is overwritten.
func (p *Pipeline) Sync(ctx context.Context, syncDocuments, autoExport bool) (*models.SyncResult, error) {
	runID := uuid.NewString()
	log := p.logger.WithField("runId", runID)

	items, err := p.source.FetchCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	log.WithField("items", len(items)).Info("Fetched remote catalog")

	if prev, err := p.store.ReadTable(p.tables.Catalog); err == nil && len(prev) > 1 && p.backups != nil {
		if _, err := p.backups.SafetyBackup(prev); err != nil {
			// The sync still proceeds; the remote system remains the source
			// of truth for the snapshot being replaced.
			log.WithError(err).Warn("Safety backup failed, proceeding without it")
		}
	} else if err != nil {
		return nil, fmt.Errorf("read catalog table: %w", err)
	}

	rows := catalogTableRows(items)
	if err := p.store.WriteTable(p.tables.Catalog, rows); err != nil {
		return nil, fmt.Errorf("write catalog table: %w", err)
	}

	if p.mirror != nil {
		if err := p.mirror.ReplaceCatalog(ctx, items); err != nil {
			return nil, fmt.Errorf("mirror catalog: %w", err)
		}
	}

	if autoExport {
		p.saveBackup(log, export.TypeCatalog, rows)
	}

	result := &models.SyncResult{RunID: runID, ItemCount: len(items)}

	if syncDocuments {
		if err := p.syncDocuments(ctx, log, result, autoExport); err != nil {
			return nil, err
		}
	}

	p.publish(ctx, "sync", runID, map[string]int{
		"items":    result.ItemCount,
		"invoices": result.InvoiceCount,
		"expenses": result.ExpenseCount,
	})
	return result, nil
}

func (p *Pipeline) syncDocuments(ctx context.Context, log *logrus.Entry, result *models.SyncResult, autoExport bool) error {
	end := time.Now()
	start := end.AddDate(-1, 0, 0)

	invoices, err := p.source.FetchSalesInvoices(ctx, start, end)
	if err != nil {
		return fmt.Errorf("fetch sales invoices: %w", err)
	}
	invoiceRows := invoiceTableRows(invoices)
	if err := p.store.WriteTable(p.tables.Invoices, invoiceRows); err != nil {
		return fmt.Errorf("write invoices table: %w", err)
	}

	expenses, err := p.source.FetchExpenses(ctx, start, end)
	if err != nil {
		return fmt.Errorf("fetch expenses: %w", err)
	}
	expenseRows := expenseTableRows(expenses)
	if err := p.store.WriteTable(p.tables.Expenses, expenseRows); err != nil {
		return fmt.Errorf("write expenses table: %w", err)
	}

	if p.mirror != nil {
		if err := p.mirror.ReplaceInvoices(ctx, invoices); err != nil {
			return fmt.Errorf("mirror invoices: %w", err)
		}
		if err := p.mirror.ReplaceExpenses(ctx, expenses); err != nil {
			return fmt.Errorf("mirror expenses: %w", err)
		}
	}

	if autoExport {
		p.saveBackup(log, export.TypeInvoices, invoiceRows)
		p.saveBackup(log, export.TypeExpenses, expenseRows)
	}

	result.InvoiceCount = len(invoices)
	result.ExpenseCount = len(expenses)
	log.WithFields(logrus.Fields{
		"invoices": len(invoices),
		"expenses": len(expenses),
	}).Info("Synced remote documents")
	return nil
}

// Consolidate groups the raw intake table, matches each group against the
// catalog snapshot, and replaces the consolidated table.
func (p *Pipeline) Consolidate(ctx context.Context, autoExport bool) (*models.ConsolidateResult, error) {
	runID := uuid.NewString()
	log := p.logger.WithField("runId", runID)

	rawRows, err := p.store.ReadTable(p.tables.Raw)
	if err != nil {
		return nil, fmt.Errorf("read raw intake table: %w", err)
	}
	if len(rawRows) == 0 {
		return nil, fmt.Errorf("raw intake table %q: %w", p.tables.Raw, ErrInputMissing)
	}

	catalogRows, err := p.store.ReadTable(p.tables.Catalog)
	if err != nil {
		return nil, fmt.Errorf("read catalog table: %w", err)
	}
	var catalog []models.CatalogItem
	if len(catalogRows) > 1 {
		catalog = catalogFromTableRows(catalogRows[1:])
	}

	raw := NormalizeRawRows(rawRows[1:])
	items := NewConsolidator(p.rng).Run(raw, catalog)

	outRows := consolidatedTableRows(items)
	if err := p.store.WriteTable(p.tables.Consolidated, outRows); err != nil {
		return nil, fmt.Errorf("write consolidated table: %w", err)
	}

	matched := 0
	for _, it := range items {
		if it.AlreadyPresent {
			matched++
		}
	}

	if autoExport {
		p.saveBackup(log, export.TypeRaw, rawRows)
		p.saveBackup(log, export.TypeConsolidated, outRows)
	}

	log.WithFields(logrus.Fields{
		"rawRows": len(raw),
		"items":   len(items),
		"matched": matched,
	}).Info("Consolidated raw intake")

	p.publish(ctx, "consolidate", runID, map[string]int{"items": len(items), "matched": matched})

	return &models.ConsolidateResult{
		RunID:     runID,
		RawRows:   len(raw),
		Items:     len(items),
		Matched:   matched,
		Unmatched: len(items) - matched,
	}, nil
}

// Export partitions the consolidated table into the add and update import
// tables. Both batches are computed before either table is written.
func (p *Pipeline) Export(ctx context.Context, autoExport bool) (*models.ExportResult, error) {
	runID := uuid.NewString()
	log := p.logger.WithField("runId", runID)

	rows, err := p.store.ReadTable(p.tables.Consolidated)
	if err != nil {
		return nil, fmt.Errorf("read consolidated table: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("consolidated table %q: %w", p.tables.Consolidated, ErrInputMissing)
	}

	items := consolidatedFromTableRows(rows[1:])
	add, update := BuildExports(items)

	if err := p.store.WriteTable(p.tables.Add, add); err != nil {
		return nil, fmt.Errorf("write add table: %w", err)
	}
	if err := p.store.WriteTable(p.tables.Update, update); err != nil {
		return nil, fmt.Errorf("write update table: %w", err)
	}

	if autoExport {
		p.saveBackup(log, export.TypeAdd, add)
		p.saveBackup(log, export.TypeUpdate, update)
	}

	result := &models.ExportResult{
		RunID:       runID,
		AddCount:    len(add) - 1,
		UpdateCount: len(update) - 1,
	}

	log.WithFields(logrus.Fields{
		"add":    result.AddCount,
		"update": result.UpdateCount,
	}).Info("Built import batches")

	p.publish(ctx, "export", runID, map[string]int{"add": result.AddCount, "update": result.UpdateCount})
	return result, nil
}

// RunAll executes sync, consolidate, and export in sequence.
func (p *Pipeline) RunAll(ctx context.Context, syncDocuments, autoExport bool) (*models.RunAllResult, error) {
	runID := uuid.NewString()

	syncRes, err := p.Sync(ctx, syncDocuments, autoExport)
	if err != nil {
		return nil, fmt.Errorf("sync stage: %w", err)
	}
	consRes, err := p.Consolidate(ctx, autoExport)
	if err != nil {
		return nil, fmt.Errorf("consolidate stage: %w", err)
	}
	exportRes, err := p.Export(ctx, autoExport)
	if err != nil {
		return nil, fmt.Errorf("export stage: %w", err)
	}

	return &models.RunAllResult{
		RunID:       runID,
		Sync:        *syncRes,
		Consolidate: *consRes,
		Export:      *exportRes,
	}, nil
}

// BuildLabelTable rebuilds the label-printing table from the consolidated
// table, one row per unit of stock.
func (p *Pipeline) BuildLabelTable(ctx context.Context, autoExport bool) (*models.LabelsResult, error) {
	runID := uuid.NewString()
	log := p.logger.WithField("runId", runID)

	rows, err := p.store.ReadTable(p.tables.Consolidated)
	if err != nil {
		return nil, fmt.Errorf("read consolidated table: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("consolidated table %q: %w", p.tables.Consolidated, ErrInputMissing)
	}

	labels := BuildLabels(consolidatedFromTableRows(rows[1:]))

	out := make([][]string, 0, len(labels)+1)
	out = append(out, LabelHeaders)
	for _, l := range labels {
		out = append(out, []string{l.Product, l.Barcode, l.Price})
	}

	if err := p.store.WriteTable(p.tables.Labels, out); err != nil {
		return nil, fmt.Errorf("write labels table: %w", err)
	}

	if autoExport {
		p.saveBackup(log, export.TypeLabels, out)
	}

	log.WithField("labels", len(labels)).Info("Built label table")
	p.publish(ctx, "labels", runID, map[string]int{"labels": len(labels)})

	return &models.LabelsResult{RunID: runID, LabelCount: len(labels)}, nil
}

func (p *Pipeline) saveBackup(log *logrus.Entry, t export.Type, rows [][]string) {
	if p.backups == nil {
		return
	}
	path, err := p.backups.Save(t, rows)
	if err != nil {
		log.WithError(err).WithField("type", string(t)).Warn("CSV backup failed")
		return
	}
	log.WithField("path", path).Debug("Saved CSV backup")
}

func (p *Pipeline) publish(ctx context.Context, stage, runID string, counts map[string]int) {
	if p.events == nil {
		return
	}
	if err := p.events.PublishStageCompleted(ctx, stage, runID, counts); err != nil {
		p.logger.WithError(err).WithField("stage", stage).Warn("Failed to publish stage event")
	}
}
