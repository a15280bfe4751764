// Package export writes the approved competence set to a spreadsheet.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/mapping-lia/internal/api"
	"github.com/Veraticus/mapping-lia/internal/feedback"
	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/Veraticus/mapping-lia/internal/service"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the export.
const SheetName = "Approved Competences"

// Header lists the exported columns.
var Header = []string{"Name", "Area", "Category", "Subcategory"}

// Source pages through competences of one status.
type Source interface {
	FetchAll(ctx context.Context, status model.ReviewStatus, onPage api.PageFunc) ([]model.Competence, error)
}

// SheetWriter receives the export in a remote spreadsheet.
type SheetWriter interface {
	Write(ctx context.Context, header []string, rows [][]string) (string, error)
}

// Exporter fetches the approved set and writes it out.
type Exporter struct {
	source Source
	notify service.Notifier
	onPage api.PageFunc
	now    func() time.Time
	logger *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithClock overrides the clock used for the file name.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// WithProgress reports the running count while fetching.
func WithProgress(fn api.PageFunc) Option {
	return func(e *Exporter) { e.onPage = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// New creates an exporter.
func New(source Source, notify service.Notifier, opts ...Option) *Exporter {
	e := &Exporter{
		source: source,
		notify: notify,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Filename returns approved_competences_YYYY-MM-DD.xlsx for t's calendar date.
func Filename(t time.Time) string {
	return fmt.Sprintf("approved_competences_%s.xlsx", t.Format(time.DateOnly))
}

// Rows projects competences to the exported columns.
func Rows(items []model.Competence) [][]string {
	rows := make([][]string, len(items))
	for i, c := range items {
		rows[i] = []string{c.Name, c.AreaName, c.CategoryName, c.SubcategoryName}
	}
	return rows
}

// WriteXLSX encodes header and rows as a workbook.
func WriteXLSX(w io.Writer, rows [][]string) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	for i, row := range rows {
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "D", 32); err != nil {
		return fmt.Errorf("size columns: %w", err)
	}

	return f.Write(w)
}

// Fetch loads every approved competence.
func (e *Exporter) Fetch(ctx context.Context) ([]model.Competence, error) {
	items, err := e.source.FetchAll(ctx, model.StatusApproved, e.onPage)
	if err != nil {
		return nil, fmt.Errorf("load approved competences: %w", err)
	}
	return items, nil
}

// ToFile writes the approved set into dir and returns the file path. The
// workbook is written to a temporary file first and renamed into place, so a
// failure leaves no partial file behind. Failures produce one notification.
func (e *Exporter) ToFile(ctx context.Context, dir string) (string, error) {
	path, count, err := e.toFile(ctx, dir)
	if err != nil {
		e.notify.Error("Failed to export approved competences: " + feedback.Message(err))
		return "", err
	}
	e.notify.Success(fmt.Sprintf("Exported %d approved competences to %s", count, path))
	return path, nil
}

func (e *Exporter) toFile(ctx context.Context, dir string) (string, int, error) {
	items, err := e.Fetch(ctx)
	if err != nil {
		return "", 0, err
	}

	if dir == "" {
		dir = "."
	}
	final := filepath.Join(dir, Filename(e.now()))
	tmp := filepath.Join(dir, "."+uuid.NewString()+".xlsx.tmp")

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("create export file: %w", err)
	}

	writeErr := WriteXLSX(f, Rows(items))
	closeErr := f.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		e.removeTemp(tmp)
		return "", 0, fmt.Errorf("write export file: %w", err)
	}

	if err := os.Rename(tmp, final); err != nil {
		e.removeTemp(tmp)
		return "", 0, fmt.Errorf("move export file into place: %w", err)
	}

	e.logger.Info("Exported approved competences", "path", final, "count", len(items))
	return final, len(items), nil
}

func (e *Exporter) removeTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		e.logger.Warn("Failed to remove temporary export file", "path", path, "error", err)
	}
}

// ToSheets writes the approved set through w and returns the spreadsheet id.
func (e *Exporter) ToSheets(ctx context.Context, w SheetWriter) (string, error) {
	items, err := e.Fetch(ctx)
	if err == nil {
		var id string
		id, err = w.Write(ctx, Header, Rows(items))
		if err == nil {
			e.notify.Success(fmt.Sprintf("Exported %d approved competences to spreadsheet %s", len(items), id))
			return id, nil
		}
	}
	e.notify.Error("Failed to export approved competences: " + feedback.Message(err))
	return "", err
}
