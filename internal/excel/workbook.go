package excel

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/relscope/relscope/internal/domain"
)

const (
	sheetIncidents    = "Incidents"
	sheetCategories   = "Categories"
	sheetAICategories = "AI Categories"
	sheetKeyIssues    = "Key Issues"
	sheetComparative  = "Comparative"

	maxColumnWidth = 50
)

// Writer produces the multi-sheet workbook for one report run
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a workbook writer
func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{logger: logger}
}

// Write saves the workbook to path. AI sheets are only added when an
// AI analysis is present.
func (w *Writer) Write(path string, incidents []domain.Incident, analysis *domain.Analysis, aiAnalysis *domain.AIAnalysis) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			w.logger.Debug("closing workbook", zap.Error(err))
		}
	}()

	if err := w.incidentSheet(f, incidents); err != nil {
		return fmt.Errorf("incidents sheet: %w", err)
	}
	if err := w.categorySheet(f, analysis); err != nil {
		return fmt.Errorf("categories sheet: %w", err)
	}

	if aiAnalysis != nil {
		w.logger.Debug("adding AI analysis sheets")
		if err := w.aiCategorySheet(f, aiAnalysis); err != nil {
			return fmt.Errorf("AI categories sheet: %w", err)
		}
		if err := w.keyIssuesSheet(f, aiAnalysis); err != nil {
			return fmt.Errorf("key issues sheet: %w", err)
		}
		if err := w.comparativeSheet(f, aiAnalysis); err != nil {
			return fmt.Errorf("comparative sheet: %w", err)
		}
	}

	// Drop the default sheet excelize creates.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	w.logger.Info("workbook saved", zap.String("path", path))
	return nil
}

func (w *Writer) incidentSheet(f *excelize.File, incidents []domain.Incident) error {
	rows := [][]any{
		{"Company", "Date", "Title", "Description", "Status", "Duration", "Category", "Severity", "Root Cause"},
	}
	for _, inc := range incidents {
		category := inc.Category
		if category == "" {
			category = "Uncategorized"
		}
		severity := string(inc.Severity)
		if severity == "" {
			severity = string(domain.SeverityUnknown)
		}
		rootCause := inc.RootCause
		if rootCause == "" {
			rootCause = "Unknown"
		}
		rows = append(rows, []any{
			inc.Company,
			inc.Date.Format(time.DateTime),
			inc.Title,
			inc.Description,
			inc.Status,
			inc.Duration,
			category,
			severity,
			rootCause,
		})
	}
	return w.writeSheet(f, sheetIncidents, rows)
}

func (w *Writer) categorySheet(f *excelize.File, analysis *domain.Analysis) error {
	rows := [][]any{{"Category", "Count", "Percentage"}}

	names := make([]string, 0, len(analysis.Categories))
	for name := range analysis.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		stat := analysis.Categories[name]
		rows = append(rows, []any{name, stat.Count, stat.Percentage})
	}
	return w.writeSheet(f, sheetCategories, rows)
}

func (w *Writer) aiCategorySheet(f *excelize.File, aiAnalysis *domain.AIAnalysis) error {
	categories := aiAnalysis.Target.Categories
	if len(categories) == 0 {
		w.logger.Debug("no AI categories, skipping sheet")
		return nil
	}

	rows := [][]any{{"Category", "Description", "Example"}}
	for _, cat := range categories {
		rows = append(rows, []any{cat.Name, cat.Description, cat.ExampleIncident})
	}
	return w.writeSheet(f, sheetAICategories, rows)
}

func (w *Writer) keyIssuesSheet(f *excelize.File, aiAnalysis *domain.AIAnalysis) error {
	issues := aiAnalysis.Target.KeyIssues
	if len(issues) == 0 {
		w.logger.Debug("no AI key issues, skipping sheet")
		return nil
	}

	rows := [][]any{{"Issue", "Impact", "Description", "Frequency"}}
	for _, issue := range issues {
		rows = append(rows, []any{issue.Title, issue.Impact, issue.Description, issue.Frequency})
	}
	return w.writeSheet(f, sheetKeyIssues, rows)
}

func (w *Writer) comparativeSheet(f *excelize.File, aiAnalysis *domain.AIAnalysis) error {
	c := aiAnalysis.Comparative
	rows := [][]any{{"Aspect", "Value"}}
	for _, name := range c.CommonCategories {
		rows = append(rows, []any{"Common category", name})
	}
	for _, name := range c.TargetUnique {
		rows = append(rows, []any{"Target-only category", name})
	}
	for _, name := range c.PeerUnique {
		rows = append(rows, []any{"Peer-only category", name})
	}
	if c.TrendComparison != "" {
		rows = append(rows, []any{"Trend comparison", c.TrendComparison})
	}
	rows = append(rows, []any{"Summary", c.Summary})
	return w.writeSheet(f, sheetComparative, rows)
}

// writeSheet creates a sheet, fills rows and sizes columns to content.
func (w *Writer) writeSheet(f *excelize.File, name string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	widths := make([]int, len(rows[0]))
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, value); err != nil {
				return err
			}
			if c < len(widths) {
				if l := len(fmt.Sprint(value)); l > widths[c] {
					widths[c] = l
				}
			}
		}
	}

	for c, width := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := f.SetColWidth(name, col, col, float64(width+2)); err != nil {
			return err
		}
	}
	return nil
}
