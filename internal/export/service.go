// Package export bundles an owner's expenses into a zip archive that can be
// re-imported and read without the service: the expenses as CSV in the
// standard import layout, the markdown reports and the charts.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/MrJamesThe3rd/spendlens/internal/analytics"
	"github.com/MrJamesThe3rd/spendlens/internal/currency"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
	"github.com/MrJamesThe3rd/spendlens/internal/report"
)

const (
	FileExpenses      = "expenses.csv"
	FileSummary       = "summary.md"
	FileInsights      = "insights.md"
	FileCategoryChart = "charts/category.png"
	FileMonthlyChart  = "charts/monthly.png"
)

// csvHeader matches the standard import profile.
var csvHeader = []string{"Date", "Category", "Description", "Amount"}

// Source lists an owner's expenses.
type Source interface {
	Expenses(ctx context.Context, owner string, filter expense.ListFilter) ([]*expense.Expense, error)
}

// Result describes a written archive.
type Result struct {
	Expenses int
	Files    []string
}

type Service struct {
	source Source
	conv   currency.Converter
	now    func() time.Time
}

func NewService(source Source, conv currency.Converter) *Service {
	return &Service{source: source, conv: conv, now: time.Now}
}

// Filename is the suggested archive name for downloads.
func (s *Service) Filename() string {
	return fmt.Sprintf("spendlens_%s.zip", s.now().Format("20060102"))
}

// Export writes the archive for the owner's expenses matching filter. Reports
// and charts cover the same expenses as the CSV. Charts are omitted when there
// is nothing to plot.
func (s *Service) Export(ctx context.Context, w io.Writer, owner string, filter expense.ListFilter) (*Result, error) {
	es, err := s.source.Expenses(ctx, owner, filter)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	summary := analytics.ComputeSummary(es)
	res := &Result{Expenses: len(es)}

	zw := zip.NewWriter(w)

	entries := []struct {
		name  string
		write func(io.Writer) error
	}{
		{FileExpenses, func(w io.Writer) error { return WriteCSV(w, es) }},
		{FileSummary, func(w io.Writer) error { return report.WriteSummary(w, summary, s.conv) }},
		{FileInsights, func(w io.Writer) error { return report.WriteInsights(w, analytics.Analyze(es), s.conv) }},
		{FileCategoryChart, func(w io.Writer) error { return report.CategoryChart(w, summary) }},
		{FileMonthlyChart, func(w io.Writer) error { return report.MonthlyChart(w, summary) }},
	}

	for _, e := range entries {
		if err := s.add(zw, e.name, e.write); err != nil {
			if errors.Is(err, report.ErrNoData) {
				continue
			}

			zw.Close()

			return nil, err
		}

		res.Files = append(res.Files, e.name)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	return res, nil
}

// add renders into memory first so a chart without data leaves no empty entry.
func (s *Service) add(zw *zip.Writer, name string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	f, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: s.now(),
	})
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}

	if _, err := buf.WriteTo(f); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}

// WriteCSV writes es in the standard import layout with base-currency amounts.
func WriteCSV(w io.Writer, es []*expense.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, e := range es {
		record := []string{
			e.Date.Format(time.DateOnly),
			e.Category,
			e.Description,
			e.Amount.StringFixed(2),
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing expense %s: %w", e.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}
