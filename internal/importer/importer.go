// Package importer turns CSV exports into expenses. The column layout is
// detected from the header row; rows whose date or amount cannot be read are
// skipped.
package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/spendlens/internal/encoding"
	"github.com/MrJamesThe3rd/spendlens/internal/expense"
)

const (
	// FormatAuto detects the profile from the header row.
	FormatAuto = "auto"

	// DefaultCategory is assigned to rows without a category cell value.
	DefaultCategory = "Other"
)

// Result is the outcome of parsing one file.
type Result struct {
	Profile string
	Charset string
	Entries []expense.CreateParams
	Skipped int
	// Uncategorized indexes the entries whose category cell was empty.
	Uncategorized []int
	// Categorized counts the uncategorized entries a rule matched.
	Categorized int
}

// Categorizer assigns categories to the entries at the given indices.
type Categorizer interface {
	Categorize(ctx context.Context, owner string, entries []expense.CreateParams, indices []int) (int, error)
}

type Service struct {
	rules Categorizer
}

// NewService returns an importer. A nil rules leaves uncategorized rows with
// DefaultCategory.
func NewService(rules Categorizer) *Service {
	return &Service{rules: rules}
}

// Parse reads r using the named profile, or FormatAuto, and applies owner's
// category rules to rows without a category. Returned entries have no owner.
func (s *Service) Parse(ctx context.Context, owner string, r io.Reader, format string) (*Result, error) {
	utf8r, charset, err := encoding.Detect(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	candidates := profiles

	if format != "" && format != FormatAuto {
		p, ok := lookupProfile(format)
		if !ok {
			return nil, fmt.Errorf("unknown format: %s", format)
		}

		candidates = []Profile{p}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return &Result{Profile: candidates[0].Name, Charset: charset}, nil
	}

	for _, p := range candidates {
		rows, err := readRows(data, p.Comma)
		if err != nil {
			continue
		}

		cols, headerIdx, ok := detectHeader(p, rows)
		if !ok {
			continue
		}

		res, err := parseRows(p, cols, rows[headerIdx+1:], headerIdx+1)
		if err != nil {
			return nil, err
		}

		res.Charset = charset

		if s.rules != nil {
			n, err := s.rules.Categorize(ctx, owner, res.Entries, res.Uncategorized)
			if err != nil {
				return nil, fmt.Errorf("categorize rows: %w", err)
			}

			res.Categorized = n
		}

		slog.DebugContext(ctx, "parsed csv", "profile", p.Name, "charset", charset,
			"entries", len(res.Entries), "skipped", res.Skipped, "categorized", res.Categorized)

		return res, nil
	}

	return nil, fmt.Errorf("no matching format found: expected columns for %s", profileNames(candidates))
}

func profileNames(ps []Profile) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}

	return strings.Join(names, " or ")
}

func readRows(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps case-folded column names to their index in the row.
type colIndex map[string]int

func (c colIndex) get(name string) int {
	if i, ok := c[strings.ToLower(name)]; ok {
		return i
	}

	return -1
}

func detectHeader(p Profile, rows [][]string) (colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex, len(row))

		for i, cell := range row {
			if name := strings.ToLower(strings.TrimSpace(cell)); name != "" {
				cols[name] = i
			}
		}

		matched := true

		for _, name := range p.requiredCols() {
			if cols.get(name) < 0 {
				matched = false
				break
			}
		}

		if matched {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

// parseRows reads data rows. headerRowNum is the 0-based index of the header.
func parseRows(p Profile, cols colIndex, rows [][]string, headerRowNum int) (*Result, error) {
	res := &Result{Profile: p.Name}

	var (
		dateIdx     = cols.get(p.DateCol)
		categoryIdx = cols.get(p.CategoryCol)
		descIdx     = cols.get(p.DescCol)
		amountIdx   = cols.get(p.AmountCol)
	)

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		if isBlank(row) {
			continue
		}

		date, ok := parseDate(cellValue(row, dateIdx), p.DateLayouts)
		if !ok {
			res.Skipped++
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		amount, err := parseAmount(cellValue(row, amountIdx), p.DecimalComma)
		if err != nil || amount.IsZero() {
			res.Skipped++
			continue
		}

		category := cellValue(row, categoryIdx)
		if category == "" {
			category = DefaultCategory
			res.Uncategorized = append(res.Uncategorized, len(res.Entries))
		}

		res.Entries = append(res.Entries, expense.CreateParams{
			Amount:      amount.Abs(),
			Category:    category,
			Date:        date,
			Description: desc,
		})
	}

	return res, nil
}

func parseDate(s string, layouts []string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
