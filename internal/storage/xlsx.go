package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/guttosm/fxpulse/internal/domain/models"
	"github.com/guttosm/fxpulse/internal/logger"
	"github.com/guttosm/fxpulse/internal/trend"
)

const DefaultSheet = "quotes"

// XLSXStore keeps the table in a single-sheet workbook.
//
// Load maps header names to fields, so column order and extra columns written
// by other tools are tolerated. Rows whose price cannot be read are skipped.
// Save writes a temporary workbook next to the target and renames it over the
// target, so readers never see a half-written file.
type XLSXStore struct {
	path  string
	sheet string
	cols  Columns
}

func NewXLSXStore(path, sheet string, cols Columns) *XLSXStore {
	if strings.TrimSpace(sheet) == "" {
		sheet = DefaultSheet
	}
	return &XLSXStore{path: path, sheet: sheet, cols: cols.WithDefaults()}
}

func (s *XLSXStore) Path() string { return s.path }

// Load reads the persisted table.
//
// Returns:
//   - ErrNotFound when the workbook does not exist.
//   - ErrCorrupt when it cannot be opened or lacks the timestamp/asset/price columns.
func (s *XLSXStore) Load(ctx context.Context) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: open %s: %v", ErrCorrupt, s.path, err)
	}
	defer func() { _ = f.Close() }()

	sheet, err := s.resolveSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read rows: %v", ErrCorrupt, err)
	}
	if len(rows) == 0 {
		return []models.Record{}, nil
	}

	pos, err := s.columnPositions(rows[0])
	if err != nil {
		return nil, err
	}

	out := make([]models.Record, 0, len(rows)-1)
	skipped := 0
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec, err := rowToRecord(row, pos)
		if err != nil {
			skipped++
			logger.L().Warn().Str("file", s.path).Int("row", i+2).Err(err).Msg("workbook row skipped")
			continue
		}
		out = append(out, rec)
	}
	if skipped > 0 {
		logger.L().Warn().Str("file", s.path).Int("skipped", skipped).Int("rows", len(out)).Msg("workbook loaded with skipped rows")
	}
	return out, nil
}

// Save rewrites the workbook with records, header first.
func (s *XLSXStore) Save(ctx context.Context, records []models.Record) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".fxpulse-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp workbook: %w", err)
	}
	tmpName := tmp.Name()
	closed := false
	defer func() {
		if !closed {
			_ = tmp.Close()
		}
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := s.writeSheet(f, records); err != nil {
		return err
	}
	if err := f.Write(tmp); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync workbook: %w", err)
	}
	closed = true
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close workbook: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

// Ping reports whether the workbook is readable. A missing workbook is fine.
func (s *XLSXStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return f.Close()
}

func (s *XLSXStore) writeSheet(f *excelize.File, records []models.Record) error {
	if def := f.GetSheetName(0); def != s.sheet {
		if err := f.SetSheetName(def, s.sheet); err != nil {
			return fmt.Errorf("name sheet: %w", err)
		}
	}

	sw, err := f.NewStreamWriter(s.sheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	header := s.cols.Header()
	hdr := make([]interface{}, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := sw.SetRow("A1", hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.Timestamp,
			r.Date,
			r.Asset,
			r.Price.InexactFloat64(),
			r.ChangePct,
			r.Trend,
			r.Icon,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return sw.Flush()
}

func (s *XLSXStore) resolveSheet(f *excelize.File) (string, error) {
	if idx, err := f.GetSheetIndex(s.sheet); err == nil && idx >= 0 {
		return s.sheet, nil
	}
	// Workbooks written by other tools usually keep the default sheet name.
	list := f.GetSheetList()
	if len(list) == 0 {
		return "", fmt.Errorf("%w: workbook has no sheets", ErrCorrupt)
	}
	return list[0], nil
}

// fieldPos holds the column index of each field; -1 when absent.
type fieldPos struct {
	timestamp, date, asset, price, change, trend, icon int
}

func (s *XLSXStore) columnPositions(header []string) (fieldPos, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		k := strings.ToLower(strings.TrimSpace(h))
		if _, dup := idx[k]; !dup {
			idx[k] = i
		}
	}
	find := func(name string) int {
		if i, ok := idx[strings.ToLower(name)]; ok {
			return i
		}
		return -1
	}
	p := fieldPos{
		timestamp: find(s.cols.Timestamp),
		date:      find(s.cols.Date),
		asset:     find(s.cols.Asset),
		price:     find(s.cols.Price),
		change:    find(s.cols.Change),
		trend:     find(s.cols.Trend),
		icon:      find(s.cols.Icon),
	}

	var missing []string
	if p.timestamp < 0 {
		missing = append(missing, s.cols.Timestamp)
	}
	if p.asset < 0 {
		missing = append(missing, s.cols.Asset)
	}
	if p.price < 0 {
		missing = append(missing, s.cols.Price)
	}
	if len(missing) > 0 {
		return p, fmt.Errorf("%w: missing columns %s", ErrCorrupt, strings.Join(missing, ", "))
	}
	return p, nil
}

func rowToRecord(row []string, p fieldPos) (models.Record, error) {
	var r models.Record

	r.Timestamp = cell(row, p.timestamp)
	r.Date = cell(row, p.date)
	r.Asset = cell(row, p.asset)
	if r.Asset == "" {
		return r, errors.New("empty asset")
	}

	price := strings.ReplaceAll(cell(row, p.price), ",", ".")
	v, err := decimal.NewFromString(price)
	if err != nil {
		return r, fmt.Errorf("invalid price %q", price)
	}
	r.Price = v

	r.ChangePct = cell(row, p.change)
	label := trend.ParseLabel(cell(row, p.trend))
	r.Trend = string(label)
	r.Icon = cell(row, p.icon)
	if r.Icon == "" {
		r.Icon = trend.IconFor(label)
	}
	return r, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
