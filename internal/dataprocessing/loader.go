package dataprocessing

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"salescli/internal/config"
	"salescli/internal/errors"
	"salescli/pkg/contracts/domain"
)

const utf8BOM = "\uFEFF"

// LoaderOptions controls how input files are read
type LoaderOptions struct {
	Delimiter rune
	Sheet     string // xlsx only; first sheet when empty
}

// LoaderOptionsFromConfig maps the input section of the configuration
func LoaderOptionsFromConfig(cfg config.InputConfig) LoaderOptions {
	opts := LoaderOptions{Delimiter: ',', Sheet: cfg.Sheet}
	if cfg.Delimiter != "" {
		opts.Delimiter = []rune(cfg.Delimiter)[0]
	}
	return opts
}

// Loader reads a transaction file into a RawTable. Column types come from
// domain.TransactionSchema; nothing is inferred from cell content.
type Loader struct {
	opts   LoaderOptions
	logger *slog.Logger
}

// NewLoader creates a loader
func NewLoader(opts LoaderOptions, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	return &Loader{opts: opts, logger: logger.With("component", "loader")}
}

// Load reads path. Files ending in .xlsx are read as workbooks, anything else
// as delimited text.
func (l *Loader) Load(ctx context.Context, path string) (*domain.RawTable, error) {
	start := time.Now()

	var (
		rows [][]string
		err  error
	)
	isWorkbook := strings.EqualFold(filepath.Ext(path), ".xlsx")
	if isWorkbook {
		rows, err = l.readWorkbook(path)
	} else {
		rows, err = l.readDelimited(path)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, errors.NewSchemaError(path, "file is empty, expected a header row")
	}

	index, err := headerIndex(path, rows[0])
	if err != nil {
		return nil, err
	}

	table := &domain.RawTable{
		Source:  path,
		Records: make([]domain.RawTransaction, 0, len(rows)-1),
		Missing: make(map[string]int, len(domain.TransactionSchema.Fields())),
	}
	for _, f := range domain.TransactionSchema.Fields() {
		table.Missing[f.Name] = 0
	}

	for i, cells := range rows[1:] {
		// Header is row 1 of the file
		rowNum := i + 2
		if isBlankRow(cells) {
			continue
		}
		rec, err := parseRow(path, rowNum, cells, index, isWorkbook, table.Missing)
		if err != nil {
			return nil, err
		}
		table.Records = append(table.Records, rec)
	}

	l.logger.InfoContext(ctx, "Transactions loaded",
		slog.String("file", path),
		slog.Int("rows", table.Len()),
		slog.Duration("duration", time.Since(start)))

	return table, nil
}

func (l *Loader) readDelimited(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewLoadError(path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = l.opts.Delimiter

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewLoadError(path, err)
		}
		rows = append(rows, record)
	}

	// Remove BOM if present
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}
	return rows, nil
}

func (l *Loader) readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewLoadError(path, err)
	}
	defer f.Close()

	sheet := l.opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.NewLoadError(path, fmt.Errorf("workbook has no sheets"))
		}
		sheet = sheets[0]
	}

	// Raw values keep dates and times as serial numbers instead of the
	// number format's display text
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.NewLoadError(path, fmt.Errorf("sheet %q: %w", sheet, err))
	}

	l.logger.Debug("Workbook sheet selected",
		slog.String("sheet", sheet),
		slog.Int("rows", len(rows)))
	return rows, nil
}

// headerIndex maps column names to cell positions. The header must hold
// exactly the declared columns, in any order.
func headerIndex(path string, header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	var unexpected, duplicated []string
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" && i == len(header)-1 {
			// Trailing delimiter
			continue
		}
		if _, ok := domain.TransactionSchema.FieldsByName(name); !ok {
			unexpected = append(unexpected, name)
			continue
		}
		if _, seen := index[name]; seen {
			duplicated = append(duplicated, name)
			continue
		}
		index[name] = i
	}

	var missing []string
	for _, f := range domain.TransactionSchema.Fields() {
		if _, ok := index[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}

	if len(missing) == 0 && len(unexpected) == 0 && len(duplicated) == 0 {
		return index, nil
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing columns %v", missing))
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		parts = append(parts, fmt.Sprintf("unexpected columns %v", unexpected))
	}
	if len(duplicated) > 0 {
		parts = append(parts, fmt.Sprintf("duplicate columns %v", duplicated))
	}
	return nil, errors.NewSchemaError(path, strings.Join(parts, "; "))
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseRow converts one data row by the declared column types
func parseRow(path string, rowNum int, cells []string, index map[string]int, fromWorkbook bool, missing map[string]int) (domain.RawTransaction, error) {
	rec := domain.RawTransaction{Row: rowNum}

	for _, f := range domain.TransactionSchema.Fields() {
		var raw string
		if pos := index[f.Name]; pos < len(cells) {
			raw = strings.TrimSpace(cells[pos])
		}
		if raw == "" {
			missing[f.Name]++
		}

		switch f.Type.ID() {
		case arrow.INT64:
			v, err := parseInteger(raw)
			if err != nil {
				return rec, errors.NewParseError(path, rowNum, f.Name, raw, err)
			}
			setInteger(&rec, f.Name, v)
		case arrow.DECIMAL128:
			v, err := decimal.NewFromString(raw)
			if err != nil {
				return rec, errors.NewParseError(path, rowNum, f.Name, raw, err)
			}
			rec.UnitPrice = v
		case arrow.DATE32:
			if fromWorkbook {
				raw = workbookDate(raw)
			}
			rec.TransactionDate = raw
		case arrow.TIME32:
			if fromWorkbook {
				raw = workbookTime(raw)
			}
			rec.TransactionTime = raw
		default:
			setText(&rec, f.Name, raw)
		}
	}

	return rec, nil
}

// parseInteger accepts plain integers and integral decimals such as "2.0",
// which spreadsheets commonly produce.
func parseInteger(raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty value")
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, stderrors.New("not an integer")
	}
	return d.IntPart(), nil
}

func setInteger(rec *domain.RawTransaction, column string, v int64) {
	switch column {
	case domain.ColTransactionID:
		rec.TransactionID = v
	case domain.ColQuantity:
		rec.Quantity = v
	case domain.ColStoreID:
		rec.StoreID = v
	case domain.ColProductID:
		rec.ProductID = v
	}
}

func setText(rec *domain.RawTransaction, column, v string) {
	switch column {
	case domain.ColStoreLocation:
		rec.StoreLocation = v
	case domain.ColProductCategory:
		rec.ProductCategory = v
	case domain.ColProductType:
		rec.ProductType = v
	case domain.ColProductDetail:
		rec.ProductDetail = v
	}
}

// workbookDate converts an Excel date serial to ISO text. Text cells pass
// through unchanged.
func workbookDate(raw string) string {
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02")
}

// workbookTime converts the fractional day of an Excel time serial to
// HH:MM:SS. Text cells pass through unchanged.
func workbookTime(raw string) string {
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil || serial < 0 {
		return raw
	}
	_, frac := math.Modf(serial)
	secs := int(math.Round(frac * 86400))
	if secs >= 86400 {
		secs = 86399
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}

// MissingCounts returns the non-zero empty-cell counts of a table in
// declared column order.
func MissingCounts(missing map[string]int) []ColumnCount {
	var counts []ColumnCount
	for _, f := range domain.TransactionSchema.Fields() {
		if n := missing[f.Name]; n > 0 {
			counts = append(counts, ColumnCount{Column: f.Name, Count: n})
		}
	}
	return counts
}

// ColumnCount pairs a column with a count
type ColumnCount struct {
	Column string
	Count  int
}
