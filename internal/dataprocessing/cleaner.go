package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"salescli/internal/config"
	"salescli/internal/errors"
	"salescli/pkg/contracts/domain"
)

// CleanerOptions controls parsing and derivation
type CleanerOptions struct {
	DateLayouts []string
	// LegacyHourFromDate takes Hour from the date value, which has no time
	// of day, so Hour is always 0.
	LegacyHourFromDate bool
}

// CleanerOptionsFromConfig maps configuration onto cleaner options
func CleanerOptionsFromConfig(cfg *config.Config) CleanerOptions {
	return CleanerOptions{
		DateLayouts:        cfg.Input.DateLayouts,
		LegacyHourFromDate: cfg.Report.LegacyHourFromDate,
	}
}

// Cleaner turns a RawTable into a deduplicated Table with derived fields
type Cleaner struct {
	opts   CleanerOptions
	logger *slog.Logger
}

// NewCleaner creates a cleaner. An empty layout list falls back to the
// default date layouts.
func NewCleaner(opts CleanerOptions, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts.DateLayouts) == 0 {
		opts.DateLayouts = config.DefaultDateLayouts
	}
	return &Cleaner{opts: opts, logger: logger.With("component", "cleaner")}
}

// Clean parses dates and times, computes derived fields and removes exact
// duplicates keeping the first occurrence. Any unparsable date or time fails
// the whole table. The input is not modified.
func (c *Cleaner) Clean(ctx context.Context, raw *domain.RawTable) (*domain.Table, error) {
	if raw == nil {
		raw = &domain.RawTable{}
	}

	transactions := make([]domain.Transaction, 0, raw.Len())
	for _, rec := range raw.Records {
		tx, err := c.transform(raw.Source, rec)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	missing := make(map[string]int, len(raw.Missing))
	for k, v := range raw.Missing {
		missing[k] = v
	}

	table := Deduplicate(&domain.Table{
		Source:       raw.Source,
		Transactions: transactions,
		Missing:      missing,
	})

	c.logger.InfoContext(ctx, "Transactions cleaned",
		slog.Int("input_rows", raw.Len()),
		slog.Int("rows", table.Len()),
		slog.Int("duplicates_removed", table.DuplicatesRemoved))

	for _, mc := range MissingCounts(missing) {
		c.logger.WarnContext(ctx, "Column has empty cells",
			slog.String("column", mc.Column),
			slog.Int("count", mc.Count))
	}

	return table, nil
}

func (c *Cleaner) transform(source string, rec domain.RawTransaction) (domain.Transaction, error) {
	date, err := ParseDate(rec.TransactionDate, c.opts.DateLayouts)
	if err != nil {
		return domain.Transaction{}, errors.NewParseError(source, rec.Row, domain.ColTransactionDate, rec.TransactionDate, err)
	}

	tod, err := ParseTime(rec.TransactionTime)
	if err != nil {
		return domain.Transaction{}, errors.NewParseError(source, rec.Row, domain.ColTransactionTime, rec.TransactionTime, err)
	}

	tx := domain.Transaction{
		TransactionID:   rec.TransactionID,
		TransactionDate: date,
		TransactionTime: tod,
		Quantity:        rec.Quantity,
		StoreID:         rec.StoreID,
		StoreLocation:   rec.StoreLocation,
		ProductID:       rec.ProductID,
		UnitPrice:       rec.UnitPrice,
		ProductCategory: rec.ProductCategory,
		ProductType:     rec.ProductType,
		ProductDetail:   rec.ProductDetail,
	}
	Derive(&tx, c.opts.LegacyHourFromDate)
	return tx, nil
}

// Derive fills Month, Day, Weekday, Hour and Sales from the parsed fields
func Derive(tx *domain.Transaction, legacyHourFromDate bool) {
	tx.Month = tx.TransactionDate.Month.String()
	tx.Day = tx.TransactionDate.Day
	tx.Weekday = tx.TransactionDate.In(time.UTC).Weekday().String()
	if legacyHourFromDate {
		tx.Hour = 0
	} else {
		tx.Hour = tx.TransactionTime.Hour
	}
	tx.Sales = tx.UnitPrice.Mul(decimal.NewFromInt(tx.Quantity))
}

// ParseDate tries each layout in order
func ParseDate(value string, layouts []string) (civil.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return civil.Date{}, fmt.Errorf("empty date")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, fmt.Errorf("no layout of %v matches", layouts)
}

// timePattern is the only accepted time shape; time.Parse alone also takes
// one-digit hours and fractional seconds
var timePattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)

// ParseTime parses a HH:MM:SS time of day
func ParseTime(value string) (civil.Time, error) {
	value = strings.TrimSpace(value)
	if !timePattern.MatchString(value) {
		return civil.Time{}, fmt.Errorf("expected HH:MM:SS, got %q", value)
	}
	t, err := time.Parse(config.TimeLayout, value)
	if err != nil {
		return civil.Time{}, fmt.Errorf("expected HH:MM:SS: %w", err)
	}
	return civil.TimeOf(t), nil
}

// Deduplicate drops transactions equal in every field to an earlier one.
// Survivors keep their relative order. Applying it to its own output
// returns an identical table.
func Deduplicate(table *domain.Table) *domain.Table {
	seen := make(map[string]struct{}, table.Len())
	kept := make([]domain.Transaction, 0, table.Len())
	for _, tx := range table.Transactions {
		key := tx.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, tx)
	}

	return &domain.Table{
		Source:            table.Source,
		Transactions:      kept,
		Missing:           table.Missing,
		DuplicatesRemoved: table.DuplicatesRemoved + table.Len() - len(kept),
	}
}
