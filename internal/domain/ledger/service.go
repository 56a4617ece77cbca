package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/categorization"
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms"
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms/model"
	"github.com/FACorreiaa/sms-finance-logger/pkg/metrics"
	"github.com/FACorreiaa/sms-finance-logger/pkg/money"
	"github.com/FACorreiaa/sms-finance-logger/pkg/storage"
)

var tracer = otel.Tracer("sms-finance-logger/ledger")

var (
	// ErrSheetNotFound is returned for a month without entries.
	ErrSheetNotFound = errors.New("no sheet for month")
	// ErrInvalidUpdate is returned for an entry update that changes nothing
	// or names an unknown category.
	ErrInvalidUpdate = errors.New("invalid entry update")
)

// Store is the persistence the service needs.
type Store interface {
	Insert(ctx context.Context, e *Entry) error
	ListByMonth(ctx context.Context, month Month) ([]Entry, error)
	Get(ctx context.Context, id uuid.UUID) (*Entry, error)
	Update(ctx context.Context, id uuid.UUID, u EntryUpdate) (*Entry, error)
	Months(ctx context.Context) ([]Month, error)
}

// Categorizer assigns a category and display name to a parsed message.
type Categorizer interface {
	Categorize(in categorization.Input) categorization.Result
}

// ParseResult is a parse without persistence.
type ParseResult struct {
	Record      model.TransactionRecord `json:"parsed_data"`
	Explanation *sms.Explanation        `json:"explanation,omitempty"`
	Loggable    bool                    `json:"is_loggable"`
	Reason      string                  `json:"reason,omitempty"`
	Category    categorization.Result   `json:"category"`
}

// LogResult is the outcome of LogSMS. Entry is nil when nothing was logged.
type LogResult struct {
	Entry  *Entry                  `json:"entry,omitempty"`
	Record model.TransactionRecord `json:"transaction_data"`
}

// Service logs parsed messages and reports on monthly sheets.
type Service struct {
	store       Store
	engine      *sms.Engine
	categorizer Categorizer
	policy      Policy
	cache       *statsCache
	archive     storage.Storage
	digest      *Digest
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// NewService creates a new ledger service
func NewService(store Store, engine *sms.Engine, categorizer Categorizer, policy Policy, statsTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		store:       store,
		engine:      engine,
		categorizer: categorizer,
		policy:      policy,
		cache:       newStatsCache(statsTTL),
		logger:      logger,
		now:         time.Now,
	}
}

// WithArchive sets where monthly workbooks are archived.
func (s *Service) WithArchive(archive storage.Storage) *Service {
	s.archive = archive
	return s
}

// WithDigest sets the monthly digest mailer.
func (s *Service) WithDigest(d *Digest) *Service {
	s.digest = d
	return s
}

// WithMetrics enables Prometheus instrumentation.
func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
	s.metrics = m
	return s
}

func (s *Service) parse(ctx context.Context, text string) (model.TransactionRecord, sms.Explanation) {
	_, span := tracer.Start(ctx, "ParseSMS")
	defer span.End()

	start := time.Now()
	rec, exp := s.engine.Explain(text)
	s.metrics.ObserveParse(time.Since(start))

	span.SetAttributes(
		attribute.Bool("sms.valid", rec.IsValidTransaction),
		attribute.StringSlice("sms.candidates", exp.Candidates),
	)
	if exp.Screen.Rejected {
		span.AddEvent("screened out")
	}
	return rec, exp
}

func (s *Service) categorize(rec model.TransactionRecord, text string) categorization.Result {
	result := s.categorizer.Categorize(categorization.Input{
		Merchant: rec.Transaction.Merchant.OrElse(""),
		Text:     text,
		Type:     rec.Transaction.Type,
	})
	s.metrics.ObserveCategorization(result.Source)
	return result
}

// ParseSMS parses text without storing anything. The explanation is only
// included when explain is set.
func (s *Service) ParseSMS(ctx context.Context, text string, explain bool) (*ParseResult, error) {
	if err := s.policy.CheckText(text); err != nil {
		s.metrics.ObserveSMS(metrics.OutcomeInvalid)
		return nil, err
	}

	rec, exp := s.parse(ctx, text)
	result := &ParseResult{
		Record:   rec,
		Loggable: true,
		Category: s.categorize(rec, text),
	}
	if err := s.policy.Loggable(rec, text); err != nil {
		result.Loggable = false
		result.Reason = err.Error()
	}
	if explain {
		result.Explanation = &exp
	}
	s.metrics.ObserveSMS(metrics.OutcomeParsed)
	return result, nil
}

// LogSMS parses text and records it in the sheet for date. A message that
// is not a loggable spend returns the parsed record together with an error
// wrapping ErrNotLoggable.
func (s *Service) LogSMS(ctx context.Context, text string, date time.Time) (*LogResult, error) {
	ctx, span := tracer.Start(ctx, "LogSMS")
	defer span.End()

	if err := s.policy.CheckText(text); err != nil {
		s.metrics.ObserveSMS(metrics.OutcomeInvalid)
		return nil, err
	}

	rec, _ := s.parse(ctx, text)
	result := &LogResult{Record: rec}

	if err := s.policy.Loggable(rec, text); err != nil {
		s.metrics.ObserveSMS(metrics.OutcomeNotLoggable)
		s.logger.Info("sms not logged", slog.String("reason", err.Error()))
		return result, err
	}

	amount, err := money.NewFromCanonical(rec.Transaction.Amount.OrElse(""))
	if err != nil {
		s.metrics.ObserveSMS(metrics.OutcomeError)
		return result, fmt.Errorf("failed to read amount: %w", err)
	}

	cat := s.categorize(rec, text)
	entry := &Entry{
		ID:          uuid.New(),
		Month:       MonthOf(date),
		OccurredAt:  date,
		Description: cat.CleanName,
		Amount:      amount,
		Direction:   rec.Transaction.Type,
		Category:    cat.Category,
		Account:     rec.AccountLabel(),
		FriendSplit: money.Zero(money.INR),
		RawSMS:      text,
	}
	if ref, ok := rec.Transaction.ReferenceNo.Get(); ok {
		entry.ReferenceNo = &ref
	}

	if err := s.store.Insert(ctx, entry); err != nil {
		s.metrics.ObserveSMS(metrics.OutcomeError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return result, err
	}
	s.cache.invalidate(entry.Month)
	s.metrics.ObserveSMS(metrics.OutcomeLogged)

	span.SetAttributes(
		attribute.String("ledger.month", entry.Month.String()),
		attribute.String("ledger.category", string(entry.Category)),
	)
	s.logger.Info("transaction logged",
		slog.String("id", entry.ID.String()),
		slog.String("month", entry.Month.String()),
		slog.String("category", string(entry.Category)),
		slog.String("category_source", cat.Source),
	)

	result.Entry = entry
	return result, nil
}

// Entries returns the month's sheet rows.
func (s *Service) Entries(ctx context.Context, month Month) ([]Entry, error) {
	entries, err := s.store.ListByMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, month)
	}
	return entries, nil
}

// Entry returns one entry by ID.
func (s *Service) Entry(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return s.store.Get(ctx, id)
}

// Months lists the months that have sheets, newest first.
func (s *Service) Months(ctx context.Context) ([]Month, error) {
	return s.store.Months(ctx)
}

// MonthlyStats returns spend statistics for month, served from cache while
// fresh.
func (s *Service) MonthlyStats(ctx context.Context, month Month) (MonthlyStats, error) {
	stats, gen, ok := s.cache.get(month)
	if ok {
		return stats, nil
	}

	ctx, span := tracer.Start(ctx, "MonthlyStats")
	defer span.End()
	span.SetAttributes(attribute.String("ledger.month", month.String()))

	entries, err := s.Entries(ctx, month)
	if err != nil {
		return MonthlyStats{}, err
	}

	stats = ComputeStats(month, entries, s.now())
	s.cache.put(month, stats, gen)
	return stats, nil
}

// WarmStats recomputes and caches the month's stats. A month without
// entries is not an error.
func (s *Service) WarmStats(ctx context.Context, month Month) error {
	s.cache.invalidate(month)
	_, err := s.MonthlyStats(ctx, month)
	if errors.Is(err, ErrSheetNotFound) {
		return nil
	}
	return err
}

// ExportMonth writes the month's xlsx workbook to w.
func (s *Service) ExportMonth(ctx context.Context, month Month, w io.Writer) error {
	entries, err := s.Entries(ctx, month)
	if err != nil {
		return err
	}
	return WriteWorkbook(w, month, entries)
}

// ExportMonthCSV writes the month's rows as CSV to w.
func (s *Service) ExportMonthCSV(ctx context.Context, month Month, w io.Writer) error {
	entries, err := s.Entries(ctx, month)
	if err != nil {
		return err
	}
	return WriteCSV(w, entries)
}

// UpdateEntry applies hand edits to one entry.
func (s *Service) UpdateEntry(ctx context.Context, id uuid.UUID, u EntryUpdate) (*Entry, error) {
	if u.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidUpdate)
	}
	if u.Category != nil {
		c, ok := categorization.ParseCategory(string(*u.Category))
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidUpdate, *u.Category)
		}
		u.Category = &c
	}
	if u.FriendSplit != nil && u.FriendSplit.Compare(nil) < 0 {
		return nil, fmt.Errorf("%w: friend split must not be negative", ErrInvalidUpdate)
	}

	e, err := s.store.Update(ctx, id, u)
	if err != nil {
		return nil, err
	}
	s.cache.invalidate(e.Month)
	return e, nil
}

// ArchiveMonth stores the month's workbook and emails the digest. Either
// step is skipped when not configured.
func (s *Service) ArchiveMonth(ctx context.Context, month Month) error {
	ctx, span := tracer.Start(ctx, "ArchiveMonth")
	defer span.End()
	span.SetAttributes(attribute.String("ledger.month", month.String()))

	entries, err := s.Entries(ctx, month)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, month, entries); err != nil {
		return err
	}

	if s.archive != nil {
		info, err := s.archive.Put(ctx, month.String()+".xlsx", workbookContentType, bytes.NewReader(buf.Bytes()))
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to archive workbook: %w", err)
		}
		span.AddEvent("workbook archived")
		s.logger.Info("monthly workbook archived",
			slog.String("month", month.String()),
			slog.Int64("size", info.Size),
		)
	}

	if s.digest != nil {
		stats := ComputeStats(month, entries, s.now())
		if err := s.digest.Send(ctx, stats, buf.Bytes()); err != nil {
			span.RecordError(err)
			return err
		}
	}
	return nil
}
