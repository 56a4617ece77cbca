package ledger

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/categorization"
	"github.com/FACorreiaa/sms-finance-logger/internal/domain/sms"
	"github.com/FACorreiaa/sms-finance-logger/pkg/metrics"
	"github.com/FACorreiaa/sms-finance-logger/pkg/storage"
)

const (
	debitSMS  = "INR 2000 debited from A/c no. XX3423 on 05-02-19 07:27:11 IST at ECS PAY. Avl Bal- INR 2343.23."
	creditSMS = "INR 5,000.00 credited to A/c XX1234 on 01-02-24. UPI Ref No 412345678901. Avl Bal INR 25,000.00"
	upiSMS    = "Sent Rs.500.00 From HDFC Bank A/C *1234 To John Doe On 01/01/24 Ref 412345678901 Not You? Call 18002586161/SMS BLOCK UPI to 7308080808"
)

type memoryStore struct {
	mu        sync.Mutex
	entries   map[uuid.UUID]*Entry
	lists     int
	err       error
	afterList func() // runs once, after the next ListByMonth has read its rows
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[uuid.UUID]*Entry)}
}

func (m *memoryStore) Insert(_ context.Context, e *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	e.CreatedAt = time.Now()
	cp := *e
	m.entries[e.ID] = &cp
	return nil
}

func (m *memoryStore) ListByMonth(_ context.Context, month Month) ([]Entry, error) {
	m.mu.Lock()
	m.lists++
	var out []Entry
	for _, e := range m.entries {
		if e.Month == month {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	hook := m.afterList
	m.afterList = nil
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}

func (m *memoryStore) Get(_ context.Context, id uuid.UUID) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, ErrEntryNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memoryStore) Update(_ context.Context, id uuid.UUID, u EntryUpdate) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, ErrEntryNotFound
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
	if u.FriendSplit != nil {
		e.FriendSplit = u.FriendSplit
	}
	if u.Notes != nil {
		e.Notes = *u.Notes
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	cp := *e
	return &cp, nil
}

func (m *memoryStore) Months(_ context.Context) ([]Month, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[Month]bool)
	var out []Month
	for _, e := range m.entries {
		if !seen[e.Month] {
			seen[e.Month] = true
			out = append(out, e.Month)
		}
	}
	return out, nil
}

func (m *memoryStore) listCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lists
}

type stubCategorizer struct{}

func (stubCategorizer) Categorize(in categorization.Input) categorization.Result {
	return categorization.Result{
		CleanName: categorization.DisplayName(in.Merchant),
		Category:  categorization.Shopping,
		Source:    categorization.SourceDefault,
	}
}

func newTestService(t *testing.T) (*Service, *memoryStore) {
	t.Helper()
	store := newMemoryStore()
	svc := NewService(store, sms.Default(), stubCategorizer{}, DefaultPolicy(), time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, store
}

func TestService_LogSMS(t *testing.T) {
	svc, store := newTestService(t)
	m := metrics.New()
	svc.WithMetrics(m)

	date := time.Date(2025, time.July, 5, 9, 30, 0, 0, time.UTC)
	res, err := svc.LogSMS(context.Background(), debitSMS, date)
	require.NoError(t, err)
	require.NotNil(t, res.Entry)

	e := res.Entry
	assert.Equal(t, Month{Year: 2025, Month: time.July}, e.Month)
	assert.Equal(t, date, e.OccurredAt)
	assert.Equal(t, int64(200000), e.Amount.Amount())
	assert.Equal(t, int64(0), e.FriendSplit.Amount())
	assert.Equal(t, "ACCOUNT 3423", e.Account)
	assert.Equal(t, categorization.Shopping, e.Category)
	assert.Equal(t, debitSMS, e.RawSMS)
	assert.True(t, res.Record.IsValidTransaction)

	stored, err := store.Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.False(t, stored.CreatedAt.IsZero())

	expected := `
# HELP sms_ledger_sms_messages_total Messages handled by outcome.
# TYPE sms_ledger_sms_messages_total counter
sms_ledger_sms_messages_total{outcome="logged"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "sms_ledger_sms_messages_total"))
}

func TestService_LogSMS_ReferenceNo(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.LogSMS(context.Background(), upiSMS, time.Now())
	require.NoError(t, err)
	require.NotNil(t, res.Entry.ReferenceNo)
	assert.Equal(t, "412345678901", *res.Entry.ReferenceNo)
	assert.Equal(t, "John Doe", res.Entry.Description)
}

func TestService_LogSMS_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "too short", text: "Rs 100", wantErr: ErrInvalidSMS},
		{name: "otp", text: "Your OTP is 482913, valid for 10 minutes", wantErr: ErrNotLoggable},
		{name: "credit", text: creditSMS, wantErr: ErrNotLoggable},
		{name: "chatter", text: "Hey, are we still on for dinner tonight?", wantErr: ErrNotLoggable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)

			_, err := svc.LogSMS(context.Background(), tt.text, time.Now())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, store.entries)
		})
	}
}

func TestService_LogSMS_StoreError(t *testing.T) {
	svc, store := newTestService(t)
	store.err = errors.New("connection reset")

	res, err := svc.LogSMS(context.Background(), debitSMS, time.Now())
	require.Error(t, err)
	assert.Nil(t, res.Entry)
	assert.True(t, res.Record.IsValidTransaction)
}

func TestService_ParseSMS(t *testing.T) {
	svc, store := newTestService(t)

	res, err := svc.ParseSMS(context.Background(), creditSMS, true)
	require.NoError(t, err)
	assert.True(t, res.Record.IsValidTransaction)
	assert.False(t, res.Loggable)
	assert.Contains(t, res.Reason, "credits are not logged")
	require.NotNil(t, res.Explanation)
	assert.NotEmpty(t, res.Explanation.Candidates)
	assert.Empty(t, store.entries)

	res, err = svc.ParseSMS(context.Background(), debitSMS, false)
	require.NoError(t, err)
	assert.True(t, res.Loggable)
	assert.Nil(t, res.Explanation)
}

func TestService_MonthlyStats(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	july := Month{Year: 2025, Month: time.July}

	_, err := svc.MonthlyStats(ctx, july)
	assert.ErrorIs(t, err, ErrSheetNotFound)

	_, err = svc.LogSMS(ctx, debitSMS, time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	stats, err := svc.MonthlyStats(ctx, july)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TransactionCount)
	assert.Equal(t, int64(200000), stats.TotalSpend.Amount())

	t.Run("served from cache", func(t *testing.T) {
		before := store.listCalls()
		_, err := svc.MonthlyStats(ctx, july)
		require.NoError(t, err)
		assert.Equal(t, before, store.listCalls())
	})

	t.Run("logging invalidates", func(t *testing.T) {
		_, err := svc.LogSMS(ctx, upiSMS, time.Date(2025, time.July, 6, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		stats, err := svc.MonthlyStats(ctx, july)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.TransactionCount)
		assert.Equal(t, int64(250000), stats.TotalSpend.Amount())
	})
}

func TestService_MonthlyStats_WriteDuringCompute(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	july := Month{Year: 2025, Month: time.July}

	_, err := svc.LogSMS(ctx, debitSMS, time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	store.mu.Lock()
	store.afterList = func() {
		_, err := svc.LogSMS(ctx, upiSMS, time.Date(2025, time.July, 6, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
	}
	store.mu.Unlock()

	stats, err := svc.MonthlyStats(ctx, july)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TransactionCount)

	stats, err = svc.MonthlyStats(ctx, july)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TransactionCount)
	assert.Equal(t, int64(250000), stats.TotalSpend.Amount())
}

func TestService_WarmStats_EmptyMonth(t *testing.T) {
	svc, _ := newTestService(t)
	assert.NoError(t, svc.WarmStats(context.Background(), Month{Year: 2025, Month: time.July}))
}

func TestService_UpdateEntry(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.LogSMS(ctx, debitSMS, time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	id := res.Entry.ID

	july := Month{Year: 2025, Month: time.July}
	_, err = svc.MonthlyStats(ctx, july)
	require.NoError(t, err)

	t.Run("split and category", func(t *testing.T) {
		cat := categorization.Category("utilities")
		e, err := svc.UpdateEntry(ctx, id, EntryUpdate{Category: &cat, FriendSplit: inr(50000)})
		require.NoError(t, err)
		assert.Equal(t, categorization.Utilities, e.Category)

		stats, err := svc.MonthlyStats(ctx, july)
		require.NoError(t, err)
		assert.Equal(t, int64(150000), stats.TotalSpend.Amount())
	})

	t.Run("rejects", func(t *testing.T) {
		bogus := categorization.Category("Groceries")
		tests := []EntryUpdate{
			{},
			{Category: &bogus},
			{FriendSplit: inr(-100)},
		}
		for _, u := range tests {
			_, err := svc.UpdateEntry(ctx, id, u)
			assert.ErrorIs(t, err, ErrInvalidUpdate)
		}
	})

	t.Run("missing entry", func(t *testing.T) {
		notes := "x"
		_, err := svc.UpdateEntry(ctx, uuid.New(), EntryUpdate{Notes: &notes})
		assert.ErrorIs(t, err, ErrEntryNotFound)
	})
}

func TestService_Export(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	july := Month{Year: 2025, Month: time.July}

	var buf bytes.Buffer
	assert.ErrorIs(t, svc.ExportMonth(ctx, july, &buf), ErrSheetNotFound)

	_, err := svc.LogSMS(ctx, debitSMS, time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, svc.ExportMonth(ctx, july, &buf))
	assert.NotZero(t, buf.Len())

	buf.Reset()
	require.NoError(t, svc.ExportMonthCSV(ctx, july, &buf))
	assert.Contains(t, buf.String(), "2025-07-05")
	assert.Contains(t, buf.String(), "2000.00")
}

func TestService_ArchiveMonth(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	july := Month{Year: 2025, Month: time.July}

	archive, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	sender := &fakeSender{}
	svc.WithArchive(archive).WithDigest(NewDigest(sender, "ledger@example.com", []string{"me@example.com"}, svc.logger))

	_, err = svc.LogSMS(ctx, debitSMS, time.Date(2025, time.July, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, svc.ArchiveMonth(ctx, july))

	info, err := archive.GetInfo(ctx, "July-2025.xlsx")
	require.NoError(t, err)
	assert.NotZero(t, info.Size)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Spend summary: July-2025", sender.sent[0].Subject)
	require.Len(t, sender.sent[0].Attachments, 1)
	assert.Equal(t, "July-2025.xlsx", sender.sent[0].Attachments[0].Filename)
}

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeSender) SendWithContext(_ context.Context, req *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, req)
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}
