package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/FACorreiaa/sms-finance-logger/internal/domain/categorization"
	"github.com/FACorreiaa/sms-finance-logger/pkg/money"
)

// CategoryTotal is the spend and entry count for one category.
type CategoryTotal struct {
	Amount *money.Money `json:"amount"`
	Count  int          `json:"count"`
}

// MonthlyStats summarises one monthly sheet. Spend figures use the amount
// borne and only count debits; TransactionCount counts every entry.
type MonthlyStats struct {
	Month            Month                                     `json:"month_year"`
	TotalSpend       *money.Money                              `json:"total_spend"`
	TransactionCount int                                       `json:"transaction_count"`
	Categories       map[categorization.Category]CategoryTotal `json:"categories"`
	GeneratedAt      time.Time                                 `json:"generated_at"`
}

// TopCategories returns categories ordered by spend, largest first.
func (s MonthlyStats) TopCategories() []categorization.Category {
	out := make([]categorization.Category, 0, len(s.Categories))
	for c := range s.Categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := s.Categories[out[i]].Amount.Compare(s.Categories[out[j]].Amount); c != 0 {
			return c > 0
		}
		return out[i] < out[j]
	})
	return out
}

// ComputeStats aggregates entries of one month.
func ComputeStats(month Month, entries []Entry, now time.Time) MonthlyStats {
	stats := MonthlyStats{
		Month:            month,
		TotalSpend:       money.Zero(money.INR),
		TransactionCount: len(entries),
		Categories:       make(map[categorization.Category]CategoryTotal),
		GeneratedAt:      now,
	}

	for _, e := range entries {
		if !e.IsDebit() {
			continue
		}
		borne := e.AmountBorne()

		if sum, err := stats.TotalSpend.Add(borne); err == nil {
			stats.TotalSpend = sum
		}

		total, ok := stats.Categories[e.Category]
		if !ok {
			total.Amount = money.Zero(money.INR)
		}
		if sum, err := total.Amount.Add(borne); err == nil {
			total.Amount = sum
		}
		total.Count++
		stats.Categories[e.Category] = total
	}
	return stats
}

type cachedStats struct {
	stats   MonthlyStats
	expires time.Time
}

// statsCache keeps computed monthly stats for a fixed TTL. Each month has
// a generation that invalidate bumps; a put carrying an older generation
// is dropped, so stats computed before a write never outlive it.
type statsCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[Month]cachedStats
	gens    map[Month]uint64
}

func newStatsCache(ttl time.Duration) *statsCache {
	return &statsCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[Month]cachedStats),
		gens:    make(map[Month]uint64),
	}
}

// get returns the cached stats, or the month's current generation on a miss.
func (c *statsCache) get(m Month) (MonthlyStats, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, ok := c.entries[m]
	if !ok {
		return MonthlyStats{}, c.gens[m], false
	}
	if !c.now().Before(cached.expires) {
		delete(c.entries, m)
		return MonthlyStats{}, c.gens[m], false
	}
	return cached.stats, c.gens[m], true
}

func (c *statsCache) put(m Month, s MonthlyStats, gen uint64) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[m] != gen {
		return
	}
	c.entries[m] = cachedStats{stats: s, expires: c.now().Add(c.ttl)}
}

func (c *statsCache) invalidate(m Month) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[m]++
	delete(c.entries, m)
}
