package ragcontext

import (
	"sort"

	"github.com/Aariyan007/personal-expense-tracker/internal/model"
	"github.com/shopspring/decimal"
)

// The summarizers are pure functions over already-fetched rows: stateless,
// side-effect free and independent of the context cache. Money totals
// accumulate as decimals so monthly reports don't pick up float drift.

// MonthlyStat is one calendar month of one category.
type MonthlyStat struct {
	Month   string          `json:"month"` // "2026-08"
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
	Average decimal.Decimal `json:"average"`
}

// CategoryPattern is a category's trend over the requested window.
type CategoryPattern struct {
	Category model.Category  `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
	Monthly  []MonthlyStat   `json:"monthly"`
}

// SpendingPatterns groups expense rows by (category, calendar month) and
// returns per-category monthly totals/counts/averages plus overall category
// totals, sorted by overall total descending. Income rows are ignored.
func SpendingPatterns(expenses []model.Expense) []CategoryPattern {
	type monthKey struct {
		category model.Category
		month    string
	}

	monthTotals := make(map[monthKey]decimal.Decimal)
	monthCounts := make(map[monthKey]int)
	catTotals := make(map[model.Category]decimal.Decimal)
	catCounts := make(map[model.Category]int)

	for _, e := range expenses {
		if e.Kind == model.KindIncome {
			continue
		}
		amount := decimal.NewFromFloat(e.Amount)
		key := monthKey{e.Category, e.Date.Format("2006-01")}
		monthTotals[key] = monthTotals[key].Add(amount)
		monthCounts[key]++
		catTotals[e.Category] = catTotals[e.Category].Add(amount)
		catCounts[e.Category]++
	}

	patterns := make([]CategoryPattern, 0, len(catTotals))
	for category, total := range catTotals {
		p := CategoryPattern{
			Category: category,
			Total:    total,
			Count:    catCounts[category],
		}
		for key, monthTotal := range monthTotals {
			if key.category != category {
				continue
			}
			count := monthCounts[key]
			p.Monthly = append(p.Monthly, MonthlyStat{
				Month:   key.month,
				Total:   monthTotal,
				Count:   count,
				Average: monthTotal.Div(decimal.NewFromInt(int64(count))).Round(2),
			})
		}
		sort.Slice(p.Monthly, func(i, j int) bool {
			return p.Monthly[i].Month < p.Monthly[j].Month
		})
		patterns = append(patterns, p)
	}

	sort.Slice(patterns, func(i, j int) bool {
		if !patterns[i].Total.Equal(patterns[j].Total) {
			return patterns[i].Total.GreaterThan(patterns[j].Total)
		}
		// Deterministic order for equal totals keeps the report idempotent.
		return patterns[i].Category < patterns[j].Category
	})
	return patterns
}

// MerchantPattern is one merchant's visit statistics.
type MerchantPattern struct {
	Merchant   string          `json:"merchant"`
	Total      decimal.Decimal `json:"total"`
	Visits     int             `json:"visits"`
	Categories []string        `json:"categories"`
	Average    decimal.Decimal `json:"average"`
}

// MaxMerchants caps the merchant report; the repository additionally caps
// the scan at its 50 most recent merchant-bearing records.
const MaxMerchants = 20

// MerchantPatterns accumulates per-merchant spend, visit count and distinct
// categories over AI-augmented rows, returning the top merchants by total
// spend descending. Rows without a merchant are skipped.
func MerchantPatterns(rows []model.AIExpense) []MerchantPattern {
	totals := make(map[string]decimal.Decimal)
	visits := make(map[string]int)
	categories := make(map[string]map[string]struct{})

	for _, row := range rows {
		if row.Merchant == nil || *row.Merchant == "" {
			continue
		}
		merchant := *row.Merchant
		totals[merchant] = totals[merchant].Add(decimal.NewFromFloat(row.Amount))
		visits[merchant]++
		if categories[merchant] == nil {
			categories[merchant] = make(map[string]struct{})
		}
		categories[merchant][string(row.Category)] = struct{}{}
	}

	patterns := make([]MerchantPattern, 0, len(totals))
	for merchant, total := range totals {
		cats := make([]string, 0, len(categories[merchant]))
		for c := range categories[merchant] {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		count := visits[merchant]
		patterns = append(patterns, MerchantPattern{
			Merchant:   merchant,
			Total:      total,
			Visits:     count,
			Categories: cats,
			Average:    total.Div(decimal.NewFromInt(int64(count))).Round(2),
		})
	}

	sort.Slice(patterns, func(i, j int) bool {
		if !patterns[i].Total.Equal(patterns[j].Total) {
			return patterns[i].Total.GreaterThan(patterns[j].Total)
		}
		return patterns[i].Merchant < patterns[j].Merchant
	})

	if len(patterns) > MaxMerchants {
		patterns = patterns[:MaxMerchants]
	}
	return patterns
}
