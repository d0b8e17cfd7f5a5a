package ragcontext

import (
	"context"
	"log/slog"
	"time"

	"github.com/Aariyan007/personal-expense-tracker/internal/model"
)

// ExpenseSource is the slice of the expense repository the builder needs.
// Declared here so tests can fake it without a database.
type ExpenseSource interface {
	FindByCategories(ctx context.Context, userID string, categories []model.Category, since time.Time, limit int) ([]model.Expense, error)
	FindByAmountRange(ctx context.Context, userID string, min, max float64, since time.Time, limit int) ([]model.Expense, error)
	FindRecent(ctx context.Context, userID string, since time.Time, limit int) ([]model.Expense, error)
}

// AIExpenseSource retrieves AI-augmented records whose stored or AI-assigned
// category matches the requested set.
type AIExpenseSource interface {
	FindRelevant(ctx context.Context, userID string, categories []model.Category, minConfidence float64, since time.Time, limit int) ([]model.AIExpense, error)
}

// BuilderConfig is the per-request retrieval policy.
type BuilderConfig struct {
	MaxContextSize    int
	IncludeAIExpenses bool
	TimeRangeMonths   int

	// Budget fractions of MaxContextSize per source.
	CategoryBudget float64
	AmountBudget   float64
	TemporalBudget float64
	AIBudget       float64
}

func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		MaxContextSize:    100,
		IncludeAIExpenses: true,
		TimeRangeMonths:   6,
		CategoryBudget:    0.4,
		AmountBudget:      0.3,
		TemporalBudget:    0.2,
		AIBudget:          0.1,
	}
}

// Builder assembles ranked context for one owner and one extraction summary.
// Every retrieval failure degrades to an empty slice; BuildContext never
// returns an error to its caller.
type Builder struct {
	expenses ExpenseSource
	ai       AIExpenseSource
	cache    *Cache
	cfg      BuilderConfig
	scoring  ScoringConfig
	clock    func() time.Time
}

func NewBuilder(expenses ExpenseSource, ai AIExpenseSource, cache *Cache, cfg BuilderConfig, scoring ScoringConfig) *Builder {
	return &Builder{
		expenses: expenses,
		ai:       ai,
		cache:    cache,
		cfg:      cfg,
		scoring:  scoring,
		clock:    time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	b.clock = clock
	return b
}

// BuildContext returns at most MaxContextSize deduplicated items ranked by
// descending relevance. Results are cached under a coarsened fingerprint of
// the summary; see Fingerprint for the collision semantics.
func (b *Builder) BuildContext(ctx context.Context, userID string, summary Summary) []Item {
	key := Fingerprint(userID, summary)
	if b.cache != nil {
		if items, ok := b.cache.Get(key); ok {
			slog.Debug("context cache hit", "key", key, "items", len(items))
			return items
		}
	}

	now := b.clock()
	cutoff := now.AddDate(0, -b.cfg.TimeRangeMonths, 0)

	combined := b.fromCategories(ctx, userID, summary, cutoff)
	combined = append(combined, b.fromAmounts(ctx, userID, summary, cutoff)...)
	combined = append(combined, b.fromRecency(ctx, userID, cutoff, now)...)
	if b.cfg.IncludeAIExpenses {
		combined = append(combined, b.fromAIRecords(ctx, userID, summary, cutoff)...)
	}

	items := DedupeAndRank(combined, b.cfg.MaxContextSize)

	if b.cache != nil {
		b.cache.Put(key, items)
	}
	return items
}

func (b *Builder) budget(fraction float64) int {
	n := int(float64(b.cfg.MaxContextSize) * fraction)
	if n < 1 {
		n = 1
	}
	return n
}

func (b *Builder) fromCategories(ctx context.Context, userID string, summary Summary, cutoff time.Time) []Item {
	if len(summary.Categories) == 0 {
		return nil
	}
	rows, err := b.expenses.FindByCategories(ctx, userID, summary.Categories, cutoff, b.budget(b.cfg.CategoryBudget))
	if err != nil {
		slog.Error("category retrieval failed", "user", userID, "error", err)
		return nil
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		score := b.scoring.categoryScore(row.Category, summary.Categories)
		items = append(items, itemFromExpense(row, SourceCategory, score))
	}
	return items
}

func (b *Builder) fromAmounts(ctx context.Context, userID string, summary Summary, cutoff time.Time) []Item {
	lo, hi, ok := amountWindow(summary.Amounts)
	if !ok {
		return nil
	}
	rows, err := b.expenses.FindByAmountRange(ctx, userID, lo, hi, cutoff, b.budget(b.cfg.AmountBudget))
	if err != nil {
		slog.Error("amount retrieval failed", "user", userID, "error", err)
		return nil
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		score := b.scoring.amountScore(row.Amount, summary.Amounts)
		items = append(items, itemFromExpense(row, SourceAmount, score))
	}
	return items
}

func (b *Builder) fromRecency(ctx context.Context, userID string, cutoff, now time.Time) []Item {
	rows, err := b.expenses.FindRecent(ctx, userID, cutoff, b.budget(b.cfg.TemporalBudget))
	if err != nil {
		slog.Error("temporal retrieval failed", "user", userID, "error", err)
		return nil
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		score := b.scoring.temporalScore(row.Date, now)
		items = append(items, itemFromExpense(row, SourceTemporal, score))
	}
	return items
}

func (b *Builder) fromAIRecords(ctx context.Context, userID string, summary Summary, cutoff time.Time) []Item {
	if len(summary.Categories) == 0 {
		return nil
	}
	rows, err := b.ai.FindRelevant(ctx, userID, summary.Categories, b.scoring.MinAIConfidence, cutoff, b.budget(b.cfg.AIBudget))
	if err != nil {
		slog.Error("ai retrieval failed", "user", userID, "error", err)
		return nil
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		// The stored confidence doubles as the relevance score.
		items = append(items, itemFromAIExpense(row, row.Confidence))
	}
	return items
}
