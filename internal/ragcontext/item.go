// Package ragcontext assembles historical spending context used to ground
// the LLM analysis prompt: four budgeted retrievals against the expense
// stores, relevance scoring, deduplication, ranking and a short-lived
// fingerprint cache.
package ragcontext

import (
	"time"

	"github.com/Aariyan007/personal-expense-tracker/internal/model"
)

// SourceKind tags where a context item came from. The meaning of the
// relevance score depends on the source.
type SourceKind string

const (
	SourceCategory SourceKind = "category"
	SourceAmount   SourceKind = "amount"
	SourceTemporal SourceKind = "temporal"
	SourceAI       SourceKind = "ai_processed"
)

// Item is a shallow copy of a historical expense annotated with its source
// and a relevance score in [0,1]. Items are derived per request and live only
// inside a cache entry; they are never persisted.
type Item struct {
	ExpenseID   uint           `json:"expense_id"`
	Amount      float64        `json:"amount"`
	Category    model.Category `json:"category"`
	Description string         `json:"description"`
	Date        time.Time      `json:"date"`
	Kind        model.ExpenseKind `json:"kind"`

	SourceKind     SourceKind `json:"source_kind"`
	RelevanceScore float64    `json:"relevance_score"`
}

// Summary describes the freshly extracted expenses a context request is
// about: which categories appear, the individual amounts and their total.
type Summary struct {
	Categories   []model.Category
	Amounts      []float64
	TotalAmount  float64
	ExpenseCount int
}

func itemFromExpense(e model.Expense, source SourceKind, score float64) Item {
	return Item{
		ExpenseID:      e.ID,
		Amount:         e.Amount,
		Category:       e.Category,
		Description:    e.Description,
		Date:           e.Date,
		Kind:           e.Kind,
		SourceKind:     source,
		RelevanceScore: score,
	}
}

func itemFromAIExpense(e model.AIExpense, score float64) Item {
	return Item{
		ExpenseID:      e.ID,
		Amount:         e.Amount,
		Category:       e.Category,
		Description:    e.Description,
		Date:           e.Date,
		Kind:           e.Kind,
		SourceKind:     SourceAI,
		RelevanceScore: score,
	}
}
