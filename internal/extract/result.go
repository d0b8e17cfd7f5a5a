// Package extract turns a free-text spending paragraph into structured
// expense entries. The model path and the deterministic regex fallback both
// produce the same Result shape; callers branch on Source, never on errors.
package extract

import "github.com/Aariyan007/personal-expense-tracker/internal/model"

// Source says which path produced a Result.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Entry is one extracted expense line item.
type Entry struct {
	Description   string              `json:"description"`
	Amount        float64             `json:"amount"`
	Category      model.Category      `json:"category"`
	Merchant      string              `json:"merchant,omitempty"`
	Location      string              `json:"location,omitempty"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	Tags          []string            `json:"tags,omitempty"`
	Confidence    float64             `json:"confidence"`
}

// Result is the outcome of one extraction. Entries is always a non-nil
// slice and TotalAmount always a number, whichever path ran.
type Result struct {
	Entries      []Entry          `json:"monthly_expenses"`
	TotalAmount  float64          `json:"total_amount"`
	ExpenseCount int              `json:"expense_count"`
	Categories   []model.Category `json:"categories"`
	Timeframe    string           `json:"timeframe"`
	Insights     []string         `json:"insights"`

	Source         Source `json:"source"`
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// finalize fills the derived fields from Entries when the producer left
// them empty, and guarantees the non-nil invariants.
func (r *Result) finalize() {
	if r.Entries == nil {
		r.Entries = []Entry{}
	}
	if r.ExpenseCount == 0 {
		r.ExpenseCount = len(r.Entries)
	}
	if r.TotalAmount == 0 {
		for _, e := range r.Entries {
			r.TotalAmount += e.Amount
		}
	}
	if len(r.Categories) == 0 {
		seen := make(map[model.Category]struct{})
		for _, e := range r.Entries {
			if _, ok := seen[e.Category]; ok {
				continue
			}
			seen[e.Category] = struct{}{}
			r.Categories = append(r.Categories, e.Category)
		}
	}
	if r.Insights == nil {
		r.Insights = []string{}
	}
}
