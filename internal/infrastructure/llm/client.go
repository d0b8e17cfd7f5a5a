package llm

import "context"

// Provider defines what the pipeline needs from a text-generation model.
// Both calls return the raw JSON text the model produced; parsing and
// fallback policy belong to the callers.
type Provider interface {
	// ExtractExpenses turns a free-text spending paragraph into the
	// structured extraction JSON (see the record_expenses tool schema).
	ExtractExpenses(ctx context.Context, paragraph string) (string, error)

	// AnalyzeSpending produces the narrative-analysis JSON from an
	// already-assembled prompt.
	AnalyzeSpending(ctx context.Context, system, user string) (string, error)
}
