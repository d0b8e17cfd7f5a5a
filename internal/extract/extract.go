package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Aariyan007/personal-expense-tracker/internal/infrastructure/llm"
	"github.com/Aariyan007/personal-expense-tracker/internal/model"
)

// Extractor runs the model extraction with the regex fallback behind it.
// Extract never returns an error: every failure mode degrades to the
// deterministic path, tagged with the reason.
type Extractor struct {
	provider llm.Provider
}

func NewExtractor(provider llm.Provider) *Extractor {
	return &Extractor{provider: provider}
}

// wire structures mirror the JSON the model is asked for.
type wirePayload struct {
	MonthlyExpenses []wireExpense `json:"monthlyExpenses"`
	TotalAmount     float64       `json:"totalAmount"`
	ExpenseCount    int           `json:"expenseCount"`
	Categories      []string      `json:"categories"`
	Timeframe       string        `json:"timeframe"`
	Insights        []string      `json:"insights"`
}

type wireExpense struct {
	Description   string  `json:"description"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	Merchant      string   `json:"merchant"`
	Location      string   `json:"location"`
	PaymentMethod string   `json:"paymentMethod"`
	Tags          []string `json:"tags"`
	Confidence    float64  `json:"confidence"`
}

// Extract runs the model path and falls back on any failure: call error,
// missing provider, or unparseable response.
func (e *Extractor) Extract(ctx context.Context, paragraph string) Result {
	if e.provider == nil {
		return Fallback(paragraph, "no model configured")
	}

	raw, err := e.provider.ExtractExpenses(ctx, paragraph)
	if err != nil {
		slog.Warn("model extraction failed, using fallback", "error", err)
		return Fallback(paragraph, fmt.Sprintf("model call failed: %v", err))
	}

	payload, err := parsePayload(raw)
	if err != nil {
		slog.Warn("model extraction unparseable, using fallback", "error", err)
		return Fallback(paragraph, fmt.Sprintf("malformed model response: %v", err))
	}

	return fromWire(payload)
}

// parsePayload strips Markdown code fences and unmarshals the payload.
// Models wrap JSON in ```json fences often enough that this is table stakes.
func parsePayload(raw string) (*wirePayload, error) {
	cleaned := StripCodeFence(raw)

	var payload wirePayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		// Last resort: the outermost brace pair.
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("no JSON object found: %w", err)
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &payload); err != nil {
			return nil, fmt.Errorf("parse extraction JSON: %w", err)
		}
	}
	return &payload, nil
}

// StripCodeFence removes a surrounding ```/```json fence when present.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop a language tag like "json" on the fence line.
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func fromWire(payload *wirePayload) Result {
	result := Result{
		Timeframe: payload.Timeframe,
		Insights:  payload.Insights,
		Source:    SourceModel,
	}
	for _, we := range payload.MonthlyExpenses {
		if we.Amount < 0 {
			continue // amount >= 0 is a store invariant, drop bad rows early
		}
		category, _ := model.NormalizeCategory(we.Category)
		result.Entries = append(result.Entries, Entry{
			Description:   strings.TrimSpace(we.Description),
			Amount:        we.Amount,
			Category:      category,
			Merchant:      strings.TrimSpace(we.Merchant),
			Location:      strings.TrimSpace(we.Location),
			PaymentMethod: parsePaymentMethod(we.PaymentMethod),
			Tags:          cleanTags(we.Tags),
			Confidence:    clamp01(we.Confidence),
		})
	}
	// Derived fields are recomputed from the surviving entries rather than
	// trusted from the model; dropped rows would otherwise skew the totals.
	result.TotalAmount = 0
	result.ExpenseCount = 0
	result.Categories = nil
	result.finalize()
	return result
}

func cleanTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(strings.ToLower(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func parsePaymentMethod(s string) model.PaymentMethod {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash":
		return model.PaymentCash
	case "card", "credit", "debit":
		return model.PaymentCard
	case "digital", "upi", "paypal", "venmo":
		return model.PaymentDigital
	default:
		return model.PaymentUnknown
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
