package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Aariyan007/personal-expense-tracker/internal/model"
)

type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) ExtractExpenses(context.Context, string) (string, error) {
	return f.response, f.err
}

func (f *fakeProvider) AnalyzeSpending(context.Context, string, string) (string, error) {
	return f.response, f.err
}

const wellFormedResponse = `{
	"monthlyExpenses": [
		{"description": "lunch at deli", "amount": 25, "category": "Food & Dining",
		 "merchant": "Corner Deli", "paymentMethod": "card",
		 "tags": [" Work ", "lunch", ""], "confidence": 0.95},
		{"description": "gas", "amount": 60, "category": "Transportation",
		 "paymentMethod": "cash", "confidence": 0.9}
	],
	"totalAmount": 85,
	"expenseCount": 2,
	"categories": ["Food & Dining", "Transportation"],
	"timeframe": "current month",
	"insights": ["Transportation dominates this batch."]
}`

func TestExtractModelPath(t *testing.T) {
	e := NewExtractor(&fakeProvider{response: wellFormedResponse})
	result := e.Extract(context.Background(), "I spent $25 on lunch and $60 on gas")

	if result.Source != SourceModel {
		t.Fatalf("source = %s, want model", result.Source)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(result.Entries))
	}
	if result.Entries[0].Merchant != "Corner Deli" {
		t.Errorf("merchant = %q", result.Entries[0].Merchant)
	}
	if result.Entries[0].PaymentMethod != model.PaymentCard {
		t.Errorf("payment method = %s, want Card", result.Entries[0].PaymentMethod)
	}
	wantTags := []string{"work", "lunch"}
	if got := result.Entries[0].Tags; len(got) != 2 || got[0] != wantTags[0] || got[1] != wantTags[1] {
		t.Errorf("tags = %v, want %v (trimmed, lowercased, empties dropped)", got, wantTags)
	}
	if result.TotalAmount != 85 || result.ExpenseCount != 2 {
		t.Errorf("totals = %v/%d, want 85/2", result.TotalAmount, result.ExpenseCount)
	}
}

func TestExtractStripsCodeFence(t *testing.T) {
	fenced := "```json\n" + wellFormedResponse + "\n```"
	e := NewExtractor(&fakeProvider{response: fenced})

	result := e.Extract(context.Background(), "whatever")
	if result.Source != SourceModel || len(result.Entries) != 2 {
		t.Errorf("fenced JSON should still parse: source=%s entries=%d",
			result.Source, len(result.Entries))
	}
}

func TestExtractSurroundingProse(t *testing.T) {
	chatty := "Sure! Here is the breakdown:\n" + wellFormedResponse + "\nLet me know if you need more."
	e := NewExtractor(&fakeProvider{response: chatty})

	result := e.Extract(context.Background(), "whatever")
	if result.Source != SourceModel || len(result.Entries) != 2 {
		t.Errorf("outermost-brace recovery should parse: source=%s entries=%d",
			result.Source, len(result.Entries))
	}
}

func TestExtractFallsBackOnCallError(t *testing.T) {
	e := NewExtractor(&fakeProvider{err: errors.New("rate limited")})
	result := e.Extract(context.Background(), "I spent $25 on lunch")

	if result.Source != SourceFallback {
		t.Fatalf("source = %s, want fallback", result.Source)
	}
	if !strings.Contains(result.FallbackReason, "rate limited") {
		t.Errorf("reason = %q, want the provider error mentioned", result.FallbackReason)
	}
	if len(result.Entries) != 1 || result.Entries[0].Amount != 25 {
		t.Errorf("fallback entries = %+v, want the regex extraction", result.Entries)
	}
}

func TestExtractFallsBackOnGarbageResponse(t *testing.T) {
	e := NewExtractor(&fakeProvider{response: "I could not find any expenses, sorry!"})
	result := e.Extract(context.Background(), "I spent $25 on lunch and $60 on gas")

	if result.Source != SourceFallback {
		t.Fatalf("source = %s, want fallback on unparseable output", result.Source)
	}
	if result.Entries == nil {
		t.Fatal("Entries must be a non-nil slice")
	}
	if result.TotalAmount != 85 {
		t.Errorf("total = %v, want the regex path's 85", result.TotalAmount)
	}
}

func TestExtractNilProvider(t *testing.T) {
	e := NewExtractor(nil)
	result := e.Extract(context.Background(), "spent $10 on coffee")

	if result.Source != SourceFallback || result.FallbackReason != "no model configured" {
		t.Errorf("got %s/%q, want fallback with no-model reason",
			result.Source, result.FallbackReason)
	}
}

func TestFromWireDropsNegativeAndRecomputes(t *testing.T) {
	payload := &wirePayload{
		MonthlyExpenses: []wireExpense{
			{Description: "lunch", Amount: 25, Category: "Food & Dining", Confidence: 0.9},
			{Description: "refund glitch", Amount: -10, Category: "Other", Confidence: 0.9},
		},
		// Model totals include the dropped row; they must not be trusted.
		TotalAmount:  15,
		ExpenseCount: 2,
	}

	result := fromWire(payload)
	if len(result.Entries) != 1 {
		t.Fatalf("got %d entries, want 1 (negative amount dropped)", len(result.Entries))
	}
	if result.TotalAmount != 25 || result.ExpenseCount != 1 {
		t.Errorf("totals = %v/%d, want recomputed 25/1", result.TotalAmount, result.ExpenseCount)
	}
	if len(result.Categories) != 1 || result.Categories[0] != model.CategoryFoodDining {
		t.Errorf("categories = %v, want [Food & Dining]", result.Categories)
	}
}

func TestFromWireNormalizesCategoryAndClampsConfidence(t *testing.T) {
	payload := &wirePayload{
		MonthlyExpenses: []wireExpense{
			{Description: "snack", Amount: 5, Category: "food_dining", Confidence: 1.7},
			{Description: "mystery", Amount: 9, Category: "Cryptocurrency", Confidence: -0.2},
		},
	}

	result := fromWire(payload)
	if result.Entries[0].Category != model.CategoryFoodDining {
		t.Errorf("category = %s, want alias normalized to Food & Dining", result.Entries[0].Category)
	}
	if result.Entries[0].Confidence != 1 {
		t.Errorf("confidence = %v, want clamped to 1", result.Entries[0].Confidence)
	}
	if result.Entries[1].Category != model.CategoryOther {
		t.Errorf("category = %s, want unknown mapped to Other", result.Entries[1].Category)
	}
	if result.Entries[1].Confidence != 0 {
		t.Errorf("confidence = %v, want clamped to 0", result.Entries[1].Confidence)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := StripCodeFence(tt.in); got != tt.want {
			t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
