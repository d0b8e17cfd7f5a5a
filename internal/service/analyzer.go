package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Aariyan007/personal-expense-tracker/internal/extract"
	"github.com/Aariyan007/personal-expense-tracker/internal/infrastructure/llm"
	"github.com/Aariyan007/personal-expense-tracker/internal/model"
	"github.com/Aariyan007/personal-expense-tracker/internal/ragcontext"
	"github.com/Aariyan007/personal-expense-tracker/internal/repository"
)

// Analyzer runs the narrative-analysis stage. Like extraction, it always
// answers: model trouble substitutes a deterministic template built from the
// structured totals.
type Analyzer struct {
	provider llm.Provider
}

func NewAnalyzer(provider llm.Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

func (a *Analyzer) Analyze(
	ctx context.Context,
	paragraph string,
	extraction extract.Result,
	items []ragcontext.Item,
	memories []repository.MemoryResult,
) (model.AnalysisReport, extract.Source) {
	if a.provider == nil {
		return fallbackAnalysis(extraction), extract.SourceFallback
	}

	prompt := buildAnalysisPrompt(paragraph, extraction, items, memories)
	raw, err := a.provider.AnalyzeSpending(ctx, model.AnalysisSystemPrompt, prompt)
	if err != nil {
		slog.Warn("analysis call failed, using template", "error", err)
		return fallbackAnalysis(extraction), extract.SourceFallback
	}

	var report model.AnalysisReport
	if err := json.Unmarshal([]byte(extract.StripCodeFence(raw)), &report); err != nil {
		slog.Warn("analysis response unparseable, using template", "error", err)
		return fallbackAnalysis(extraction), extract.SourceFallback
	}

	if report.HealthScore < 0 {
		report.HealthScore = 0
	}
	if report.HealthScore > 100 {
		report.HealthScore = 100
	}
	return report, extract.SourceModel
}

// buildAnalysisPrompt assembles the user message: the raw paragraph, the
// extracted structure, a textual summary of the retrieval context and any
// similar past descriptions.
func buildAnalysisPrompt(
	paragraph string,
	extraction extract.Result,
	items []ragcontext.Item,
	memories []repository.MemoryResult,
) string {
	var b strings.Builder

	b.WriteString("User's paragraph:\n")
	b.WriteString(paragraph)
	b.WriteString("\n\nExtracted expenses:\n")
	for _, entry := range extraction.Entries {
		fmt.Fprintf(&b, "- %s: $%.2f [%s]\n", entry.Description, entry.Amount, entry.Category)
	}
	fmt.Fprintf(&b, "Total: $%.2f across %d expense(s).\n", extraction.TotalAmount, extraction.ExpenseCount)

	b.WriteString("\n")
	b.WriteString(SummarizeContext(items))

	if len(memories) > 0 {
		b.WriteString("\nSimilar past purchases:\n")
		for _, memory := range memories {
			if memory.Category != "" {
				fmt.Fprintf(&b, "- [%s] %s\n", memory.Category, memory.Content)
			} else {
				fmt.Fprintf(&b, "- %s\n", memory.Content)
			}
		}
	}

	return b.String()
}

// SummarizeContext renders the ranked context as counts, totals and
// per-category averages, which is all the model needs from it.
func SummarizeContext(items []ragcontext.Item) string {
	if len(items) == 0 {
		return "No relevant spending history.\n"
	}

	var total float64
	catTotals := make(map[model.Category]float64)
	catCounts := make(map[model.Category]int)
	for _, it := range items {
		total += it.Amount
		catTotals[it.Category] += it.Amount
		catCounts[it.Category]++
	}

	categories := make([]model.Category, 0, len(catTotals))
	for c := range catTotals {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		return catTotals[categories[i]] > catTotals[categories[j]]
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Spending history: %d related expense(s) totaling $%.2f.\n", len(items), total)
	b.WriteString("Per-category averages:\n")
	for _, c := range categories {
		avg := catTotals[c] / float64(catCounts[c])
		fmt.Fprintf(&b, "- %s: $%.2f avg over %d record(s)\n", c, avg, catCounts[c])
	}
	return b.String()
}

// fallbackAnalysis is the deterministic substitute, derived only from the
// current extraction.
func fallbackAnalysis(extraction extract.Result) model.AnalysisReport {
	report := model.AnalysisReport{
		SpendingAnalysis: fmt.Sprintf(
			"You recorded %d expense(s) totaling $%.2f across %d categories.",
			extraction.ExpenseCount, extraction.TotalAmount, len(extraction.Categories)),
		HealthScore: 70,
		ActionableSteps: []string{
			"Review your largest spending category for cuts.",
			"Set a monthly budget per category and track against it.",
		},
	}

	if top, amount, ok := largestCategory(extraction); ok {
		report.PersonalizedInsights = []string{
			fmt.Sprintf("%s is your largest category this period at $%.2f.", top, amount),
		}
	} else {
		report.PersonalizedInsights = []string{}
	}

	report.Predictions = []string{
		fmt.Sprintf("At this rate you will spend roughly $%.2f next month.", extraction.TotalAmount),
	}
	return report
}

func largestCategory(extraction extract.Result) (model.Category, float64, bool) {
	totals := make(map[model.Category]float64)
	for _, entry := range extraction.Entries {
		totals[entry.Category] += entry.Amount
	}
	var top model.Category
	var max float64
	for category, amount := range totals {
		if amount > max || (amount == max && category < top) {
			top, max = category, amount
		}
	}
	return top, max, max > 0
}
