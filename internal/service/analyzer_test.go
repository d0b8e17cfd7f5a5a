package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Aariyan007/personal-expense-tracker/internal/extract"
	"github.com/Aariyan007/personal-expense-tracker/internal/model"
	"github.com/Aariyan007/personal-expense-tracker/internal/ragcontext"
	"github.com/Aariyan007/personal-expense-tracker/internal/repository"
)

type fakeProvider struct {
	extractResponse string
	extractErr      error
	analyzeResponse string
	analyzeErr      error
	lastUserPrompt  string
}

func (f *fakeProvider) ExtractExpenses(context.Context, string) (string, error) {
	return f.extractResponse, f.extractErr
}

func (f *fakeProvider) AnalyzeSpending(_ context.Context, _ string, user string) (string, error) {
	f.lastUserPrompt = user
	return f.analyzeResponse, f.analyzeErr
}

func sampleExtraction() extract.Result {
	return extract.Result{
		Entries: []extract.Entry{
			{Description: "lunch", Amount: 25, Category: model.CategoryFoodDining, Confidence: 0.8},
			{Description: "gas", Amount: 60, Category: model.CategoryTransportation, Confidence: 0.8},
		},
		TotalAmount:  85,
		ExpenseCount: 2,
		Categories:   []model.Category{model.CategoryFoodDining, model.CategoryTransportation},
		Source:       extract.SourceModel,
	}
}

func TestAnalyzeModelPath(t *testing.T) {
	provider := &fakeProvider{analyzeResponse: `{
		"spending_analysis": "Transportation dominates.",
		"personalized_insights": ["Gas spend is up."],
		"predictions": ["Expect a similar month."],
		"health_score": 72,
		"actionable_steps": ["Carpool twice a week."]
	}`}
	a := NewAnalyzer(provider)

	report, src := a.Analyze(context.Background(), "spent $25 on lunch and $60 on gas",
		sampleExtraction(), nil, nil)

	if src != extract.SourceModel {
		t.Fatalf("source = %s, want model", src)
	}
	if report.SpendingAnalysis != "Transportation dominates." || report.HealthScore != 72 {
		t.Errorf("report = %+v", report)
	}
}

func TestAnalyzeClampsHealthScore(t *testing.T) {
	a := NewAnalyzer(&fakeProvider{analyzeResponse: `{"spending_analysis": "x", "health_score": 250}`})
	report, _ := a.Analyze(context.Background(), "p", sampleExtraction(), nil, nil)
	if report.HealthScore != 100 {
		t.Errorf("health score = %d, want clamped to 100", report.HealthScore)
	}
}

func TestAnalyzeFallsBackOnError(t *testing.T) {
	a := NewAnalyzer(&fakeProvider{analyzeErr: errors.New("timeout")})
	report, src := a.Analyze(context.Background(), "p", sampleExtraction(), nil, nil)

	if src != extract.SourceFallback {
		t.Fatalf("source = %s, want fallback", src)
	}
	if !strings.Contains(report.SpendingAnalysis, "$85.00") {
		t.Errorf("template analysis = %q, want the extraction total mentioned", report.SpendingAnalysis)
	}
	if report.HealthScore != 70 {
		t.Errorf("health score = %d, want the template's 70", report.HealthScore)
	}
	if len(report.PersonalizedInsights) != 1 ||
		!strings.Contains(report.PersonalizedInsights[0], string(model.CategoryTransportation)) {
		t.Errorf("insights = %v, want the largest category named", report.PersonalizedInsights)
	}
}

func TestAnalyzeFallsBackOnGarbage(t *testing.T) {
	a := NewAnalyzer(&fakeProvider{analyzeResponse: "no JSON here"})
	_, src := a.Analyze(context.Background(), "p", sampleExtraction(), nil, nil)
	if src != extract.SourceFallback {
		t.Errorf("source = %s, want fallback on unparseable output", src)
	}
}

func TestAnalyzeNilProvider(t *testing.T) {
	a := NewAnalyzer(nil)
	report, src := a.Analyze(context.Background(), "p", extract.Result{Entries: []extract.Entry{}}, nil, nil)

	if src != extract.SourceFallback {
		t.Fatalf("source = %s, want fallback", src)
	}
	if report.SpendingAnalysis == "" {
		t.Error("template must still produce an analysis for an empty extraction")
	}
	if len(report.PersonalizedInsights) != 0 {
		t.Errorf("insights = %v, want none without entries", report.PersonalizedInsights)
	}
}

func TestAnalyzePromptCarriesContextAndMemories(t *testing.T) {
	provider := &fakeProvider{analyzeResponse: `{"spending_analysis": "x", "health_score": 50}`}
	a := NewAnalyzer(provider)

	items := []ragcontext.Item{
		{Amount: 30, Category: model.CategoryFoodDining, Description: "sushi",
			Date: time.Now(), SourceKind: ragcontext.SourceCategory, RelevanceScore: 1.0},
	}
	memories := []repository.MemoryResult{
		{Content: "weekly sushi habit", Category: string(model.CategoryFoodDining)},
	}

	a.Analyze(context.Background(), "spent $25 on lunch", sampleExtraction(), items, memories)

	prompt := provider.lastUserPrompt
	for _, want := range []string{"spent $25 on lunch", "Spending history", "weekly sushi habit"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSummarizeContext(t *testing.T) {
	if got := SummarizeContext(nil); !strings.Contains(got, "No relevant spending history") {
		t.Errorf("empty context summary = %q", got)
	}

	items := []ragcontext.Item{
		{Amount: 20, Category: model.CategoryFoodDining},
		{Amount: 40, Category: model.CategoryFoodDining},
		{Amount: 10, Category: model.CategoryShopping},
	}
	got := SummarizeContext(items)
	if !strings.Contains(got, "3 related expense(s) totaling $70.00") {
		t.Errorf("summary header wrong: %q", got)
	}
	if !strings.Contains(got, "Food & Dining: $30.00 avg over 2 record(s)") {
		t.Errorf("per-category average wrong: %q", got)
	}
}
