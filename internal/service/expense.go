package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Aariyan007/personal-expense-tracker/internal/extract"
	"github.com/Aariyan007/personal-expense-tracker/internal/infrastructure/embedding"
	"github.com/Aariyan007/personal-expense-tracker/internal/infrastructure/llm"
	"github.com/Aariyan007/personal-expense-tracker/internal/model"
	"github.com/Aariyan007/personal-expense-tracker/internal/ragcontext"
	"github.com/Aariyan007/personal-expense-tracker/internal/repository"
	"gorm.io/gorm"
)

// ErrInvalidAmount rejects negative amounts before they reach the store.
var ErrInvalidAmount = errors.New("amount must be non-negative")

// ExpenseService owns expense CRUD, the paragraph pipeline and the pattern
// reports.
type ExpenseService struct {
	repo      repository.ExpenseRepo
	aiRepo    repository.AIExpenseRepo
	builder   *ragcontext.Builder
	extractor *extract.Extractor
	analyzer  *Analyzer

	// Vector memory is optional; nil embedder/memory disables it.
	embedder   embedding.Provider
	memoryRepo repository.MemoryRepo
}

func NewExpenseService(
	repo repository.ExpenseRepo,
	aiRepo repository.AIExpenseRepo,
	builder *ragcontext.Builder,
	provider llm.Provider,
	embedder embedding.Provider,
	memoryRepo repository.MemoryRepo,
) *ExpenseService {
	return &ExpenseService{
		repo:       repo,
		aiRepo:     aiRepo,
		builder:    builder,
		extractor:  extract.NewExtractor(provider),
		analyzer:   NewAnalyzer(provider),
		embedder:   embedder,
		memoryRepo: memoryRepo,
	}
}

// ---------- CRUD ----------

type ExpenseInput struct {
	Amount      float64
	Category    string
	Description string
	Date        *time.Time
	Kind        model.ExpenseKind
}

func (s *ExpenseService) CreateExpense(ctx context.Context, userID string, in ExpenseInput) (*model.Expense, error) {
	if in.Amount < 0 {
		return nil, ErrInvalidAmount
	}
	category, _ := model.NormalizeCategory(in.Category)
	kind := in.Kind
	if kind == "" {
		kind = model.KindExpense
	}
	date := time.Now()
	if in.Date != nil {
		date = *in.Date
	}

	expense := &model.Expense{
		UserID:      userID,
		Amount:      in.Amount,
		Category:    category,
		Description: in.Description,
		Date:        date,
		Kind:        kind,
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) ListExpenses(ctx context.Context, filter repository.ExpenseFilter) ([]model.Expense, int64, error) {
	return s.repo.List(ctx, filter)
}

// ExpenseUpdate carries a partial update: nil pointers and empty strings
// mean "leave unchanged", so zero is a settable amount and an omitted field
// never clobbers stored data.
type ExpenseUpdate struct {
	Amount      *float64
	Category    string
	Description string
	Date        *time.Time
}

func (s *ExpenseService) UpdateExpense(ctx context.Context, userID string, id uint, in ExpenseUpdate) (*model.Expense, error) {
	expense, err := s.ownedExpense(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Amount != nil {
		if *in.Amount < 0 {
			return nil, ErrInvalidAmount
		}
		expense.Amount = *in.Amount
	}
	if in.Category != "" {
		expense.Category, _ = model.NormalizeCategory(in.Category)
	}
	if in.Description != "" {
		expense.Description = in.Description
	}
	if in.Date != nil {
		expense.Date = *in.Date
	}

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, userID string, id uint) error {
	if _, err := s.ownedExpense(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.memoryRepo != nil {
		go func() {
			if err := s.memoryRepo.Delete(context.Background(), int64(id)); err != nil {
				slog.Error("memory delete failed", "id", id, "error", err)
			}
		}()
	}
	return nil
}

func (s *ExpenseService) ownedExpense(ctx context.Context, userID string, id uint) (*model.Expense, error) {
	expense, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if expense.UserID != userID {
		return nil, ErrNotFound
	}
	return expense, nil
}

// ---------- pipeline ----------

// ProcessResult is everything one pipeline run produced. It is returned
// even when persistence fails, so the caller can surface the extracted data
// alongside the error.
type ProcessResult struct {
	Extraction  extract.Result       `json:"extraction"`
	Analysis    model.AnalysisReport `json:"analysis"`
	AnalysisSrc extract.Source       `json:"analysis_source"`
	ContextSize int                  `json:"context_size"`
	Saved       int                  `json:"saved"`
}

// ProcessParagraph runs extract -> context -> analyze -> persist. Only the
// persistence step can fail the call; everything upstream degrades to a
// fallback and always answers.
func (s *ExpenseService) ProcessParagraph(ctx context.Context, userID, paragraph string) (*ProcessResult, error) {
	slog.Info("processing paragraph", "user", userID, "len", len(paragraph))

	// 1. Extract. Never errors; worst case is the regex fallback.
	extraction := s.extractor.Extract(ctx, paragraph)

	// 2. Retrieval context. Degrades to empty on any store trouble.
	summary := ragcontext.Summary{
		Categories:   extraction.Categories,
		Amounts:      entryAmounts(extraction.Entries),
		TotalAmount:  extraction.TotalAmount,
		ExpenseCount: extraction.ExpenseCount,
	}
	items := s.builder.BuildContext(ctx, userID, summary)

	// 3. Analyze, with similar past descriptions from vector memory when
	// available.
	memories := s.recallSimilar(ctx, userID, paragraph)
	analysis, analysisSrc := s.analyzer.Analyze(ctx, paragraph, extraction, items, memories)

	result := &ProcessResult{
		Extraction:  extraction,
		Analysis:    analysis,
		AnalysisSrc: analysisSrc,
		ContextSize: len(items),
	}

	// 4. Persist, all-or-nothing.
	expenses, aiRows := rowsFromExtraction(userID, paragraph, extraction)
	if len(expenses) > 0 {
		if err := s.repo.SaveExtractionBatch(ctx, expenses, aiRows); err != nil {
			return result, fmt.Errorf("persist extraction: %w", err)
		}
		result.Saved = len(expenses)
		s.rememberAsync(userID, expenses)
	}

	return result, nil
}

func entryAmounts(entries []extract.Entry) []float64 {
	amounts := make([]float64, len(entries))
	for i, e := range entries {
		amounts[i] = e.Amount
	}
	return amounts
}

func rowsFromExtraction(userID, paragraph string, extraction extract.Result) ([]model.Expense, []model.AIExpense) {
	now := time.Now()
	expenses := make([]model.Expense, 0, len(extraction.Entries))
	aiRows := make([]model.AIExpense, 0, len(extraction.Entries))

	for _, entry := range extraction.Entries {
		expenses = append(expenses, model.Expense{
			UserID:      userID,
			Amount:      entry.Amount,
			Category:    entry.Category,
			Description: entry.Description,
			Date:        now,
			Kind:        model.KindExpense,
		})

		original := paragraph
		row := model.AIExpense{
			UserID:        userID,
			Amount:        entry.Amount,
			Category:      entry.Category,
			Description:   entry.Description,
			Date:          now,
			Kind:          model.KindExpense,
			OriginalText:  &original,
			PaymentMethod: entry.PaymentMethod,
			Tags:          entry.Tags,
			AICategory:    entry.Category,
			Confidence:    entry.Confidence,
			Status:        model.StatusCompleted,
		}
		if entry.Merchant != "" {
			merchant := entry.Merchant
			row.Merchant = &merchant
		}
		if entry.Location != "" {
			location := entry.Location
			row.Location = &location
		}
		aiRows = append(aiRows, row)
	}
	return expenses, aiRows
}

// recallSimilar fetches up to 3 similar past descriptions. Any failure is
// logged and treated as no history.
func (s *ExpenseService) recallSimilar(ctx context.Context, userID, paragraph string) []repository.MemoryResult {
	if s.embedder == nil || s.memoryRepo == nil {
		return nil
	}
	vector, err := s.embedder.GetVector(ctx, paragraph)
	if err != nil {
		slog.Warn("embedding failed, skipping memory recall", "error", err)
		return nil
	}
	memories, err := s.memoryRepo.SearchSimilar(ctx, userID, 3, vector)
	if err != nil {
		slog.Warn("memory search failed", "error", err)
		return nil
	}
	return memories
}

// rememberAsync embeds and stores the new descriptions in the background.
// The request context may be gone by the time this runs, so a fresh one with
// a timeout is used.
func (s *ExpenseService) rememberAsync(userID string, expenses []model.Expense) {
	if s.embedder == nil || s.memoryRepo == nil {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		for _, expense := range expenses {
			vector, err := s.embedder.GetVector(bgCtx, expense.Description)
			if err != nil {
				slog.Error("memory embedding failed", "error", err)
				continue
			}
			if err := s.memoryRepo.SaveMemory(bgCtx, userID, expense.ID, expense.Description, string(expense.Category), vector); err != nil {
				slog.Error("memory save failed", "error", err)
			}
		}
	}()
}

// ---------- reprocessing ----------

// ErrNoProvenance marks an AI record that cannot be reprocessed because the
// free text it was extracted from was never stored.
var ErrNoProvenance = errors.New("record has no original text")

// ReprocessAIExpense re-runs extraction over a record's stored original text
// and revises its confidence and processing status: processing while the
// extraction runs, then completed, or failed when the text no longer yields
// a matching entry.
func (s *ExpenseService) ReprocessAIExpense(ctx context.Context, userID string, id uint) (*model.AIExpense, error) {
	row, err := s.aiRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if row.UserID != userID {
		return nil, ErrNotFound
	}
	if row.OriginalText == nil || *row.OriginalText == "" {
		return nil, ErrNoProvenance
	}

	if err := s.aiRepo.UpdateStatus(ctx, id, model.StatusProcessing, nil); err != nil {
		return nil, err
	}

	extraction := s.extractor.Extract(ctx, *row.OriginalText)
	entry, ok := closestEntry(extraction.Entries, row.Amount)
	if !ok {
		if err := s.aiRepo.UpdateStatus(ctx, id, model.StatusFailed, nil); err != nil {
			slog.Error("reprocess status update failed", "id", id, "error", err)
		}
		return nil, fmt.Errorf("reprocess: extraction yielded no entries for record %d", id)
	}

	confidence := entry.Confidence
	if err := s.aiRepo.UpdateStatus(ctx, id, model.StatusCompleted, &confidence); err != nil {
		return nil, err
	}
	row.Confidence = confidence
	row.Status = model.StatusCompleted
	return row, nil
}

// closestEntry picks the extracted entry nearest the record's stored amount,
// since reprocessed text can yield several entries.
func closestEntry(entries []extract.Entry, amount float64) (extract.Entry, bool) {
	if len(entries) == 0 {
		return extract.Entry{}, false
	}
	best := entries[0]
	bestDiff := math.Abs(best.Amount - amount)
	for _, e := range entries[1:] {
		if diff := math.Abs(e.Amount - amount); diff < bestDiff {
			best, bestDiff = e, diff
		}
	}
	return best, true
}

// ---------- pattern reports ----------

// PatternsReport bundles both summarizers.
type PatternsReport struct {
	Spending  []ragcontext.CategoryPattern `json:"spending"`
	Merchants []ragcontext.MerchantPattern `json:"merchants"`
}

const merchantScanLimit = 50

// Patterns computes the spending trend over months ago and the merchant
// report over the last 3 months. Both are recomputed on demand, never cached.
func (s *ExpenseService) Patterns(ctx context.Context, userID string, months int) (*PatternsReport, error) {
	if months < 1 {
		months = 6
	}
	now := time.Now()

	expenses, err := s.repo.FindSince(ctx, userID, now.AddDate(0, -months, 0))
	if err != nil {
		return nil, err
	}

	merchantRows, err := s.aiRepo.FindWithMerchant(ctx, userID, now.AddDate(0, -3, 0), merchantScanLimit)
	if err != nil {
		return nil, err
	}

	return &PatternsReport{
		Spending:  ragcontext.SpendingPatterns(expenses),
		Merchants: ragcontext.MerchantPatterns(merchantRows),
	}, nil
}
