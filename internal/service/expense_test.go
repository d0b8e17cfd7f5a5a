package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Aariyan007/personal-expense-tracker/internal/extract"
	"github.com/Aariyan007/personal-expense-tracker/internal/model"
	"github.com/Aariyan007/personal-expense-tracker/internal/ragcontext"
	"github.com/Aariyan007/personal-expense-tracker/internal/repository"
	"gorm.io/gorm"
)

// fakeExpenseRepo is an in-memory ExpenseRepo. SaveExtractionBatch mimics the
// transactional contract: on a forced failure nothing is stored.
type fakeExpenseRepo struct {
	expenses []model.Expense
	aiRows   []model.AIExpense
	nextID   uint

	batchErr   error
	batchCalls int
}

func (f *fakeExpenseRepo) Create(_ context.Context, expense *model.Expense) error {
	f.nextID++
	expense.ID = f.nextID
	f.expenses = append(f.expenses, *expense)
	return nil
}

func (f *fakeExpenseRepo) GetByID(_ context.Context, id uint) (*model.Expense, error) {
	for i := range f.expenses {
		if f.expenses[i].ID == id {
			e := f.expenses[i]
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeExpenseRepo) List(_ context.Context, filter repository.ExpenseFilter) ([]model.Expense, int64, error) {
	var out []model.Expense
	for _, e := range f.expenses {
		if e.UserID == filter.UserID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeExpenseRepo) Update(_ context.Context, expense *model.Expense) error {
	for i := range f.expenses {
		if f.expenses[i].ID == expense.ID {
			f.expenses[i] = *expense
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeExpenseRepo) Delete(_ context.Context, id uint) error {
	for i := range f.expenses {
		if f.expenses[i].ID == id {
			f.expenses = append(f.expenses[:i], f.expenses[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeExpenseRepo) FindByCategories(context.Context, string, []model.Category, time.Time, int) ([]model.Expense, error) {
	return nil, nil
}

func (f *fakeExpenseRepo) FindByAmountRange(context.Context, string, float64, float64, time.Time, int) ([]model.Expense, error) {
	return nil, nil
}

func (f *fakeExpenseRepo) FindRecent(context.Context, string, time.Time, int) ([]model.Expense, error) {
	return nil, nil
}

func (f *fakeExpenseRepo) FindSince(_ context.Context, userID string, _ time.Time) ([]model.Expense, error) {
	var out []model.Expense
	for _, e := range f.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExpenseRepo) SaveExtractionBatch(_ context.Context, expenses []model.Expense, aiRows []model.AIExpense) error {
	f.batchCalls++
	if f.batchErr != nil {
		return f.batchErr
	}
	f.expenses = append(f.expenses, expenses...)
	f.aiRows = append(f.aiRows, aiRows...)
	return nil
}

type statusChange struct {
	id         uint
	status     model.ProcessingStatus
	confidence *float64
}

type fakeAIExpenseRepo struct {
	rows          []model.AIExpense
	statusChanges []statusChange
}

func (f *fakeAIExpenseRepo) GetByID(_ context.Context, id uint) (*model.AIExpense, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			row := f.rows[i]
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAIExpenseRepo) FindRelevant(context.Context, string, []model.Category, float64, time.Time, int) ([]model.AIExpense, error) {
	return nil, nil
}

func (f *fakeAIExpenseRepo) FindWithMerchant(_ context.Context, userID string, _ time.Time, limit int) ([]model.AIExpense, error) {
	rows := f.rows
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeAIExpenseRepo) UpdateStatus(_ context.Context, id uint, status model.ProcessingStatus, confidence *float64) error {
	f.statusChanges = append(f.statusChanges, statusChange{id, status, confidence})
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Status = status
			if confidence != nil {
				f.rows[i].Confidence = *confidence
			}
		}
	}
	return nil
}

func newTestService(repo *fakeExpenseRepo, aiRepo *fakeAIExpenseRepo) *ExpenseService {
	builder := ragcontext.NewBuilder(repo, aiRepo, nil,
		ragcontext.DefaultBuilderConfig(), ragcontext.DefaultScoringConfig())
	// nil provider: both extract and analyze take their fallback paths,
	// which keeps the pipeline deterministic under test.
	return NewExpenseService(repo, aiRepo, builder, nil, nil, nil)
}

func TestProcessParagraphPersistsBothRowKinds(t *testing.T) {
	repo := &fakeExpenseRepo{}
	svc := newTestService(repo, &fakeAIExpenseRepo{})

	paragraph := "I spent $25 on lunch and $60 on gas"
	result, err := svc.ProcessParagraph(context.Background(), "u1", paragraph)
	if err != nil {
		t.Fatalf("ProcessParagraph: %v", err)
	}

	if result.Extraction.Source != extract.SourceFallback {
		t.Errorf("extraction source = %s, want fallback without a provider", result.Extraction.Source)
	}
	if result.Saved != 2 {
		t.Errorf("saved = %d, want 2", result.Saved)
	}
	if len(repo.expenses) != 2 || len(repo.aiRows) != 2 {
		t.Fatalf("stored %d expenses / %d ai rows, want 2/2", len(repo.expenses), len(repo.aiRows))
	}

	row := repo.aiRows[0]
	if row.OriginalText == nil || *row.OriginalText != paragraph {
		t.Error("AI row must carry the original paragraph")
	}
	if row.Status != model.StatusCompleted {
		t.Errorf("status = %s, want completed", row.Status)
	}
	if row.AICategory != model.CategoryFoodDining {
		t.Errorf("ai category = %s, want Food & Dining", row.AICategory)
	}
	if repo.expenses[0].Amount+repo.expenses[1].Amount != 85 {
		t.Errorf("stored amounts sum to %v, want 85",
			repo.expenses[0].Amount+repo.expenses[1].Amount)
	}
}

func TestProcessParagraphReturnsResultOnPersistFailure(t *testing.T) {
	repo := &fakeExpenseRepo{batchErr: errors.New("deadlock")}
	svc := newTestService(repo, &fakeAIExpenseRepo{})

	result, err := svc.ProcessParagraph(context.Background(), "u1", "spent $25 on lunch")
	if err == nil {
		t.Fatal("want an error when persistence fails")
	}
	if result == nil {
		t.Fatal("the pipeline result must still be returned alongside the error")
	}
	if result.Saved != 0 {
		t.Errorf("saved = %d, want 0", result.Saved)
	}
	if len(result.Extraction.Entries) != 1 {
		t.Errorf("extraction lost: %d entries", len(result.Extraction.Entries))
	}
	if len(repo.expenses) != 0 {
		t.Errorf("%d rows stored despite the batch failure", len(repo.expenses))
	}
}

func TestProcessParagraphNothingToSave(t *testing.T) {
	repo := &fakeExpenseRepo{}
	svc := newTestService(repo, &fakeAIExpenseRepo{})

	result, err := svc.ProcessParagraph(context.Background(), "u1", "had a quiet week")
	if err != nil {
		t.Fatalf("ProcessParagraph: %v", err)
	}
	if result.Saved != 0 || repo.batchCalls != 0 {
		t.Errorf("saved=%d batchCalls=%d, want no persistence without entries",
			result.Saved, repo.batchCalls)
	}
	if result.Analysis.SpendingAnalysis == "" {
		t.Error("analysis must still answer for an empty extraction")
	}
}

func TestCreateExpenseRejectsNegativeAmount(t *testing.T) {
	svc := newTestService(&fakeExpenseRepo{}, &fakeAIExpenseRepo{})

	if _, err := svc.CreateExpense(context.Background(), "u1", ExpenseInput{Amount: -5}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestCreateExpenseNormalizesCategoryAndDefaults(t *testing.T) {
	svc := newTestService(&fakeExpenseRepo{}, &fakeAIExpenseRepo{})

	expense, err := svc.CreateExpense(context.Background(), "u1", ExpenseInput{
		Amount:      12,
		Category:    "food",
		Description: "sandwich",
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	if expense.Category != model.CategoryFoodDining {
		t.Errorf("category = %s, want alias normalized", expense.Category)
	}
	if expense.Kind != model.KindExpense {
		t.Errorf("kind = %s, want the expense default", expense.Kind)
	}
	if expense.Date.IsZero() {
		t.Error("date should default to now")
	}
}

func TestUpdateExpenseOwnership(t *testing.T) {
	repo := &fakeExpenseRepo{}
	svc := newTestService(repo, &fakeAIExpenseRepo{})

	created, err := svc.CreateExpense(context.Background(), "u1", ExpenseInput{Amount: 10, Category: "food"})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	if _, err := svc.UpdateExpense(context.Background(), "u2", created.ID, ExpenseUpdate{Description: "hijack"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("another user's update: err = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteExpense(context.Background(), "u2", created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("another user's delete: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.UpdateExpense(context.Background(), "u1", 9999, ExpenseUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing row: err = %v, want ErrNotFound", err)
	}
}

func TestUpdateExpensePartial(t *testing.T) {
	svc := newTestService(&fakeExpenseRepo{}, &fakeAIExpenseRepo{})

	created, err := svc.CreateExpense(context.Background(), "u1", ExpenseInput{
		Amount: 42, Category: "food", Description: "dinner",
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	// Omitted amount must not clobber the stored one.
	updated, err := svc.UpdateExpense(context.Background(), "u1", created.ID, ExpenseUpdate{Description: "team dinner"})
	if err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	if updated.Amount != 42 {
		t.Errorf("amount = %v, want 42 preserved", updated.Amount)
	}
	if updated.Description != "team dinner" {
		t.Errorf("description = %q", updated.Description)
	}

	// Zero is a legitimate amount and must be settable.
	zero := 0.0
	updated, err = svc.UpdateExpense(context.Background(), "u1", created.ID, ExpenseUpdate{Amount: &zero})
	if err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}
	if updated.Amount != 0 {
		t.Errorf("amount = %v, want an explicit 0 to stick", updated.Amount)
	}

	negative := -3.0
	if _, err := svc.UpdateExpense(context.Background(), "u1", created.ID, ExpenseUpdate{Amount: &negative}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestReprocessAIExpense(t *testing.T) {
	text := "I spent $25 on lunch and $60 on gas"
	aiRepo := &fakeAIExpenseRepo{rows: []model.AIExpense{
		{ID: 1, UserID: "u1", Amount: 25, Category: model.CategoryFoodDining,
			OriginalText: &text, Status: model.StatusCompleted, Confidence: 0.3},
	}}
	svc := newTestService(&fakeExpenseRepo{}, aiRepo)

	row, err := svc.ReprocessAIExpense(context.Background(), "u1", 1)
	if err != nil {
		t.Fatalf("ReprocessAIExpense: %v", err)
	}

	if len(aiRepo.statusChanges) != 2 {
		t.Fatalf("got %d status changes, want processing then completed", len(aiRepo.statusChanges))
	}
	if aiRepo.statusChanges[0].status != model.StatusProcessing {
		t.Errorf("first transition = %s, want processing", aiRepo.statusChanges[0].status)
	}
	last := aiRepo.statusChanges[1]
	if last.status != model.StatusCompleted || last.confidence == nil {
		t.Fatalf("final transition = %s (confidence %v), want completed with a confidence", last.status, last.confidence)
	}
	// The $25 entry is the closest to the stored amount; the fallback scores
	// matched keywords 0.8.
	if *last.confidence != 0.8 {
		t.Errorf("revised confidence = %v, want 0.8", *last.confidence)
	}
	if row.Status != model.StatusCompleted || row.Confidence != 0.8 {
		t.Errorf("returned row = %s/%v, want completed/0.8", row.Status, row.Confidence)
	}
}

func TestReprocessAIExpenseNoEntriesMarksFailed(t *testing.T) {
	text := "a quiet week, nothing bought"
	aiRepo := &fakeAIExpenseRepo{rows: []model.AIExpense{
		{ID: 1, UserID: "u1", Amount: 25, OriginalText: &text, Status: model.StatusCompleted},
	}}
	svc := newTestService(&fakeExpenseRepo{}, aiRepo)

	if _, err := svc.ReprocessAIExpense(context.Background(), "u1", 1); err == nil {
		t.Fatal("want an error when the text yields no entries")
	}
	if aiRepo.rows[0].Status != model.StatusFailed {
		t.Errorf("status = %s, want failed", aiRepo.rows[0].Status)
	}
}

func TestReprocessAIExpenseGuards(t *testing.T) {
	text := "spent $10 on coffee"
	aiRepo := &fakeAIExpenseRepo{rows: []model.AIExpense{
		{ID: 1, UserID: "u1", Amount: 10, Status: model.StatusCompleted}, // no original text
		{ID: 2, UserID: "u2", Amount: 10, OriginalText: &text, Status: model.StatusCompleted},
	}}
	svc := newTestService(&fakeExpenseRepo{}, aiRepo)

	if _, err := svc.ReprocessAIExpense(context.Background(), "u1", 1); !errors.Is(err, ErrNoProvenance) {
		t.Errorf("missing text: err = %v, want ErrNoProvenance", err)
	}
	if _, err := svc.ReprocessAIExpense(context.Background(), "u1", 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("another user's row: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.ReprocessAIExpense(context.Background(), "u1", 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("absent row: err = %v, want ErrNotFound", err)
	}
	if len(aiRepo.statusChanges) != 0 {
		t.Errorf("%d status changes recorded for rejected requests, want none", len(aiRepo.statusChanges))
	}
}

func TestPatterns(t *testing.T) {
	repo := &fakeExpenseRepo{}
	aiRepo := &fakeAIExpenseRepo{}
	svc := newTestService(repo, aiRepo)

	now := time.Now()
	repo.expenses = []model.Expense{
		{ID: 1, UserID: "u1", Amount: 30, Category: model.CategoryFoodDining,
			Date: now.AddDate(0, 0, -10), Kind: model.KindExpense},
		{ID: 2, UserID: "u1", Amount: 70, Category: model.CategoryShopping,
			Date: now.AddDate(0, 0, -20), Kind: model.KindExpense},
	}
	merchant := "Shell"
	aiRepo.rows = []model.AIExpense{
		{UserID: "u1", Amount: 60, Category: model.CategoryTransportation,
			Date: now.AddDate(0, 0, -5), Merchant: &merchant},
	}

	report, err := svc.Patterns(context.Background(), "u1", 0) // 0 defaults to 6 months
	if err != nil {
		t.Fatalf("Patterns: %v", err)
	}
	if len(report.Spending) != 2 || report.Spending[0].Category != model.CategoryShopping {
		t.Errorf("spending = %+v, want Shopping first", report.Spending)
	}
	if len(report.Merchants) != 1 || report.Merchants[0].Merchant != "Shell" {
		t.Errorf("merchants = %+v", report.Merchants)
	}
}
