package repository

import (
	"context"
	"time"

	"github.com/Aariyan007/personal-expense-tracker/internal/model"
	"gorm.io/gorm"
)

// ExpenseFilter narrows expense listings.
type ExpenseFilter struct {
	UserID    string
	Category  model.Category
	Kind      model.ExpenseKind
	StartDate time.Time
	EndDate   time.Time
	Page      int
	PageSize  int
}

// ExpenseRepo is the expense store boundary. The Find* methods back the
// context builder's retrieval sources; SaveExtractionBatch is the
// all-or-nothing persistence step of the pipeline.
type ExpenseRepo interface {
	Create(ctx context.Context, expense *model.Expense) error
	GetByID(ctx context.Context, id uint) (*model.Expense, error)
	List(ctx context.Context, filter ExpenseFilter) ([]model.Expense, int64, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id uint) error

	FindByCategories(ctx context.Context, userID string, categories []model.Category, since time.Time, limit int) ([]model.Expense, error)
	FindByAmountRange(ctx context.Context, userID string, min, max float64, since time.Time, limit int) ([]model.Expense, error)
	FindRecent(ctx context.Context, userID string, since time.Time, limit int) ([]model.Expense, error)
	FindSince(ctx context.Context, userID string, since time.Time) ([]model.Expense, error)

	// SaveExtractionBatch persists one pipeline run in a single transaction:
	// either every row lands or none do.
	SaveExtractionBatch(ctx context.Context, expenses []model.Expense, aiRows []model.AIExpense) error
}

type expenseRepo struct {
	db *gorm.DB
}

func NewExpenseRepo(db *gorm.DB) ExpenseRepo {
	return &expenseRepo{db: db}
}

func (r *expenseRepo) Create(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

func (r *expenseRepo) GetByID(ctx context.Context, id uint) (*model.Expense, error) {
	var expense model.Expense
	if err := r.db.WithContext(ctx).First(&expense, id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepo) List(ctx context.Context, filter ExpenseFilter) ([]model.Expense, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Expense{}).Where("user_id = ?", filter.UserID)
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}
	if !filter.StartDate.IsZero() {
		q = q.Where("date >= ?", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		q = q.Where("date < ?", filter.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 || size > 100 {
		size = 10
	}

	var rows []model.Expense
	err := q.Order("date DESC").Offset((page - 1) * size).Limit(size).Find(&rows).Error
	return rows, total, err
}

func (r *expenseRepo) Update(ctx context.Context, expense *model.Expense) error {
	return r.db.WithContext(ctx).Save(expense).Error
}

func (r *expenseRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Expense{}, id).Error
}

func (r *expenseRepo) FindByCategories(ctx context.Context, userID string, categories []model.Category, since time.Time, limit int) ([]model.Expense, error) {
	var rows []model.Expense
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND category IN ? AND date >= ?", userID, categories, since).
		Order("date DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *expenseRepo) FindByAmountRange(ctx context.Context, userID string, min, max float64, since time.Time, limit int) ([]model.Expense, error) {
	var rows []model.Expense
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND amount BETWEEN ? AND ? AND date >= ?", userID, min, max, since).
		Order("date DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *expenseRepo) FindRecent(ctx context.Context, userID string, since time.Time, limit int) ([]model.Expense, error) {
	var rows []model.Expense
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *expenseRepo) FindSince(ctx context.Context, userID string, since time.Time) ([]model.Expense, error) {
	var rows []model.Expense
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *expenseRepo) SaveExtractionBatch(ctx context.Context, expenses []model.Expense, aiRows []model.AIExpense) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(expenses) > 0 {
			if err := tx.Create(&expenses).Error; err != nil {
				return err
			}
		}
		if len(aiRows) > 0 {
			if err := tx.Create(&aiRows).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
