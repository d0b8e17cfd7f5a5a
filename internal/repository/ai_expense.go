package repository

import (
	"context"
	"time"

	"github.com/Aariyan007/personal-expense-tracker/internal/model"
	"gorm.io/gorm"
)

// AIExpenseRepo serves the AI-provenance retrieval source and the merchant
// summarizer.
type AIExpenseRepo interface {
	GetByID(ctx context.Context, id uint) (*model.AIExpense, error)

	// FindRelevant returns AI records whose stored or AI-assigned category
	// matches the requested set, above the confidence floor and after the
	// cutoff.
	FindRelevant(ctx context.Context, userID string, categories []model.Category, minConfidence float64, since time.Time, limit int) ([]model.AIExpense, error)

	// FindWithMerchant returns merchant-bearing records newest first,
	// capped at limit — the merchant summarizer's scan window.
	FindWithMerchant(ctx context.Context, userID string, since time.Time, limit int) ([]model.AIExpense, error)

	// UpdateStatus revises processing status (and optionally confidence)
	// after reprocessing. Rows are never deleted automatically.
	UpdateStatus(ctx context.Context, id uint, status model.ProcessingStatus, confidence *float64) error
}

type aiExpenseRepo struct {
	db *gorm.DB
}

func NewAIExpenseRepo(db *gorm.DB) AIExpenseRepo {
	return &aiExpenseRepo{db: db}
}

func (r *aiExpenseRepo) GetByID(ctx context.Context, id uint) (*model.AIExpense, error) {
	var row model.AIExpense
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *aiExpenseRepo) FindRelevant(ctx context.Context, userID string, categories []model.Category, minConfidence float64, since time.Time, limit int) ([]model.AIExpense, error) {
	var rows []model.AIExpense
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND confidence >= ? AND created_at >= ?", userID, minConfidence, since).
		Where("category IN ? OR ai_category IN ?", categories, categories).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *aiExpenseRepo) FindWithMerchant(ctx context.Context, userID string, since time.Time, limit int) ([]model.AIExpense, error) {
	var rows []model.AIExpense
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND merchant IS NOT NULL AND merchant <> '' AND date >= ?", userID, since).
		Order("date DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *aiExpenseRepo) UpdateStatus(ctx context.Context, id uint, status model.ProcessingStatus, confidence *float64) error {
	updates := map[string]any{"processing_status": status}
	if confidence != nil {
		updates["confidence"] = *confidence
	}
	return r.db.WithContext(ctx).Model(&model.AIExpense{}).Where("id = ?", id).Updates(updates).Error
}
