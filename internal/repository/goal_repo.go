package repository

import (
	"context"

	"github.com/Aariyan007/personal-expense-tracker/internal/model"
	"gorm.io/gorm"
)

type GoalRepo interface {
	Create(ctx context.Context, goal *model.Goal) error
	GetByID(ctx context.Context, id uint) (*model.Goal, error)
	ListByUser(ctx context.Context, userID string) ([]model.Goal, error)
	Update(ctx context.Context, goal *model.Goal) error
	Delete(ctx context.Context, id uint) error
}

type goalRepo struct {
	db *gorm.DB
}

func NewGoalRepo(db *gorm.DB) GoalRepo {
	return &goalRepo{db: db}
}

func (r *goalRepo) Create(ctx context.Context, goal *model.Goal) error {
	return r.db.WithContext(ctx).Create(goal).Error
}

func (r *goalRepo) GetByID(ctx context.Context, id uint) (*model.Goal, error) {
	var goal model.Goal
	if err := r.db.WithContext(ctx).First(&goal, id).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *goalRepo) ListByUser(ctx context.Context, userID string) ([]model.Goal, error) {
	var goals []model.Goal
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&goals).Error
	return goals, err
}

func (r *goalRepo) Update(ctx context.Context, goal *model.Goal) error {
	return r.db.WithContext(ctx).Save(goal).Error
}

func (r *goalRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Goal{}, id).Error
}
