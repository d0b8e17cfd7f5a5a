package service

import (
	"context"
	"errors"
	"time"

	"github.com/Aariyan007/personal-expense-tracker/internal/model"
	"github.com/Aariyan007/personal-expense-tracker/internal/repository"
	"gorm.io/gorm"
)

// ErrNotFound covers both absent records and records owned by someone else;
// the two are indistinguishable to the caller.
var ErrNotFound = errors.New("record not found")

type GoalService struct {
	repo repository.GoalRepo
}

func NewGoalService(repo repository.GoalRepo) *GoalService {
	return &GoalService{repo: repo}
}

// GoalInput carries partial updates: nil pointer fields and zero-value
// strings mean "leave unchanged", so a name-only update cannot wipe the
// saved progress.
type GoalInput struct {
	Name         string
	TargetAmount float64
	SavedAmount  *float64
	Deadline     *time.Time
}

func (s *GoalService) Create(ctx context.Context, userID string, in GoalInput) (*model.Goal, error) {
	goal := &model.Goal{
		UserID:       userID,
		Name:         in.Name,
		TargetAmount: in.TargetAmount,
		Deadline:     in.Deadline,
	}
	if in.SavedAmount != nil {
		if *in.SavedAmount < 0 {
			return nil, ErrInvalidAmount
		}
		goal.SavedAmount = *in.SavedAmount
	}
	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) List(ctx context.Context, userID string) ([]model.Goal, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *GoalService) Update(ctx context.Context, userID string, id uint, in GoalInput) (*model.Goal, error) {
	goal, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		goal.Name = in.Name
	}
	if in.TargetAmount > 0 {
		goal.TargetAmount = in.TargetAmount
	}
	if in.SavedAmount != nil {
		if *in.SavedAmount < 0 {
			return nil, ErrInvalidAmount
		}
		goal.SavedAmount = *in.SavedAmount
	}
	if in.Deadline != nil {
		goal.Deadline = in.Deadline
	}

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Delete(ctx context.Context, userID string, id uint) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *GoalService) owned(ctx context.Context, userID string, id uint) (*model.Goal, error) {
	goal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if goal.UserID != userID {
		return nil, ErrNotFound
	}
	return goal, nil
}
