package model

import (
	"time"

	"gorm.io/gorm"
)

// Goal is a savings goal. Thin CRUD, no derived state.
type Goal struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID       string     `gorm:"type:varchar(36);index" json:"user_id"`
	Name         string     `gorm:"type:varchar(128);not null" json:"name"`
	TargetAmount float64    `gorm:"type:decimal(10,2)" json:"target_amount"`
	SavedAmount  float64    `gorm:"type:decimal(10,2)" json:"saved_amount"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

func (Goal) TableName() string {
	return "goals"
}
