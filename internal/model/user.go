package model

import "time"

type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username  string    `gorm:"type:varchar(100);not null;unique" json:"username"`
	Email     string    `gorm:"type:varchar(255);not null;unique;index" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Onboarding preferences. Zero values mean the user skipped onboarding.
	MonthlyIncome float64 `gorm:"type:decimal(10,2)" json:"monthly_income"`
	SavingsTarget float64 `gorm:"type:decimal(10,2)" json:"savings_target"`
	Currency      string  `gorm:"type:varchar(8);default:'USD'" json:"currency"`
	Onboarded     bool    `json:"onboarded"`
}
