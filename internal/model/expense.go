package model

import (
	"time"

	"gorm.io/gorm"
)

// ExpenseKind distinguishes money going out from money coming in.
type ExpenseKind string

const (
	KindExpense ExpenseKind = "expense"
	KindIncome  ExpenseKind = "income"
)

// PaymentMethod is heuristically extracted from free text; Unknown when the
// text gives no hint.
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "Cash"
	PaymentCard    PaymentMethod = "Card"
	PaymentDigital PaymentMethod = "Digital"
	PaymentUnknown PaymentMethod = "Unknown"
)

// ProcessingStatus tracks the lifecycle of an AI-extracted record. Confidence
// and status may be revised by later reprocessing; rows are never deleted
// automatically.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// Expense is a plain transaction row. Amount is validated >= 0 at the
// service layer; the store itself does not enforce it.
type Expense struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID      string      `gorm:"type:varchar(36);index" json:"user_id"`
	Amount      float64     `gorm:"type:decimal(10,2)" json:"amount"`
	Category    Category    `gorm:"type:varchar(64);index" json:"category"`
	Description string      `gorm:"type:text" json:"description"`
	Date        time.Time   `gorm:"index" json:"date"`
	Kind        ExpenseKind `gorm:"type:varchar(16);default:'expense'" json:"kind"`
}

func (Expense) TableName() string {
	return "expenses"
}

// AIExpense is the AI-augmented representation: the same transaction fields
// plus provenance (the free-text span that produced the row), heuristic
// merchant/payment metadata and extraction confidence.
type AIExpense struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID      string      `gorm:"type:varchar(36);index" json:"user_id"`
	Amount      float64     `gorm:"type:decimal(10,2)" json:"amount"`
	Category    Category    `gorm:"type:varchar(64);index" json:"category"`
	Description string      `gorm:"type:text" json:"description"`
	Date        time.Time   `gorm:"index" json:"date"`
	Kind        ExpenseKind `gorm:"type:varchar(16);default:'expense'" json:"kind"`

	OriginalText  *string          `gorm:"type:text" json:"original_text,omitempty"`
	Merchant      *string          `gorm:"type:varchar(128);index" json:"merchant,omitempty"`
	Location      *string          `gorm:"type:varchar(128)" json:"location,omitempty"`
	PaymentMethod PaymentMethod    `gorm:"type:varchar(16);default:'Unknown'" json:"payment_method"`
	Tags          []string         `gorm:"type:json;serializer:json" json:"tags"`
	// AICategory is what the extractor assigned; it can disagree with the
	// stored Category after a manual correction.
	AICategory Category         `gorm:"type:varchar(64);index" json:"ai_category"`
	Confidence float64          `json:"confidence"`
	Status     ProcessingStatus `gorm:"type:varchar(16);default:'pending';column:processing_status" json:"processing_status"`
}

func (AIExpense) TableName() string {
	return "ai_expenses"
}
