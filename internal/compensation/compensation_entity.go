package compensation

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeAllowance = "ALLOWANCE"
	TypeBonus     = "BONUS"
	TypeDeduction = "DEDUCTION"
)

// Compensation is a reusable named adjustment (bonus, allowance or
// deduction) shared across salary records. It is a catalog entity, not
// owned by any employee.
type Compensation struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"size:255;not null"`
	Amount       float64   `gorm:"not null"`
	Description  string    `gorm:"type:text"`
	Type         string    `gorm:"size:20;not null"`
	IsPercentage bool      `gorm:"not null;default:false"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}
