package position

import (
	"time"

	"github.com/google/uuid"
)

type Position struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title        string    `gorm:"size:255;not null"`
	Description  string    `gorm:"type:text"`
	DepartmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	Department *PositionDepartment `gorm:"foreignKey:DepartmentID;references:ID"`

	// Populated by the repository via subselect, never written.
	EmployeeCount int64 `gorm:"->;-:migration"`
}

// PositionDepartment is a narrow read model over the departments table so
// the position package does not depend on the department package.
type PositionDepartment struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string
}

func (PositionDepartment) TableName() string {
	return "departments"
}
