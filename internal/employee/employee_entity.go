package employee

import (
	"time"

	"employee-records/internal/salary"

	"github.com/google/uuid"
)

type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName    string    `gorm:"size:100;not null"`
	LastName     string    `gorm:"size:100;not null"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:uq_employee_email"`
	Phone        string    `gorm:"size:50"`
	HireDate     time.Time `gorm:"not null"`
	DepartmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	PositionID   uuid.UUID `gorm:"type:uuid;not null;index"`
	IsActive     bool      `gorm:"not null;default:true;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	Department *EmployeeDepartment `gorm:"foreignKey:DepartmentID;references:ID"`
	Position   *EmployeePosition   `gorm:"foreignKey:PositionID;references:ID"`
	Salaries   []salary.Salary     `gorm:"foreignKey:EmployeeID;references:ID"`
}

// EmployeeDepartment and EmployeePosition are narrow read models over
// tables owned by other packages, preloaded for list and detail views.
type EmployeeDepartment struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string
}

func (EmployeeDepartment) TableName() string {
	return "departments"
}

type EmployeePosition struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title string
}

func (EmployeePosition) TableName() string {
	return "positions"
}
