package salary

import (
	"time"

	"employee-records/internal/compensation"

	"github.com/google/uuid"
)

const (
	TypeHourly  = "HOURLY"
	TypeMonthly = "MONTHLY"
	TypeYearly  = "YEARLY"
)

// Salary is one entry in an employee's append-only compensation history.
// At most one row per employee is active at any time; end_date is null only
// on the open-ended tail of the history.
type Salary struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	BasicSalary   float64    `gorm:"not null"`
	GrossSalary   float64    `gorm:"not null"`
	NetSalary     float64    `gorm:"not null"`
	Currency      string     `gorm:"size:10;not null"`
	SalaryType    string     `gorm:"size:10;not null"`
	EffectiveDate time.Time  `gorm:"not null"`
	EndDate       *time.Time `gorm:"index"`
	IsActive      bool       `gorm:"not null;default:false;index"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`

	Employee      *SalaryEmployee             `gorm:"foreignKey:EmployeeID;references:ID"`
	Compensations []compensation.Compensation `gorm:"many2many:salary_compensations"`
}

// SalaryEmployee is a narrow read model over the employees table used when
// listing salaries; the employee package owns the full entity.
type SalaryEmployee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName    string
	LastName     string
	Email        string
	IsActive     bool
	DepartmentID uuid.UUID `gorm:"type:uuid"`
	PositionID   uuid.UUID `gorm:"type:uuid"`

	Department *SalaryDepartment `gorm:"foreignKey:DepartmentID;references:ID"`
	Position   *SalaryPosition   `gorm:"foreignKey:PositionID;references:ID"`
}

func (SalaryEmployee) TableName() string {
	return "employees"
}

type SalaryDepartment struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string
}

func (SalaryDepartment) TableName() string {
	return "departments"
}

type SalaryPosition struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title string
}

func (SalaryPosition) TableName() string {
	return "positions"
}
