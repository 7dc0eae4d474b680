package salary

import (
	"context"
	"time"

	"employee-records/internal/scope"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, salary *Salary) error
	CloseActiveForEmployee(ctx context.Context, employeeID string, closedAt time.Time) error
	FindByID(ctx context.Context, id string) (Salary, error)
	FindActiveForEmployee(ctx context.Context, employeeID string) (Salary, error)
	FindActivePage(ctx context.Context, page, pageSize int) ([]Salary, int64, error)
	FindOverlappingPage(ctx context.Context, start, end time.Time, page, pageSize int) ([]Salary, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// Create inserts the salary row and its join rows to already existing
// compensations; the compensation rows themselves are left untouched.
func (r *repository) Create(ctx context.Context, salary *Salary) error {
	return r.db.WithContext(ctx).
		Omit("Compensations.*").
		Create(salary).Error
}

// CloseActiveForEmployee ends the employee's current salary entry, if any.
// A no-op when the employee has no active entry.
func (r *repository) CloseActiveForEmployee(ctx context.Context, employeeID string, closedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Salary{}).
		Where("employee_id = ? AND is_active = ?", employeeID, true).
		Updates(map[string]interface{}{
			"is_active": false,
			"end_date":  closedAt,
		}).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (Salary, error) {
	var salary Salary
	err := r.db.WithContext(ctx).
		Preload("Employee.Department").
		Preload("Employee.Position").
		Preload("Compensations").
		First(&salary, "id = ?", id).Error
	return salary, err
}

func (r *repository) FindActiveForEmployee(ctx context.Context, employeeID string) (Salary, error) {
	var salary Salary
	err := r.db.WithContext(ctx).
		Preload("Compensations").
		Where("employee_id = ? AND is_active = ?", employeeID, true).
		First(&salary).Error
	return salary, err
}

// FindActivePage lists current salaries ordered by employee name, one row
// per employee since only one entry is active at a time.
func (r *repository) FindActivePage(ctx context.Context, page, pageSize int) ([]Salary, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&Salary{}).
		Joins("JOIN employees ON employees.id = salaries.employee_id").
		Where("salaries.is_active = ?", true)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var salaries []Salary
	err := base.Session(&gorm.Session{}).
		Preload("Employee.Department").
		Preload("Employee.Position").
		Preload("Compensations").
		Order("employees.last_name ASC, employees.first_name ASC").
		Scopes(scope.Paginate(page, pageSize)).
		Find(&salaries).Error
	if err != nil {
		return nil, 0, err
	}
	return salaries, total, nil
}

// FindOverlappingPage lists every salary whose validity window intersects
// [start, end]. Open-ended entries overlap any window at or after their
// effective date. Within one employee the newest entry sorts first so a
// caller reducing to one row per employee can take the first hit.
func (r *repository) FindOverlappingPage(ctx context.Context, start, end time.Time, page, pageSize int) ([]Salary, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&Salary{}).
		Joins("JOIN employees ON employees.id = salaries.employee_id").
		Where("salaries.effective_date <= ? AND (salaries.end_date IS NULL OR salaries.end_date >= ?)", end, start)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var salaries []Salary
	err := base.Session(&gorm.Session{}).
		Preload("Employee.Department").
		Preload("Employee.Position").
		Preload("Compensations").
		Order("employees.last_name ASC, employees.first_name ASC, salaries.effective_date DESC").
		Scopes(scope.Paginate(page, pageSize)).
		Find(&salaries).Error
	if err != nil {
		return nil, 0, err
	}
	return salaries, total, nil
}
