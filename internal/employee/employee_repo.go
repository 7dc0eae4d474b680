package employee

import (
	"context"

	"employee-records/internal/scope"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, empl *Employee) error
	Update(ctx context.Context, empl *Employee) error
	FindByID(ctx context.Context, id string) (Employee, error)
	FindByIDWithHistory(ctx context.Context, id string) (Employee, error)
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	FindPage(ctx context.Context, predicates []Predicate, page, pageSize int) ([]Employee, int64, error)
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

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).
		Omit("Department", "Position", "Salaries").
		Create(empl).Error
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).
		Omit("Department", "Position", "Salaries").
		Save(empl).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("Position").
		Preload("Salaries", "is_active = ?", true).
		First(&empl, "id = ?", id).Error
	return empl, err
}

// FindByIDWithHistory loads the full salary history, newest first, with
// each entry's compensation set.
func (r *repository) FindByIDWithHistory(ctx context.Context, id string) (Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("Position").
		Preload("Salaries", func(db *gorm.DB) *gorm.DB {
			return db.Order("effective_date DESC")
		}).
		Preload("Salaries.Compensations").
		First(&empl, "id = ?", id).Error
	return empl, err
}

// ExistsByEmail reports whether another employee already uses the email.
// excludeID is empty on create and the employee's own id on update.
func (r *repository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("email = ?", email)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindPage composes the filter predicates into one paged read. Active
// employees sort first, then last name and first name ascending.
func (r *repository) FindPage(ctx context.Context, predicates []Predicate, page, pageSize int) ([]Employee, int64, error) {
	base := r.db.WithContext(ctx).Model(&Employee{})
	for _, p := range predicates {
		if p.IsNoop() {
			continue
		}
		base = base.Where(p.Expr, p.Args...)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var employees []Employee
	err := base.Session(&gorm.Session{}).
		Preload("Department").
		Preload("Position").
		Preload("Salaries", "is_active = ?", true).
		Order("employees.is_active DESC, employees.last_name ASC, employees.first_name ASC").
		Scopes(scope.Paginate(page, pageSize)).
		Find(&employees).Error
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}
