package position

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, pos *Position) error
	FindAll(ctx context.Context, departmentID string) ([]Position, error)
	FindByID(ctx context.Context, id string) (*Position, error)
	Update(ctx context.Context, pos *Position) error
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, pos *Position) error {
	return r.db.WithContext(ctx).Create(pos).Error
}

func (r *repository) FindAll(ctx context.Context, departmentID string) ([]Position, error) {
	var positions []Position
	q := r.db.WithContext(ctx).
		Select("positions.*, (SELECT COUNT(*) FROM employees WHERE employees.position_id = positions.id) AS employee_count").
		Preload("Department").
		Order("title ASC")

	if departmentID != "" {
		q = q.Where("department_id = ?", departmentID)
	}

	err := q.Find(&positions).Error
	return positions, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Position, error) {
	var pos Position
	err := r.db.WithContext(ctx).
		Select("positions.*, (SELECT COUNT(*) FROM employees WHERE employees.position_id = positions.id) AS employee_count").
		Preload("Department").
		First(&pos, "id = ?", id).Error
	return &pos, err
}

func (r *repository) Update(ctx context.Context, pos *Position) error {
	return r.db.WithContext(ctx).Omit("Department").Save(pos).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Position{}, "id = ?", id).Error
}
