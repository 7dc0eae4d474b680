package compensation

import (
	"context"

	"employee-records/internal/scope"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, comp *Compensation) error
	FindAllActive(ctx context.Context) ([]Compensation, error)
	FindActiveByIDs(ctx context.Context, ids []string) ([]Compensation, error)
	FindByID(ctx context.Context, id string) (*Compensation, error)
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

func (r *repository) Create(ctx context.Context, comp *Compensation) error {
	return r.db.WithContext(ctx).Create(comp).Error
}

func (r *repository) FindAllActive(ctx context.Context) ([]Compensation, error) {
	var comps []Compensation
	err := r.db.WithContext(ctx).
		Scopes(scope.ActiveOnly()).
		Order("name ASC").
		Find(&comps).Error
	return comps, err
}

// FindActiveByIDs resolves a compensation id set. Unknown or inactive ids
// are simply absent from the result, never an error.
func (r *repository) FindActiveByIDs(ctx context.Context, ids []string) ([]Compensation, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var comps []Compensation
	err := r.db.WithContext(ctx).
		Scopes(scope.ActiveOnly()).
		Where("id IN ?", ids).
		Find(&comps).Error
	return comps, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Compensation, error) {
	var comp Compensation
	err := r.db.WithContext(ctx).First(&comp, "id = ?", id).Error
	return &comp, err
}
