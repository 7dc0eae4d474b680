package compensation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"employee-records/internal/compensation"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeCompensationRepository struct {
	createFn        func(ctx context.Context, comp *compensation.Compensation) error
	findAllActiveFn func(ctx context.Context) ([]compensation.Compensation, error)
}

func (f *fakeCompensationRepository) WithTx(tx *gorm.DB) compensation.Repository {
	return f
}

func (f *fakeCompensationRepository) Create(ctx context.Context, comp *compensation.Compensation) error {
	if f.createFn != nil {
		return f.createFn(ctx, comp)
	}
	return nil
}

func (f *fakeCompensationRepository) FindAllActive(ctx context.Context) ([]compensation.Compensation, error) {
	if f.findAllActiveFn != nil {
		return f.findAllActiveFn(ctx)
	}
	return nil, nil
}

func (f *fakeCompensationRepository) FindActiveByIDs(ctx context.Context, ids []string) ([]compensation.Compensation, error) {
	return nil, nil
}

func (f *fakeCompensationRepository) FindByID(ctx context.Context, id string) (*compensation.Compensation, error) {
	return nil, nil
}

type serviceDeps struct {
	sqlMock   sqlmock.Sqlmock
	redisMock redismock.ClientMock
	service   compensation.Service
	repo      *fakeCompensationRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	assert.NoError(t, err)

	rdb, redisMock := redismock.NewClientMock()
	repo := &fakeCompensationRepository{}
	svc := compensation.NewService(db, repo, rdb)

	return &serviceDeps{
		sqlMock:   sqlMock,
		redisMock: redisMock,
		service:   svc,
		repo:      repo,
	}
}

func TestCompensationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns the mutation envelope", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()
		deps.redisMock.ExpectDel(compensation.CatalogCacheKey).SetVal(1)

		deps.repo.createFn = func(ctx context.Context, comp *compensation.Compensation) error {
			assert.NotEqual(t, uuid.Nil, comp.ID)
			assert.True(t, comp.IsActive)
			return nil
		}

		result := deps.service.Create(ctx, compensation.CreateCompensationRequest{
			Name:         "Transport Allowance",
			Amount:       250,
			Type:         compensation.TypeAllowance,
			IsPercentage: false,
		})

		assert.True(t, result.Success)
		assert.NotNil(t, result.Compensation)
		assert.Equal(t, "Transport Allowance", result.Compensation.Name)
		assert.True(t, result.Compensation.IsActive)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("failure yields envelope, never a raw error", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()

		deps.repo.createFn = func(ctx context.Context, comp *compensation.Compensation) error {
			return errors.New("insert failed")
		}

		result := deps.service.Create(ctx, compensation.CreateCompensationRequest{
			Name:   "Bonus",
			Amount: 100,
			Type:   compensation.TypeBonus,
		})

		assert.False(t, result.Success)
		assert.Nil(t, result.Compensation)
		assert.NotEmpty(t, result.Error)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestCompensationService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss loads active catalog", func(t *testing.T) {
		deps := setupServiceTest(t)

		comps := []compensation.Compensation{
			{ID: uuid.New(), Name: "Bonus", Amount: 100, Type: compensation.TypeBonus, IsActive: true},
		}
		deps.repo.findAllActiveFn = func(ctx context.Context) ([]compensation.Compensation, error) {
			return comps, nil
		}

		deps.redisMock.ExpectGet(compensation.CatalogCacheKey).RedisNil()
		deps.redisMock.Regexp().ExpectSet(compensation.CatalogCacheKey, `.*`, 1*time.Hour).SetVal("OK")

		resp, err := deps.service.GetAll(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, "Bonus", resp[0].Name)
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.redisMock.ExpectGet(compensation.CatalogCacheKey).RedisNil()
		deps.repo.findAllActiveFn = func(ctx context.Context) ([]compensation.Compensation, error) {
			return nil, errors.New("db unavailable")
		}

		_, err := deps.service.GetAll(ctx)

		assert.Error(t, err)
	})
}
