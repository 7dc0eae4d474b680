package salary_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"employee-records/internal/compensation"
	"employee-records/internal/messaging/kafka"
	"employee-records/internal/salary"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeSalaryRepository struct {
	createFn              func(ctx context.Context, s *salary.Salary) error
	closeActiveFn         func(ctx context.Context, employeeID string, closedAt time.Time) error
	findByIDFn            func(ctx context.Context, id string) (salary.Salary, error)
	findActiveFn          func(ctx context.Context, employeeID string) (salary.Salary, error)
	findActivePageFn      func(ctx context.Context, page, pageSize int) ([]salary.Salary, int64, error)
	findOverlappingPageFn func(ctx context.Context, start, end time.Time, page, pageSize int) ([]salary.Salary, int64, error)
}

func (f *fakeSalaryRepository) WithTx(tx *gorm.DB) salary.Repository {
	return f
}

func (f *fakeSalaryRepository) Create(ctx context.Context, s *salary.Salary) error {
	if f.createFn != nil {
		return f.createFn(ctx, s)
	}
	return nil
}

func (f *fakeSalaryRepository) CloseActiveForEmployee(ctx context.Context, employeeID string, closedAt time.Time) error {
	if f.closeActiveFn != nil {
		return f.closeActiveFn(ctx, employeeID, closedAt)
	}
	return nil
}

func (f *fakeSalaryRepository) FindByID(ctx context.Context, id string) (salary.Salary, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return salary.Salary{}, nil
}

func (f *fakeSalaryRepository) FindActiveForEmployee(ctx context.Context, employeeID string) (salary.Salary, error) {
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx, employeeID)
	}
	return salary.Salary{}, nil
}

func (f *fakeSalaryRepository) FindActivePage(ctx context.Context, page, pageSize int) ([]salary.Salary, int64, error) {
	if f.findActivePageFn != nil {
		return f.findActivePageFn(ctx, page, pageSize)
	}
	return nil, 0, nil
}

func (f *fakeSalaryRepository) FindOverlappingPage(ctx context.Context, start, end time.Time, page, pageSize int) ([]salary.Salary, int64, error) {
	if f.findOverlappingPageFn != nil {
		return f.findOverlappingPageFn(ctx, start, end, page, pageSize)
	}
	return nil, 0, nil
}

type fakeCompensationRepository struct {
	findActiveByIDsFn func(ctx context.Context, ids []string) ([]compensation.Compensation, error)
}

func (f *fakeCompensationRepository) WithTx(tx *gorm.DB) compensation.Repository {
	return f
}

func (f *fakeCompensationRepository) Create(ctx context.Context, comp *compensation.Compensation) error {
	return nil
}

func (f *fakeCompensationRepository) FindAllActive(ctx context.Context) ([]compensation.Compensation, error) {
	return nil, nil
}

func (f *fakeCompensationRepository) FindActiveByIDs(ctx context.Context, ids []string) ([]compensation.Compensation, error) {
	if f.findActiveByIDsFn != nil {
		return f.findActiveByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (f *fakeCompensationRepository) FindByID(ctx context.Context, id string) (*compensation.Compensation, error) {
	return nil, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *gorm.DB) kafka.OutboxRepository {
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type serviceDeps struct {
	sqlMock  sqlmock.Sqlmock
	service  salary.Service
	repo     *fakeSalaryRepository
	compRepo *fakeCompensationRepository
	outbox   *fakeOutboxRepository
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

	repo := &fakeSalaryRepository{}
	compRepo := &fakeCompensationRepository{}
	outbox := &fakeOutboxRepository{}
	svc := salary.NewService(db, repo, compRepo, outbox)

	return &serviceDeps{
		sqlMock:  sqlMock,
		service:  svc,
		repo:     repo,
		compRepo: compRepo,
		outbox:   outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func bonusComp(amount float64, percentage bool) compensation.Compensation {
	return compensation.Compensation{
		ID:           uuid.New(),
		Name:         "Bonus",
		Amount:       amount,
		Type:         compensation.TypeBonus,
		IsPercentage: percentage,
		IsActive:     true,
	}
}

func deductionComp(amount float64, percentage bool) compensation.Compensation {
	return compensation.Compensation{
		ID:           uuid.New(),
		Name:         "Deduction",
		Amount:       amount,
		Type:         compensation.TypeDeduction,
		IsPercentage: percentage,
		IsActive:     true,
	}
}

func TestComputeGrossNet(t *testing.T) {
	t.Run("fixed bonus raises gross and net", func(t *testing.T) {
		gross, net := salary.ComputeGrossNet(1000, []compensation.Compensation{bonusComp(100, false)})
		assert.Equal(t, 1100.0, gross)
		assert.Equal(t, 1100.0, net)
	})

	t.Run("percentage deduction lowers net only", func(t *testing.T) {
		gross, net := salary.ComputeGrossNet(1000, []compensation.Compensation{deductionComp(10, true)})
		assert.Equal(t, 1000.0, gross)
		assert.Equal(t, 900.0, net)
	})

	t.Run("percentage allowance", func(t *testing.T) {
		allowance := compensation.Compensation{
			Amount:       20,
			Type:         compensation.TypeAllowance,
			IsPercentage: true,
		}
		gross, net := salary.ComputeGrossNet(2000, []compensation.Compensation{allowance})
		assert.Equal(t, 2400.0, gross)
		assert.Equal(t, 2400.0, net)
	})

	t.Run("no compensations", func(t *testing.T) {
		gross, net := salary.ComputeGrossNet(1500, nil)
		assert.Equal(t, 1500.0, gross)
		assert.Equal(t, 1500.0, net)
	})
}

func TestSalaryService_ReplaceWithCompensations(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	req := salary.UpdateSalaryRequest{
		Salary: salary.SalaryInput{
			BasicSalary:   1000,
			Currency:      "USD",
			SalaryType:    salary.TypeMonthly,
			EffectiveDate: "2026-03-01",
		},
		CompensationIDs: []string{uuid.New().String(), uuid.New().String()},
	}

	t.Run("success closes old entry and derives gross and net", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		closed := false
		deps.repo.closeActiveFn = func(ctx context.Context, id string, closedAt time.Time) error {
			assert.Equal(t, employeeID, id)
			closed = true
			return nil
		}

		// Only one of the two requested ids resolves; the other is dropped.
		deps.compRepo.findActiveByIDsFn = func(ctx context.Context, ids []string) ([]compensation.Compensation, error) {
			assert.Len(t, ids, 2)
			return []compensation.Compensation{bonusComp(100, false)}, nil
		}

		var created *salary.Salary
		deps.repo.createFn = func(ctx context.Context, s *salary.Salary) error {
			assert.True(t, closed, "previous entry must close before the new one opens")
			created = s
			return nil
		}

		var enqueued *kafka.OutboxEvent
		deps.outbox.createFn = func(ctx context.Context, event kafka.OutboxEvent) error {
			enqueued = &event
			return nil
		}

		result := deps.service.ReplaceWithCompensations(ctx, employeeID, req)

		assert.True(t, result.Success)
		assert.NotNil(t, result.Salary)
		assert.Equal(t, 1100.0, result.Salary.GrossSalary)
		assert.Equal(t, 1100.0, result.Salary.NetSalary)
		assert.Len(t, result.Salary.Compensations, 1)

		assert.NotNil(t, created)
		assert.True(t, created.IsActive)
		assert.Nil(t, created.EndDate)
		assert.Equal(t, "2026-03-01", created.EffectiveDate.Format("2006-01-02"))

		assert.NotNil(t, enqueued)
		assert.Equal(t, "salary.rotated", enqueued.EventType)
		assert.Equal(t, kafka.OutboxStatusPending, enqueued.Status)

		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back without partial state", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		deps.repo.createFn = func(ctx context.Context, s *salary.Salary) error {
			return errors.New("insert failed")
		}

		result := deps.service.ReplaceWithCompensations(ctx, employeeID, req)

		assert.False(t, result.Success)
		assert.Nil(t, result.Salary)
		assert.NotEmpty(t, result.Error)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid effective date never opens a transaction", func(t *testing.T) {
		deps := setupServiceTest(t)

		bad := req
		bad.Salary.EffectiveDate = "not-a-date"

		result := deps.service.ReplaceWithCompensations(ctx, employeeID, bad)

		assert.False(t, result.Success)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestSalaryService_ListWithEmployees(t *testing.T) {
	ctx := context.Background()

	t.Run("current snapshot pagination", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.repo.findActivePageFn = func(ctx context.Context, page, pageSize int) ([]salary.Salary, int64, error) {
			assert.Equal(t, 2, page)
			assert.Equal(t, 5, pageSize)
			rows := make([]salary.Salary, 5)
			for i := range rows {
				rows[i] = salary.Salary{ID: uuid.New(), EmployeeID: uuid.New(), IsActive: true}
			}
			return rows, 12, nil
		}

		resp, err := deps.service.ListWithEmployees(ctx, 0, 0, 2, 5)

		assert.NoError(t, err)
		assert.Len(t, resp.Data, 5)
		assert.Equal(t, int64(12), resp.TotalCount)
		assert.Equal(t, 3, resp.TotalPages)
		assert.Equal(t, 2, resp.CurrentPage)
	})

	t.Run("month mode keeps latest entry per employee", func(t *testing.T) {
		deps := setupServiceTest(t)

		emplA := uuid.New()
		emplB := uuid.New()
		old := salary.Salary{
			ID:            uuid.New(),
			EmployeeID:    emplA,
			BasicSalary:   1000,
			EffectiveDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		}
		raise := salary.Salary{
			ID:            uuid.New(),
			EmployeeID:    emplA,
			BasicSalary:   1200,
			EffectiveDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		}
		other := salary.Salary{
			ID:            uuid.New(),
			EmployeeID:    emplB,
			BasicSalary:   900,
			EffectiveDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}

		deps.repo.findOverlappingPageFn = func(ctx context.Context, start, end time.Time, page, pageSize int) ([]salary.Salary, int64, error) {
			assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), start)
			assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), end)
			return []salary.Salary{raise, old, other}, 3, nil
		}

		resp, err := deps.service.ListWithEmployees(ctx, 3, 2026, 1, 10)

		assert.NoError(t, err)
		assert.Len(t, resp.Data, 2)
		assert.Equal(t, raise.ID.String(), resp.Data[0].ID)
		assert.Equal(t, other.ID.String(), resp.Data[1].ID)
		assert.Equal(t, int64(2), resp.TotalCount)
	})

	t.Run("query failure degrades to empty result", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.repo.findActivePageFn = func(ctx context.Context, page, pageSize int) ([]salary.Salary, int64, error) {
			return nil, 0, errors.New("db unavailable")
		}

		resp, err := deps.service.ListWithEmployees(ctx, 0, 0, 1, 10)

		assert.Error(t, err)
		assert.Empty(t, resp.Data)
		assert.Zero(t, resp.TotalCount)
		assert.NotEmpty(t, resp.Error)
	})
}

func TestSalaryService_ExportCSV(t *testing.T) {
	ctx := context.Background()

	t.Run("renders header and rows", func(t *testing.T) {
		deps := setupServiceTest(t)

		entry := salary.Salary{
			ID:            uuid.New(),
			EmployeeID:    uuid.New(),
			BasicSalary:   1000,
			GrossSalary:   1100,
			NetSalary:     1000,
			Currency:      "USD",
			SalaryType:    salary.TypeMonthly,
			EffectiveDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			IsActive:      true,
			Employee: &salary.SalaryEmployee{
				ID:        uuid.New(),
				FirstName: "Ada",
				LastName:  "Lovelace",
				Email:     "ada@example.com",
			},
			Compensations: []compensation.Compensation{
				bonusComp(100, false),
				deductionComp(10, true),
			},
		}
		deps.repo.findOverlappingPageFn = func(ctx context.Context, start, end time.Time, page, pageSize int) ([]salary.Salary, int64, error) {
			if page > 1 {
				return nil, 0, nil
			}
			return []salary.Salary{entry}, 1, nil
		}

		data, filename, err := deps.service.ExportCSV(ctx, 3, 2026)

		assert.NoError(t, err)
		assert.Equal(t, "salaries-2026-03.csv", filename)

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		assert.Len(t, lines, 2)
		assert.Contains(t, lines[0], "Basic Salary")
		assert.Contains(t, lines[1], "Ada Lovelace")
		assert.Contains(t, lines[1], "ada@example.com")
		assert.Contains(t, lines[1], "100.00")
		assert.Contains(t, lines[1], "1100.00")
	})

	t.Run("current snapshot filename", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.repo.findActivePageFn = func(ctx context.Context, page, pageSize int) ([]salary.Salary, int64, error) {
			return nil, 0, nil
		}

		_, filename, err := deps.service.ExportCSV(ctx, 0, 0)

		assert.NoError(t, err)
		assert.Equal(t, "salaries-current.csv", filename)
	})

	t.Run("pages until the listing runs dry", func(t *testing.T) {
		deps := setupServiceTest(t)

		pages := [][]salary.Salary{
			{activeEntry("ada@example.com"), activeEntry("grace@example.com")},
			{activeEntry("edsger@example.com")},
			nil,
		}
		var calls int
		deps.repo.findActivePageFn = func(ctx context.Context, page, pageSize int) ([]salary.Salary, int64, error) {
			calls++
			assert.Equal(t, calls, page)
			return pages[page-1], 3, nil
		}

		data, _, err := deps.service.ExportCSV(ctx, 0, 0)

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		assert.Len(t, lines, 4)
		assert.Contains(t, lines[3], "edsger@example.com")
	})
}

func activeEntry(email string) salary.Salary {
	return salary.Salary{
		ID:            uuid.New(),
		EmployeeID:    uuid.New(),
		BasicSalary:   1000,
		GrossSalary:   1000,
		NetSalary:     1000,
		Currency:      "USD",
		SalaryType:    salary.TypeMonthly,
		EffectiveDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:      true,
		Employee: &salary.SalaryEmployee{
			ID:    uuid.New(),
			Email: email,
		},
	}
}
