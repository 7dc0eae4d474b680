package employee_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"employee-records/internal/employee"
	"employee-records/internal/messaging/kafka"
	"employee-records/internal/salary"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	createFn        func(ctx context.Context, empl *employee.Employee) error
	updateFn        func(ctx context.Context, empl *employee.Employee) error
	findByIDFn      func(ctx context.Context, id string) (employee.Employee, error)
	findWithHistFn  func(ctx context.Context, id string) (employee.Employee, error)
	existsByEmailFn func(ctx context.Context, email, excludeID string) (bool, error)
	findPageFn      func(ctx context.Context, preds []employee.Predicate, page, pageSize int) ([]employee.Employee, int64, error)
}

func (f *fakeEmployeeRepository) WithTx(tx *gorm.DB) employee.Repository {
	return f
}

func (f *fakeEmployeeRepository) Create(ctx context.Context, empl *employee.Employee) error {
	if f.createFn != nil {
		return f.createFn(ctx, empl)
	}
	return nil
}

func (f *fakeEmployeeRepository) Update(ctx context.Context, empl *employee.Employee) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, empl)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return employee.Employee{}, nil
}

func (f *fakeEmployeeRepository) FindByIDWithHistory(ctx context.Context, id string) (employee.Employee, error) {
	if f.findWithHistFn != nil {
		return f.findWithHistFn(ctx, id)
	}
	return employee.Employee{}, nil
}

func (f *fakeEmployeeRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	if f.existsByEmailFn != nil {
		return f.existsByEmailFn(ctx, email, excludeID)
	}
	return false, nil
}

func (f *fakeEmployeeRepository) FindPage(ctx context.Context, preds []employee.Predicate, page, pageSize int) ([]employee.Employee, int64, error) {
	if f.findPageFn != nil {
		return f.findPageFn(ctx, preds, page, pageSize)
	}
	return nil, 0, nil
}

type fakeSalaryRepository struct {
	createFn      func(ctx context.Context, s *salary.Salary) error
	closeActiveFn func(ctx context.Context, employeeID string, closedAt time.Time) error
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
	return salary.Salary{}, nil
}

func (f *fakeSalaryRepository) FindActiveForEmployee(ctx context.Context, employeeID string) (salary.Salary, error) {
	return salary.Salary{}, nil
}

func (f *fakeSalaryRepository) FindActivePage(ctx context.Context, page, pageSize int) ([]salary.Salary, int64, error) {
	return nil, 0, nil
}

func (f *fakeSalaryRepository) FindOverlappingPage(ctx context.Context, start, end time.Time, page, pageSize int) ([]salary.Salary, int64, error) {
	return nil, 0, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
	events   []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *gorm.DB) kafka.OutboxRepository {
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
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
	sqlMock    sqlmock.Sqlmock
	service    employee.Service
	repo       *fakeEmployeeRepository
	salaryRepo *fakeSalaryRepository
	outbox     *fakeOutboxRepository
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

	repo := &fakeEmployeeRepository{}
	salaryRepo := &fakeSalaryRepository{}
	outbox := &fakeOutboxRepository{}
	svc := employee.NewService(db, repo, salaryRepo, outbox)

	return &serviceDeps{
		sqlMock:    sqlMock,
		service:    svc,
		repo:       repo,
		salaryRepo: salaryRepo,
		outbox:     outbox,
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

func createRequest() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		HireDate:     "2024-06-01",
		DepartmentID: uuid.New().String(),
		PositionID:   uuid.New().String(),
		Salary: employee.InitialSalaryInput{
			BasicSalary:   5000,
			GrossSalary:   5500,
			NetSalary:     5100,
			Currency:      "USD",
			SalaryType:    "MONTHLY",
			EffectiveDate: "2024-06-01",
		},
	}
}

func TestEmployeeService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("pagination math", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.repo.findPageFn = func(ctx context.Context, preds []employee.Predicate, page, pageSize int) ([]employee.Employee, int64, error) {
			assert.Equal(t, 2, page)
			assert.Equal(t, 5, pageSize)
			rows := make([]employee.Employee, 5)
			for i := range rows {
				rows[i] = employee.Employee{ID: uuid.New(), IsActive: true}
			}
			return rows, 12, nil
		}

		resp, err := deps.service.List(ctx, 2, 5, nil)

		assert.NoError(t, err)
		assert.Len(t, resp.Data, 5)
		assert.Equal(t, int64(12), resp.TotalCount)
		assert.Equal(t, 3, resp.TotalPages)
		assert.Equal(t, 2, resp.CurrentPage)
		assert.Equal(t, 5, resp.PageSize)
	})

	t.Run("filters reach the repository", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.repo.findPageFn = func(ctx context.Context, preds []employee.Predicate, page, pageSize int) ([]employee.Employee, int64, error) {
			assert.Len(t, preds, 1)
			assert.Equal(t, "employees.is_active = ?", preds[0].Expr)
			return nil, 0, nil
		}

		_, err := deps.service.List(ctx, 1, 10, []employee.FilterCondition{
			{Attribute: "isActive", Operation: employee.OpEquals, Value: "true"},
		})

		assert.NoError(t, err)
	})

	t.Run("query failure degrades to empty shape", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.repo.findPageFn = func(ctx context.Context, preds []employee.Predicate, page, pageSize int) ([]employee.Employee, int64, error) {
			return nil, 0, errors.New("db unavailable")
		}

		resp, err := deps.service.List(ctx, 3, 25, nil)

		assert.Error(t, err)
		assert.Empty(t, resp.Data)
		assert.Zero(t, resp.TotalCount)
		assert.Zero(t, resp.TotalPages)
		assert.Equal(t, 1, resp.CurrentPage)
		assert.Equal(t, 10, resp.PageSize)
		assert.NotEmpty(t, resp.Error)
	})
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success opens initial active salary", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		req := createRequest()

		var createdEmployee *employee.Employee
		deps.repo.createFn = func(ctx context.Context, empl *employee.Employee) error {
			createdEmployee = empl
			return nil
		}

		var createdSalary *salary.Salary
		deps.salaryRepo.createFn = func(ctx context.Context, s *salary.Salary) error {
			createdSalary = s
			return nil
		}

		result := deps.service.Create(ctx, req)

		assert.True(t, result.Success)
		assert.NotNil(t, result.Employee)
		assert.NotNil(t, result.Salary)
		assert.Equal(t, "ada@example.com", result.Employee.Email)

		assert.NotNil(t, createdEmployee)
		assert.True(t, createdEmployee.IsActive)
		assert.NotNil(t, createdSalary)
		assert.Equal(t, createdEmployee.ID, createdSalary.EmployeeID)
		assert.True(t, createdSalary.IsActive)
		assert.Equal(t, 5500.0, createdSalary.GrossSalary)
		assert.Equal(t, 5100.0, createdSalary.NetSalary)

		assert.Len(t, deps.outbox.events, 1)
		assert.Equal(t, "employee.created", deps.outbox.events[0].EventType)

		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate email writes nothing", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		deps.repo.existsByEmailFn = func(ctx context.Context, email, excludeID string) (bool, error) {
			assert.Equal(t, "ada@example.com", email)
			assert.Empty(t, excludeID)
			return true, nil
		}
		deps.repo.createFn = func(ctx context.Context, empl *employee.Employee) error {
			t.Fatal("create must not run on duplicate email")
			return nil
		}

		result := deps.service.Create(ctx, createRequest())

		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "email")
		assert.ErrorIs(t, result.Err, employee.ErrDuplicateEmail)
		assert.Empty(t, deps.outbox.events)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid hire date never opens a transaction", func(t *testing.T) {
		deps := setupServiceTest(t)

		req := createRequest()
		req.HireDate = "someday"

		result := deps.service.Create(ctx, req)

		assert.False(t, result.Success)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()
	emplID := uuid.New()

	updateRequest := func() employee.UpdateEmployeeRequest {
		return employee.UpdateEmployeeRequest{
			FirstName:    "Ada",
			LastName:     "King",
			Email:        "ada.king@example.com",
			HireDate:     "2024-06-01",
			DepartmentID: uuid.New().String(),
			PositionID:   uuid.New().String(),
			Salary: employee.InitialSalaryInput{
				BasicSalary:   6000,
				GrossSalary:   6600,
				NetSalary:     6200,
				Currency:      "USD",
				SalaryType:    "MONTHLY",
				EffectiveDate: "2026-01-01",
			},
		}
	}

	t.Run("success rotates salary with supplied numbers", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (employee.Employee, error) {
			return employee.Employee{ID: emplID, Email: "ada@example.com", IsActive: true}, nil
		}
		deps.repo.existsByEmailFn = func(ctx context.Context, email, excludeID string) (bool, error) {
			assert.Equal(t, emplID.String(), excludeID)
			return false, nil
		}

		closed := false
		deps.salaryRepo.closeActiveFn = func(ctx context.Context, employeeID string, closedAt time.Time) error {
			assert.Equal(t, emplID.String(), employeeID)
			closed = true
			return nil
		}

		var rotated *salary.Salary
		deps.salaryRepo.createFn = func(ctx context.Context, s *salary.Salary) error {
			assert.True(t, closed, "old entry must close before the new one opens")
			rotated = s
			return nil
		}

		result := deps.service.Update(ctx, emplID.String(), updateRequest())

		assert.True(t, result.Success)
		assert.Equal(t, "ada.king@example.com", result.Employee.Email)
		assert.NotNil(t, rotated)
		assert.True(t, rotated.IsActive)
		assert.Equal(t, 6600.0, rotated.GrossSalary)
		assert.Equal(t, 6200.0, rotated.NetSalary)

		assert.Len(t, deps.outbox.events, 1)
		assert.Equal(t, "employee.updated", deps.outbox.events[0].EventType)

		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("email taken by another employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (employee.Employee, error) {
			return employee.Employee{ID: emplID}, nil
		}
		deps.repo.existsByEmailFn = func(ctx context.Context, email, excludeID string) (bool, error) {
			return true, nil
		}
		deps.salaryRepo.closeActiveFn = func(ctx context.Context, employeeID string, closedAt time.Time) error {
			t.Fatal("rotation must not run on duplicate email")
			return nil
		}

		result := deps.service.Update(ctx, emplID.String(), updateRequest())

		assert.False(t, result.Success)
		assert.Contains(t, result.Error, "email")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown employee", func(t *testing.T) {
		deps := setupServiceTest(t)
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (employee.Employee, error) {
			return employee.Employee{}, gorm.ErrRecordNotFound
		}

		result := deps.service.Update(ctx, emplID.String(), updateRequest())

		assert.False(t, result.Success)
		assert.Equal(t, employee.ErrEmployeeNotFound.Message, result.Error)
		assert.ErrorIs(t, result.Err, employee.ErrEmployeeNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns full salary history", func(t *testing.T) {
		deps := setupServiceTest(t)
		emplID := uuid.New()
		now := time.Now()

		deps.repo.findWithHistFn = func(ctx context.Context, id string) (employee.Employee, error) {
			old := now.AddDate(0, -6, 0)
			endDate := now.AddDate(0, -1, 0)
			return employee.Employee{
				ID:        emplID,
				FirstName: "Ada",
				LastName:  "Lovelace",
				Email:     "ada@example.com",
				HireDate:  now.AddDate(-1, 0, 0),
				Salaries: []salary.Salary{
					{ID: uuid.New(), EmployeeID: emplID, IsActive: true, EffectiveDate: now},
					{ID: uuid.New(), EmployeeID: emplID, EffectiveDate: old, EndDate: &endDate},
				},
			}, nil
		}

		resp, err := deps.service.GetByID(ctx, emplID.String())

		assert.NoError(t, err)
		assert.Len(t, resp.SalaryHistory, 2)
		assert.NotNil(t, resp.ActiveSalary)
		assert.True(t, resp.ActiveSalary.IsActive)
		assert.NotNil(t, resp.SalaryHistory[1].EndDate)
	})

	t.Run("not found maps to domain error", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.repo.findWithHistFn = func(ctx context.Context, id string) (employee.Employee, error) {
			return employee.Employee{}, gorm.ErrRecordNotFound
		}

		_, err := deps.service.GetByID(ctx, uuid.New().String())

		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})
}
