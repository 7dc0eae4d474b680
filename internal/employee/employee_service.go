package employee

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"employee-records/internal/events"
	"employee-records/internal/messaging/kafka"
	"employee-records/internal/salary"
	"employee-records/internal/shared/apperror"
	"employee-records/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

type Service interface {
	List(ctx context.Context, page, pageSize int, conditions []FilterCondition) (EmployeeListResponse, error)
	Create(ctx context.Context, req CreateEmployeeRequest) EmployeeMutationResult
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) EmployeeMutationResult
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
}

type service struct {
	db         *gorm.DB
	repo       Repository
	salaryRepo salary.Repository
	outbox     kafka.OutboxRepository
	sf         *singleflight.Group
	logger     *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, salaryRepo salary.Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		salaryRepo: salaryRepo,
		outbox:     outbox,
		sf:         &singleflight.Group{},
		logger:     l,
	}
}

// List composes the filter predicates into a paged read. Identical
// concurrent requests collapse into one query via singleflight. A failed
// query returns an empty result with zero counts, never a panic.
func (s *service) List(ctx context.Context, page, pageSize int, conditions []FilterCondition) (EmployeeListResponse, error) {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	key := listKey(page, pageSize, conditions)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		predicates := BuildPredicates(conditions)
		employees, total, err := s.repo.FindPage(ctx, predicates, page, pageSize)
		if err != nil {
			return nil, err
		}
		return EmployeeListResponse{
			Data:        mapToListResponse(employees),
			TotalCount:  total,
			TotalPages:  int(math.Ceil(float64(total) / float64(pageSize))),
			CurrentPage: page,
			PageSize:    pageSize,
		}, nil
	})
	if err != nil {
		s.logger.Error("employee listing failed",
			zap.Int("page", page),
			zap.Int("page_size", pageSize),
			zap.Error(err),
		)
		return EmployeeListResponse{
			Data:        []EmployeeResponse{},
			CurrentPage: defaultPage,
			PageSize:    defaultPageSize,
			Error:       "Failed to load employees",
		}, apperror.Wrap(err, apperror.CodeQueryFailure, "Failed to load employees", http.StatusInternalServerError)
	}

	return v.(EmployeeListResponse), nil
}

// Create inserts the employee and opens the initial active salary in one
// transaction. The duplicate-email check runs before any write.
func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) EmployeeMutationResult {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
	)

	hireDate, err := parseInputDate(req.HireDate)
	if err != nil {
		return failedMutation(apperror.New(apperror.CodeInvalidInput, "Invalid hire date", http.StatusBadRequest))
	}
	effectiveDate, err := parseInputDate(req.Salary.EffectiveDate)
	if err != nil {
		return failedMutation(apperror.New(apperror.CodeInvalidInput, "Invalid effective date", http.StatusBadRequest))
	}

	empl := Employee{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		HireDate:     hireDate,
		DepartmentID: uuid.MustParse(req.DepartmentID),
		PositionID:   uuid.MustParse(req.PositionID),
		IsActive:     true,
	}
	initial := salary.Salary{
		ID:            uuid.New(),
		EmployeeID:    empl.ID,
		BasicSalary:   req.Salary.BasicSalary,
		GrossSalary:   req.Salary.GrossSalary,
		NetSalary:     req.Salary.NetSalary,
		Currency:      req.Salary.Currency,
		SalaryType:    req.Salary.SalaryType,
		EffectiveDate: effectiveDate,
		IsActive:      true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		taken, err := qtx.ExistsByEmail(ctx, req.Email, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateEmail
		}

		if err := qtx.Create(ctx, &empl); err != nil {
			return mapRepositoryError(err)
		}
		if err := s.salaryRepo.WithTx(tx).Create(ctx, &initial); err != nil {
			return err
		}

		return s.enqueueCreatedEvent(ctx, tx, rid, empl)
	})
	if err != nil {
		s.logger.Error("create employee failed",
			zap.String("request_id", rid),
			zap.String("email", req.Email),
			zap.Error(err),
		)
		return failedMutation(err)
	}

	s.logger.Info("create employee success",
		zap.String("employee_id", empl.ID.String()),
	)

	emplResp := mapToResponse(empl, false)
	salaryResp := mapSalaryResponse(initial)
	return EmployeeMutationResult{
		Success:  true,
		Employee: &emplResp,
		Salary:   &salaryResp,
	}
}

// Update edits core fields and rotates the salary with caller-supplied
// gross and net, all in one transaction. Email uniqueness is checked
// excluding the employee itself.
func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) EmployeeMutationResult {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update employee requested",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)

	hireDate, err := parseInputDate(req.HireDate)
	if err != nil {
		return failedMutation(apperror.New(apperror.CodeInvalidInput, "Invalid hire date", http.StatusBadRequest))
	}
	effectiveDate, err := parseInputDate(req.Salary.EffectiveDate)
	if err != nil {
		return failedMutation(apperror.New(apperror.CodeInvalidInput, "Invalid effective date", http.StatusBadRequest))
	}

	var (
		empl    Employee
		rotated salary.Salary
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		found, err := qtx.FindByID(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}

		taken, err := qtx.ExistsByEmail(ctx, req.Email, id)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateEmail
		}

		found.FirstName = req.FirstName
		found.LastName = req.LastName
		found.Email = req.Email
		found.Phone = req.Phone
		found.HireDate = hireDate
		found.DepartmentID = uuid.MustParse(req.DepartmentID)
		found.PositionID = uuid.MustParse(req.PositionID)
		if req.IsActive != nil {
			found.IsActive = *req.IsActive
		}
		if err := qtx.Update(ctx, &found); err != nil {
			return mapRepositoryError(err)
		}

		stx := s.salaryRepo.WithTx(tx)
		if err := stx.CloseActiveForEmployee(ctx, id, time.Now()); err != nil {
			return err
		}
		rotated = salary.Salary{
			ID:            uuid.New(),
			EmployeeID:    found.ID,
			BasicSalary:   req.Salary.BasicSalary,
			GrossSalary:   req.Salary.GrossSalary,
			NetSalary:     req.Salary.NetSalary,
			Currency:      req.Salary.Currency,
			SalaryType:    req.Salary.SalaryType,
			EffectiveDate: effectiveDate,
			IsActive:      true,
		}
		if err := stx.Create(ctx, &rotated); err != nil {
			return err
		}

		empl = found
		return s.enqueueUpdatedEvent(ctx, tx, rid, found, rotated)
	})
	if err != nil {
		s.logger.Error("update employee failed",
			zap.String("request_id", rid),
			zap.String("employee_id", id),
			zap.Error(err),
		)
		return failedMutation(err)
	}

	s.logger.Info("update employee success",
		zap.String("employee_id", id),
		zap.String("salary_id", rotated.ID.String()),
	)

	emplResp := mapToResponse(empl, false)
	salaryResp := mapSalaryResponse(rotated)
	return EmployeeMutationResult{
		Success:  true,
		Employee: &emplResp,
		Salary:   &salaryResp,
	}
}

// GetByID returns the employee with the full salary history, newest
// first, including each entry's compensation set.
func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	empl, err := s.repo.FindByIDWithHistory(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(empl, true), nil
}

func (s *service) enqueueCreatedEvent(ctx context.Context, tx *gorm.DB, requestID string, empl Employee) error {
	event := events.EmployeeCreatedEvent{
		EventType:  "employee.created",
		RequestID:  requestID,
		EmployeeID: empl.ID.String(),
		Email:      empl.Email,
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     requestID,
		AggregateType: "employee",
		AggregateID:   empl.ID.String(),
		EventType:     event.EventType,
		Topic:         events.EmployeeCreatedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) enqueueUpdatedEvent(ctx context.Context, tx *gorm.DB, requestID string, empl Employee, rotated salary.Salary) error {
	event := events.EmployeeUpdatedEvent{
		EventType:  "employee.updated",
		RequestID:  requestID,
		EmployeeID: empl.ID.String(),
		Email:      empl.Email,
		SalaryID:   rotated.ID.String(),
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     requestID,
		AggregateType: "employee",
		AggregateID:   empl.ID.String(),
		EventType:     event.EventType,
		Topic:         events.EmployeeCreatedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func listKey(page, pageSize int, conditions []FilterCondition) string {
	filters, _ := json.Marshal(conditions)
	return fmt.Sprintf("employees:%d:%d:%s", page, pageSize, filters)
}

func failedMutation(err error) EmployeeMutationResult {
	return EmployeeMutationResult{Success: false, Error: mutationErrorMessage(err), Err: err}
}

func mutationErrorMessage(err error) string {
	if appErr, ok := err.(*apperror.AppError); ok {
		return appErr.Message
	}
	return "Something went wrong. Please try again."
}

func parseInputDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func mapToResponse(empl Employee, withHistory bool) EmployeeResponse {
	resp := EmployeeResponse{
		ID:           empl.ID.String(),
		FirstName:    empl.FirstName,
		LastName:     empl.LastName,
		Email:        empl.Email,
		Phone:        empl.Phone,
		HireDate:     empl.HireDate.Format("2006-01-02"),
		DepartmentID: empl.DepartmentID.String(),
		PositionID:   empl.PositionID.String(),
		IsActive:     empl.IsActive,
	}
	if empl.Department != nil {
		resp.Department = &EmployeeDepartmentResponse{
			ID:   empl.Department.ID.String(),
			Name: empl.Department.Name,
		}
	}
	if empl.Position != nil {
		resp.Position = &EmployeePositionResponse{
			ID:    empl.Position.ID.String(),
			Title: empl.Position.Title,
		}
	}

	for _, entry := range empl.Salaries {
		mapped := mapSalaryResponse(entry)
		if entry.IsActive && resp.ActiveSalary == nil {
			resp.ActiveSalary = &mapped
		}
		if withHistory {
			resp.SalaryHistory = append(resp.SalaryHistory, mapped)
		}
	}
	return resp
}

func mapSalaryResponse(entry salary.Salary) EmployeeSalaryResponse {
	resp := EmployeeSalaryResponse{
		ID:            entry.ID.String(),
		BasicSalary:   entry.BasicSalary,
		GrossSalary:   entry.GrossSalary,
		NetSalary:     entry.NetSalary,
		Currency:      entry.Currency,
		SalaryType:    entry.SalaryType,
		EffectiveDate: entry.EffectiveDate.Format("2006-01-02"),
		IsActive:      entry.IsActive,
	}
	if entry.EndDate != nil {
		endDate := entry.EndDate.Format("2006-01-02")
		resp.EndDate = &endDate
	}
	for _, comp := range entry.Compensations {
		resp.Compensations = append(resp.Compensations, EmployeeCompensationResponse{
			ID:           comp.ID.String(),
			Name:         comp.Name,
			Amount:       comp.Amount,
			Type:         comp.Type,
			IsPercentage: comp.IsPercentage,
		})
	}
	return resp
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(employees))
	for i, empl := range employees {
		res[i] = mapToResponse(empl, false)
	}
	return res
}
