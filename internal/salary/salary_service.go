package salary

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"employee-records/internal/compensation"
	"employee-records/internal/events"
	"employee-records/internal/messaging/kafka"
	"employee-records/internal/shared/apperror"
	"employee-records/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 10

	// Export walks the paged query in chunks until it runs dry, so the
	// document always covers the full result set.
	exportPageSize = 10000
)

type Service interface {
	ReplaceWithCompensations(ctx context.Context, employeeID string, req UpdateSalaryRequest) UpdateSalaryResult
	ListWithEmployees(ctx context.Context, month, year, page, pageSize int) (SalaryListResponse, error)
	ExportCSV(ctx context.Context, month, year int) ([]byte, string, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	compRepo compensation.Repository
	outbox   kafka.OutboxRepository
	logger   *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, compRepo compensation.Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("salary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salary.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		compRepo: compRepo,
		outbox:   outbox,
		logger:   l,
	}
}

// CompensationValue resolves a single compensation against a basic salary.
// Percentage entries are a share of basic, fixed entries count as-is.
func CompensationValue(comp compensation.Compensation, basic float64) float64 {
	if comp.IsPercentage {
		return basic * comp.Amount / 100
	}
	return comp.Amount
}

// ComputeGrossNet derives gross and net from a basic salary and the
// attached compensation set. Bonuses and allowances raise both gross and
// net; deductions lower net only.
func ComputeGrossNet(basic float64, comps []compensation.Compensation) (gross, net float64) {
	gross = basic
	net = basic
	for _, comp := range comps {
		value := CompensationValue(comp, basic)
		if comp.Type == compensation.TypeDeduction {
			net -= value
			continue
		}
		gross += value
		net += value
	}
	return gross, net
}

// ReplaceWithCompensations rotates an employee's salary: the active entry
// is closed and a new active entry is written with gross and net derived
// from the resolved compensation set, all inside one transaction. Unknown
// or inactive compensation ids are dropped silently.
func (s *service) ReplaceWithCompensations(ctx context.Context, employeeID string, req UpdateSalaryRequest) UpdateSalaryResult {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("salary replacement requested",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.Int("compensation_ids", len(req.CompensationIDs)),
	)

	effectiveDate, err := parseDate(req.Salary.EffectiveDate)
	if err != nil {
		return failedReplacement(apperror.New(apperror.CodeInvalidInput, "Invalid effective date", http.StatusBadRequest))
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return failedReplacement(apperror.New(apperror.CodeInvalidInput, "Invalid employee id", http.StatusBadRequest))
	}

	var created Salary
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		comps, err := s.compRepo.WithTx(tx).FindActiveByIDs(ctx, req.CompensationIDs)
		if err != nil {
			return err
		}

		now := time.Now()
		if err := qtx.CloseActiveForEmployee(ctx, employeeID, now); err != nil {
			return err
		}

		gross, net := ComputeGrossNet(req.Salary.BasicSalary, comps)
		created = Salary{
			ID:            uuid.New(),
			EmployeeID:    employeeUUID,
			BasicSalary:   req.Salary.BasicSalary,
			GrossSalary:   gross,
			NetSalary:     net,
			Currency:      req.Salary.Currency,
			SalaryType:    req.Salary.SalaryType,
			EffectiveDate: effectiveDate,
			IsActive:      true,
			Compensations: comps,
		}
		if err := qtx.Create(ctx, &created); err != nil {
			return mapRepositoryError(err)
		}

		return s.enqueueRotatedEvent(ctx, tx, rid, created)
	})
	if err != nil {
		s.logger.Error("salary replacement failed",
			zap.String("request_id", rid),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return failedReplacement(err)
	}

	s.logger.Info("salary replacement success",
		zap.String("employee_id", employeeID),
		zap.String("salary_id", created.ID.String()),
	)

	resp := mapToResponse(created)
	return UpdateSalaryResult{Success: true, Salary: &resp}
}

// ListWithEmployees pages through salary entries joined with their
// employees. Without a month/year it lists current entries; with one it
// reconstructs the salary state for that month, reducing overlapping
// entries to the latest per employee after pagination.
func (s *service) ListWithEmployees(ctx context.Context, month, year, page, pageSize int) (SalaryListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	if month == 0 || year == 0 {
		salaries, total, err := s.repo.FindActivePage(ctx, page, pageSize)
		if err != nil {
			s.logger.Error("salary listing failed", zap.Error(err))
			return emptyListResponse(page, pageSize), apperror.Wrap(err, apperror.CodeQueryFailure, "Failed to load salaries", http.StatusInternalServerError)
		}
		return SalaryListResponse{
			Data:        mapToListResponse(salaries),
			TotalCount:  total,
			TotalPages:  int(math.Ceil(float64(total) / float64(pageSize))),
			CurrentPage: page,
			PageSize:    pageSize,
		}, nil
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	salaries, _, err := s.repo.FindOverlappingPage(ctx, start, end, page, pageSize)
	if err != nil {
		s.logger.Error("salary reconstruction failed",
			zap.Int("month", month),
			zap.Int("year", year),
			zap.Error(err),
		)
		return emptyListResponse(page, pageSize), apperror.Wrap(err, apperror.CodeQueryFailure, "Failed to load salaries", http.StatusInternalServerError)
	}

	reduced := reduceToLatestPerEmployee(salaries)

	// Historical counts reflect the reduced page, not the raw overlap set.
	return SalaryListResponse{
		Data:        mapToListResponse(reduced),
		TotalCount:  int64(len(reduced)),
		TotalPages:  int(math.Ceil(float64(len(reduced)) / float64(pageSize))),
		CurrentPage: page,
		PageSize:    pageSize,
	}, nil
}

// ExportCSV renders the same listing as ListWithEmployees into a CSV
// document and returns it with a suggested filename. It pages through
// the listing until an empty page; an employee split across a page
// boundary in month mode keeps only its first row, which carries the
// latest effective date.
func (s *service) ExportCSV(ctx context.Context, month, year int) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"Employee", "Email", "Department", "Position",
		"Basic Salary", "Bonuses", "Deductions", "Gross Salary", "Net Salary",
		"Currency", "Type", "Effective Date",
	}
	if err := w.Write(header); err != nil {
		return nil, "", err
	}

	seen := make(map[string]struct{})
	for page := 1; ; page++ {
		listing, err := s.ListWithEmployees(ctx, month, year, page, exportPageSize)
		if err != nil {
			return nil, "", err
		}
		if len(listing.Data) == 0 {
			break
		}

		for _, row := range listing.Data {
			if _, dup := seen[row.EmployeeID]; dup {
				continue
			}
			seen[row.EmployeeID] = struct{}{}
			if err := w.Write(csvRecord(row)); err != nil {
				return nil, "", err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	filename := "salaries-current.csv"
	if month != 0 && year != 0 {
		filename = fmt.Sprintf("salaries-%04d-%02d.csv", year, month)
	}
	return buf.Bytes(), filename, nil
}

func (s *service) enqueueRotatedEvent(ctx context.Context, tx *gorm.DB, requestID string, created Salary) error {
	event := events.SalaryRotatedEvent{
		EventType:   "salary.rotated",
		RequestID:   requestID,
		EmployeeID:  created.EmployeeID.String(),
		SalaryID:    created.ID.String(),
		GrossSalary: created.GrossSalary,
		NetSalary:   created.NetSalary,
		Currency:    created.Currency,
		OccurredAt:  time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     requestID,
		AggregateType: "salary",
		AggregateID:   created.ID.String(),
		EventType:     event.EventType,
		Topic:         events.SalaryRotatedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// reduceToLatestPerEmployee keeps one entry per employee, the one with the
// latest effective date, preserving the order employees first appeared in.
func reduceToLatestPerEmployee(salaries []Salary) []Salary {
	byEmployee := make(map[uuid.UUID]int, len(salaries))
	reduced := make([]Salary, 0, len(salaries))
	for _, salary := range salaries {
		idx, seen := byEmployee[salary.EmployeeID]
		if !seen {
			byEmployee[salary.EmployeeID] = len(reduced)
			reduced = append(reduced, salary)
			continue
		}
		if salary.EffectiveDate.After(reduced[idx].EffectiveDate) {
			reduced[idx] = salary
		}
	}
	return reduced
}

func failedReplacement(err error) UpdateSalaryResult {
	return UpdateSalaryResult{Success: false, Error: replacementErrorMessage(err), Err: err}
}

func replacementErrorMessage(err error) string {
	if appErr, ok := err.(*apperror.AppError); ok {
		return appErr.Message
	}
	return "Failed to update salary. Please try again."
}

func emptyListResponse(page, pageSize int) SalaryListResponse {
	return SalaryListResponse{
		Data:        []SalaryResponse{},
		CurrentPage: page,
		PageSize:    pageSize,
		Error:       "Failed to load salaries",
	}
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func csvRecord(row SalaryResponse) []string {
	var name, email, dept, position string
	if row.Employee != nil {
		name = row.Employee.FirstName + " " + row.Employee.LastName
		email = row.Employee.Email
		if row.Employee.Department != nil {
			dept = row.Employee.Department.Name
		}
		if row.Employee.Position != nil {
			position = row.Employee.Position.Title
		}
	}

	var bonuses, deductions float64
	for _, comp := range row.Compensations {
		value := comp.Amount
		if comp.IsPercentage {
			value = row.BasicSalary * comp.Amount / 100
		}
		if comp.Type == compensation.TypeDeduction {
			deductions += value
		} else {
			bonuses += value
		}
	}

	return []string{
		name, email, dept, position,
		formatAmount(row.BasicSalary),
		formatAmount(bonuses),
		formatAmount(deductions),
		formatAmount(row.GrossSalary),
		formatAmount(row.NetSalary),
		row.Currency,
		row.SalaryType,
		row.EffectiveDate,
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func mapToResponse(salary Salary) SalaryResponse {
	resp := SalaryResponse{
		ID:            salary.ID.String(),
		EmployeeID:    salary.EmployeeID.String(),
		BasicSalary:   salary.BasicSalary,
		GrossSalary:   salary.GrossSalary,
		NetSalary:     salary.NetSalary,
		Currency:      salary.Currency,
		SalaryType:    salary.SalaryType,
		EffectiveDate: salary.EffectiveDate.Format("2006-01-02"),
		IsActive:      salary.IsActive,
		Compensations: make([]SalaryCompensationResponse, 0, len(salary.Compensations)),
	}
	if salary.EndDate != nil {
		endDate := salary.EndDate.Format("2006-01-02")
		resp.EndDate = &endDate
	}
	for _, comp := range salary.Compensations {
		resp.Compensations = append(resp.Compensations, SalaryCompensationResponse{
			ID:           comp.ID.String(),
			Name:         comp.Name,
			Amount:       comp.Amount,
			Type:         comp.Type,
			IsPercentage: comp.IsPercentage,
		})
	}
	if salary.Employee != nil {
		resp.Employee = mapEmployeeResponse(salary.Employee)
	}
	return resp
}

func mapEmployeeResponse(empl *SalaryEmployee) *SalaryEmployeeResponse {
	resp := &SalaryEmployeeResponse{
		ID:        empl.ID.String(),
		FirstName: empl.FirstName,
		LastName:  empl.LastName,
		Email:     empl.Email,
		IsActive:  empl.IsActive,
	}
	if empl.Department != nil {
		resp.Department = &SalaryDepartmentResponse{
			ID:   empl.Department.ID.String(),
			Name: empl.Department.Name,
		}
	}
	if empl.Position != nil {
		resp.Position = &SalaryPositionResponse{
			ID:    empl.Position.ID.String(),
			Title: empl.Position.Title,
		}
	}
	return resp
}

func mapToListResponse(salaries []Salary) []SalaryResponse {
	res := make([]SalaryResponse, len(salaries))
	for i, salary := range salaries {
		res[i] = mapToResponse(salary)
	}
	return res
}
