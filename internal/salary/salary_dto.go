package salary

// SalaryInput carries the caller-supplied fields for a salary replacement.
// Gross and net are derived from the compensation set, never supplied.
type SalaryInput struct {
	BasicSalary   float64 `json:"basicSalary" binding:"required,gt=0"`
	Currency      string  `json:"currency" binding:"required"`
	SalaryType    string  `json:"salaryType" binding:"required,oneof=HOURLY MONTHLY YEARLY"`
	EffectiveDate string  `json:"effectiveDate" binding:"required"`
}

type UpdateSalaryRequest struct {
	Salary          SalaryInput `json:"salary" binding:"required"`
	CompensationIDs []string    `json:"compensationIds"`
}

type SalaryCompensationResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Type         string  `json:"type"`
	IsPercentage bool    `json:"isPercentage"`
}

type SalaryDepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SalaryPositionResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type SalaryEmployeeResponse struct {
	ID         string                    `json:"id"`
	FirstName  string                    `json:"firstName"`
	LastName   string                    `json:"lastName"`
	Email      string                    `json:"email"`
	IsActive   bool                      `json:"isActive"`
	Department *SalaryDepartmentResponse `json:"department,omitempty"`
	Position   *SalaryPositionResponse   `json:"position,omitempty"`
}

type SalaryResponse struct {
	ID            string                       `json:"id"`
	EmployeeID    string                       `json:"employeeId"`
	BasicSalary   float64                      `json:"basicSalary"`
	GrossSalary   float64                      `json:"grossSalary"`
	NetSalary     float64                      `json:"netSalary"`
	Currency      string                       `json:"currency"`
	SalaryType    string                       `json:"salaryType"`
	EffectiveDate string                       `json:"effectiveDate"`
	EndDate       *string                      `json:"endDate,omitempty"`
	IsActive      bool                         `json:"isActive"`
	Employee      *SalaryEmployeeResponse      `json:"employee,omitempty"`
	Compensations []SalaryCompensationResponse `json:"compensations"`
}

// UpdateSalaryResult is the mutation envelope returned to the UI.
type UpdateSalaryResult struct {
	Success bool            `json:"success"`
	Salary  *SalaryResponse `json:"salary,omitempty"`
	Error   string          `json:"error,omitempty"`

	// Err carries the underlying failure so the handler can pick the
	// status code; it never serializes.
	Err error `json:"-"`
}

// SalaryListResponse is the paged read shape for salary listings; on a
// query failure Data is empty, counts are zero and Error is set.
type SalaryListResponse struct {
	Data        []SalaryResponse `json:"data"`
	TotalCount  int64            `json:"totalCount"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
	PageSize    int              `json:"pageSize"`
	Error       string           `json:"error,omitempty"`
}
