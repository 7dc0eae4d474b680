package employee

// InitialSalaryInput opens the first salary entry at employee creation.
// Gross and net come straight from the caller, nothing is derived here.
type InitialSalaryInput struct {
	BasicSalary   float64 `json:"basicSalary" binding:"required,gt=0"`
	GrossSalary   float64 `json:"grossSalary" binding:"required,gt=0"`
	NetSalary     float64 `json:"netSalary" binding:"required,gt=0"`
	Currency      string  `json:"currency" binding:"required"`
	SalaryType    string  `json:"salaryType" binding:"required,oneof=HOURLY MONTHLY YEARLY"`
	EffectiveDate string  `json:"effectiveDate" binding:"required"`
}

type CreateEmployeeRequest struct {
	FirstName    string             `json:"firstName" binding:"required"`
	LastName     string             `json:"lastName" binding:"required"`
	Email        string             `json:"email" binding:"required,email"`
	Phone        string             `json:"phone"`
	HireDate     string             `json:"hireDate" binding:"required"`
	DepartmentID string             `json:"departmentId" binding:"required,uuid"`
	PositionID   string             `json:"positionId" binding:"required,uuid"`
	Salary       InitialSalaryInput `json:"salary" binding:"required"`
}

// UpdateEmployeeRequest edits core fields and rotates the salary with
// caller-supplied final numbers, no compensation recomputation.
type UpdateEmployeeRequest struct {
	FirstName    string             `json:"firstName" binding:"required"`
	LastName     string             `json:"lastName" binding:"required"`
	Email        string             `json:"email" binding:"required,email"`
	Phone        string             `json:"phone"`
	HireDate     string             `json:"hireDate" binding:"required"`
	DepartmentID string             `json:"departmentId" binding:"required,uuid"`
	PositionID   string             `json:"positionId" binding:"required,uuid"`
	IsActive     *bool              `json:"isActive"`
	Salary       InitialSalaryInput `json:"salary" binding:"required"`
}

type EmployeeDepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type EmployeePositionResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type EmployeeCompensationResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Type         string  `json:"type"`
	IsPercentage bool    `json:"isPercentage"`
}

type EmployeeSalaryResponse struct {
	ID            string                         `json:"id"`
	BasicSalary   float64                        `json:"basicSalary"`
	GrossSalary   float64                        `json:"grossSalary"`
	NetSalary     float64                        `json:"netSalary"`
	Currency      string                         `json:"currency"`
	SalaryType    string                         `json:"salaryType"`
	EffectiveDate string                         `json:"effectiveDate"`
	EndDate       *string                        `json:"endDate,omitempty"`
	IsActive      bool                           `json:"isActive"`
	Compensations []EmployeeCompensationResponse `json:"compensations,omitempty"`
}

type EmployeeResponse struct {
	ID            string                      `json:"id"`
	FirstName     string                      `json:"firstName"`
	LastName      string                      `json:"lastName"`
	Email         string                      `json:"email"`
	Phone         string                      `json:"phone,omitempty"`
	HireDate      string                      `json:"hireDate"`
	DepartmentID  string                      `json:"departmentId"`
	PositionID    string                      `json:"positionId"`
	IsActive      bool                        `json:"isActive"`
	Department    *EmployeeDepartmentResponse `json:"department,omitempty"`
	Position      *EmployeePositionResponse   `json:"position,omitempty"`
	ActiveSalary  *EmployeeSalaryResponse     `json:"activeSalary,omitempty"`
	SalaryHistory []EmployeeSalaryResponse    `json:"salaryHistory,omitempty"`
}

// EmployeeListResponse is the paged read shape. On a query failure Data
// is empty, the counts are zero and Error carries a short message.
type EmployeeListResponse struct {
	Data        []EmployeeResponse `json:"data"`
	TotalCount  int64              `json:"totalCount"`
	TotalPages  int                `json:"totalPages"`
	CurrentPage int                `json:"currentPage"`
	PageSize    int                `json:"pageSize"`
	Error       string             `json:"error,omitempty"`
}

// EmployeeMutationResult is the uniform mutation envelope.
type EmployeeMutationResult struct {
	Success  bool                    `json:"success"`
	Employee *EmployeeResponse       `json:"employee,omitempty"`
	Salary   *EmployeeSalaryResponse `json:"salary,omitempty"`
	Error    string                  `json:"error,omitempty"`

	// Err carries the underlying failure so the handler can pick the
	// status code; it never serializes.
	Err error `json:"-"`
}
