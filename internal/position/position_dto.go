package position

type CreatePositionRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
}

type UpdatePositionRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
}

type PositionDepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PositionResponse struct {
	ID            string                      `json:"id"`
	Title         string                      `json:"title"`
	Description   string                      `json:"description"`
	DepartmentID  string                      `json:"department_id"`
	Department    *PositionDepartmentResponse `json:"department,omitempty"`
	EmployeeCount int64                       `json:"employee_count"`
}
