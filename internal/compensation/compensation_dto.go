package compensation

type CreateCompensationRequest struct {
	Name         string  `json:"name" binding:"required,min=2"`
	Amount       float64 `json:"amount" binding:"min=0"`
	Description  string  `json:"description"`
	Type         string  `json:"type" binding:"required,oneof=ALLOWANCE BONUS DEDUCTION"`
	IsPercentage bool    `json:"isPercentage"`
}

type CompensationResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
	Type         string  `json:"type"`
	IsPercentage bool    `json:"isPercentage"`
	IsActive     bool    `json:"isActive"`
}

// CreateCompensationResult is the mutation envelope returned to the UI.
type CreateCompensationResult struct {
	Success      bool                  `json:"success"`
	Compensation *CompensationResponse `json:"compensation,omitempty"`
	Error        string                `json:"error,omitempty"`
}
