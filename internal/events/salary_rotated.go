package events

import "time"

const SalaryRotatedTopic = "hr.salary.lifecycle.v1"

// SalaryRotatedEvent is emitted after the close-old/open-new salary
// transaction commits.
type SalaryRotatedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	EmployeeID  string    `json:"employee_id"`
	SalaryID    string    `json:"salary_id"`
	GrossSalary float64   `json:"gross_salary"`
	NetSalary   float64   `json:"net_salary"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}
