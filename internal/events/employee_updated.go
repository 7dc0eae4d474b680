package events

import "time"

// EmployeeUpdatedEvent is emitted after an edit-screen update commits,
// covering both the field changes and the salary rotation it performs.
type EmployeeUpdatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	Email      string    `json:"email"`
	SalaryID   string    `json:"salary_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
