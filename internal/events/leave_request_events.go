package events

import "time"

const LeaveRequestTopic = "hr.leave.request.v1"

const (
	LeaveRequestSubmitted       = "leave_request.submitted"
	LeaveRequestManagerApproved = "leave_request.manager_approved"
	LeaveRequestApproved        = "leave_request.approved"
	LeaveRequestRejected        = "leave_request.rejected"
	LeaveRequestCancelled       = "leave_request.cancelled"
)

// LeaveRequestEvent notifies the party whose action (or awareness) the
// workflow step requires. RecipientID is empty when the recipient is the HR
// group rather than a single employee.
type LeaveRequestEvent struct {
	EventType     string    `json:"event_type"`
	CompanyID     string    `json:"company_id"`
	RequestID     string    `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	EmployeeID    string    `json:"employee_id"`
	RecipientID   string    `json:"recipient_id,omitempty"`
	LeaveType     string    `json:"leave_type"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	TotalDays     int       `json:"total_days"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}
