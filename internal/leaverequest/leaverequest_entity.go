package leaverequest

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending         = "PENDING"
	StatusManagerApproved = "MANAGER_APPROVED"
	StatusApproved        = "APPROVED"
	StatusRejected        = "REJECTED"
	StatusCancelled       = "CANCELLED"
)

const (
	ApproverManager = "MANAGER"
	ApproverHR      = "HR"
)

// IsTerminal reports whether no further transition is permitted.
func IsTerminal(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// nonTerminalStatuses are the statuses that hold a quota reservation.
var nonTerminalStatuses = []string{StatusPending, StatusManagerApproved}

type LeaveRequest struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID         uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_company_status"`
	EmployeeID        uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`
	LeavePeriodID     uuid.UUID `gorm:"type:uuid;not null"`
	LeaveTypeConfigID uuid.UUID `gorm:"type:uuid;not null"`

	RequestNumber string    `gorm:"type:varchar(30);not null;uniqueIndex"`
	StartDate     time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate       time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	TotalDays     int       `gorm:"type:int;not null;default:1"`
	Reason        string    `gorm:"type:text"`

	Status string `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_requests_company_status"`

	// RequiresManagerApproval is snapshotted at submission so a mid-flight
	// manager reassignment cannot change the routing of an open request.
	RequiresManagerApproval bool `gorm:"not null;default:true"`

	SubmittedAt       time.Time
	ManagerComments   *string `gorm:"type:text"`
	ManagerApprovedAt *time.Time
	HRComments        *string `gorm:"type:text"`
	HRApprovedAt      *time.Time
	FinalizedAt       *time.Time
	RejectionReason   *string `gorm:"type:text"`

	EmergencyContact *string `gorm:"type:varchar(255)"`
	HandoverNotes    *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// LeaveApproval is the append-only audit trail: one row per approval action
// per level.
type LeaveApproval struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_approval_action"`
	ApproverID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_approval_action"`
	ApproverType   string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_leave_approval_action"`

	Status     string `gorm:"type:varchar(20);not null"`
	Comments   string `gorm:"type:text"`
	ApprovedAt time.Time
	CreatedAt  time.Time
}
