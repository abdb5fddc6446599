package balance

import (
	"time"

	"github.com/google/uuid"
)

type LeaveBalance struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_owner"`
	EmployeeID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_owner"`
	LeavePeriodID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_owner"`
	LeaveTypeConfigID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_owner"`

	TotalQuota int `gorm:"type:int;not null;default:0"`
	UsedQuota  int `gorm:"type:int;not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemainingQuota is derived, never stored.
func (b *LeaveBalance) RemainingQuota() int {
	return b.TotalQuota - b.UsedQuota
}
