package period

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeavePeriod struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_periods_company"`
	Name        string    `gorm:"type:varchar(100);not null"`
	StartDate   time.Time `gorm:"type:date;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`
	IsActive    bool      `gorm:"not null;default:false;index:idx_leave_periods_company"`
	Description string    `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

const (
	TypeAnnual        = "ANNUAL"
	TypeSick          = "SICK"
	TypeMaternity     = "MATERNITY"
	TypePaternity     = "PATERNITY"
	TypeHajjUmrah     = "HAJJ_UMRAH"
	TypeEmergency     = "EMERGENCY"
	TypeCompassionate = "COMPASSIONATE"
	TypeStudy         = "STUDY"
	TypeUnpaid        = "UNPAID"
)

type LeaveTypeConfig struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID     uuid.UUID `gorm:"type:uuid;not null;index"`
	LeavePeriodID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_type_configs_period"`

	Type string `gorm:"type:varchar(30);not null"`
	Name string `gorm:"type:varchar(100);not null"`

	DefaultQuota         int  `gorm:"type:int;not null;default:0"`
	MaxConsecutiveDays   *int `gorm:"type:int"`
	AdvanceNoticeDays    int  `gorm:"type:int;not null;default:0"`
	IsCarryForward       bool `gorm:"not null;default:false"`
	MaxCarryForward      *int `gorm:"type:int"`
	RequiresApproval     bool `gorm:"not null;default:true"`
	AllowNegativeBalance bool `gorm:"not null;default:false"`
	IsActive             bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}
