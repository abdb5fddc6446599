package period

type CreatePeriodRequest struct {
	Name        string `json:"name" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	IsActive    bool   `json:"is_active"`
	Description string `json:"description"`
}

type CreateTypeConfigRequest struct {
	LeavePeriodID        string `json:"leave_period_id" binding:"required,uuid"`
	Type                 string `json:"type" binding:"required,oneof=ANNUAL SICK MATERNITY PATERNITY HAJJ_UMRAH EMERGENCY COMPASSIONATE STUDY UNPAID"`
	Name                 string `json:"name" binding:"required"`
	DefaultQuota         int    `json:"default_quota" binding:"min=0"`
	MaxConsecutiveDays   *int   `json:"max_consecutive_days"`
	AdvanceNoticeDays    int    `json:"advance_notice_days" binding:"min=0"`
	IsCarryForward       bool   `json:"is_carry_forward"`
	MaxCarryForward      *int   `json:"max_carry_forward"`
	RequiresApproval     *bool  `json:"requires_approval"`
	AllowNegativeBalance bool   `json:"allow_negative_balance"`
}

type UpdateTypeConfigRequest struct {
	Name                 string `json:"name"`
	DefaultQuota         *int   `json:"default_quota"`
	MaxConsecutiveDays   *int   `json:"max_consecutive_days"`
	AdvanceNoticeDays    *int   `json:"advance_notice_days"`
	IsCarryForward       *bool  `json:"is_carry_forward"`
	MaxCarryForward      *int   `json:"max_carry_forward"`
	RequiresApproval     *bool  `json:"requires_approval"`
	AllowNegativeBalance *bool  `json:"allow_negative_balance"`
	IsActive             *bool  `json:"is_active"`
}

type PeriodResponse struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	Name        string `json:"name"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	IsActive    bool   `json:"is_active"`
	Description string `json:"description,omitempty"`
}

type TypeConfigResponse struct {
	ID                   string `json:"id"`
	CompanyID            string `json:"company_id"`
	LeavePeriodID        string `json:"leave_period_id"`
	Type                 string `json:"type"`
	Name                 string `json:"name"`
	DefaultQuota         int    `json:"default_quota"`
	MaxConsecutiveDays   *int   `json:"max_consecutive_days,omitempty"`
	AdvanceNoticeDays    int    `json:"advance_notice_days"`
	IsCarryForward       bool   `json:"is_carry_forward"`
	MaxCarryForward      *int   `json:"max_carry_forward,omitempty"`
	RequiresApproval     bool   `json:"requires_approval"`
	AllowNegativeBalance bool   `json:"allow_negative_balance"`
	IsActive             bool   `json:"is_active"`
}
