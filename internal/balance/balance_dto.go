package balance

type BalanceResponse struct {
	ID                string `json:"id"`
	EmployeeID        string `json:"employee_id"`
	LeavePeriodID     string `json:"leave_period_id"`
	LeaveTypeConfigID string `json:"leave_type_config_id"`
	TotalQuota        int    `json:"total_quota"`
	UsedQuota         int    `json:"used_quota"`
	RemainingQuota    int    `json:"remaining_quota"`
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	return BalanceResponse{
		ID:                b.ID.String(),
		EmployeeID:        b.EmployeeID.String(),
		LeavePeriodID:     b.LeavePeriodID.String(),
		LeaveTypeConfigID: b.LeaveTypeConfigID.String(),
		TotalQuota:        b.TotalQuota,
		UsedQuota:         b.UsedQuota,
		RemainingQuota:    b.RemainingQuota(),
	}
}
