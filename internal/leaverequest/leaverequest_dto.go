package leaverequest

import "time"

type SubmitLeaveRequest struct {
	LeaveTypeConfigID string  `json:"leave_type_config_id" binding:"required,uuid"`
	LeavePeriodID     string  `json:"leave_period_id" binding:"omitempty,uuid"`
	StartDate         string  `json:"start_date" binding:"required"`
	EndDate           string  `json:"end_date" binding:"required"`
	Reason            string  `json:"reason" binding:"required"`
	EmergencyContact  *string `json:"emergency_contact"`
	HandoverNotes     *string `json:"handover_notes"`
}

type DecisionRequest struct {
	Comments string `json:"comments"`
}

type RejectRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
	Comments        string `json:"comments"`
}

type LeaveRequestResponse struct {
	ID                      string  `json:"id"`
	CompanyID               string  `json:"company_id"`
	EmployeeID              string  `json:"employee_id"`
	LeavePeriodID           string  `json:"leave_period_id"`
	LeaveTypeConfigID       string  `json:"leave_type_config_id"`
	RequestNumber           string  `json:"request_number"`
	StartDate               string  `json:"start_date"`
	EndDate                 string  `json:"end_date"`
	TotalDays               int     `json:"total_days"`
	Reason                  string  `json:"reason"`
	Status                  string  `json:"status"`
	RequiresManagerApproval bool    `json:"requires_manager_approval"`
	SubmittedAt             string  `json:"submitted_at"`
	ManagerComments         *string `json:"manager_comments,omitempty"`
	ManagerApprovedAt       *string `json:"manager_approved_at,omitempty"`
	HRComments              *string `json:"hr_comments,omitempty"`
	HRApprovedAt            *string `json:"hr_approved_at,omitempty"`
	FinalizedAt             *string `json:"finalized_at,omitempty"`
	RejectionReason         *string `json:"rejection_reason,omitempty"`
	EmergencyContact        *string `json:"emergency_contact,omitempty"`
	HandoverNotes           *string `json:"handover_notes,omitempty"`
}

func mapToResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:                      r.ID.String(),
		CompanyID:               r.CompanyID.String(),
		EmployeeID:              r.EmployeeID.String(),
		LeavePeriodID:           r.LeavePeriodID.String(),
		LeaveTypeConfigID:       r.LeaveTypeConfigID.String(),
		RequestNumber:           r.RequestNumber,
		StartDate:               r.StartDate.Format("2006-01-02"),
		EndDate:                 r.EndDate.Format("2006-01-02"),
		TotalDays:               r.TotalDays,
		Reason:                  r.Reason,
		Status:                  r.Status,
		RequiresManagerApproval: r.RequiresManagerApproval,
		SubmittedAt:             r.SubmittedAt.Format(time.RFC3339),
		ManagerComments:         r.ManagerComments,
		HRComments:              r.HRComments,
		RejectionReason:         r.RejectionReason,
		EmergencyContact:        r.EmergencyContact,
		HandoverNotes:           r.HandoverNotes,
	}
	if r.ManagerApprovedAt != nil {
		v := r.ManagerApprovedAt.Format(time.RFC3339)
		resp.ManagerApprovedAt = &v
	}
	if r.HRApprovedAt != nil {
		v := r.HRApprovedAt.Format(time.RFC3339)
		resp.HRApprovedAt = &v
	}
	if r.FinalizedAt != nil {
		v := r.FinalizedAt.Format(time.RFC3339)
		resp.FinalizedAt = &v
	}
	return resp
}

type ApprovalResponse struct {
	ID           string `json:"id"`
	ApproverID   string `json:"approver_id"`
	ApproverType string `json:"approver_type"`
	Status       string `json:"status"`
	Comments     string `json:"comments,omitempty"`
	ApprovedAt   string `json:"approved_at"`
}

func mapApprovalToResponse(a LeaveApproval) ApprovalResponse {
	return ApprovalResponse{
		ID:           a.ID.String(),
		ApproverID:   a.ApproverID.String(),
		ApproverType: a.ApproverType,
		Status:       a.Status,
		Comments:     a.Comments,
		ApprovedAt:   a.ApprovedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, r := range requests {
		resp[i] = mapToResponse(r)
	}
	return resp
}
