package leaverequest

import (
	"time"

	leaverequesterrors "go-timeoff/internal/leaverequest/errors"

	"github.com/google/uuid"
)

type Action string

const (
	ActionApprove Action = "APPROVE"
	ActionReject  Action = "REJECT"
	ActionCancel  Action = "CANCEL"
)

// Approver is the capability making an approval decision. Role decides which
// level of the workflow the caller acts at; IsDirectManager is resolved fresh
// from the employee directory when the action is processed.
type Approver struct {
	ID              uuid.UUID
	Role            string // ApproverManager or ApproverHR
	IsDirectManager bool
}

type decisionInput struct {
	Comments        string
	RejectionReason *string
	CallerID        uuid.UUID // cancel only
	Now             time.Time
}

// transitionOutcome tells the orchestrator what side effects the accepted
// transition demands.
type transitionOutcome struct {
	ReleaseReservation bool
	Audit              *LeaveApproval
}

// transition is the single place that knows the workflow. It mutates req on
// success and refuses anything else with InvalidTransition or an
// authorization error; it never touches storage.
func transition(req *LeaveRequest, action Action, approver Approver, in decisionInput) (transitionOutcome, error) {
	switch action {
	case ActionApprove:
		return approve(req, approver, in)
	case ActionReject:
		return reject(req, approver, in)
	case ActionCancel:
		return cancel(req, in)
	default:
		return transitionOutcome{}, leaverequesterrors.InvalidTransition(req.Status, string(action))
	}
}

func approve(req *LeaveRequest, approver Approver, in decisionInput) (transitionOutcome, error) {
	switch approver.Role {
	case ApproverManager:
		if !req.RequiresManagerApproval || req.Status != StatusPending {
			return transitionOutcome{}, leaverequesterrors.InvalidTransition(req.Status, string(ActionApprove))
		}
		if !approver.IsDirectManager {
			return transitionOutcome{}, leaverequesterrors.ErrUnauthorizedApprover
		}

		req.Status = StatusManagerApproved
		req.ManagerApprovedAt = timePtr(in.Now)
		if in.Comments != "" {
			req.ManagerComments = strPtr(in.Comments)
		}

		return transitionOutcome{
			Audit: auditRow(req, approver, ApproverManager, StatusApproved, in),
		}, nil

	case ApproverHR:
		atManagerStage := req.RequiresManagerApproval && req.Status == StatusManagerApproved
		directToHR := !req.RequiresManagerApproval && req.Status == StatusPending
		if !atManagerStage && !directToHR {
			return transitionOutcome{}, leaverequesterrors.InvalidTransition(req.Status, string(ActionApprove))
		}

		req.Status = StatusApproved
		req.HRApprovedAt = timePtr(in.Now)
		req.FinalizedAt = timePtr(in.Now)
		if in.Comments != "" {
			req.HRComments = strPtr(in.Comments)
		}

		// The reservation made at submission is the consumption; approval
		// never touches the balance again.
		return transitionOutcome{
			Audit: auditRow(req, approver, ApproverHR, StatusApproved, in),
		}, nil

	default:
		return transitionOutcome{}, leaverequesterrors.ErrUnknownApproverRole
	}
}

func reject(req *LeaveRequest, approver Approver, in decisionInput) (transitionOutcome, error) {
	if in.RejectionReason == nil || *in.RejectionReason == "" {
		return transitionOutcome{}, leaverequesterrors.ErrRejectionReasonRequired
	}

	switch approver.Role {
	case ApproverManager:
		if !req.RequiresManagerApproval || req.Status != StatusPending {
			return transitionOutcome{}, leaverequesterrors.InvalidTransition(req.Status, string(ActionReject))
		}
		if !approver.IsDirectManager {
			return transitionOutcome{}, leaverequesterrors.ErrUnauthorizedApprover
		}

	case ApproverHR:
		atManagerStage := req.RequiresManagerApproval && req.Status == StatusManagerApproved
		directToHR := !req.RequiresManagerApproval && req.Status == StatusPending
		if !atManagerStage && !directToHR {
			return transitionOutcome{}, leaverequesterrors.InvalidTransition(req.Status, string(ActionReject))
		}

	default:
		return transitionOutcome{}, leaverequesterrors.ErrUnknownApproverRole
	}

	req.Status = StatusRejected
	req.FinalizedAt = timePtr(in.Now)
	req.RejectionReason = in.RejectionReason
	if in.Comments != "" {
		if approver.Role == ApproverManager {
			req.ManagerComments = strPtr(in.Comments)
		} else {
			req.HRComments = strPtr(in.Comments)
		}
	}

	return transitionOutcome{
		ReleaseReservation: true,
		Audit:              auditRow(req, approver, approver.Role, StatusRejected, in),
	}, nil
}

func cancel(req *LeaveRequest, in decisionInput) (transitionOutcome, error) {
	if in.CallerID != req.EmployeeID {
		return transitionOutcome{}, leaverequesterrors.ErrNotRequestOwner
	}
	if req.Status != StatusPending {
		return transitionOutcome{}, leaverequesterrors.InvalidTransition(req.Status, string(ActionCancel))
	}

	req.Status = StatusCancelled

	return transitionOutcome{ReleaseReservation: true}, nil
}

func auditRow(req *LeaveRequest, approver Approver, approverType, status string, in decisionInput) *LeaveApproval {
	return &LeaveApproval{
		ID:             uuid.New(),
		CompanyID:      req.CompanyID,
		LeaveRequestID: req.ID,
		ApproverID:     approver.ID,
		ApproverType:   approverType,
		Status:         status,
		Comments:       in.Comments,
		ApprovedAt:     in.Now,
	}
}

func timePtr(t time.Time) *time.Time { return &t }
func strPtr(s string) *string        { return &s }
