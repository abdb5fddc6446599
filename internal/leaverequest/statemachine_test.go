package leaverequest

import (
	"testing"
	"time"

	leaverequesterrors "go-timeoff/internal/leaverequest/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func pendingRequest(requiresManager bool) *LeaveRequest {
	return &LeaveRequest{
		ID:                      uuid.New(),
		CompanyID:               uuid.New(),
		EmployeeID:              uuid.New(),
		LeavePeriodID:           uuid.New(),
		LeaveTypeConfigID:       uuid.New(),
		RequestNumber:           "LR-00042",
		TotalDays:               3,
		Status:                  StatusPending,
		RequiresManagerApproval: requiresManager,
	}
}

func reason(s string) *string { return &s }

func TestTransition_TwoLevelApproval(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	managerID := uuid.New()
	hrID := uuid.New()

	req := pendingRequest(true)

	manager := Approver{ID: managerID, Role: ApproverManager, IsDirectManager: true}
	outcome, err := transition(req, ActionApprove, manager, decisionInput{Comments: "ok", Now: now})

	assert.NoError(t, err)
	assert.Equal(t, StatusManagerApproved, req.Status)
	assert.NotNil(t, req.ManagerApprovedAt)
	assert.Nil(t, req.FinalizedAt)
	assert.False(t, outcome.ReleaseReservation)
	assert.NotNil(t, outcome.Audit)
	assert.Equal(t, ApproverManager, outcome.Audit.ApproverType)
	assert.Equal(t, managerID, outcome.Audit.ApproverID)

	hr := Approver{ID: hrID, Role: ApproverHR}
	outcome, err = transition(req, ActionApprove, hr, decisionInput{Now: now})

	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, req.Status)
	assert.NotNil(t, req.HRApprovedAt)
	assert.NotNil(t, req.FinalizedAt)
	assert.False(t, outcome.ReleaseReservation)
	assert.Equal(t, ApproverHR, outcome.Audit.ApproverType)
}

func TestTransition_DirectToHR(t *testing.T) {
	now := time.Now().UTC()

	t.Run("hr approves from pending when no manager level", func(t *testing.T) {
		req := pendingRequest(false)
		hr := Approver{ID: uuid.New(), Role: ApproverHR}

		outcome, err := transition(req, ActionApprove, hr, decisionInput{Now: now})

		assert.NoError(t, err)
		assert.Equal(t, StatusApproved, req.Status)
		assert.Nil(t, req.ManagerApprovedAt)
		assert.NotNil(t, outcome.Audit)
	})

	t.Run("hr cannot skip a required manager level", func(t *testing.T) {
		req := pendingRequest(true)
		hr := Approver{ID: uuid.New(), Role: ApproverHR}

		_, err := transition(req, ActionApprove, hr, decisionInput{Now: now})

		assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidTransition)
		assert.Equal(t, StatusPending, req.Status)
	})

	t.Run("manager cannot act when no manager level", func(t *testing.T) {
		req := pendingRequest(false)
		manager := Approver{ID: uuid.New(), Role: ApproverManager, IsDirectManager: true}

		_, err := transition(req, ActionApprove, manager, decisionInput{Now: now})

		assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidTransition)
	})
}

func TestTransition_ApproverAuthorization(t *testing.T) {
	now := time.Now().UTC()

	t.Run("non direct manager is refused", func(t *testing.T) {
		req := pendingRequest(true)
		stranger := Approver{ID: uuid.New(), Role: ApproverManager, IsDirectManager: false}

		_, err := transition(req, ActionApprove, stranger, decisionInput{Now: now})

		assert.ErrorIs(t, err, leaverequesterrors.ErrUnauthorizedApprover)
		assert.Equal(t, StatusPending, req.Status)
	})

	t.Run("unknown role is refused", func(t *testing.T) {
		req := pendingRequest(true)
		odd := Approver{ID: uuid.New(), Role: "PAYROLL"}

		_, err := transition(req, ActionApprove, odd, decisionInput{Now: now})

		assert.ErrorIs(t, err, leaverequesterrors.ErrUnknownApproverRole)
	})
}

func TestTransition_Reject(t *testing.T) {
	now := time.Now().UTC()

	t.Run("manager reject releases the reservation", func(t *testing.T) {
		req := pendingRequest(true)
		manager := Approver{ID: uuid.New(), Role: ApproverManager, IsDirectManager: true}

		outcome, err := transition(req, ActionReject, manager, decisionInput{
			RejectionReason: reason("staffing conflict"),
			Now:             now,
		})

		assert.NoError(t, err)
		assert.Equal(t, StatusRejected, req.Status)
		assert.True(t, outcome.ReleaseReservation)
		assert.NotNil(t, req.FinalizedAt)
		assert.Equal(t, "staffing conflict", *req.RejectionReason)
		assert.Equal(t, StatusRejected, outcome.Audit.Status)
	})

	t.Run("hr reject after manager approval", func(t *testing.T) {
		req := pendingRequest(true)
		req.Status = StatusManagerApproved
		hr := Approver{ID: uuid.New(), Role: ApproverHR}

		outcome, err := transition(req, ActionReject, hr, decisionInput{
			RejectionReason: reason("quota freeze"),
			Now:             now,
		})

		assert.NoError(t, err)
		assert.Equal(t, StatusRejected, req.Status)
		assert.True(t, outcome.ReleaseReservation)
	})

	t.Run("rejection reason is mandatory", func(t *testing.T) {
		req := pendingRequest(true)
		manager := Approver{ID: uuid.New(), Role: ApproverManager, IsDirectManager: true}

		_, err := transition(req, ActionReject, manager, decisionInput{Now: now})

		assert.ErrorIs(t, err, leaverequesterrors.ErrRejectionReasonRequired)
		assert.Equal(t, StatusPending, req.Status)
	})
}

func TestTransition_Cancel(t *testing.T) {
	now := time.Now().UTC()

	t.Run("owner cancels a pending request", func(t *testing.T) {
		req := pendingRequest(true)

		outcome, err := transition(req, ActionCancel, Approver{}, decisionInput{
			CallerID: req.EmployeeID,
			Now:      now,
		})

		assert.NoError(t, err)
		assert.Equal(t, StatusCancelled, req.Status)
		assert.True(t, outcome.ReleaseReservation)
		assert.Nil(t, outcome.Audit)
	})

	t.Run("only the owner may cancel", func(t *testing.T) {
		req := pendingRequest(true)

		_, err := transition(req, ActionCancel, Approver{}, decisionInput{
			CallerID: uuid.New(),
			Now:      now,
		})

		assert.ErrorIs(t, err, leaverequesterrors.ErrNotRequestOwner)
	})

	t.Run("manager approved request cannot be cancelled", func(t *testing.T) {
		req := pendingRequest(true)
		req.Status = StatusManagerApproved

		_, err := transition(req, ActionCancel, Approver{}, decisionInput{
			CallerID: req.EmployeeID,
			Now:      now,
		})

		assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidTransition)
		assert.Equal(t, StatusManagerApproved, req.Status)
	})
}

func TestTransition_TerminalStates(t *testing.T) {
	now := time.Now().UTC()
	hr := Approver{ID: uuid.New(), Role: ApproverHR}
	manager := Approver{ID: uuid.New(), Role: ApproverManager, IsDirectManager: true}

	for _, status := range []string{StatusApproved, StatusRejected, StatusCancelled} {
		req := pendingRequest(true)
		req.Status = status

		_, err := transition(req, ActionApprove, hr, decisionInput{Now: now})
		assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidTransition, status)

		_, err = transition(req, ActionReject, manager, decisionInput{
			RejectionReason: reason("late"),
			Now:             now,
		})
		assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidTransition, status)

		assert.Equal(t, status, req.Status)
	}
}
