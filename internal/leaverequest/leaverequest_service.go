package leaverequest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-timeoff/internal/balance"
	"go-timeoff/internal/employee"
	"go-timeoff/internal/events"
	leaverequesterrors "go-timeoff/internal/leaverequest/errors"
	"go-timeoff/internal/notification"
	"go-timeoff/internal/period"
	perioderrors "go-timeoff/internal/period/errors"
	"go-timeoff/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const requestNumberCounter = "leave_request"

//go:generate mockgen -source=leaverequest_service.go -destination=mock/leaverequest_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, companyID, employeeID string, req SubmitLeaveRequest) (LeaveRequestResponse, error)
	Get(ctx context.Context, companyID, id string) (LeaveRequestResponse, error)
	Approve(ctx context.Context, companyID, id, actorEmployeeID, actorRole string, req DecisionRequest) (LeaveRequestResponse, error)
	Reject(ctx context.Context, companyID, id, actorEmployeeID, actorRole string, req RejectRequest) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, companyID, id, actorEmployeeID string) (LeaveRequestResponse, error)
	ListMyRequests(ctx context.Context, companyID, employeeID string, page, limit int) ([]LeaveRequestResponse, int64, error)
	ListPendingApprovals(ctx context.Context, companyID, actorEmployeeID, actorRole string) ([]LeaveRequestResponse, error)
	ListApprovals(ctx context.Context, companyID, requestID string) ([]ApprovalResponse, error)
}

type service struct {
	db        *gorm.DB
	repo      Repository
	ledger    balance.Ledger
	periods   period.Repository
	directory employee.Directory
	counters  counter.Repository
	notifier  notification.Notifier
	logger    *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	ledger balance.Ledger,
	periods period.Repository,
	directory employee.Directory,
	counters counter.Repository,
	notifier notification.Notifier,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		ledger:    ledger,
		periods:   periods,
		directory: directory,
		counters:  counters,
		notifier:  notifier,
		logger:    l,
	}
}

func (s *service) Submit(ctx context.Context, companyID, employeeID string, req SubmitLeaveRequest) (LeaveRequestResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidActorID
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	today := truncateToDay(time.Now())
	now := time.Now().UTC()

	var created *LeaveRequest

	// Validation, reservation and insert share one transaction so a
	// concurrent submission cannot double-spend the same quota.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		txLedger := s.ledger.WithTx(tx)
		txPeriods := s.periods.WithTx(tx)

		periodID := req.LeavePeriodID
		if periodID == "" {
			active, err := txPeriods.FindActivePeriod(ctx, companyID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return perioderrors.ErrNoActivePeriod
				}
				return err
			}
			periodID = active.ID.String()
		}

		cfg, err := txPeriods.FindTypeConfigByIDAndCompany(ctx, companyID, req.LeaveTypeConfigID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return perioderrors.ErrTypeConfigNotFound
			}
			return err
		}
		if !cfg.IsActive {
			return leaverequesterrors.ErrTypeConfigInactive
		}
		if cfg.LeavePeriodID.String() != periodID {
			return perioderrors.ErrTypeConfigNotFound
		}

		bal, err := txLedger.GetOrInitialize(ctx, companyID, employeeID, req.LeaveTypeConfigID, periodID)
		if err != nil {
			return err
		}

		openRequests, err := qtx.ListOpenByEmployee(ctx, companyID, employeeID)
		if err != nil {
			return err
		}

		draft := submissionDraft{StartDate: startDate, EndDate: endDate}
		totalDays, err := runGate(draft, cfg, bal, openRequests, today)
		if err != nil {
			return err
		}

		if _, err := txLedger.Reserve(ctx, companyID, employeeID, periodID, req.LeaveTypeConfigID, totalDays); err != nil {
			return err
		}

		managerID, err := s.directory.ResolveManager(ctx, companyID, employeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaverequesterrors.ErrInvalidActorID
			}
			return err
		}
		requiresManager := cfg.RequiresApproval && managerID != nil

		seq, err := s.counters.GetNextValue(ctx, companyID, requestNumberCounter)
		if err != nil {
			return err
		}

		lr := &LeaveRequest{
			ID:                      uuid.New(),
			CompanyID:               companyUUID,
			EmployeeID:              employeeUUID,
			LeavePeriodID:           cfg.LeavePeriodID,
			LeaveTypeConfigID:       cfg.ID,
			RequestNumber:           fmt.Sprintf("LR-%05d", seq),
			StartDate:               startDate,
			EndDate:                 endDate,
			TotalDays:               totalDays,
			Reason:                  req.Reason,
			Status:                  StatusPending,
			RequiresManagerApproval: requiresManager,
			SubmittedAt:             now,
			EmergencyContact:        req.EmergencyContact,
			HandoverNotes:           req.HandoverNotes,
		}

		if err := qtx.Create(ctx, lr); err != nil {
			return err
		}

		recipient := ""
		if requiresManager {
			recipient = managerID.String()
		}
		s.notify(ctx, tx, lr, cfg.Type, events.LeaveRequestSubmitted, recipient)

		created = lr
		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request submitted",
		zap.String("request_number", created.RequestNumber),
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
		zap.Int("total_days", created.TotalDays),
		zap.Bool("requires_manager_approval", created.RequiresManagerApproval),
	)

	return mapToResponse(*created), nil
}

func (s *service) Get(ctx context.Context, companyID, id string) (LeaveRequestResponse, error) {
	lr, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}
	return mapToResponse(*lr), nil
}

func (s *service) Approve(ctx context.Context, companyID, id, actorEmployeeID, actorRole string, req DecisionRequest) (LeaveRequestResponse, error) {
	in := decisionInput{Comments: req.Comments, Now: time.Now().UTC()}
	return s.decide(ctx, companyID, id, actorEmployeeID, actorRole, ActionApprove, in)
}

func (s *service) Reject(ctx context.Context, companyID, id, actorEmployeeID, actorRole string, req RejectRequest) (LeaveRequestResponse, error) {
	in := decisionInput{
		Comments:        req.Comments,
		RejectionReason: &req.RejectionReason,
		Now:             time.Now().UTC(),
	}
	return s.decide(ctx, companyID, id, actorEmployeeID, actorRole, ActionReject, in)
}

func (s *service) decide(ctx context.Context, companyID, id, actorEmployeeID, actorRole string, action Action, in decisionInput) (LeaveRequestResponse, error) {
	actorUUID, err := uuid.Parse(actorEmployeeID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidActorID
	}

	role, err := approverRole(actorRole)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	var updated *LeaveRequest

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		lr, err := qtx.FindByIDAndCompanyForUpdate(ctx, companyID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaverequesterrors.ErrRequestNotFound
			}
			return err
		}

		approver := Approver{ID: actorUUID, Role: role}
		if role == ApproverManager {
			managerID, err := s.directory.ResolveManager(ctx, companyID, lr.EmployeeID.String())
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			approver.IsDirectManager = managerID != nil && *managerID == actorUUID
		}

		outcome, err := transition(lr, action, approver, in)
		if err != nil {
			return err
		}

		if outcome.Audit != nil {
			if err := qtx.CreateApproval(ctx, outcome.Audit); err != nil {
				if isUniqueViolation(err) {
					return leaverequesterrors.ErrDuplicateApproval
				}
				return err
			}
		}

		if err := qtx.Save(ctx, lr); err != nil {
			return err
		}

		if outcome.ReleaseReservation {
			txLedger := s.ledger.WithTx(tx)
			_, err := txLedger.Release(ctx, companyID, lr.EmployeeID.String(),
				lr.LeavePeriodID.String(), lr.LeaveTypeConfigID.String(), lr.TotalDays)
			if err != nil {
				return err
			}
		}

		eventType, recipient := decisionEvent(lr)
		s.notify(ctx, tx, lr, s.leaveTypeFor(ctx, companyID, lr), eventType, recipient)

		updated = lr
		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request decision recorded",
		zap.String("request_number", updated.RequestNumber),
		zap.String("company_id", companyID),
		zap.String("action", string(action)),
		zap.String("approver_role", role),
		zap.String("status", updated.Status),
	)

	return mapToResponse(*updated), nil
}

func (s *service) Cancel(ctx context.Context, companyID, id, actorEmployeeID string) (LeaveRequestResponse, error) {
	actorUUID, err := uuid.Parse(actorEmployeeID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidActorID
	}

	var updated *LeaveRequest

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		lr, err := qtx.FindByIDAndCompanyForUpdate(ctx, companyID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaverequesterrors.ErrRequestNotFound
			}
			return err
		}

		in := decisionInput{CallerID: actorUUID, Now: time.Now().UTC()}
		outcome, err := transition(lr, ActionCancel, Approver{}, in)
		if err != nil {
			return err
		}

		if err := qtx.Save(ctx, lr); err != nil {
			return err
		}

		if outcome.ReleaseReservation {
			txLedger := s.ledger.WithTx(tx)
			_, err := txLedger.Release(ctx, companyID, lr.EmployeeID.String(),
				lr.LeavePeriodID.String(), lr.LeaveTypeConfigID.String(), lr.TotalDays)
			if err != nil {
				return err
			}
		}

		recipient := ""
		if managerID, err := s.directory.ResolveManager(ctx, companyID, lr.EmployeeID.String()); err == nil && managerID != nil {
			recipient = managerID.String()
		}
		s.notify(ctx, tx, lr, s.leaveTypeFor(ctx, companyID, lr), events.LeaveRequestCancelled, recipient)

		updated = lr
		return nil
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request cancelled",
		zap.String("request_number", updated.RequestNumber),
		zap.String("company_id", companyID),
		zap.String("employee_id", actorEmployeeID),
	)

	return mapToResponse(*updated), nil
}

func (s *service) ListMyRequests(ctx context.Context, companyID, employeeID string, page, limit int) ([]LeaveRequestResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	requests, total, err := s.repo.ListByEmployee(ctx, companyID, employeeID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(requests), total, nil
}

func (s *service) ListPendingApprovals(ctx context.Context, companyID, actorEmployeeID, actorRole string) ([]LeaveRequestResponse, error) {
	role, err := approverRole(actorRole)
	if err != nil {
		return nil, err
	}

	var (
		requests []LeaveRequest
	)
	switch role {
	case ApproverManager:
		requests, err = s.repo.ListPendingForManager(ctx, companyID, actorEmployeeID)
	case ApproverHR:
		requests, err = s.repo.ListPendingForHR(ctx, companyID)
	}
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) ListApprovals(ctx context.Context, companyID, requestID string) ([]ApprovalResponse, error) {
	if _, err := s.repo.FindByIDAndCompany(ctx, companyID, requestID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaverequesterrors.ErrRequestNotFound
		}
		return nil, err
	}

	approvals, err := s.repo.ListApprovals(ctx, companyID, requestID)
	if err != nil {
		return nil, err
	}

	resp := make([]ApprovalResponse, len(approvals))
	for i, a := range approvals {
		resp[i] = mapApprovalToResponse(a)
	}
	return resp, nil
}

// notify enqueues the workflow event on the caller's transaction. Delivery
// is asynchronous and a failed enqueue never fails the workflow action.
func (s *service) notify(ctx context.Context, tx *gorm.DB, lr *LeaveRequest, leaveType, eventType, recipientID string) {
	event := events.LeaveRequestEvent{
		EventType:     eventType,
		CompanyID:     lr.CompanyID.String(),
		RequestID:     lr.ID.String(),
		RequestNumber: lr.RequestNumber,
		EmployeeID:    lr.EmployeeID.String(),
		RecipientID:   recipientID,
		LeaveType:     leaveType,
		StartDate:     lr.StartDate.Format("2006-01-02"),
		EndDate:       lr.EndDate.Format("2006-01-02"),
		TotalDays:     lr.TotalDays,
		Status:        lr.Status,
		OccurredAt:    time.Now().UTC(),
	}

	if err := s.notifier.WithTx(tx).NotifyLeaveRequest(ctx, event); err != nil {
		s.logger.Warn("enqueue leave request event failed",
			zap.String("event_type", eventType),
			zap.String("request_number", lr.RequestNumber),
			zap.Error(err),
		)
	}
}

func (s *service) leaveTypeFor(ctx context.Context, companyID string, lr *LeaveRequest) string {
	cfg, err := s.periods.FindTypeConfigByIDAndCompany(ctx, companyID, lr.LeaveTypeConfigID.String())
	if err != nil {
		return ""
	}
	return cfg.Type
}

// decisionEvent picks the event and recipient for the state the request just
// reached. An empty recipient addresses the HR group.
func decisionEvent(lr *LeaveRequest) (eventType, recipientID string) {
	switch lr.Status {
	case StatusManagerApproved:
		return events.LeaveRequestManagerApproved, ""
	case StatusApproved:
		return events.LeaveRequestApproved, lr.EmployeeID.String()
	case StatusRejected:
		return events.LeaveRequestRejected, lr.EmployeeID.String()
	default:
		return events.LeaveRequestCancelled, lr.EmployeeID.String()
	}
}

// approverRole maps the token role claim onto the workflow level the caller
// acts at.
func approverRole(actorRole string) (string, error) {
	switch strings.ToUpper(actorRole) {
	case "MANAGER":
		return ApproverManager, nil
	case "HR", "ADMIN":
		return ApproverHR, nil
	default:
		return "", leaverequesterrors.ErrUnknownApproverRole
	}
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, leaverequesterrors.ErrInvalidDateFormat
	}
	return t.UTC(), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
