package notification

import (
	"context"
	"fmt"

	"go-timeoff/internal/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	Deliver(ctx context.Context, event events.LeaveRequestEvent) error
	ListMine(ctx context.Context, companyID, recipientID string, page, limit int) ([]NotificationResponse, int64, error)
	MarkRead(ctx context.Context, companyID, recipientID, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

// Deliver materializes a workflow event into an inbox row. Email or chat
// delivery would hang off the same path.
func (s *service) Deliver(ctx context.Context, event events.LeaveRequestEvent) error {
	companyID, err := uuid.Parse(event.CompanyID)
	if err != nil {
		return fmt.Errorf("invalid company id in event %s: %w", event.EventType, err)
	}

	var recipientID *uuid.UUID
	if event.RecipientID != "" {
		id, err := uuid.Parse(event.RecipientID)
		if err != nil {
			return fmt.Errorf("invalid recipient id in event %s: %w", event.EventType, err)
		}
		recipientID = &id
	}

	title, message := render(event)

	n := &Notification{
		ID:          uuid.New(),
		CompanyID:   companyID,
		RecipientID: recipientID,
		EventType:   event.EventType,
		Title:       title,
		Message:     message,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.logger.Info("notification delivered",
		zap.String("event_type", event.EventType),
		zap.String("request_number", event.RequestNumber),
		zap.String("recipient_id", event.RecipientID),
	)

	return nil
}

func (s *service) ListMine(ctx context.Context, companyID, recipientID string, page, limit int) ([]NotificationResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, total, err := s.repo.ListByRecipient(ctx, companyID, recipientID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		resp[i] = mapToResponse(n)
	}
	return resp, total, nil
}

func (s *service) MarkRead(ctx context.Context, companyID, recipientID, id string) error {
	return s.repo.MarkRead(ctx, companyID, recipientID, id)
}

func render(event events.LeaveRequestEvent) (title, message string) {
	span := fmt.Sprintf("%s to %s (%d days)", event.StartDate, event.EndDate, event.TotalDays)

	switch event.EventType {
	case events.LeaveRequestSubmitted:
		return "Leave request awaiting your approval",
			fmt.Sprintf("Request %s: %s leave, %s.", event.RequestNumber, event.LeaveType, span)
	case events.LeaveRequestManagerApproved:
		return "Leave request awaiting HR approval",
			fmt.Sprintf("Request %s was cleared by the manager: %s leave, %s.", event.RequestNumber, event.LeaveType, span)
	case events.LeaveRequestApproved:
		return "Your leave request was approved",
			fmt.Sprintf("Request %s is approved: %s leave, %s.", event.RequestNumber, event.LeaveType, span)
	case events.LeaveRequestRejected:
		return "Your leave request was rejected",
			fmt.Sprintf("Request %s was rejected: %s leave, %s.", event.RequestNumber, event.LeaveType, span)
	case events.LeaveRequestCancelled:
		return "Leave request cancelled",
			fmt.Sprintf("Request %s was cancelled by the employee: %s leave, %s.", event.RequestNumber, event.LeaveType, span)
	default:
		return "Leave request update",
			fmt.Sprintf("Request %s changed status to %s.", event.RequestNumber, event.Status)
	}
}
