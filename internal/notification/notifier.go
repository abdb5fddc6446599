package notification

import (
	"context"
	"encoding/json"

	"go-timeoff/internal/events"
	"go-timeoff/internal/messaging/kafka"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier enqueues a leave request event for asynchronous delivery. Calls
// inside the submitting transaction use WithTx so the event row commits or
// rolls back together with the request.
//
//go:generate mockgen -source=notifier.go -destination=mock/notifier_mock.go -package=mock
type Notifier interface {
	WithTx(tx *gorm.DB) Notifier
	NotifyLeaveRequest(ctx context.Context, event events.LeaveRequestEvent) error
}

type outboxNotifier struct {
	outbox kafka.OutboxRepository
}

func NewOutboxNotifier(outbox kafka.OutboxRepository) Notifier {
	return &outboxNotifier{outbox: outbox}
}

func (n *outboxNotifier) WithTx(tx *gorm.DB) Notifier {
	return &outboxNotifier{outbox: n.outbox.WithTx(tx)}
}

func (n *outboxNotifier) NotifyLeaveRequest(ctx context.Context, event events.LeaveRequestEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return n.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		AggregateType: "leave_request",
		AggregateID:   event.RequestID,
		EventType:     event.EventType,
		Topic:         events.LeaveRequestTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

type noopNotifier struct{}

// NewNoopNotifier is for tests and for running the API without a broker.
func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) WithTx(*gorm.DB) Notifier { return noopNotifier{} }

func (noopNotifier) NotifyLeaveRequest(context.Context, events.LeaveRequestEvent) error {
	return nil
}
