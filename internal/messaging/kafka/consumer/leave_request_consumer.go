package consumer

import (
	"context"
	"encoding/json"

	"go-timeoff/internal/events"
	"go-timeoff/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func ConsumeLeaveRequestEvents(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_request")
	log.Info("leave request consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave request consumer stopped")
				return
			}
			log.Error("fetch leave request message failed", zap.Error(err))
			continue
		}

		var event events.LeaveRequestEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave request event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notificationService.Deliver(ctx, event); err != nil {
			log.Error("deliver leave request notification failed",
				zap.String("event_type", event.EventType),
				zap.String("request_id", event.RequestID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave request message failed", zap.Error(err))
			continue
		}

		log.Info("leave request event handled",
			zap.String("event_type", event.EventType),
			zap.String("request_number", event.RequestNumber),
			zap.String("company_id", event.CompanyID),
		)
	}
}
