package consumer

import (
	"context"
	"encoding/json"

	"github.com/hafizthesakora/cert-tracking/internal/events"
	"github.com/hafizthesakora/cert-tracking/internal/mailer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeEmailRequested reads composed emails off the notification topic and
// delivers them. Delivery is best-effort: a failed send is logged and the
// message committed anyway, so a dead mailbox can never wedge the partition
// or touch workflow state.
func ConsumeEmailRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	m mailer.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.email_requested")
	log.Info("email consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("email consumer stopped")
				return
			}
			log.Error("fetch email message failed", zap.Error(err))
			continue
		}

		var event events.EmailRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode email_requested event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := m.Send(ctx, event.To, event.Subject, event.HTML); err != nil {
			log.Error("send email failed",
				zap.String("event_type", event.EventType),
				zap.String("holding_id", event.HoldingID),
				zap.String("to", event.To),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit email message failed", zap.Error(err))
			continue
		}

		log.Info("email delivered",
			zap.String("event_type", event.EventType),
			zap.String("holding_id", event.HoldingID),
		)
	}
}
