package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hafizthesakora/cert-tracking/internal/events"
	"github.com/hafizthesakora/cert-tracking/internal/holding"
	"github.com/hafizthesakora/cert-tracking/internal/mailer"
	"github.com/hafizthesakora/cert-tracking/internal/messaging/kafka"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// leadDays are the offsets before expiry at which a holder is reminded.
var leadDays = []int{90, 30, 7}

const (
	dateLayout      = "2006-01-02"
	emailDateLayout = "02 Jan 2006"
	dedupeTTL       = 48 * time.Hour
)

//go:generate mockgen -source=reminder_service.go -destination=mock/reminder_service_mock.go -package=mock
type Service interface {
	// NotifyExpiringSoon enqueues one expiry reminder for every ACTIVE
	// holding whose expiry date lands exactly on one of the lead-day
	// offsets from today. Re-running within the same day is a no-op per
	// holding. Returns how many reminders were enqueued.
	NotifyExpiringSoon(ctx context.Context, today time.Time) (int, error)
}

type service struct {
	holdings holding.Repository
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	logger   *zap.Logger
}

func NewService(
	holdings holding.Repository,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("reminder.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reminder.service")
	}
	return &service{
		holdings: holdings,
		outbox:   outbox,
		rdb:      rdb,
		logger:   l,
	}
}

func (s *service) NotifyExpiringSoon(ctx context.Context, today time.Time) (int, error) {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	targets := make([]time.Time, len(leadDays))
	for i, d := range leadDays {
		targets[i] = today.AddDate(0, 0, d)
	}

	records, err := s.holdings.FindActiveExpiringOn(ctx, targets)
	if err != nil {
		return 0, err
	}

	attempted := 0
	for i := range records {
		h := &records[i]
		if h.User == nil || h.Certification == nil {
			s.logger.Warn("reminder skipped, holder or certification missing",
				zap.String("holding_id", h.ID.String()),
			)
			continue
		}

		if s.alreadySent(ctx, h, today) {
			continue
		}

		content := mailer.ExpiresSoonEmail(
			h.User.Name,
			h.Certification.Name,
			h.ExpiryDate.Format(emailDateLayout),
		)

		if err := s.enqueue(ctx, h, content); err != nil {
			s.logger.Error("enqueue expiry reminder failed",
				zap.String("holding_id", h.ID.String()),
				zap.Error(err),
			)
			continue
		}
		attempted++
	}

	s.logger.Info("expiry reminder run finished",
		zap.Time("today", today),
		zap.Int("matched", len(records)),
		zap.Int("attempted", attempted),
	)

	return attempted, nil
}

// alreadySent marks the holding as reminded for today via SET NX. A redis
// failure counts as not sent; a duplicate email beats a dropped one.
func (s *service) alreadySent(ctx context.Context, h *holding.EmployeeCertification, today time.Time) bool {
	if s.rdb == nil {
		return false
	}

	key := fmt.Sprintf("reminder:%s:%s:%s",
		h.ID.String(),
		h.ExpiryDate.Format(dateLayout),
		today.Format(dateLayout),
	)

	set, err := s.rdb.SetNX(ctx, key, 1, dedupeTTL).Result()
	if err != nil {
		s.logger.Warn("reminder dedupe check failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return !set
}

func (s *service) enqueue(ctx context.Context, h *holding.EmployeeCertification, content mailer.EmailContent) error {
	event := events.EmailRequestedEvent{
		EventType:  events.EmailTypeExpiresSoon,
		HoldingID:  h.ID.String(),
		To:         h.User.Email,
		Subject:    content.Subject,
		HTML:       content.HTML,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		AggregateType: "employee_certification",
		AggregateID:   h.ID.String(),
		EventType:     events.EmailTypeExpiresSoon,
		Topic:         events.EmailRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}
