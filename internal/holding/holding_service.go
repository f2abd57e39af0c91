package holding

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/hafizthesakora/cert-tracking/internal/certification"
	"github.com/hafizthesakora/cert-tracking/internal/events"
	holdingerrors "github.com/hafizthesakora/cert-tracking/internal/holding/errors"
	"github.com/hafizthesakora/cert-tracking/internal/mailer"
	"github.com/hafizthesakora/cert-tracking/internal/messaging/kafka"
	"github.com/hafizthesakora/cert-tracking/internal/shared/contextutil"
	"github.com/hafizthesakora/cert-tracking/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dateLayout      = "2006-01-02"
	emailDateLayout = "02 Jan 2006"
)

//go:generate mockgen -source=holding_service.go -destination=mock/holding_service_mock.go -package=mock
type Service interface {
	Assign(ctx context.Context, req AssignCertificationRequest) (HoldingResponse, error)
	List(ctx context.Context, actorID string) ([]HoldingResponse, error)
	ListMine(ctx context.Context, actorID string) ([]HoldingResponse, error)
	GetByID(ctx context.Context, actorID, id string) (HoldingResponse, error)
	Stats(ctx context.Context) (StatsResponse, error)
	RecomputeStatuses(ctx context.Context, today time.Time) error
	RequestRenewal(ctx context.Context, actorID, id string) (HoldingResponse, error)
	InitiateRenewal(ctx context.Context, actorID, id string, req InitiateRenewalRequest) (HoldingResponse, error)
	ConfirmRenewal(ctx context.Context, actorID, id string, req ConfirmRenewalRequest) (HoldingResponse, error)
	PostponeRenewal(ctx context.Context, actorID, id string) (HoldingResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	users  user.Repository
	certs  certification.Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	users user.Repository,
	certs certification.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("holding.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holding.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		users:  users,
		certs:  certs,
		outbox: outbox,
		logger: l,
	}
}

func (s *service) Assign(ctx context.Context, req AssignCertificationRequest) (HoldingResponse, error) {
	issue, expiry, err := parseDateRange(req.IssueDate, req.ExpiryDate)
	if err != nil {
		return HoldingResponse{}, err
	}

	holder, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return HoldingResponse{}, holdingerrors.ErrUnknownUser
		}
		return HoldingResponse{}, err
	}

	cert, err := s.certs.FindByID(ctx, req.CertificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return HoldingResponse{}, holdingerrors.ErrUnknownCertification
		}
		return HoldingResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("assign certification begin tx failed", zap.Error(err))
		return HoldingResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	h := &EmployeeCertification{
		ID:              uuid.New(),
		UserID:          holder.ID,
		CertificationID: cert.ID,
		IssueDate:       issue,
		ExpiryDate:      expiry,
		Status:          statusForExpiry(expiry, dateOnly(time.Now().UTC())),
	}

	if err := qtx.Create(ctx, h); err != nil {
		s.logger.Error("assign certification persist failed", zap.Error(err))
		return HoldingResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("assign certification commit failed", zap.Error(err))
		return HoldingResponse{}, err
	}

	h.User = holder
	h.Certification = cert

	s.logger.Info("certification assigned",
		zap.String("holding_id", h.ID.String()),
		zap.String("user_id", holder.ID.String()),
		zap.String("certification_id", cert.ID.String()),
		zap.String("status", h.Status),
	)

	return toResponse(h), nil
}

func (s *service) List(ctx context.Context, actorID string) ([]HoldingResponse, error) {
	s.recomputeBestEffort(ctx)

	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var holdings []EmployeeCertification
	switch actor.Role {
	case user.RoleAdmin:
		holdings, err = s.repo.FindAll(ctx)
	case user.RolePortalMaster:
		var certIDs []string
		certIDs, err = s.certs.CertificationIDsForMaster(ctx, actorID)
		if err == nil {
			holdings, err = s.repo.FindByCertifications(ctx, certIDs)
		}
	default:
		holdings, err = s.repo.FindByUser(ctx, actorID)
	}
	if err != nil {
		return nil, err
	}

	return toResponses(holdings), nil
}

func (s *service) ListMine(ctx context.Context, actorID string) ([]HoldingResponse, error) {
	s.recomputeBestEffort(ctx)

	holdings, err := s.repo.FindByUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return toResponses(holdings), nil
}

func (s *service) GetByID(ctx context.Context, actorID, id string) (HoldingResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return HoldingResponse{}, holdingerrors.ErrInvalidHoldingID
	}

	h, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return HoldingResponse{}, holdingerrors.ErrHoldingNotFound
		}
		return HoldingResponse{}, err
	}

	allowed, err := s.canView(ctx, actorID, h)
	if err != nil {
		return HoldingResponse{}, err
	}
	if !allowed {
		return HoldingResponse{}, holdingerrors.ErrNotAuthorized
	}

	return toResponse(h), nil
}

func (s *service) Stats(ctx context.Context) (StatsResponse, error) {
	s.recomputeBestEffort(ctx)

	users, err := s.users.CountAll(ctx)
	if err != nil {
		return StatsResponse{}, err
	}
	certs, err := s.certs.CountAll(ctx)
	if err != nil {
		return StatsResponse{}, err
	}
	expiringSoon, err := s.repo.CountByStatus(ctx, StatusExpiresSoon)
	if err != nil {
		return StatsResponse{}, err
	}
	expired, err := s.repo.CountByStatus(ctx, StatusExpired)
	if err != nil {
		return StatsResponse{}, err
	}
	requested, err := s.repo.CountByStatus(ctx, StatusRenewalRequested)
	if err != nil {
		return StatsResponse{}, err
	}
	initiated, err := s.repo.CountByStatus(ctx, StatusInitiated)
	if err != nil {
		return StatsResponse{}, err
	}

	return StatsResponse{
		Users:             users,
		Certifications:    certs,
		ExpiringSoon:      expiringSoon,
		Expired:           expired,
		RenewalsRequested: requested,
		RenewalsInitiated: initiated,
	}, nil
}

// RecomputeStatuses applies the time-based rules: ACTIVE holdings expiring
// within the window become EXPIRES_SOON, holdings past expiry become EXPIRED.
// Renewal workflow statuses are never touched. Idempotent for a given day.
func (s *service) RecomputeStatuses(ctx context.Context, today time.Time) error {
	today = dateOnly(today)

	expired, err := s.repo.MarkExpired(ctx, today)
	if err != nil {
		return err
	}
	soon, err := s.repo.MarkExpiringSoon(ctx, today)
	if err != nil {
		return err
	}

	if expired > 0 || soon > 0 {
		s.logger.Info("holding statuses recomputed",
			zap.Time("today", today),
			zap.Int64("marked_expired", expired),
			zap.Int64("marked_expires_soon", soon),
		)
	}
	return nil
}

func (s *service) RequestRenewal(ctx context.Context, actorID, id string) (HoldingResponse, error) {
	return s.transition(ctx, actorID, id, ActionRequestRenewal, func(ctx context.Context, actor *user.User, h *EmployeeCertification) error {
		if h.UserID.String() != actor.ID.String() {
			return holdingerrors.ErrNotHolder
		}
		h.Status = StatusRenewalRequested
		return nil
	}, s.notifyRenewalRequested)
}

func (s *service) InitiateRenewal(ctx context.Context, actorID, id string, req InitiateRenewalRequest) (HoldingResponse, error) {
	renewal, err := time.Parse(dateLayout, req.RenewalDate)
	if err != nil {
		return HoldingResponse{}, holdingerrors.ErrInvalidRenewalDate
	}
	renewal = dateOnly(renewal)
	if renewal.Before(dateOnly(time.Now().UTC())) {
		return HoldingResponse{}, holdingerrors.ErrRenewalDateInPast
	}

	return s.transition(ctx, actorID, id, ActionInitiateRenewal, func(ctx context.Context, actor *user.User, h *EmployeeCertification) error {
		if err := s.requireManager(ctx, actor, h.CertificationID.String()); err != nil {
			return err
		}
		h.Status = StatusInitiated
		h.RenewalDate = &renewal
		return nil
	}, s.notifyRenewalInitiated)
}

func (s *service) ConfirmRenewal(ctx context.Context, actorID, id string, req ConfirmRenewalRequest) (HoldingResponse, error) {
	issue, expiry, err := parseDateRange(req.IssueDate, req.ExpiryDate)
	if err != nil {
		return HoldingResponse{}, err
	}

	return s.transition(ctx, actorID, id, ActionConfirmRenewal, func(ctx context.Context, actor *user.User, h *EmployeeCertification) error {
		if err := s.requireManager(ctx, actor, h.CertificationID.String()); err != nil {
			return err
		}
		h.IssueDate = issue
		h.ExpiryDate = expiry
		h.Status = statusForExpiry(expiry, dateOnly(time.Now().UTC()))
		h.RenewalDate = nil
		return nil
	}, s.notifyRenewalConfirmed)
}

func (s *service) PostponeRenewal(ctx context.Context, actorID, id string) (HoldingResponse, error) {
	return s.transition(ctx, actorID, id, ActionPostponeRenewal, func(ctx context.Context, actor *user.User, h *EmployeeCertification) error {
		if err := s.requireManager(ctx, actor, h.CertificationID.String()); err != nil {
			return err
		}
		h.Status = StatusPostponed
		h.RenewalDate = nil
		return nil
	}, s.notifyRenewalPostponed)
}

// transition runs one renewal workflow step: load, authorize and mutate via
// apply, then write conditionally on the status the row had when loaded. The
// notification is enqueued in the same transaction but a failure there only
// logs; it never blocks the transition.
func (s *service) transition(
	ctx context.Context,
	actorID, id string,
	action Action,
	apply func(ctx context.Context, actor *user.User, h *EmployeeCertification) error,
	notify func(ctx context.Context, outbox kafka.OutboxRepository, h *EmployeeCertification),
) (HoldingResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return HoldingResponse{}, holdingerrors.ErrInvalidHoldingID
	}

	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return HoldingResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("renewal transition begin tx failed", zap.Error(err))
		return HoldingResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	h, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return HoldingResponse{}, holdingerrors.ErrHoldingNotFound
		}
		return HoldingResponse{}, err
	}

	if !CanTransition(h.Status, action) {
		s.logger.Warn("renewal transition rejected",
			zap.String("holding_id", id),
			zap.String("action", string(action)),
			zap.String("status", h.Status),
		)
		return HoldingResponse{}, holdingerrors.ErrInvalidTransition
	}

	loadedStatus := h.Status
	if err := apply(ctx, actor, h); err != nil {
		return HoldingResponse{}, err
	}

	rows, err := qtx.UpdateWithExpectedStatus(ctx, h, loadedStatus)
	if err != nil {
		s.logger.Error("renewal transition persist failed", zap.Error(err))
		return HoldingResponse{}, err
	}
	if rows == 0 {
		return HoldingResponse{}, holdingerrors.ErrConcurrentUpdate
	}

	notify(ctx, s.outbox.WithTx(tx), h)

	if err := tx.Commit(); err != nil {
		s.logger.Error("renewal transition commit failed", zap.Error(err))
		return HoldingResponse{}, err
	}

	s.logger.Info("renewal transition applied",
		zap.String("holding_id", id),
		zap.String("action", string(action)),
		zap.String("from", loadedStatus),
		zap.String("to", h.Status),
		zap.String("actor_id", actorID),
	)

	return toResponse(h), nil
}

func (s *service) requireManager(ctx context.Context, actor *user.User, certificationID string) error {
	if actor.Role == user.RoleAdmin {
		return nil
	}
	if actor.Role != user.RolePortalMaster {
		return holdingerrors.ErrNotPortalMaster
	}
	ok, err := s.certs.IsPortalMaster(ctx, certificationID, actor.ID.String())
	if err != nil {
		return err
	}
	if !ok {
		return holdingerrors.ErrNotPortalMaster
	}
	return nil
}

func (s *service) canView(ctx context.Context, actorID string, h *EmployeeCertification) (bool, error) {
	if h.UserID.String() == actorID {
		return true, nil
	}
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return false, err
	}
	if actor.Role == user.RoleAdmin {
		return true, nil
	}
	if actor.Role == user.RolePortalMaster {
		return s.certs.IsPortalMaster(ctx, h.CertificationID.String(), actorID)
	}
	return false, nil
}

func (s *service) recomputeBestEffort(ctx context.Context) {
	if err := s.RecomputeStatuses(ctx, time.Now().UTC()); err != nil {
		s.logger.Error("status recompute failed", zap.Error(err))
	}
}

func statusForExpiry(expiry, today time.Time) string {
	switch {
	case expiry.Before(today):
		return StatusExpired
	case !expiry.After(today.AddDate(0, 0, ExpiresSoonWindowDays)):
		return StatusExpiresSoon
	default:
		return StatusActive
	}
}

func parseDateRange(issueStr, expiryStr string) (issue, expiry time.Time, err error) {
	issue, err = time.Parse(dateLayout, issueStr)
	if err != nil {
		return time.Time{}, time.Time{}, holdingerrors.ErrInvalidDate
	}
	expiry, err = time.Parse(dateLayout, expiryStr)
	if err != nil {
		return time.Time{}, time.Time{}, holdingerrors.ErrInvalidDate
	}
	issue, expiry = dateOnly(issue), dateOnly(expiry)
	if !expiry.After(issue) {
		return time.Time{}, time.Time{}, holdingerrors.ErrExpiryNotAfterIssue
	}
	return issue, expiry, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func toResponses(holdings []EmployeeCertification) []HoldingResponse {
	resp := make([]HoldingResponse, len(holdings))
	for i := range holdings {
		resp[i] = toResponse(&holdings[i])
	}
	return resp
}

func toResponse(h *EmployeeCertification) HoldingResponse {
	resp := HoldingResponse{
		ID:              h.ID.String(),
		UserID:          h.UserID.String(),
		CertificationID: h.CertificationID.String(),
		IssueDate:       h.IssueDate.Format(dateLayout),
		ExpiryDate:      h.ExpiryDate.Format(dateLayout),
		Status:          h.Status,
	}
	if h.RenewalDate != nil {
		d := h.RenewalDate.Format(dateLayout)
		resp.RenewalDate = &d
	}
	if h.User != nil {
		resp.UserName = h.User.Name
		resp.UserEmail = h.User.Email
	}
	if h.Certification != nil {
		resp.CertificationName = h.Certification.Name
	}
	return resp
}

func (s *service) notifyRenewalRequested(ctx context.Context, outbox kafka.OutboxRepository, h *EmployeeCertification) {
	holderName, certName := displayNames(h)

	masterIDs, err := s.certs.PortalMasterIDs(ctx, h.CertificationID.String())
	if err != nil {
		s.logger.Error("resolve portal masters for notification failed", zap.Error(err))
		return
	}
	masters, err := s.users.FindByIDs(ctx, masterIDs)
	if err != nil {
		s.logger.Error("load portal masters for notification failed", zap.Error(err))
		return
	}

	for _, m := range masters {
		content := mailer.RenewalRequestedEmail(holderName, certName, m.Name)
		s.enqueueEmail(ctx, outbox, events.EmailTypeRenewalRequested, h.ID.String(), m.Email, content)
	}
}

func (s *service) notifyRenewalInitiated(ctx context.Context, outbox kafka.OutboxRepository, h *EmployeeCertification) {
	if h.User == nil || h.RenewalDate == nil {
		return
	}
	holderName, certName := displayNames(h)
	content := mailer.RenewalInitiatedEmail(holderName, certName, h.RenewalDate.Format(emailDateLayout))
	s.enqueueEmail(ctx, outbox, events.EmailTypeRenewalInitiated, h.ID.String(), h.User.Email, content)
}

func (s *service) notifyRenewalConfirmed(ctx context.Context, outbox kafka.OutboxRepository, h *EmployeeCertification) {
	if h.User == nil {
		return
	}
	holderName, certName := displayNames(h)
	content := mailer.RenewalConfirmedEmail(holderName, certName, h.ExpiryDate.Format(emailDateLayout))
	s.enqueueEmail(ctx, outbox, events.EmailTypeRenewalConfirmed, h.ID.String(), h.User.Email, content)
}

func (s *service) notifyRenewalPostponed(ctx context.Context, outbox kafka.OutboxRepository, h *EmployeeCertification) {
	if h.User == nil {
		return
	}
	holderName, certName := displayNames(h)
	content := mailer.RenewalPostponedEmail(holderName, certName)
	s.enqueueEmail(ctx, outbox, events.EmailTypeRenewalPostponed, h.ID.String(), h.User.Email, content)
}

func (s *service) enqueueEmail(ctx context.Context, outbox kafka.OutboxRepository, emailType, holdingID, to string, content mailer.EmailContent) {
	event := events.EmailRequestedEvent{
		EventType:  emailType,
		RequestID:  contextutil.GetRequestID(ctx),
		HoldingID:  holdingID,
		To:         to,
		Subject:    content.Subject,
		HTML:       content.HTML,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal email event failed", zap.Error(err))
		return
	}

	err = outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "employee_certification",
		AggregateID:   holdingID,
		EventType:     emailType,
		Topic:         events.EmailRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		s.logger.Error("enqueue email notification failed",
			zap.String("email_type", emailType),
			zap.String("holding_id", holdingID),
			zap.Error(err),
		)
	}
}

func displayNames(h *EmployeeCertification) (holderName, certName string) {
	holderName, certName = "there", "certification"
	if h.User != nil {
		holderName = h.User.Name
	}
	if h.Certification != nil {
		certName = h.Certification.Name
	}
	return holderName, certName
}
