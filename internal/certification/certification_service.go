package certification

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	certificationerrors "github.com/hafizthesakora/cert-tracking/internal/certification/errors"
	"github.com/hafizthesakora/cert-tracking/internal/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const OptionsCacheKey = "certifications:options"

//go:generate mockgen -source=certification_service.go -destination=mock/certification_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateCertificationRequest) (CertificationResponse, error)
	GetAll(ctx context.Context) ([]CertificationResponse, error)
	GetByID(ctx context.Context, id string) (CertificationResponse, error)
	GetOptions(ctx context.Context) ([]CertificationResponse, error)
	Update(ctx context.Context, id string, req UpdateCertificationRequest) (CertificationResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	userRepo user.Repository
	rdb      *redis.Client
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, userRepo user.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("certification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("certification.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		userRepo: userRepo,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, req CreateCertificationRequest) (CertificationResponse, error) {
	s.logger.Debug("create certification requested",
		zap.String("name", req.Name),
		zap.Int("portal_masters", len(req.PortalMasterIDs)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create certification begin tx failed", zap.Error(err))
		return CertificationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := s.verifyPortalMasters(ctx, req.PortalMasterIDs); err != nil {
		return CertificationResponse{}, err
	}

	cert := &Certification{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}

	if err := qtx.Create(ctx, cert); err != nil {
		if isUniqueViolation(err) {
			return CertificationResponse{}, certificationerrors.ErrDuplicateName
		}
		s.logger.Error("create certification persist failed", zap.Error(err))
		return CertificationResponse{}, err
	}

	if err := qtx.ReplacePortalMasters(ctx, cert.ID.String(), req.PortalMasterIDs); err != nil {
		s.logger.Error("create certification portal masters failed", zap.Error(err))
		return CertificationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create certification commit failed", zap.Error(err))
		return CertificationResponse{}, err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("create certification success", zap.String("certification_id", cert.ID.String()))

	return s.toResponse(ctx, *cert, req.PortalMasterIDs), nil
}

func (s *service) GetAll(ctx context.Context) ([]CertificationResponse, error) {
	certs, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]CertificationResponse, len(certs))
	for i, cert := range certs {
		ids := make([]string, len(cert.PortalMasters))
		for j, pm := range cert.PortalMasters {
			ids[j] = pm.UserID.String()
		}
		resp[i] = s.toResponse(ctx, cert, ids)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (CertificationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CertificationResponse{}, certificationerrors.ErrInvalidCertificationID
	}

	cert, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CertificationResponse{}, certificationerrors.ErrCertificationNotFound
		}
		return CertificationResponse{}, err
	}

	ids := make([]string, len(cert.PortalMasters))
	for i, pm := range cert.PortalMasters {
		ids[i] = pm.UserID.String()
	}
	return s.toResponse(ctx, *cert, ids), nil
}

// GetOptions serves the lightweight name/id list used by assignment forms.
// Cached in redis with singleflight protecting the fill.
func (s *service) GetOptions(ctx context.Context) ([]CertificationResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, OptionsCacheKey).Result(); err == nil {
			var resp []CertificationResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(OptionsCacheKey, func() (interface{}, error) {
		certs, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		resp := make([]CertificationResponse, len(certs))
		for i, cert := range certs {
			resp[i] = CertificationResponse{
				ID:          cert.ID.String(),
				Name:        cert.Name,
				Description: cert.Description,
			}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, OptionsCacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]CertificationResponse), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateCertificationRequest) (CertificationResponse, error) {
	s.logger.Debug("update certification requested", zap.String("certification_id", id))

	if _, err := uuid.Parse(id); err != nil {
		return CertificationResponse{}, certificationerrors.ErrInvalidCertificationID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update certification begin tx failed", zap.Error(err))
		return CertificationResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cert, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CertificationResponse{}, certificationerrors.ErrCertificationNotFound
		}
		return CertificationResponse{}, err
	}

	if err := s.verifyPortalMasters(ctx, req.PortalMasterIDs); err != nil {
		return CertificationResponse{}, err
	}

	cert.Name = req.Name
	cert.Description = req.Description

	if err := qtx.Update(ctx, cert); err != nil {
		if isUniqueViolation(err) {
			return CertificationResponse{}, certificationerrors.ErrDuplicateName
		}
		s.logger.Error("update certification persist failed", zap.Error(err))
		return CertificationResponse{}, err
	}

	if err := qtx.ReplacePortalMasters(ctx, id, req.PortalMasterIDs); err != nil {
		s.logger.Error("update certification portal masters failed", zap.Error(err))
		return CertificationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update certification commit failed", zap.Error(err))
		return CertificationResponse{}, err
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("update certification success", zap.String("certification_id", id))

	return s.toResponse(ctx, *cert, req.PortalMasterIDs), nil
}

func (s *service) verifyPortalMasters(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(users) != len(ids) {
		return certificationerrors.ErrUnknownPortalMaster
	}
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, OptionsCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate certification options cache",
			zap.Error(err),
			zap.String("key", OptionsCacheKey),
		)
	}
}

func (s *service) toResponse(ctx context.Context, cert Certification, portalMasterIDs []string) CertificationResponse {
	resp := CertificationResponse{
		ID:          cert.ID.String(),
		Name:        cert.Name,
		Description: cert.Description,
	}

	if len(portalMasterIDs) == 0 {
		return resp
	}

	users, err := s.userRepo.FindByIDs(ctx, portalMasterIDs)
	if err != nil {
		// Names are decoration; fall back to bare ids
		s.logger.Warn("resolve portal master names failed", zap.Error(err))
		for _, id := range portalMasterIDs {
			resp.PortalMasters = append(resp.PortalMasters, PortalMasterResponse{ID: id})
		}
		return resp
	}

	for _, u := range users {
		resp.PortalMasters = append(resp.PortalMasters, PortalMasterResponse{
			ID:   u.ID.String(),
			Name: u.Name,
		})
	}
	return resp
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
