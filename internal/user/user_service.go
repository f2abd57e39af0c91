package user

import (
	"context"
	"errors"

	usererrors "github.com/hafizthesakora/cert-tracking/internal/user/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is assigned to admin-created accounts until the user
// changes it on first login.
const DefaultPassword = "password123"

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	UpdateRole(ctx context.Context, id string, req UpdateUserRoleRequest) (UserResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateUserRequest) (UserResponse, error) {
	s.logger.Debug("create user requested",
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	if !IsValidRole(req.Role) {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), 12)
	if err != nil {
		s.logger.Error("create user hash password failed", zap.Error(err))
		return UserResponse{}, err
	}

	u := &User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
		IsActive: true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if isUniqueEmailViolation(err) {
			s.logger.Warn("create user duplicate email", zap.String("email", req.Email))
			return UserResponse{}, usererrors.ErrEmailAlreadyRegistered
		}
		s.logger.Error("create user persist failed", zap.Error(err))
		return UserResponse{}, err
	}

	s.logger.Info("create user success",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role),
	)

	return mapToResponse(*u), nil
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(users), nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) UpdateRole(ctx context.Context, id string, req UpdateUserRoleRequest) (UserResponse, error) {
	s.logger.Debug("update user role requested",
		zap.String("user_id", id),
		zap.String("role", req.Role),
	)

	if _, err := uuid.Parse(id); err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}
	if !IsValidRole(req.Role) {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	if err := s.repo.UpdateRole(ctx, id, req.Role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		s.logger.Error("update user role persist failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}

	s.logger.Info("update user role success",
		zap.String("user_id", id),
		zap.String("role", req.Role),
	)

	return mapToResponse(*u), nil
}

func isUniqueEmailViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:       u.ID.String(),
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

func mapToListResponse(users []User) []UserResponse {
	res := make([]UserResponse, len(users))
	for i, u := range users {
		res[i] = mapToResponse(u)
	}
	return res
}
