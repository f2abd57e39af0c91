package user_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/hafizthesakora/cert-tracking/internal/user"
	usererrors "github.com/hafizthesakora/cert-tracking/internal/user/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	createFn     func(ctx context.Context, u *user.User) error
	findAllFn    func(ctx context.Context) ([]user.User, error)
	findByIDFn   func(ctx context.Context, id string) (*user.User, error)
	updateRoleFn func(ctx context.Context, id, role string) error
}

func (f *fakeUserRepository) WithTx(tx *sql.Tx) user.Repository { return f }
func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}
func (f *fakeUserRepository) FindAll(ctx context.Context) ([]user.User, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}
func (f *fakeUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepository) FindByIDs(ctx context.Context, ids []string) ([]user.User, error) {
	return nil, nil
}
func (f *fakeUserRepository) UpdateRole(ctx context.Context, id, role string) error {
	if f.updateRoleFn != nil {
		return f.updateRoleFn(ctx, id, role)
	}
	return nil
}
func (f *fakeUserRepository) CountAll(ctx context.Context) (int64, error) { return 0, nil }

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success assigns default password and activates account", func(t *testing.T) {
		repo := &fakeUserRepository{}
		svc := user.NewService(repo)

		var created *user.User
		repo.createFn = func(ctx context.Context, u *user.User) error {
			created = u
			return nil
		}

		resp, err := svc.Create(ctx, user.CreateUserRequest{
			Name:  "Dana Smith",
			Email: "dana@example.com",
			Role:  user.RolePortalMaster,
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, user.RolePortalMaster, resp.Role)
		assert.True(t, resp.IsActive)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(created.Password), []byte(user.DefaultPassword)))
	})

	t.Run("negative invalid role", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{})

		_, err := svc.Create(ctx, user.CreateUserRequest{
			Name:  "Dana Smith",
			Email: "dana@example.com",
			Role:  "SUPERUSER",
		})

		assert.ErrorIs(t, err, usererrors.ErrInvalidRole)
	})

	t.Run("negative duplicate email", func(t *testing.T) {
		repo := &fakeUserRepository{}
		svc := user.NewService(repo)

		repo.createFn = func(ctx context.Context, u *user.User) error {
			return &pgconn.PgError{Code: "23505"}
		}

		_, err := svc.Create(ctx, user.CreateUserRequest{
			Name:  "Dana Smith",
			Email: "dana@example.com",
			Role:  user.RoleEmployee,
		})

		assert.ErrorIs(t, err, usererrors.ErrEmailAlreadyRegistered)
	})
}

func TestUserService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := &fakeUserRepository{}
		svc := user.NewService(repo)

		id := uuid.New()
		repo.findByIDFn = func(ctx context.Context, got string) (*user.User, error) {
			assert.Equal(t, id.String(), got)
			return &user.User{ID: id, Name: "Dana Smith", Role: user.RoleEmployee, IsActive: true}, nil
		}

		resp, err := svc.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, id.String(), resp.ID)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{})

		_, err := svc.GetByID(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})

	t.Run("negative not found", func(t *testing.T) {
		repo := &fakeUserRepository{}
		svc := user.NewService(repo)

		repo.findByIDFn = func(ctx context.Context, id string) (*user.User, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := svc.GetByID(ctx, uuid.NewString())

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}

func TestUserService_UpdateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := &fakeUserRepository{}
		svc := user.NewService(repo)

		id := uuid.New()
		repo.updateRoleFn = func(ctx context.Context, gotID, role string) error {
			assert.Equal(t, id.String(), gotID)
			assert.Equal(t, user.RoleAdmin, role)
			return nil
		}
		repo.findByIDFn = func(ctx context.Context, gotID string) (*user.User, error) {
			return &user.User{ID: id, Name: "Dana Smith", Role: user.RoleAdmin, IsActive: true}, nil
		}

		resp, err := svc.UpdateRole(ctx, id.String(), user.UpdateUserRoleRequest{Role: user.RoleAdmin})

		assert.NoError(t, err)
		assert.Equal(t, user.RoleAdmin, resp.Role)
	})

	t.Run("negative unknown user", func(t *testing.T) {
		repo := &fakeUserRepository{}
		svc := user.NewService(repo)

		repo.updateRoleFn = func(ctx context.Context, id, role string) error {
			return gorm.ErrRecordNotFound
		}

		_, err := svc.UpdateRole(ctx, uuid.NewString(), user.UpdateUserRoleRequest{Role: user.RoleAdmin})

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})

	t.Run("negative invalid role", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{})

		_, err := svc.UpdateRole(ctx, uuid.NewString(), user.UpdateUserRoleRequest{Role: "OWNER"})

		assert.ErrorIs(t, err, usererrors.ErrInvalidRole)
	})
}

func TestUserService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("negative repo error", func(t *testing.T) {
		repo := &fakeUserRepository{}
		svc := user.NewService(repo)

		repo.findAllFn = func(ctx context.Context) ([]user.User, error) {
			return nil, errors.New("db down")
		}

		resp, err := svc.GetAll(ctx)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}
