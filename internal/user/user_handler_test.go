package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hafizthesakora/cert-tracking/internal/user"
	usererrors "github.com/hafizthesakora/cert-tracking/internal/user/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeUserService struct {
	createFn     func(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error)
	getAllFn     func(ctx context.Context) ([]user.UserResponse, error)
	getByIDFn    func(ctx context.Context, id string) (user.UserResponse, error)
	updateRoleFn func(ctx context.Context, id string, req user.UpdateUserRoleRequest) (user.UserResponse, error)
}

func (f *fakeUserService) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	return f.createFn(ctx, req)
}
func (f *fakeUserService) GetAll(ctx context.Context) ([]user.UserResponse, error) {
	return f.getAllFn(ctx)
}
func (f *fakeUserService) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeUserService) UpdateRole(ctx context.Context, id string, req user.UpdateUserRoleRequest) (user.UserResponse, error) {
	return f.updateRoleFn(ctx, id, req)
}

func TestUserHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeUserService{
			createFn: func(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
				return user.UserResponse{
					ID:       uuid.NewString(),
					Name:     req.Name,
					Email:    req.Email,
					Role:     req.Role,
					IsActive: true,
				}, nil
			},
		}

		h := user.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"name":"Dana Smith","email":"dana@example.com","role":"EMPLOYEE"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative invalid body", func(t *testing.T) {
		h := user.NewHandler(&fakeUserService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":""}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("negative duplicate email maps to conflict", func(t *testing.T) {
		svc := &fakeUserService{
			createFn: func(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
				return user.UserResponse{}, usererrors.ErrEmailAlreadyRegistered
			},
		}

		h := user.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"name":"Dana Smith","email":"dana@example.com","role":"EMPLOYEE"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})
}

func TestUserHandler_GetAll(t *testing.T) {
	t.Run("success paginates", func(t *testing.T) {
		svc := &fakeUserService{
			getAllFn: func(ctx context.Context) ([]user.UserResponse, error) {
				users := make([]user.UserResponse, 15)
				for i := range users {
					users[i] = user.UserResponse{ID: uuid.NewString(), Role: user.RoleEmployee}
				}
				return users, nil
			},
		}

		h := user.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/users?page=2&page_size=10", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got []user.UserResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 5)
	})
}
