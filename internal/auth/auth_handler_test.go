package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hafizthesakora/cert-tracking/internal/auth"
	autherrors "github.com/hafizthesakora/cert-tracking/internal/auth/errors"

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

type fakeAuthService struct {
	loginFn   func(ctx context.Context, email, password string) (auth.TokenResponse, error)
	refreshFn func(ctx context.Context, refreshToken string) (auth.TokenResponse, error)
	getMeFn   func(ctx context.Context, userID string) (*auth.AuthResponse, error)
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (auth.TokenResponse, error) {
	return f.loginFn(ctx, email, password)
}
func (f *fakeAuthService) RefreshToken(ctx context.Context, refreshToken string) (auth.TokenResponse, error) {
	return f.refreshFn(ctx, refreshToken)
}
func (f *fakeAuthService) GetMe(ctx context.Context, userID string) (*auth.AuthResponse, error) {
	return f.getMeFn(ctx, userID)
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, email, password string) (auth.TokenResponse, error) {
				assert.Equal(t, "dana@example.com", email)
				return auth.TokenResponse{
					AccessToken:  "access",
					RefreshToken: "refresh",
					User:         auth.AuthResponse{ID: uuid.NewString(), Email: email},
				}, nil
			},
		}

		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"email":"dana@example.com","password":"password123"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Login(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative bad credentials", func(t *testing.T) {
		svc := &fakeAuthService{
			loginFn: func(ctx context.Context, email, password string) (auth.TokenResponse, error) {
				return auth.TokenResponse{}, autherrors.ErrInvalidCredentials
			},
		}

		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"email":"dana@example.com","password":"wrong"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})

	t.Run("negative missing fields", func(t *testing.T) {
		h := auth.NewHandler(&fakeAuthService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Login(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("success reads actor from context", func(t *testing.T) {
		actorID := uuid.NewString()
		svc := &fakeAuthService{
			getMeFn: func(ctx context.Context, userID string) (*auth.AuthResponse, error) {
				assert.Equal(t, actorID, userID)
				return &auth.AuthResponse{ID: userID, Email: "dana@example.com"}, nil
			},
		}

		h := auth.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		c.Set("user_id", actorID)

		h.Me(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
