package holding_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hafizthesakora/cert-tracking/internal/holding"
	holdingerrors "github.com/hafizthesakora/cert-tracking/internal/holding/errors"

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

type fakeHoldingService struct {
	assignFn          func(ctx context.Context, req holding.AssignCertificationRequest) (holding.HoldingResponse, error)
	listFn            func(ctx context.Context, actorID string) ([]holding.HoldingResponse, error)
	listMineFn        func(ctx context.Context, actorID string) ([]holding.HoldingResponse, error)
	getByIDFn         func(ctx context.Context, actorID, id string) (holding.HoldingResponse, error)
	statsFn           func(ctx context.Context) (holding.StatsResponse, error)
	requestRenewalFn  func(ctx context.Context, actorID, id string) (holding.HoldingResponse, error)
	initiateRenewalFn func(ctx context.Context, actorID, id string, req holding.InitiateRenewalRequest) (holding.HoldingResponse, error)
	confirmRenewalFn  func(ctx context.Context, actorID, id string, req holding.ConfirmRenewalRequest) (holding.HoldingResponse, error)
	postponeRenewalFn func(ctx context.Context, actorID, id string) (holding.HoldingResponse, error)
}

func (f *fakeHoldingService) Assign(ctx context.Context, req holding.AssignCertificationRequest) (holding.HoldingResponse, error) {
	return f.assignFn(ctx, req)
}
func (f *fakeHoldingService) List(ctx context.Context, actorID string) ([]holding.HoldingResponse, error) {
	return f.listFn(ctx, actorID)
}
func (f *fakeHoldingService) ListMine(ctx context.Context, actorID string) ([]holding.HoldingResponse, error) {
	return f.listMineFn(ctx, actorID)
}
func (f *fakeHoldingService) GetByID(ctx context.Context, actorID, id string) (holding.HoldingResponse, error) {
	return f.getByIDFn(ctx, actorID, id)
}
func (f *fakeHoldingService) Stats(ctx context.Context) (holding.StatsResponse, error) {
	return f.statsFn(ctx)
}
func (f *fakeHoldingService) RecomputeStatuses(ctx context.Context, today time.Time) error {
	return nil
}
func (f *fakeHoldingService) RequestRenewal(ctx context.Context, actorID, id string) (holding.HoldingResponse, error) {
	return f.requestRenewalFn(ctx, actorID, id)
}
func (f *fakeHoldingService) InitiateRenewal(ctx context.Context, actorID, id string, req holding.InitiateRenewalRequest) (holding.HoldingResponse, error) {
	return f.initiateRenewalFn(ctx, actorID, id, req)
}
func (f *fakeHoldingService) ConfirmRenewal(ctx context.Context, actorID, id string, req holding.ConfirmRenewalRequest) (holding.HoldingResponse, error) {
	return f.confirmRenewalFn(ctx, actorID, id, req)
}
func (f *fakeHoldingService) PostponeRenewal(ctx context.Context, actorID, id string) (holding.HoldingResponse, error) {
	return f.postponeRenewalFn(ctx, actorID, id)
}

func TestHoldingHandler_Assign(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		userID := uuid.New().String()
		certID := uuid.New().String()

		svc := &fakeHoldingService{
			assignFn: func(ctx context.Context, req holding.AssignCertificationRequest) (holding.HoldingResponse, error) {
				assert.Equal(t, userID, req.UserID)
				assert.Equal(t, certID, req.CertificationID)
				return holding.HoldingResponse{
					ID:              uuid.New().String(),
					UserID:          req.UserID,
					CertificationID: req.CertificationID,
					IssueDate:       req.IssueDate,
					ExpiryDate:      req.ExpiryDate,
					Status:          holding.StatusActive,
				}, nil
			},
		}

		h := holding.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"user_id":"` + userID + `","certification_id":"` + certID + `","issue_date":"2026-01-15","expiry_date":"2028-01-15"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/holdings", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Assign(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got holding.HoldingResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, holding.StatusActive, got.Status)
		assert.Equal(t, userID, got.UserID)
	})

	t.Run("negative validation error", func(t *testing.T) {
		h := holding.NewHandler(&fakeHoldingService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/holdings", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Assign(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})
}

func TestHoldingHandler_RequestRenewal(t *testing.T) {
	t.Run("success passes actor from auth context", func(t *testing.T) {
		actorID := uuid.New().String()
		holdingID := uuid.New().String()

		svc := &fakeHoldingService{
			requestRenewalFn: func(ctx context.Context, aid, id string) (holding.HoldingResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, holdingID, id)
				return holding.HoldingResponse{
					ID:     id,
					UserID: aid,
					Status: holding.StatusRenewalRequested,
				}, nil
			},
		}

		h := holding.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/holdings/"+holdingID+"/request-renewal", nil)
		c.Params = gin.Params{{Key: "id", Value: holdingID}}
		c.Set("user_id", actorID)

		h.RequestRenewal(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got holding.HoldingResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, holding.StatusRenewalRequested, got.Status)
	})

	t.Run("negative invalid transition maps to conflict", func(t *testing.T) {
		svc := &fakeHoldingService{
			requestRenewalFn: func(ctx context.Context, aid, id string) (holding.HoldingResponse, error) {
				return holding.HoldingResponse{}, holdingerrors.ErrInvalidTransition
			},
		}

		h := holding.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		holdingID := uuid.New().String()
		c.Request = httptest.NewRequest(http.MethodPost, "/holdings/"+holdingID+"/request-renewal", nil)
		c.Params = gin.Params{{Key: "id", Value: holdingID}}
		c.Set("user_id", uuid.New().String())

		h.RequestRenewal(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})

	t.Run("negative wrong actor maps to forbidden", func(t *testing.T) {
		svc := &fakeHoldingService{
			requestRenewalFn: func(ctx context.Context, aid, id string) (holding.HoldingResponse, error) {
				return holding.HoldingResponse{}, holdingerrors.ErrNotHolder
			},
		}

		h := holding.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		holdingID := uuid.New().String()
		c.Request = httptest.NewRequest(http.MethodPost, "/holdings/"+holdingID+"/request-renewal", nil)
		c.Params = gin.Params{{Key: "id", Value: holdingID}}
		c.Set("user_id", uuid.New().String())

		h.RequestRenewal(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})
}

func TestHoldingHandler_InitiateRenewal(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		actorID := uuid.New().String()
		holdingID := uuid.New().String()

		svc := &fakeHoldingService{
			initiateRenewalFn: func(ctx context.Context, aid, id string, req holding.InitiateRenewalRequest) (holding.HoldingResponse, error) {
				assert.Equal(t, "2026-10-01", req.RenewalDate)
				renewal := req.RenewalDate
				return holding.HoldingResponse{
					ID:          id,
					Status:      holding.StatusInitiated,
					RenewalDate: &renewal,
				}, nil
			},
		}

		h := holding.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/holdings/"+holdingID+"/initiate-renewal",
			strings.NewReader(`{"renewal_date":"2026-10-01"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: holdingID}}
		c.Set("user_id", actorID)

		h.InitiateRenewal(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative missing renewal date", func(t *testing.T) {
		h := holding.NewHandler(&fakeHoldingService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		holdingID := uuid.New().String()
		c.Request = httptest.NewRequest(http.MethodPost, "/holdings/"+holdingID+"/initiate-renewal",
			strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: holdingID}}

		h.InitiateRenewal(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHoldingHandler_GetAll(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		actorID := uuid.New().String()

		svc := &fakeHoldingService{
			listFn: func(ctx context.Context, aid string) ([]holding.HoldingResponse, error) {
				assert.Equal(t, actorID, aid)
				return []holding.HoldingResponse{
					{ID: uuid.New().String(), Status: holding.StatusExpiresSoon},
				}, nil
			},
		}

		h := holding.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/holdings", nil)
		c.Set("user_id", actorID)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got []holding.HoldingResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 1)
	})
}

func TestHoldingHandler_GetStats(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeHoldingService{
			statsFn: func(ctx context.Context) (holding.StatsResponse, error) {
				return holding.StatsResponse{
					Users:             12,
					Certifications:    4,
					ExpiringSoon:      3,
					Expired:           1,
					RenewalsRequested: 2,
					RenewalsInitiated: 1,
				}, nil
			},
		}

		h := holding.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/holdings/stats", nil)

		h.GetStats(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got holding.StatsResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, int64(3), got.ExpiringSoon)
	})
}
