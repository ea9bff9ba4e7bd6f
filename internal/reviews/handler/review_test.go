package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"barberbook/pkg/client"
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/logger"
	"barberbook/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReviewService struct {
	createFunc       func(ctx context.Context, req *model.ReviewRequest, a model.Actor) (*model.Review, error)
	listByBarberFunc func(ctx context.Context, barberID string, limit int, offset int64) ([]*model.Review, int64, error)
	deleteFunc       func(ctx context.Context, id string, a model.Actor) error
}

func (m *mockReviewService) Create(ctx context.Context, req *model.ReviewRequest, a model.Actor) (*model.Review, error) {
	return m.createFunc(ctx, req, a)
}

func (m *mockReviewService) GetByID(ctx context.Context, id string) (*model.Review, error) {
	return &model.Review{ID: id}, nil
}

func (m *mockReviewService) GetByAppointment(ctx context.Context, appointmentID string) (*model.Review, error) {
	return nil, apperrors.NotFound("Review not found for appointment")
}

func (m *mockReviewService) ListByBarber(ctx context.Context, barberID string, limit int, offset int64) ([]*model.Review, int64, error) {
	return m.listByBarberFunc(ctx, barberID, limit, offset)
}

func (m *mockReviewService) Update(ctx context.Context, id string, u *model.ReviewUpdate, a model.Actor) (*model.Review, error) {
	return &model.Review{ID: id, Rating: *u.Rating}, nil
}

func (m *mockReviewService) Delete(ctx context.Context, id string, a model.Actor) error {
	return m.deleteFunc(ctx, id, a)
}

func newRouter(svc *mockReviewService) *httprouter.Router {
	router := httprouter.New()
	NewReviewHandler(svc, logger.Discard()).RegisterRoutes(router)
	return router
}

func do(router http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var customerHeaders = map[string]string{
	client.HeaderUserID:   "cust-1",
	client.HeaderUserRole: "customer",
}

func TestCreateReview(t *testing.T) {
	var gotActor model.Actor
	svc := &mockReviewService{
		createFunc: func(_ context.Context, req *model.ReviewRequest, a model.Actor) (*model.Review, error) {
			gotActor = a
			return &model.Review{ID: "r1", AppointmentID: req.AppointmentID, Rating: req.Rating}, nil
		},
	}

	rec := do(newRouter(svc), http.MethodPost, "/api/v1/reviews", `{"appointment_id":"64a000000000000000000001","rating":5}`, customerHeaders)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, model.Actor{UserID: "cust-1", Role: model.RoleCustomer}, gotActor)
	var body struct {
		Data model.Review `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 5, body.Data.Rating)
}

func TestCreateReviewErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		headers  map[string]string
		svcErr   error
		wantCode int
		wantErr  string
	}{
		{
			name:     "missing actor",
			body:     `{}`,
			wantCode: http.StatusUnauthorized,
			wantErr:  apperrors.CodeUnauthorized,
		},
		{
			name:     "malformed body",
			body:     `{`,
			headers:  customerHeaders,
			wantCode: http.StatusBadRequest,
			wantErr:  apperrors.CodeInvalidInput,
		},
		{
			name:     "appointment not completed",
			body:     `{"appointment_id":"64a000000000000000000001","rating":4}`,
			headers:  customerHeaders,
			svcErr:   apperrors.NotEligible("Only completed appointments can be reviewed"),
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  apperrors.CodeNotEligible,
		},
		{
			name:     "already reviewed",
			body:     `{"appointment_id":"64a000000000000000000001","rating":4}`,
			headers:  customerHeaders,
			svcErr:   apperrors.Conflict("Appointment already reviewed"),
			wantCode: http.StatusConflict,
			wantErr:  apperrors.CodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockReviewService{
				createFunc: func(context.Context, *model.ReviewRequest, model.Actor) (*model.Review, error) {
					return nil, tt.svcErr
				},
			}

			rec := do(newRouter(svc), http.MethodPost, "/api/v1/reviews", tt.body, tt.headers)

			assert.Equal(t, tt.wantCode, rec.Code)
			var body apperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantErr, body.Code)
		})
	}
}

func TestListBarberReviewsPaginates(t *testing.T) {
	var gotBarber string
	var gotLimit int
	var gotOffset int64
	svc := &mockReviewService{
		listByBarberFunc: func(_ context.Context, barberID string, limit int, offset int64) ([]*model.Review, int64, error) {
			gotBarber, gotLimit, gotOffset = barberID, limit, offset
			return []*model.Review{{ID: "r2"}, {ID: "r1"}}, 7, nil
		},
	}

	rec := do(newRouter(svc), http.MethodGet, "/api/v1/barbers/id/b1/reviews?limit=2&offset=4", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "b1", gotBarber)
	assert.Equal(t, 2, gotLimit)
	assert.Equal(t, int64(4), gotOffset)
	var body struct {
		Data       []model.Review `json:"data"`
		TotalCount int64          `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
	assert.Equal(t, int64(7), body.TotalCount)
}

func TestGetReviewByAppointmentNotFound(t *testing.T) {
	rec := do(newRouter(&mockReviewService{}), http.MethodGet, "/api/v1/appointments/id/a1/review", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteReviewForbidden(t *testing.T) {
	svc := &mockReviewService{
		deleteFunc: func(context.Context, string, model.Actor) error {
			return apperrors.Forbidden("Only the author can delete a review")
		},
	}

	rec := do(newRouter(svc), http.MethodDelete, "/api/v1/reviews/id/r1", "", customerHeaders)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	svc.deleteFunc = func(context.Context, string, model.Actor) error { return nil }
	rec = do(newRouter(svc), http.MethodDelete, "/api/v1/reviews/id/r1", "", customerHeaders)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
