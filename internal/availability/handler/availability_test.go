package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"barberbook/internal/availability/service"
	"barberbook/pkg/client"
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/logger"
	"barberbook/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAvailabilityService struct {
	setWindowFunc func(ctx context.Context, window *model.WorkingWindow, a model.Actor) (*model.WorkingWindow, error)
	slotsFunc     func(ctx context.Context, q service.SlotQuery) (*model.AvailableSlots, error)
}

func (m *mockAvailabilityService) SetWindow(ctx context.Context, window *model.WorkingWindow, a model.Actor) (*model.WorkingWindow, error) {
	return m.setWindowFunc(ctx, window, a)
}

func (m *mockAvailabilityService) SetWindows(ctx context.Context, barberID string, windows []*model.WorkingWindow, a model.Actor) ([]*model.WorkingWindow, error) {
	return windows, nil
}

func (m *mockAvailabilityService) GetWindow(ctx context.Context, barberID, date string) (*model.WorkingWindow, error) {
	return nil, apperrors.NotFound("Working window")
}

func (m *mockAvailabilityService) ListWindows(ctx context.Context, barberID, from, to string) ([]*model.WorkingWindow, error) {
	return []*model.WorkingWindow{}, nil
}

func (m *mockAvailabilityService) AvailableSlots(ctx context.Context, q service.SlotQuery) (*model.AvailableSlots, error) {
	return m.slotsFunc(ctx, q)
}

func serve(svc *mockAvailabilityService, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewAvailabilityHandler(svc, logger.Discard()).RegisterRoutes(router)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var providerHeaders = map[string]string{
	client.HeaderUserID:   "b1",
	client.HeaderUserRole: "provider",
}

func TestSlots_QueryParameters(t *testing.T) {
	svc := &mockAvailabilityService{
		slotsFunc: func(ctx context.Context, q service.SlotQuery) (*model.AvailableSlots, error) {
			assert.Equal(t, service.SlotQuery{BarberID: "b1", Date: "2026-03-02", DurationMinutes: 45}, q)
			return &model.AvailableSlots{BarberID: q.BarberID, Date: q.Date, DurationMinutes: 45, Slots: []string{"09:00"}}, nil
		},
	}

	rec := serve(svc, http.MethodGet, "/api/v1/barbers/b1/slots?date=2026-03-02&duration=45", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data model.AvailableSlots `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"09:00"}, body.Data.Slots)
}

func TestSlots_EmptyListIsSerialized(t *testing.T) {
	svc := &mockAvailabilityService{
		slotsFunc: func(ctx context.Context, q service.SlotQuery) (*model.AvailableSlots, error) {
			return &model.AvailableSlots{BarberID: q.BarberID, Date: q.Date, Slots: []string{}}, nil
		},
	}

	rec := serve(svc, http.MethodGet, "/api/v1/barbers/b1/slots?date=2026-03-02&service_id=s1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slots":[]`)
}

func TestSlots_MissingDate(t *testing.T) {
	rec := serve(&mockAvailabilityService{}, http.MethodGet, "/api/v1/barbers/b1/slots?duration=30", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSlots_BadDuration(t *testing.T) {
	rec := serve(&mockAvailabilityService{}, http.MethodGet, "/api/v1/barbers/b1/slots?date=2026-03-02&duration=half", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetWindow_TakesKeyFromPath(t *testing.T) {
	svc := &mockAvailabilityService{
		setWindowFunc: func(ctx context.Context, window *model.WorkingWindow, a model.Actor) (*model.WorkingWindow, error) {
			assert.Equal(t, "b1", window.BarberID)
			assert.Equal(t, "2026-03-02", window.Date)
			assert.Equal(t, "09:00", window.StartTime)
			assert.Equal(t, model.RoleProvider, a.Role)
			return window, nil
		},
	}

	rec := serve(svc, http.MethodPut, "/api/v1/barbers/b1/windows/2026-03-02",
		`{"barber_id":"other","date":"2030-01-01","start_time":"09:00","end_time":"17:00","is_available":true}`,
		providerHeaders)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetWindow_InvalidWindowIs422(t *testing.T) {
	svc := &mockAvailabilityService{
		setWindowFunc: func(context.Context, *model.WorkingWindow, model.Actor) (*model.WorkingWindow, error) {
			return nil, apperrors.InvalidWindow("start 17:00 must be before end 09:00", nil)
		},
	}

	rec := serve(svc, http.MethodPut, "/api/v1/barbers/b1/windows/2026-03-02",
		`{"start_time":"17:00","end_time":"09:00","is_available":true}`, providerHeaders)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSetWindows_RequiresArray(t *testing.T) {
	rec := serve(&mockAvailabilityService{}, http.MethodPut, "/api/v1/barbers/b1/windows", `{"date":"2026-03-02"}`, providerHeaders)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetWindow_NotFound(t *testing.T) {
	rec := serve(&mockAvailabilityService{}, http.MethodGet, "/api/v1/barbers/b1/windows/2026-03-02", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
