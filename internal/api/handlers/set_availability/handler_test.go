package set_availability

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_availability"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

func newRouter(t *testing.T) (*mux.Router, uuid.UUID) {
	t.Helper()
	weekly, err := domain.NewWeeklyAvailability(map[time.Weekday]domain.DaySchedule{
		time.Monday: domain.OpenDay("09:00", "17:00"),
	})
	require.NoError(t, err)

	resourceID := uuid.New()
	catalog := catalogRepo.NewMemoryRepository([]domain.Resource{{ID: resourceID, Name: "Maria", Availability: weekly}}, nil)
	log := logger.NewNop()
	svc := availability.NewService(catalog, log)

	router := mux.NewRouter()
	router.HandleFunc("/resources/{resourceId}/availability", get_availability.NewHandler(svc, log).Handle).Methods(http.MethodGet)
	router.HandleFunc("/resources/{resourceId}/availability/{weekday}", NewHandler(svc, log).Handle).Methods(http.MethodPut)
	return router, resourceID
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestHandler_SetAndGet(t *testing.T) {
	router, resourceID := newRouter(t)
	base := "/resources/" + resourceID.String() + "/availability"

	rec := do(router, http.MethodPut, base+"/saturday", `{"isOpen":true,"open":"10:00","close":"14:00"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body models.WeeklyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Days, 7)
	saturday := body.Days[5]
	assert.Equal(t, "saturday", saturday.Weekday)
	assert.True(t, saturday.IsOpen)
	assert.Equal(t, "10:00", *saturday.Open)
	assert.Equal(t, "14:00", *saturday.Close)
}

func TestHandler_Errors(t *testing.T) {
	router, resourceID := newRouter(t)
	base := "/resources/" + resourceID.String() + "/availability"

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{name: "open after close", method: http.MethodPut, target: base + "/monday", body: `{"isOpen":true,"open":"18:00","close":"09:00"}`, status: http.StatusBadRequest},
		{name: "unknown weekday", method: http.MethodPut, target: base + "/someday", body: `{"isOpen":false}`, status: http.StatusBadRequest},
		{name: "bad body", method: http.MethodPut, target: base + "/monday", body: `{"isOpen":"yes"}`, status: http.StatusBadRequest},
		{name: "bad resource id", method: http.MethodPut, target: "/resources/1/availability/monday", body: `{"isOpen":false}`, status: http.StatusBadRequest},
		{name: "unknown resource", method: http.MethodPut, target: "/resources/" + uuid.NewString() + "/availability/monday", body: `{"isOpen":false}`, status: http.StatusNotFound},
		{name: "get unknown resource", method: http.MethodGet, target: "/resources/" + uuid.NewString() + "/availability", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(router, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	// Отклонённое окно не изменило понедельник
	rec := do(router, http.MethodGet, base, "")
	var body models.WeeklyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "09:00", *body.Days[0].Open)
}
