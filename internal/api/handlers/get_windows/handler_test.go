package get_windows

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
	resource := domain.Resource{ID: uuid.New(), Name: "Maria", Kind: domain.ResourceKindStaff, Availability: weekly}

	log := logger.NewNop()
	svc := availability.NewService(catalogRepo.NewMemoryRepository([]domain.Resource{resource}, nil), log)

	router := mux.NewRouter()
	router.HandleFunc("/resources/{resourceId}/windows", NewHandler(svc, log).Handle).Methods(http.MethodGet)
	return router, resource.ID
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_WorkingDay(t *testing.T) {
	router, resourceID := newRouter(t)

	rec := get(router, "/resources/"+resourceID.String()+"/windows?date=2026-03-02")

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.WindowsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, resourceID.String(), body.ResourceID)
	assert.Equal(t, "2026-03-02", body.Date)
	require.Len(t, body.Windows, 1)
	assert.Equal(t, "2026-03-02T09:00", body.Windows[0].Start)
	assert.Equal(t, "2026-03-02T17:00", body.Windows[0].End)
}

func TestHandler_DayOff(t *testing.T) {
	router, resourceID := newRouter(t)

	rec := get(router, "/resources/"+resourceID.String()+"/windows?date=2026-03-03")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"resourceId":"`+resourceID.String()+`","date":"2026-03-03","windows":[]}`, rec.Body.String())
}

func TestHandler_Errors(t *testing.T) {
	router, resourceID := newRouter(t)
	base := "/resources/" + resourceID.String() + "/windows"

	tests := []struct {
		name   string
		target string
		code   int
	}{
		{name: "missing date", target: base, code: http.StatusBadRequest},
		{name: "malformed date", target: base + "?date=02.03.2026", code: http.StatusBadRequest},
		{name: "invalid resource id", target: "/resources/not-a-uuid/windows?date=2026-03-02", code: http.StatusBadRequest},
		{name: "unknown resource", target: "/resources/" + uuid.NewString() + "/windows?date=2026-03-02", code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, get(router, tt.target).Code)
		})
	}
}
