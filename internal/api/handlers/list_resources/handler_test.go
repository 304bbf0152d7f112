package list_resources

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type failingService struct{}

func (failingService) ListResources(context.Context) ([]models.ResourceResponse, error) {
	return nil, errors.New("connection refused")
}

func TestHandler_ListResources(t *testing.T) {
	catalog := catalogRepo.NewMemoryRepository([]domain.Resource{
		{ID: uuid.New(), Name: "Vera", Kind: domain.ResourceKindSalon, BufferMinutes: 20},
		{ID: uuid.New(), Name: "Igor", Kind: domain.ResourceKindStaff},
	}, nil)
	log := logger.NewNop()
	handler := NewHandler(availability.NewService(catalog, log), log)

	rec := httptest.NewRecorder()
	handler.Handle(rec, httptest.NewRequest(http.MethodGet, "/resources", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body []models.ResourceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "Igor", body[0].Name)
	assert.Equal(t, "Vera", body[1].Name)
	assert.Equal(t, "salon", body[1].Kind)
	assert.Equal(t, 20, body[1].BufferMinutes)
}

func TestHandler_ListResourcesEmpty(t *testing.T) {
	log := logger.NewNop()
	handler := NewHandler(availability.NewService(catalogRepo.NewMemoryRepository(nil, nil), log), log)

	rec := httptest.NewRecorder()
	handler.Handle(rec, httptest.NewRequest(http.MethodGet, "/resources", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_ListResourcesFailure(t *testing.T) {
	handler := NewHandler(failingService{}, logger.NewNop())

	rec := httptest.NewRecorder()
	handler.Handle(rec, httptest.NewRequest(http.MethodGet, "/resources", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
