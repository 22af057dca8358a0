package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/avilchez/commerce-insights-api/infrastructure/repository"
	"github.com/avilchez/commerce-insights-api/infrastructure/repository/mocks"
	"github.com/avilchez/commerce-insights-api/internal/api/handler/router"
	"github.com/avilchez/commerce-insights-api/pkg/apiErrors"
)

func runsRouter(runs repository.AnalysisRunRepository) http.Handler {
	return router.New(router.WithRoutes(router.Route{
		Path:    "/v1/runs",
		Method:  http.MethodGet,
		Handler: GetRuns(runs),
	}))
}

func TestGetRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accuracy := 92.3
	runsRepo := mocks.NewMockAnalysisRunRepository(ctrl)
	runsRepo.EXPECT().
		ListRuns(gomock.Any(), uint64(20)).
		Return([]repository.RunSummary{
			{
				RunID:              "run123",
				StartedAt:          "2024-06-01T10:00:00Z",
				TotalCustomers:     500,
				TotalSales:         2000,
				TotalRevenue:       123456.78,
				RecurrenceAccuracy: &accuracy,
			},
		}, nil)

	rec := httptest.NewRecorder()
	runsRouter(runsRepo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []repository.RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "run123", summaries[0].RunID)
	assert.Equal(t, 2000, summaries[0].TotalSales)
	require.NotNil(t, summaries[0].RecurrenceAccuracy)
	assert.Equal(t, accuracy, *summaries[0].RecurrenceAccuracy)
}

func TestGetRuns_LimiteCustomizado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runsRepo := mocks.NewMockAnalysisRunRepository(ctrl)
	runsRepo.EXPECT().
		ListRuns(gomock.Any(), uint64(5)).
		Return([]repository.RunSummary{}, nil)

	rec := httptest.NewRecorder()
	runsRouter(runsRepo).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/runs?limit=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetRuns_Erros(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		runs           func(ctrl *gomock.Controller) repository.AnalysisRunRepository
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Warehouse desabilitado",
			path:           "/v1/runs",
			runs:           func(*gomock.Controller) repository.AnalysisRunRepository { return nil },
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   apiErrors.ErrDatabaseOperation,
		},
		{
			name: "Limite inválido",
			path: "/v1/runs?limit=abc",
			runs: func(ctrl *gomock.Controller) repository.AnalysisRunRepository {
				return mocks.NewMockAnalysisRunRepository(ctrl)
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apiErrors.ErrInvalidRequest,
		},
		{
			name: "Limite acima do teto",
			path: "/v1/runs?limit=500",
			runs: func(ctrl *gomock.Controller) repository.AnalysisRunRepository {
				return mocks.NewMockAnalysisRunRepository(ctrl)
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apiErrors.ErrInvalidRequest,
		},
		{
			name: "Falha na consulta",
			path: "/v1/runs",
			runs: func(ctrl *gomock.Controller) repository.AnalysisRunRepository {
				runsRepo := mocks.NewMockAnalysisRunRepository(ctrl)
				runsRepo.EXPECT().
					ListRuns(gomock.Any(), uint64(20)).
					Return(nil, assert.AnError)
				return runsRepo
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   apiErrors.ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			rec := httptest.NewRecorder()
			runsRouter(tt.runs(ctrl)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var apiErr apiErrors.APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
			assert.Equal(t, tt.expectedCode, apiErr.Code)
		})
	}
}
