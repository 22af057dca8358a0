package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/avilchez/commerce-insights-api/infrastructure/artifact"
	"github.com/avilchez/commerce-insights-api/internal/domain"
	"github.com/avilchez/commerce-insights-api/internal/usecases/processing"
	"github.com/avilchez/commerce-insights-api/pkg/apiErrors"
)

// ResultSummary são as métricas escalares da última execução.
type ResultSummary struct {
	RunID              string   `json:"run_id"`
	TotalCustomers     int      `json:"total_clientes"`
	TotalSales         int      `json:"total_ventas"`
	TotalRevenue       float64  `json:"total_ingresos"`
	DroppedSales       int      `json:"ventas_descartadas"`
	RecurrenceAccuracy *float64 `json:"accuracy_recurrencia,omitempty"`
	RiskAccuracy       *float64 `json:"accuracy_riesgo,omitempty"`
	ForecastRevenue    *float64 `json:"ingreso_estimado,omitempty"`

	StageErrors map[string]string `json:"stage_errors,omitempty"`
}

// GetArtifact devolve um artefato CSV como linhas JSON.
func GetArtifact(store artifact.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := httprouter.ParamsFromContext(r.Context())
		name := params.ByName("name")

		if !artifact.Known(name) {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest,
				"Artefato desconhecido", map[string]string{"name": name})
			return
		}

		table, err := store.ReadTable(name)
		if err != nil {
			var missingErr *domain.ArtifactMissingError
			if errors.As(err, &missingErr) {
				apiErrors.WriteError(w, apiErrors.ErrArtifactMissing,
					"Execute o pipeline antes de consultar os resultados", map[string]string{"name": name})
				return
			}
			logrus.WithError(err).Error("Erro ao ler artefato")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao ler artefato", nil)
			return
		}

		rows := make([]map[string]string, 0, len(table.Rows))
		for _, row := range table.Rows {
			item := make(map[string]string, len(table.Headers))
			for i, header := range table.Headers {
				item[header] = table.Value(row, i)
			}
			rows = append(rows, item)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rows); err != nil {
			logrus.WithError(err).Error("Erro ao enviar artefato")
		}
	}
}

// GetSummary devolve as métricas escalares da última execução do processo.
func GetSummary(processor processing.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := processor.LastResult()
		if result == nil {
			apiErrors.WriteError(w, apiErrors.ErrArtifactMissing,
				"Execute o pipeline antes de consultar os resultados", nil)
			return
		}

		summary := ResultSummary{
			RunID:          result.RunID,
			TotalCustomers: result.TotalCustomers,
			TotalSales:     result.TotalSales,
			TotalRevenue:   result.TotalRevenue,
			DroppedSales:   result.DroppedSales,
			StageErrors:    result.StageErrors,
		}
		if result.Recurrence != nil {
			summary.RecurrenceAccuracy = &result.Recurrence.Accuracy
		}
		if result.Risk != nil {
			summary.RiskAccuracy = &result.Risk.Accuracy
		}
		if result.Forecast != nil {
			summary.ForecastRevenue = &result.Forecast.Revenue
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			logrus.WithError(err).Error("Erro ao enviar resumo")
		}
	}
}
