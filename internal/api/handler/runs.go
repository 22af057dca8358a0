package handler

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/avilchez/commerce-insights-api/infrastructure/repository"
	"github.com/avilchez/commerce-insights-api/pkg/apiErrors"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// GetRuns devolve o histórico de execuções persistido no warehouse, da mais
// recente para a mais antiga. O repositório é nil quando o banco está
// desabilitado por configuração.
func GetRuns(runs repository.AnalysisRunRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if runs == nil {
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation,
				"Persistência no PostgreSQL desabilitada", nil)
			return
		}

		limit := uint64(defaultRunsLimit)
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 64)
			if err != nil || parsed == 0 || parsed > maxRunsLimit {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest,
					"Parâmetro limit inválido", map[string]string{"limit": raw})
				return
			}
			limit = parsed
		}

		summaries, err := runs.ListRuns(r.Context(), limit)
		if err != nil {
			logrus.WithError(err).Error("Erro ao consultar o histórico de execuções")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation,
				"Erro ao consultar o histórico de execuções", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summaries); err != nil {
			logrus.WithError(err).Error("Erro ao enviar o histórico de execuções")
		}
	}
}
