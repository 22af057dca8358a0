package domain

import "time"

// AnalysisResult é o pacote completo de resultados de uma execução do pipeline.
// Todas as tabelas derivadas são recalculadas do zero a cada execução.
type AnalysisResult struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	EnrichedSales []EnrichedSale         `json:"-"`
	Profitability []ProductProfitability `json:"rentabilidad"`
	Profiles      []CustomerProfile      `json:"perfil_clientes"`
	Outliers      []OutlierSale          `json:"ventas_atipicas"`
	Trend         []MonthlyTrend         `json:"tendencia_mensual"`

	Recurrence      *ClassificationResult `json:"recurrentes,omitempty"`
	Risk            *ClassificationResult `json:"en_riesgo,omitempty"`
	Recommendations []Recommendation      `json:"recomendaciones"`
	Forecast        *ForecastResult       `json:"prediccion,omitempty"`

	// StageErrors acumula falhas isoladas de estágios de modelo (dados
	// insuficientes, por exemplo) sem abortar os agregados.
	StageErrors map[string]string `json:"stage_errors,omitempty"`

	TotalCustomers int     `json:"total_clientes"`
	TotalSales     int     `json:"total_ventas"`
	TotalRevenue   float64 `json:"total_ingresos"`
	// DroppedSales conta as linhas de venda descartadas por data inválida.
	DroppedSales int `json:"ventas_descartadas"`
}
