// Package processing orquestra o pipeline completo: normalização, join,
// agregações, modelos e escrita dos artefatos. Cada execução recalcula todas
// as tabelas derivadas do zero.
package processing

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/avilchez/commerce-insights-api/infrastructure/artifact"
	"github.com/avilchez/commerce-insights-api/infrastructure/repository"
	"github.com/avilchez/commerce-insights-api/internal/config"
	"github.com/avilchez/commerce-insights-api/internal/domain"
	"github.com/avilchez/commerce-insights-api/internal/usecases/aggregating"
	"github.com/avilchez/commerce-insights-api/internal/usecases/classifying"
	"github.com/avilchez/commerce-insights-api/internal/usecases/enriching"
	"github.com/avilchez/commerce-insights-api/internal/usecases/forecasting"
	"github.com/avilchez/commerce-insights-api/internal/usecases/generating"
	"github.com/avilchez/commerce-insights-api/internal/usecases/ingesting"
	"github.com/avilchez/commerce-insights-api/internal/usecases/recommending"
	"github.com/avilchez/commerce-insights-api/pkg/utils"
)

// Nomes dos estágios de modelo isolados: uma falha por dados insuficientes
// entra em StageErrors sem derrubar os agregados.
const (
	stageRecurrence = "recurrencia"
	stageRisk       = "riesgo"
	stageForecast   = "prediccion"
	stageWarehouse  = "warehouse"
)

// Status é o estado observável do orquestrador.
type Status struct {
	Running        bool      `json:"running"`
	LastRunID      string    `json:"last_run_id,omitempty"`
	LastStartedAt  time.Time `json:"last_started_at,omitempty"`
	LastFinishedAt time.Time `json:"last_finished_at,omitempty"`
	LastError      string    `json:"last_error,omitempty"`
}

type Processor interface {
	// Process executa o pipeline sobre as tabelas brutas. Retorna
	// domain.ErrRunInProgress quando outra execução está em andamento.
	Process(ctx context.Context, clientes, ventas *domain.Table) (*domain.AnalysisResult, error)
	// ProcessSample gera a base sintética e executa o pipeline sobre ela.
	ProcessSample(ctx context.Context, numCustomers, numSales int) (*domain.AnalysisResult, error)
	Status() Status
	// LastResult retorna o resultado da última execução bem sucedida (nil
	// quando o pipeline ainda não rodou neste processo).
	LastResult() *domain.AnalysisResult
}

type Service struct {
	cfg         *config.Config
	ingester    ingesting.Ingester
	enricher    enriching.Enricher
	aggregator  aggregating.Aggregator
	classifier  classifying.Classifier
	recommender recommending.Recommender
	forecaster  forecasting.Forecaster
	generator   generating.Generator
	store       artifact.Store
	// runs é opcional: nil desliga a persistência no warehouse.
	runs repository.AnalysisRunRepository

	runLock    sync.Mutex
	statusMu   sync.Mutex
	status     Status
	lastResult *domain.AnalysisResult
}

func NewService(
	cfg *config.Config,
	store artifact.Store,
	runs repository.AnalysisRunRepository,
) *Service {
	return &Service{
		cfg:         cfg,
		ingester:    ingesting.NewService(),
		enricher:    enriching.NewService(),
		aggregator:  aggregating.NewService(),
		classifier:  classifying.NewService(cfg.Models),
		recommender: recommending.NewService(),
		forecaster:  forecasting.NewService(cfg.Models),
		generator:   generating.NewService(),
		store:       store,
		runs:        runs,
	}
}

func (s *Service) Process(ctx context.Context, clientes, ventas *domain.Table) (*domain.AnalysisResult, error) {
	if !s.runLock.TryLock() {
		return nil, domain.ErrRunInProgress
	}
	defer s.runLock.Unlock()

	runID := utils.GenerateRunID()
	startedAt := time.Now().UTC()
	s.setRunning(runID, startedAt)

	result, err := s.run(ctx, runID, startedAt, clientes, ventas)
	s.setFinished(result, err)
	return result, err
}

func (s *Service) ProcessSample(ctx context.Context, numCustomers, numSales int) (*domain.AnalysisResult, error) {
	rng := rand.New(rand.NewSource(s.cfg.Pipeline.Seed))
	customers, sales := s.generator.Generate(numCustomers, numSales, rng)

	return s.Process(ctx, artifact.CustomersTable(customers), artifact.SalesTable(sales))
}

func (s *Service) Status() Status {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.status
}

func (s *Service) run(ctx context.Context, runID string, startedAt time.Time, clientes, ventas *domain.Table) (*domain.AnalysisResult, error) {
	logger := logrus.WithField("run_id", runID)
	rng := rand.New(rand.NewSource(s.cfg.Pipeline.Seed))

	batch, err := s.ingester.Normalize(clientes, ventas)
	if err != nil {
		return nil, err
	}

	// Sem nenhuma venda válida os agregados seriam todos vazios
	if len(batch.Sales) == 0 {
		return nil, &domain.InsufficientDataError{
			Stage:  "ingesta",
			Reason: "ninguna venta válida después de la limpieza",
		}
	}

	// Encoding persistido de execuções anteriores é reutilizado quando existe
	var encoding *domain.ProductEncoding
	if table, err := s.store.ReadTable(artifact.ProductEncoding); err == nil {
		encoding = artifact.EncodingFromTable(table)
	}

	enriched := s.enricher.Enrich(batch.Customers, batch.Sales, encoding)

	result := &domain.AnalysisResult{
		RunID:         runID,
		StartedAt:     startedAt,
		EnrichedSales: enriched.Sales,
		StageErrors:   make(map[string]string),
		DroppedSales:  batch.DroppedSales,
	}

	reference := s.referenceInstant()
	result.Profitability = s.aggregator.Profitability(enriched.Sales)
	result.Profiles = s.aggregator.Profiles(enriched.Sales, reference)
	result.Trend = s.aggregator.MonthlyTrend(enriched.Sales)
	result.Outliers = s.aggregator.Outliers(enriched.Sales)
	result.Recommendations = s.recommender.Recommend(enriched.Sales)

	if recurrence, err := s.classifier.TrainRecurrence(result.Profiles, rng); err != nil {
		result.StageErrors[stageRecurrence] = err.Error()
		logger.WithError(err).Warn("Estágio de recorrência pulado")
	} else {
		result.Recurrence = recurrence
	}

	if risk, err := s.classifier.TrainRisk(result.Profiles, rng); err != nil {
		result.StageErrors[stageRisk] = err.Error()
		logger.WithError(err).Warn("Estágio de risco pulado")
	} else {
		result.Risk = risk
	}

	series := s.aggregator.DailySeries(enriched.Sales)
	if forecast, err := s.forecaster.Forecast(series, rng); err != nil {
		result.StageErrors[stageForecast] = err.Error()
		logger.WithError(err).Warn("Estágio de previsão pulado")
	} else {
		result.Forecast = forecast
	}

	result.TotalCustomers = len(batch.Customers)
	result.TotalSales = len(enriched.Sales)
	total := 0.0
	for _, sale := range enriched.Sales {
		total += sale.Price
	}
	result.TotalRevenue = utils.RoundWithTwoDecimalPlace(total)
	result.FinishedAt = time.Now().UTC()

	if err := s.writeArtifacts(batch, enriched, result); err != nil {
		return nil, err
	}

	if s.runs != nil {
		if err := s.runs.SaveRun(ctx, result); err != nil {
			result.StageErrors[stageWarehouse] = err.Error()
			logger.WithError(err).Warn("Falha ao persistir a execução no warehouse")
		}
	}

	logger.WithFields(logrus.Fields{
		"clientes":       result.TotalCustomers,
		"ventas":         result.TotalSales,
		"ingresos":       result.TotalRevenue,
		"etapas_caidas":  len(result.StageErrors),
		"duracion_ms":    result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
	}).Info("Pipeline concluído")

	return result, nil
}

// writeArtifacts grava todas as tabelas derivadas da execução. Os artefatos
// dos estágios caídos não são escritos.
func (s *Service) writeArtifacts(batch *ingesting.NormalizedBatch, enriched *enriching.EnrichedBatch, result *domain.AnalysisResult) error {
	type write struct {
		name  string
		table *domain.Table
	}

	writes := []write{
		{artifact.RawCustomers, artifact.CustomersTable(batch.Customers)},
		{artifact.RawSales, artifact.SalesTable(batch.Sales)},
		{artifact.EnrichedSales, artifact.EnrichedSalesTable(enriched.Sales)},
		{artifact.ProductEncoding, artifact.EncodingTable(enriched.Encoding)},
		{artifact.OutlierSales, artifact.OutliersTable(result.Outliers)},
		{artifact.Profitability, artifact.ProfitabilityTable(result.Profitability)},
		{artifact.Recommendations, artifact.RecommendationsTable(result.Recommendations)},
		{artifact.MonthlyTrend, artifact.TrendTable(result.Trend)},
	}
	if result.Recurrence != nil {
		writes = append(writes, write{artifact.RecurrentBuyers, artifact.ScoresTable(result.Recurrence.TestScores)})
	}
	if result.Risk != nil {
		writes = append(writes, write{artifact.ChurnRisk, artifact.ScoresTable(result.Risk.TestScores)})
	}
	if result.Forecast != nil {
		writes = append(writes, write{artifact.Forecast, artifact.ForecastTable(result.Forecast)})
	}

	for _, w := range writes {
		if err := s.store.WriteTable(w.name, w.table); err != nil {
			return err
		}
	}
	return nil
}

// referenceInstant resolve o "agora" usado em dias_desde_ultima: a data de
// referência configurada ou o relógio.
func (s *Service) referenceInstant() time.Time {
	if s.cfg.Pipeline.ReferenceDate != "" {
		if reference, err := utils.ParseDate(s.cfg.Pipeline.ReferenceDate); err == nil {
			return reference
		}
		logrus.WithField("reference_date", s.cfg.Pipeline.ReferenceDate).
			Warn("Data de referência inválida, usando o relógio")
	}
	return time.Now().UTC()
}

func (s *Service) setRunning(runID string, startedAt time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.Running = true
	s.status.LastRunID = runID
	s.status.LastStartedAt = startedAt
	s.status.LastError = ""
}

func (s *Service) setFinished(result *domain.AnalysisResult, err error) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.Running = false
	s.status.LastFinishedAt = time.Now().UTC()
	if err != nil {
		s.status.LastError = err.Error()
		return
	}
	s.lastResult = result
}

func (s *Service) LastResult() *domain.AnalysisResult {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.lastResult
}
