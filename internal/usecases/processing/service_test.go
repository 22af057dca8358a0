package processing

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/avilchez/commerce-insights-api/infrastructure/artifact"
	"github.com/avilchez/commerce-insights-api/infrastructure/repository/mocks"
	"github.com/avilchez/commerce-insights-api/internal/config"
	"github.com/avilchez/commerce-insights-api/internal/domain"
)

func testConfig(dataDir string) *config.Config {
	return &config.Config{
		Pipeline: config.Pipeline{
			DataDir: dataDir,
			Seed:    42,
			// Data fixa logo após o fim da base sintética, para que os rótulos
			// de risco e recorrência tenham as duas classes
			ReferenceDate: "2024-06-01",
		},
		Models: config.Models{
			RiskPreset:       config.RiskPresetInteractive,
			TestFraction:     0.2,
			ClassifierEpochs: 300,
			ClassifierLR:     0.1,
			ForecastWindow:   7,
			ForecastEpochs:   30,
			ForecastHidden:   16,
			ForecastLR:       0.01,
		},
	}
}

func TestService_ProcessSample_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("execução completa do pipeline")
	}

	dir := t.TempDir()
	store := artifact.NewFileStore(dir)
	service := NewService(testConfig(dir), store, nil)

	result, err := service.ProcessSample(context.Background(), 500, 2000)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 500, result.TotalCustomers)
	assert.Equal(t, 2000, result.TotalSales)
	assert.Greater(t, result.TotalRevenue, 0.0)
	assert.Equal(t, 0, result.DroppedSales)

	// Agregados sempre presentes
	assert.Len(t, result.Profitability, 5)
	assert.NotEmpty(t, result.Profiles)
	assert.NotEmpty(t, result.Trend)
	assert.Len(t, result.Recommendations, 3)

	// Participação soma ~100%
	share := 0.0
	for _, p := range result.Profitability {
		share += p.RevenueShare
	}
	assert.InDelta(t, 100.0, share, 0.1)

	// 2000 vendas de 6 em 6 horas cobrem ~500 dias: os modelos treinam
	require.NotNil(t, result.Recurrence)
	require.NotNil(t, result.Forecast)
	assert.Empty(t, result.StageErrors["prediccion"])

	// Todos os artefatos de agregação existem no disco
	for _, name := range []string{
		artifact.RawCustomers, artifact.RawSales, artifact.EnrichedSales,
		artifact.ProductEncoding, artifact.Profitability,
		artifact.Recommendations, artifact.MonthlyTrend, artifact.Forecast,
	} {
		table, err := store.ReadTable(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, table.Headers, name)
	}
}

func TestService_ProcessSample_Deterministico(t *testing.T) {
	if testing.Short() {
		t.Skip("execução completa do pipeline")
	}

	dirA := t.TempDir()
	first, err := NewService(testConfig(dirA), artifact.NewFileStore(dirA), nil).
		ProcessSample(context.Background(), 200, 800)
	require.NoError(t, err)

	dirB := t.TempDir()
	second, err := NewService(testConfig(dirB), artifact.NewFileStore(dirB), nil).
		ProcessSample(context.Background(), 200, 800)
	require.NoError(t, err)

	// Mesma semente, mesmos números (os IDs de execução diferem)
	assert.Equal(t, first.TotalRevenue, second.TotalRevenue)
	assert.Equal(t, first.Profitability, second.Profitability)
	assert.Equal(t, first.Profiles, second.Profiles)
	if first.Recurrence != nil && second.Recurrence != nil {
		assert.Equal(t, first.Recurrence.Accuracy, second.Recurrence.Accuracy)
	}
	if first.Forecast != nil && second.Forecast != nil {
		assert.Equal(t, first.Forecast, second.Forecast)
	}
}

func TestService_Process_IsolamentoDeEstagios(t *testing.T) {
	dir := t.TempDir()
	service := NewService(testConfig(dir), artifact.NewFileStore(dir), nil)

	// Três vendas em dois dias: agregados funcionam, modelos não têm dados
	clientes := &domain.Table{
		Headers: []string{"cliente_id", "tipo_cliente"},
		Rows:    [][]string{{"1", "empresa"}, {"2", "particular"}},
	}
	ventas := &domain.Table{
		Headers: []string{"cliente_id", "producto", "precio", "fecha_venta"},
		Rows: [][]string{
			{"1", "PC Gamer", "1500", "2023-01-01 10:00:00"},
			{"1", "Teclado", "50", "2023-01-02 10:00:00"},
			{"2", "Monitor", "300", "2023-01-02 12:00:00"},
		},
	}

	result, err := service.Process(context.Background(), clientes, ventas)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Profitability)
	assert.Len(t, result.Profiles, 2)
	assert.NotEmpty(t, result.Recommendations)

	assert.Nil(t, result.Recurrence)
	assert.Nil(t, result.Risk)
	assert.Nil(t, result.Forecast)
	assert.Contains(t, result.StageErrors, "recurrencia")
	assert.Contains(t, result.StageErrors, "riesgo")
	assert.Contains(t, result.StageErrors, "prediccion")
}

func TestService_ProcessSample_InvariantesDosAgregados(t *testing.T) {
	if testing.Short() {
		t.Skip("execução completa do pipeline")
	}

	dir := t.TempDir()
	store := artifact.NewFileStore(dir)
	service := NewService(testConfig(dir), store, nil)

	result, err := service.ProcessSample(context.Background(), 500, 2000)
	require.NoError(t, err)

	// A receita total é a soma exata dos preços das vendas retidas
	salesTotal := 0.0
	for _, sale := range result.EnrichedSales {
		salesTotal += sale.Price
	}
	assert.InDelta(t, salesTotal, result.TotalRevenue, 0.01)

	// A rentabilidade por produto particiona a mesma receita
	byProduct := 0.0
	for _, p := range result.Profitability {
		byProduct += p.TotalRevenue
	}
	assert.InDelta(t, result.TotalRevenue, byProduct, 0.05)

	// Heurística de recorrência fica em [0,1] e o cliente mais frequente
	// atinge exatamente 1.0
	maxProb := 0.0
	for _, profile := range result.Profiles {
		assert.GreaterOrEqual(t, profile.RecurrenceProb, 0.0)
		assert.LessOrEqual(t, profile.RecurrenceProb, 1.0)
		if profile.RecurrenceProb > maxProb {
			maxProb = profile.RecurrenceProb
		}
	}
	assert.Equal(t, 1.0, maxProb)

	// O artefato de previsão tem exatamente uma linha e a receita prevista
	// fica na ordem de grandeza dos dias históricos
	forecast, err := store.ReadTable(artifact.Forecast)
	require.NoError(t, err)
	require.Len(t, forecast.Rows, 1)

	maxDaily := 0.0
	for _, point := range result.Trend {
		daily := point.Revenue / float64(point.NumSales) * 4 // 4 vendas por dia
		if daily > maxDaily {
			maxDaily = daily
		}
	}
	require.NotNil(t, result.Forecast)
	assert.Less(t, result.Forecast.Revenue, 3*maxDaily)
	assert.Greater(t, result.Forecast.Revenue, -maxDaily)
}

func TestService_Process_NenhumaVendaValida(t *testing.T) {
	dir := t.TempDir()
	store := artifact.NewFileStore(dir)
	service := NewService(testConfig(dir), store, nil)

	clientes := &domain.Table{
		Headers: []string{"cliente_id", "tipo_cliente"},
		Rows:    [][]string{{"1", "empresa"}},
	}
	// Todas as linhas caem na limpeza: data e preço inválidos
	ventas := &domain.Table{
		Headers: []string{"cliente_id", "producto", "precio", "fecha_venta"},
		Rows: [][]string{
			{"1", "PC Gamer", "1500", "fecha-rota"},
			{"1", "Monitor", "no-precio", "2023-01-02 10:00:00"},
		},
	}

	result, err := service.Process(context.Background(), clientes, ventas)
	assert.Nil(t, result)

	var insufficientErr *domain.InsufficientDataError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, "ingesta", insufficientErr.Stage)

	// Nada é escrito quando o lote inteiro é descartado
	_, err = store.ReadTable(artifact.RawSales)
	var missingErr *domain.ArtifactMissingError
	assert.ErrorAs(t, err, &missingErr)
}

func TestService_Process_ValidacaoRejeitaLote(t *testing.T) {
	dir := t.TempDir()
	store := artifact.NewFileStore(dir)
	service := NewService(testConfig(dir), store, nil)

	clientes := &domain.Table{Headers: []string{"nombre"}}
	ventas := &domain.Table{Headers: []string{"producto"}}

	result, err := service.Process(context.Background(), clientes, ventas)
	assert.Nil(t, result)

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)

	// Nada é escrito quando a validação falha
	_, err = store.ReadTable(artifact.RawCustomers)
	var missingErr *domain.ArtifactMissingError
	assert.ErrorAs(t, err, &missingErr)
}

func TestService_Process_LockDeExecucao(t *testing.T) {
	dir := t.TempDir()
	service := NewService(testConfig(dir), artifact.NewFileStore(dir), nil)

	service.runLock.Lock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := service.ProcessSample(context.Background(), 10, 20)
		assert.ErrorIs(t, err, domain.ErrRunInProgress)
	}()
	wg.Wait()

	service.runLock.Unlock()
}

func TestService_Process_PersisteNoWarehouse(t *testing.T) {
	if testing.Short() {
		t.Skip("execução completa do pipeline")
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runsRepo := mocks.NewMockAnalysisRunRepository(ctrl)
	runsRepo.EXPECT().
		SaveRun(gomock.Any(), gomock.Any()).
		Return(nil)

	dir := t.TempDir()
	service := NewService(testConfig(dir), artifact.NewFileStore(dir), runsRepo)

	result, err := service.ProcessSample(context.Background(), 100, 400)
	require.NoError(t, err)
	assert.NotContains(t, result.StageErrors, "warehouse")
}

func TestService_Status(t *testing.T) {
	dir := t.TempDir()
	service := NewService(testConfig(dir), artifact.NewFileStore(dir), nil)

	assert.False(t, service.Status().Running)

	_, err := service.ProcessSample(context.Background(), 20, 60)
	require.NoError(t, err)

	status := service.Status()
	assert.False(t, status.Running)
	assert.NotEmpty(t, status.LastRunID)
	assert.False(t, status.LastFinishedAt.IsZero())
}
