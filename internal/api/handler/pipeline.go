package handler

import (
	"encoding/csv"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/avilchez/commerce-insights-api/internal/domain"
	"github.com/avilchez/commerce-insights-api/internal/usecases/processing"
	"github.com/avilchez/commerce-insights-api/pkg/apiErrors"
)

// maxUploadBytes limita o upload multipart dos dois arquivos CSV.
const maxUploadBytes = 32 << 20

type SampleRequest struct {
	NumCustomers int `json:"num_clientes"`
	NumSales     int `json:"num_ventas"`
}

// RunPipeline recebe os arquivos clientes e ventas via multipart e dispara
// uma execução completa do pipeline.
func RunPipeline(processor processing.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Upload multipart inválido", nil)
			return
		}

		clientes, ok := readCSVPart(w, r, "clientes")
		if !ok {
			return
		}
		ventas, ok := readCSVPart(w, r, "ventas")
		if !ok {
			return
		}

		result, err := processor.Process(r.Context(), clientes, ventas)
		if err != nil {
			writePipelineError(w, err)
			return
		}

		writeResult(w, result)
	}
}

// RunSample gera a base sintética e executa o pipeline sobre ela. O corpo é
// opcional; tamanhos ausentes caem nos padrões do gerador.
func RunSample(processor processing.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SampleRequest
		if r.Body != nil {
			// Corpo vazio é aceito
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		result, err := processor.ProcessSample(r.Context(), req.NumCustomers, req.NumSales)
		if err != nil {
			writePipelineError(w, err)
			return
		}

		writeResult(w, result)
	}
}

func PipelineStatus(processor processing.Processor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(processor.Status()); err != nil {
			logrus.WithError(err).Error("Erro ao enviar status do pipeline")
		}
	}
}

// readCSVPart lê um arquivo do formulário multipart e o converte em tabela.
func readCSVPart(w http.ResponseWriter, r *http.Request, field string) (*domain.Table, bool) {
	file, _, err := r.FormFile(field)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrMissingArchives,
			"Arquivo obrigatório ausente no upload", map[string]string{"archivo": field})
		return nil, false
	}
	defer file.Close()

	table, err := parseCSV(file)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat,
			"Arquivo CSV malformado", map[string]string{"archivo": field, "error": err.Error()})
		return nil, false
	}

	return table, true
}

func parseCSV(file multipart.File) (*domain.Table, error) {
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &domain.Table{}, nil
	}
	return &domain.Table{Headers: records[0], Rows: records[1:]}, nil
}

// writePipelineError traduz os erros tipados do pipeline para os códigos da API.
func writePipelineError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		apiErrors.WriteError(w, apiErrors.ErrMissingColumns,
			"Colunas obrigatórias ausentes", validationErr.MissingColumns)
		return
	}

	var insufficientErr *domain.InsufficientDataError
	if errors.As(err, &insufficientErr) {
		apiErrors.WriteError(w, apiErrors.ErrInsufficientData,
			"Datos insuficientes para el análisis", map[string]string{"etapa": insufficientErr.Stage})
		return
	}

	if errors.Is(err, domain.ErrRunInProgress) {
		apiErrors.WriteError(w, apiErrors.ErrRunInProgress,
			"Já existe uma execução em andamento", nil)
		return
	}

	logrus.WithError(err).Error("Falha na execução do pipeline")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao executar o pipeline", nil)
}

func writeResult(w http.ResponseWriter, result *domain.AnalysisResult) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logrus.WithError(err).Error("Erro ao enviar resultado do pipeline")
	}
}
