package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Códigos de erro da API
const (
	// Erros de autenticação
	ErrInvalidCredentials = "AUTH_001" // Credenciais inválidas
	ErrInvalidToken       = "AUTH_002" // Token inválido ou expirado
	ErrInsufficientRole   = "AUTH_003" // Privilégios insuficientes

	// Erros de validação de entrada
	ErrInvalidRequest   = "VAL_001" // Requisição inválida
	ErrMissingColumns   = "VAL_002" // Colunas obrigatórias ausentes nos arquivos
	ErrInvalidFormat    = "VAL_003" // Formato de arquivo inválido
	ErrMissingArchives  = "VAL_004" // Arquivos de clientes/vendas ausentes no upload
	ErrRouteNotFound    = "VAL_005" // Rota inexistente
	ErrMethodNotAllowed = "VAL_006" // Método não suportado pela rota

	// Erros de dados e pipeline
	ErrInsufficientData = "DATA_001" // Dados insuficientes para treinar um modelo
	ErrArtifactMissing  = "DATA_002" // Artefato pedido antes da execução do pipeline
	ErrRunInProgress    = "RUN_001"  // Pipeline já em execução

	// Erros do servidor
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Erro de operação de banco de dados
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidCredentials: http.StatusUnauthorized,
	ErrInvalidToken:       http.StatusUnauthorized,
	ErrInsufficientRole:   http.StatusForbidden,
	ErrInvalidRequest:     http.StatusBadRequest,
	ErrMissingColumns:     http.StatusUnprocessableEntity,
	ErrInvalidFormat:      http.StatusBadRequest,
	ErrMissingArchives:    http.StatusBadRequest,
	ErrRouteNotFound:      http.StatusNotFound,
	ErrMethodNotAllowed:   http.StatusMethodNotAllowed,
	ErrInsufficientData:   http.StatusUnprocessableEntity,
	ErrArtifactMissing:    http.StatusNotFound,
	ErrRunInProgress:      http.StatusConflict,
	ErrInternalServer:     http.StatusInternalServerError,
	ErrDatabaseOperation:  http.StatusInternalServerError,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}
