package domain

import (
	"fmt"
	"strings"
)

// ValidationError indica colunas obrigatórias ausentes na entrada.
// Lista todas as colunas faltantes, não apenas a primeira; o lote inteiro
// é rejeitado quando a validação falha.
type ValidationError struct {
	// MissingColumns mapeia o nome da tabela ("clientes", "ventas") para as
	// colunas ausentes.
	MissingColumns map[string][]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.MissingColumns))
	for table, cols := range e.MissingColumns {
		parts = append(parts, fmt.Sprintf("falta(n) columna(s) '%s' en %s", strings.Join(cols, "', '"), table))
	}
	return strings.Join(parts, "; ")
}

// ParseError indica uma linha individual descartada por valor não parseável.
// É recuperável: a linha é descartada e o processamento continua.
type ParseError struct {
	Table string
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("fila %d de %s: valor '%s' inválido para '%s': %v", e.Row, e.Table, e.Value, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InsufficientDataError indica que um estágio de modelo não tem dados
// suficientes para treinar. Fatal para o estágio, não para o pipeline.
type InsufficientDataError struct {
	Stage  string
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("datos insuficientes para %s: %s", e.Stage, e.Reason)
}

// ArtifactMissingError indica que um consumidor pediu um artefato antes do
// pipeline ter sido executado.
type ArtifactMissingError struct {
	Name string
}

func (e *ArtifactMissingError) Error() string {
	return fmt.Sprintf("artefato '%s' não encontrado: execute o pipeline primeiro", e.Name)
}

// ErrRunInProgress é retornado quando uma execução do pipeline é disparada
// enquanto outra ainda está em andamento.
var ErrRunInProgress = fmt.Errorf("já existe uma execução do pipeline em andamento")
