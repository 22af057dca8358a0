// Package repository contém as implementações dos repositórios para acesso aos dados
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/avilchez/commerce-insights-api/infrastructure/database/postgres"
	"github.com/avilchez/commerce-insights-api/internal/domain"
)

const (
	analysisRunTable   = "analysis_run"
	profitabilityTable = "product_profitability"
)

// RunSummary é a projeção persistida de uma execução do pipeline.
type RunSummary struct {
	RunID              string   `json:"run_id"`
	StartedAt          string   `json:"started_at"`
	TotalCustomers     int      `json:"total_clientes"`
	TotalSales         int      `json:"total_ventas"`
	TotalRevenue       float64  `json:"total_ingresos"`
	RecurrenceAccuracy *float64 `json:"accuracy_recurrencia,omitempty"`
	RiskAccuracy       *float64 `json:"accuracy_riesgo,omitempty"`
}

type AnalysisRunRepository interface {
	// SaveRun persiste o resumo da execução e a rentabilidade por produto
	// numa única transação.
	SaveRun(ctx context.Context, result *domain.AnalysisResult) error
	ListRuns(ctx context.Context, limit uint64) ([]RunSummary, error)
}

type analysisRunRepository struct {
	conn *postgres.Connection
}

func NewAnalysisRunRepository(conn *postgres.Connection) AnalysisRunRepository {
	return &analysisRunRepository{
		conn: conn,
	}
}

func (r *analysisRunRepository) SaveRun(ctx context.Context, result *domain.AnalysisResult) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		if err := insertRunSummary(ctx, tx, result); err != nil {
			return err
		}
		return upsertProfitability(ctx, tx, result)
	})
}

func insertRunSummary(ctx context.Context, tx *sql.Tx, result *domain.AnalysisResult) error {
	builder := squirrel.
		Insert(analysisRunTable).
		Columns(
			"run_id",
			"started_at",
			"finished_at",
			"total_clientes",
			"total_ventas",
			"total_ingresos",
			"ventas_descartadas",
			"accuracy_recurrencia",
			"accuracy_riesgo",
		).
		Values(
			result.RunID,
			result.StartedAt,
			result.FinishedAt,
			result.TotalCustomers,
			result.TotalSales,
			result.TotalRevenue,
			result.DroppedSales,
			nullableAccuracy(result.Recurrence),
			nullableAccuracy(result.Risk),
		).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("erro ao salvar o resumo da execução: %w", err)
	}
	return nil
}

func upsertProfitability(ctx context.Context, tx *sql.Tx, result *domain.AnalysisResult) error {
	if len(result.Profitability) == 0 {
		return nil
	}

	builder := squirrel.
		Insert(profitabilityTable).
		Columns(
			"run_id",
			"producto",
			"total_ingresos",
			"total_ventas",
			"precio_promedio",
			"participacion",
		).
		Suffix("ON CONFLICT (run_id, producto) DO UPDATE SET total_ingresos = EXCLUDED.total_ingresos, total_ventas = EXCLUDED.total_ventas, precio_promedio = EXCLUDED.precio_promedio, participacion = EXCLUDED.participacion").
		PlaceholderFormat(squirrel.Dollar)

	for _, row := range result.Profitability {
		builder = builder.Values(
			result.RunID,
			row.Product,
			row.TotalRevenue,
			row.TotalSales,
			row.AvgPrice,
			row.RevenueShare,
		)
	}

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
		return fmt.Errorf("erro ao salvar a rentabilidade: %w", err)
	}
	return nil
}

func (r *analysisRunRepository) ListRuns(ctx context.Context, limit uint64) ([]RunSummary, error) {
	builder := squirrel.
		Select(
			"run_id",
			"started_at",
			"total_clientes",
			"total_ventas",
			"total_ingresos",
			"accuracy_recurrencia",
			"accuracy_riesgo",
		).
		From(analysisRunTable).
		OrderBy("started_at DESC").
		Limit(limit).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	summaries := make([]RunSummary, 0)
	for rows.Next() {
		var summary RunSummary
		if err := rows.Scan(
			&summary.RunID,
			&summary.StartedAt,
			&summary.TotalCustomers,
			&summary.TotalSales,
			&summary.TotalRevenue,
			&summary.RecurrenceAccuracy,
			&summary.RiskAccuracy,
		); err != nil {
			return nil, fmt.Errorf("erro ao ler a linha: %w", err)
		}
		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

func nullableAccuracy(result *domain.ClassificationResult) *float64 {
	if result == nil {
		return nil
	}
	return &result.Accuracy
}
