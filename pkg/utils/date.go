package utils

import (
	"fmt"
	"time"
)

// saleDateLayouts são os formatos aceitos para datas nos arquivos de entrada.
var saleDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
}

// ParseDate interpreta uma data nos formatos aceitos. String vazia é erro:
// a linha deve ser descartada pelo chamador.
func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, fmt.Errorf("data vazia")
	}

	for _, layout := range saleDateLayouts {
		if date, err := time.Parse(layout, dateStr); err == nil {
			return date, nil
		}
	}

	return time.Time{}, fmt.Errorf("data '%s' não corresponde a nenhum formato aceito", dateStr)
}

// DaysBetween retorna os dias inteiros entre dois instantes.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// MonthKey formata um instante como chave mensal ("2006-01").
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// DateOnly trunca o instante para a meia-noite do mesmo dia em UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
