package domain

// Table é uma tabela genérica com cabeçalho, como lida de um CSV. É o formato
// de troca entre a camada de apresentação e o pipeline.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ColumnIndex devolve o índice da coluna ou -1 quando ausente.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Value devolve o valor da coluna col na linha row ("" quando fora do range).
func (t *Table) Value(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
