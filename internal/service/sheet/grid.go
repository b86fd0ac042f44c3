package sheet

import "strings"

// Grid прямоугольное представление листа таблицы, индексы с нуля.
// Строки из excelize бывают разной длины, недостающие ячейки считаются пустыми.
type Grid struct {
	rows  [][]string
	width int
}

func NewGrid(rows [][]string) *Grid {
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	return &Grid{rows: rows, width: width}
}

// Rows количество строк.
func (g *Grid) Rows() int { return len(g.rows) }

// Width количество столбцов (по самой длинной строке).
func (g *Grid) Width() int { return g.width }

// Cell возвращает обрезанное значение ячейки или "" для отсутствующей.
func (g *Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= g.width {
		return ""
	}
	r := g.rows[row]
	if col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Column значения одного столбца по всем строкам.
func (g *Grid) Column(col int) []string {
	out := make([]string, len(g.rows))
	for i := range g.rows {
		out[i] = g.Cell(i, col)
	}
	return out
}
