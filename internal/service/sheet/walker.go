package sheet

import (
	"strings"

	"go.uber.org/zap"
)

// Layout фиксированная раскладка листа с вопросами.
type Layout struct {
	QuestionColumn int // J
	IntroColumn    int // M, подводка к ответу
	AnswerColumn   int // N
	StartRow       int // Первая строка первого тура
}

// DefaultLayout раскладка «Верстки»: вопросы с J3, подводка в M, ответ в N.
func DefaultLayout() Layout {
	return Layout{QuestionColumn: 9, IntroColumn: 12, AnswerColumn: 13, StartRow: 2}
}

// QuizItem тексты одного вопроса.
type QuizItem struct {
	Round        int
	Question     int
	QuestionText string
	AnswerText   string // Подводка и ответ через пробел
}

// Empty нечего озвучивать.
func (i QuizItem) Empty() bool { return i.QuestionText == "" && i.AnswerText == "" }

// Walker проходит лист по турам фиксированной длины.
type Walker struct {
	layout   Layout
	prefixes []string
	logger   *zap.SugaredLogger
}

func NewWalker(layout Layout, headerPrefixes []string, logger *zap.SugaredLogger) *Walker {
	prefixes := make([]string, 0, len(headerPrefixes))
	for _, p := range headerPrefixes {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Walker{layout: layout, prefixes: prefixes, logger: logger}
}

// Walk извлекает rounds туров по questions вопросов.
// Строки внутри тура берутся подряд, между турами пропускаются пустые строки и заголовки.
// Если лист кончился раньше, обход прекращается с предупреждением.
func (w *Walker) Walk(g *Grid, rounds, questions int) []QuizItem {
	// Ёмкость по числу строк листа: rounds и questions вводит пользователь.
	items := make([]QuizItem, 0, capacity(g.Rows()-w.layout.StartRow, rounds, questions))
	column := g.Column(w.layout.QuestionColumn)
	row := w.layout.StartRow

	for r := 1; r <= rounds; r++ {
		for q := 1; q <= questions; q++ {
			if row >= g.Rows() {
				w.logger.Warnw("Лист закончился раньше ожидаемого", "round", r, "question", q, "rows", g.Rows())
				return items
			}
			items = append(items, QuizItem{
				Round:        r,
				Question:     q,
				QuestionText: g.Cell(row, w.layout.QuestionColumn),
				AnswerText:   JoinAnswer(g.Cell(row, w.layout.IntroColumn), g.Cell(row, w.layout.AnswerColumn)),
			})
			row++
		}
		row = SeekNextRound(column, row, w.prefixes)
		w.logger.Debugw("Поиск следующего тура", "round", r, "next_row", row)
	}
	return items
}

func capacity(rows, rounds, questions int) int {
	if rows <= 0 || rounds <= 0 || questions <= 0 {
		return 0
	}
	if rounds > rows/questions {
		return rows
	}
	return min(rows, rounds*questions)
}

// SeekNextRound возвращает индекс первой строки, начиная с start, где ячейка непустая
// и не является заголовком тура. Если такой нет, len(column).
func SeekNextRound(column []string, start int, headerPrefixes []string) int {
	row := max(start, 0)
	for ; row < len(column); row++ {
		v := strings.TrimSpace(column[row])
		if v != "" && !IsHeader(v, headerPrefixes) {
			break
		}
	}
	return row
}

// IsHeader строка-заголовок вида «ТУР 7» или «Round 2».
func IsHeader(cell string, prefixes []string) bool {
	lower := strings.ToLower(strings.TrimSpace(cell))
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// JoinAnswer склеивает подводку и ответ через пробел, пропуская пустые части.
func JoinAnswer(intro, answer string) string {
	switch {
	case intro != "" && answer != "":
		return intro + " " + answer
	case intro != "":
		return intro
	default:
		return answer
	}
}
