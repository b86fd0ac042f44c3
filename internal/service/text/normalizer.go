package text

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// QuestionWordsRU вопросительные слова, с которых начинается вопрос без знака «?».
var QuestionWordsRU = []string{
	"кто", "что", "где", "когда", "почему", "как", "зачем",
	"сколько", "какой", "чей", "чья", "чье", "чьи",
}

// Normalizer дописывает конечный знак препинания, чтобы синтез давал правильную интонацию.
// Эвристика: смотрит только на первое слово и последний символ.
type Normalizer struct {
	questionWords map[string]struct{}
}

func NewNormalizer(questionWords []string) *Normalizer {
	set := make(map[string]struct{}, len(questionWords))
	for _, w := range questionWords {
		set[norm.NFC.String(strings.ToLower(w))] = struct{}{}
	}
	return &Normalizer{questionWords: set}
}

var defaultNormalizer = NewNormalizer(QuestionWordsRU)

// Normalize нормализует текст русским набором вопросительных слов.
func Normalize(text string) string { return defaultNormalizer.Normalize(text) }

// Normalize возвращает текст с гарантированным «.», «!» или «?» в конце.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}
	if last, _ := utf8.DecodeLastRuneInString(text); isTerminal(last) {
		return text
	}
	if n.IsQuestion(text) {
		return text + "?"
	}
	return text + "."
}

// IsQuestion сообщает, начинается ли текст с вопросительного слова.
func (n *Normalizer) IsQuestion(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	first := strings.Trim(strings.ToLower(fields[0]), ".,!?")
	_, ok := n.questionWords[norm.NFC.String(first)]
	return ok
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
