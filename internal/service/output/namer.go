package output

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Kind какая часть вопроса озвучена.
type Kind string

const (
	KindQuestion Kind = "question"
	KindAnswer   Kind = "answer"
)

const folderPrefix = "voice"

// FolderName имя папки прогона: voice_{label}_{YYYY-MM-DD} или voice_{YYYY-MM-DD} без метки.
func FolderName(label string, date time.Time) string {
	day := date.Format("2006-01-02")
	if label = SanitizeLabel(label); strings.TrimSpace(label) == "" {
		return folderPrefix + "_" + day
	}
	return folderPrefix + "_" + label + "_" + day
}

// SanitizeLabel заменяет на «_» всё, кроме букв, цифр, пробела, «_» и «-».
func SanitizeLabel(label string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, label)
}

// QuizFileName round_{r}_q_{q}_{question|answer}.mp3
func QuizFileName(round, question int, kind Kind) string {
	return fmt.Sprintf("round_%d_q_%d_%s.mp3", round, question, kind)
}

// TextFileName имя файла для произвольного текста. Повторный запуск в ту же секунду перезапишет файл.
func TextFileName(t time.Time) string {
	return "audio_" + t.Format("15-04-05") + ".mp3"
}

// ParagraphFileName {base}_paragraph_{i}.mp3, нумерация с 1.
func ParagraphFileName(base string, i int) string {
	return fmt.Sprintf("%s_paragraph_%d.mp3", base, i)
}
