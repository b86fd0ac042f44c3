package freetext

import (
	"QuizVoice/internal/app/narrator"
	"QuizVoice/internal/service/output"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrEmptyText нечего озвучивать.
	ErrEmptyText = errors.New("no text to speak")

	paragraphRe = regexp.MustCompile(`\n\s*\n`)
)

// Runner озвучивает произвольный текст или текстовый файл по абзацам.
type Runner struct {
	narrator *narrator.Narrator
	logger   *zap.SugaredLogger
}

func New(n *narrator.Narrator, logger *zap.SugaredLogger) *Runner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Runner{narrator: n, logger: logger}
}

// Text озвучивает одну строку в audio_{HH-MM-SS}.mp3 в папке без метки.
func (r *Runner) Text(ctx context.Context, text, voice string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	store := r.narrator.Store()
	folder, err := store.EnsureFolder("")
	if err != nil {
		return "", err
	}
	path, err := r.narrator.Speak(ctx, folder, output.TextFileName(store.Now()), text, voice)
	if err != nil {
		return "", err
	}
	r.logger.Infow("Audio saved", "path", path)
	return path, nil
}

// File озвучивает каждый абзац файла в {имя}_paragraph_{i}.mp3.
// Ошибка одного абзаца не прерывает остальные.
func (r *Runner) File(ctx context.Context, path, voice string) (narrator.Report, error) {
	var report narrator.Report
	path = CleanPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return report, fmt.Errorf("file not found: %s", path)
		}
		return report, err
	}
	paragraphs := SplitParagraphs(string(data))
	if len(paragraphs) == 0 {
		return report, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptyText)
	}
	r.logger.Infow("Reading file", "file", filepath.Base(path), "paragraphs", len(paragraphs))

	folder, err := r.narrator.Store().EnsureFolder("")
	if err != nil {
		return report, err
	}
	r.logger.Infow("Output folder", "path", folder)

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for i, p := range paragraphs {
		name := output.ParagraphFileName(stem, i+1)
		r.logger.Infow("Paragraph", "n", i+1, "of", len(paragraphs))
		_, serr := r.narrator.Speak(ctx, folder, name, p, voice)
		if err := report.Item(r.logger, name, serr); err != nil {
			return report, err
		}
	}
	r.logger.Infow("Text file done", "written", report.Written, "failed", report.Failed)
	return report, nil
}

// CleanPath путь после перетаскивания файла в терминал: без кавычек и с «\ » вместо пробелов.
func CleanPath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.Trim(p, `"'`)
	return strings.ReplaceAll(p, `\ `, " ")
}

// SplitParagraphs делит текст по пустым строкам, пустые абзацы отбрасываются.
func SplitParagraphs(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	parts := paragraphRe.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
