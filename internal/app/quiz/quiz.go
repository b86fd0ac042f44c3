package quiz

import (
	"QuizVoice/internal/app/narrator"
	"QuizVoice/internal/config"
	"QuizVoice/internal/service/output"
	"QuizVoice/internal/service/sheet"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// SheetLoader источник листа с вопросами.
type SheetLoader interface {
	Load(ctx context.Context, link, tab string) (*sheet.Document, error)
}

// Runner озвучивает квиз из таблицы: каждый вопрос и ответ в отдельный файл.
type Runner struct {
	cfg      *config.Config
	loader   SheetLoader
	walker   *sheet.Walker
	narrator *narrator.Narrator
	logger   *zap.SugaredLogger
}

func New(cfg *config.Config, loader SheetLoader, n *narrator.Narrator, logger *zap.SugaredLogger) *Runner {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	layout := sheet.Layout{
		QuestionColumn: cfg.Sheet.QuestionColumn,
		IntroColumn:    cfg.Sheet.IntroColumn,
		AnswerColumn:   cfg.Sheet.AnswerColumn,
		StartRow:       cfg.Sheet.StartRow,
	}
	return &Runner{
		cfg:      cfg,
		loader:   loader,
		walker:   sheet.NewWalker(layout, cfg.Sheet.HeaderPrefixes, logger),
		narrator: n,
		logger:   logger,
	}
}

// Run загружает таблицу и озвучивает rounds туров по questions вопросов голосом voice.
// Ошибки ввода (ссылка, лист) возвращаются до создания папки.
// Ошибка синтеза отдельного файла не останавливает прогон, кроме отсутствия ключа и отмены.
func (r *Runner) Run(ctx context.Context, link string, rounds, questions int, voice string) (narrator.Report, error) {
	var report narrator.Report
	if rounds <= 0 || questions <= 0 {
		return report, fmt.Errorf("rounds and questions must be positive, got %d and %d", rounds, questions)
	}

	doc, err := r.loader.Load(ctx, link, r.cfg.Sheet.TabName)
	if err != nil {
		return report, err
	}
	items := r.walker.Walk(doc.Grid, rounds, questions)

	folder, err := r.narrator.Store().EnsureFolder(doc.Title)
	if err != nil {
		return report, err
	}
	r.logger.Infow("Output folder", "path", folder, "title", doc.Title, "items", len(items))

	started := time.Now()
	for _, item := range items {
		if item.Empty() {
			report.Skipped++
			continue
		}
		if item.QuestionText != "" {
			name := output.QuizFileName(item.Round, item.Question, output.KindQuestion)
			r.logger.Infow("Question", "round", item.Round, "question", item.Question, "text", preview(item.QuestionText))
			_, serr := r.narrator.Speak(ctx, folder, name, item.QuestionText, voice)
			if err := report.Item(r.logger, name, serr); err != nil {
				return report, err
			}
		}
		if item.AnswerText != "" {
			name := output.QuizFileName(item.Round, item.Question, output.KindAnswer)
			r.logger.Infow("Answer", "round", item.Round, "question", item.Question, "text", preview(item.AnswerText))
			_, serr := r.narrator.Speak(ctx, folder, name, item.AnswerText, voice)
			if err := report.Item(r.logger, name, serr); err != nil {
				return report, err
			}
		}
	}

	r.logger.Infow("Quiz done",
		"written", report.Written,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"took", time.Since(started).String(),
	)
	return report, nil
}

func preview(s string) string {
	const limit = 30
	if rs := []rune(s); len(rs) > limit {
		return string(rs[:limit]) + "..."
	}
	return s
}
