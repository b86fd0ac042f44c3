package menu

import (
	"QuizVoice/internal/app/narrator"
	"QuizVoice/internal/config"
	"QuizVoice/internal/service/tts/provider"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"
)

// LineReader источник строк ввода. ErrInterrupt/io.EOF завершают меню.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// QuizRunner озвучивание таблицы.
type QuizRunner interface {
	Run(ctx context.Context, link string, rounds, questions int, voice string) (narrator.Report, error)
}

// FileRunner озвучивание текстового файла.
type FileRunner interface {
	File(ctx context.Context, path, voice string) (narrator.Report, error)
}

// Notifier звук после пакетного прогона.
type Notifier interface {
	PlayDone(ctx context.Context) error
}

// Menu интерактивный режим: выбор языка один раз, затем цикл действий.
type Menu struct {
	in     LineReader
	out    io.Writer
	cfg    *config.Config
	quiz   QuizRunner
	files  FileRunner
	notify Notifier
	logger *zap.SugaredLogger
}

func New(in LineReader, out io.Writer, cfg *config.Config, quiz QuizRunner, files FileRunner, notify Notifier, logger *zap.SugaredLogger) *Menu {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Menu{in: in, out: out, cfg: cfg, quiz: quiz, files: files, notify: notify, logger: logger}
}

// Run блокируется до выбора «Exit», Ctrl+C, EOF или отмены ctx.
// Ошибки отдельных действий печатаются, меню продолжает работу.
func (m *Menu) Run(ctx context.Context) error {
	voice, err := m.selectLanguage()
	if err != nil {
		return quit(err)
	}

	for {
		if err := context.Cause(ctx); err != nil {
			return err
		}
		fmt.Fprintln(m.out, "\n--- QuizVoice ---")
		fmt.Fprintln(m.out, "1. Read from text file")
		fmt.Fprintln(m.out, "2. Parse quiz from Google Sheet")
		fmt.Fprintln(m.out, "3. Exit")

		choice, err := m.in.Prompt("Select an option (1-3): ")
		if err != nil {
			return quit(err)
		}
		switch strings.TrimSpace(choice) {
		case "1":
			if err := m.textFile(ctx, voice); err != nil {
				return quit(err)
			}
		case "2":
			if err := m.sheet(ctx, voice); err != nil {
				return quit(err)
			}
		case "3":
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice.")
		}
	}
}

func (m *Menu) selectLanguage() (string, error) {
	for {
		fmt.Fprintln(m.out, "\nSelect language / Wybierz język / Pasirinkite kalbą:")
		for i, lang := range provider.Languages {
			fmt.Fprintf(m.out, "%d. %s\n", i+1, provider.LanguageNames[lang])
		}
		choice, err := m.in.Prompt(fmt.Sprintf("Select (1-%d): ", len(provider.Languages)))
		if err != nil {
			return "", err
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(choice))
		if convErr != nil || n < 1 || n > len(provider.Languages) {
			fmt.Fprintln(m.out, "Invalid choice. Please select 1, 2, or 3.")
			continue
		}
		lang := provider.Languages[n-1]
		voice := provider.VoiceFor(m.cfg, lang)
		m.logger.Infow("Language selected", "lang", lang, "voice", voice)
		return voice, nil
	}
}

// textFile возвращает только ошибку ввода (Ctrl+C, EOF).
func (m *Menu) textFile(ctx context.Context, voice string) error {
	fmt.Fprintln(m.out, "\nDrag and drop your text file here (or paste the path):")
	path, err := m.in.Prompt("File path: ")
	if err != nil {
		return err
	}
	if strings.TrimSpace(path) == "" {
		return nil
	}
	report, runErr := m.files.File(ctx, path, voice)
	m.finish(ctx, report, runErr)
	return nil
}

func (m *Menu) sheet(ctx context.Context, voice string) error {
	link, err := m.in.Prompt("Enter Google Sheet URL: ")
	if err != nil {
		return err
	}
	if link = strings.TrimSpace(link); link == "" {
		return nil
	}
	rounds, ok, err := m.number(fmt.Sprintf("Rounds count (default %d): ", m.cfg.Sheet.Rounds), m.cfg.Sheet.Rounds)
	if err != nil || !ok {
		return err
	}
	questions, ok, err := m.number(fmt.Sprintf("Questions per round (default %d): ", m.cfg.Sheet.Questions), m.cfg.Sheet.Questions)
	if err != nil || !ok {
		return err
	}
	report, runErr := m.quiz.Run(ctx, link, rounds, questions, voice)
	m.finish(ctx, report, runErr)
	return nil
}

// number читает положительное число; пустой ввод даёт def. ok=false после «Invalid number.».
func (m *Menu) number(prompt string, def int) (int, bool, error) {
	line, err := m.in.Prompt(prompt)
	if err != nil {
		return 0, false, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def, true, nil
	}
	n, convErr := strconv.Atoi(line)
	if convErr != nil || n <= 0 {
		fmt.Fprintln(m.out, "Invalid number.")
		return 0, false, nil
	}
	return n, true, nil
}

func (m *Menu) finish(ctx context.Context, report narrator.Report, err error) {
	if err != nil {
		m.logger.Errorw("Operation failed", "error", err)
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Done: %d written, %d failed, %d skipped\n", report.Written, report.Failed, report.Skipped)
	if m.notify != nil {
		_ = m.notify.PlayDone(ctx)
	}
}

// quit Ctrl+C и EOF означают штатный выход.
func quit(err error) error {
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Readline LineReader поверх chzyer/readline с историей ввода.
type Readline struct {
	rl *readline.Instance
}

func NewReadline(historyFile string) (*Readline, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	return &Readline{rl: rl}, nil
}

func (r *Readline) Prompt(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	return r.rl.Readline()
}

func (r *Readline) Close() error { return r.rl.Close() }
