package main

import (
	"QuizVoice/internal/app/freetext"
	"QuizVoice/internal/app/menu"
	"QuizVoice/internal/app/narrator"
	"QuizVoice/internal/app/quiz"
	"QuizVoice/internal/config"
	"QuizVoice/internal/service/notify"
	"QuizVoice/internal/service/output"
	"QuizVoice/internal/service/sheet"
	"QuizVoice/internal/service/tts/player"
	"QuizVoice/internal/service/tts/provider"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type cli struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
	sheet  string
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "quizvoice [text]",
		Short: "Озвучивание квизов из Google Таблиц и текстов через TTS",
		Long: `quizvoice озвучивает текст, текстовый файл по абзацам или квиз из Google Таблицы
(лист «Верстка»: вопросы в J, подводка в M, ответ в N) и складывает MP3 в папку voice_*.
Без аргументов запускается интерактивное меню.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.cfg.Validate(); err != nil {
				return err
			}
			logger, err := newLogger(c.cfg.DebugMode)
			if err != nil {
				return err
			}
			c.logger = logger
			c.logger.Infow("Starting app", "DebugMode", c.cfg.DebugMode, "service", c.cfg.Service())
			return nil
		},
		RunE: c.run,
	}
	root.Flags().StringVarP(&c.sheet, "sheet", "s", "", "ссылка на Google Таблицу или путь к .xlsx (режим квиза)")
	c.cfg.BindFlags(root.PersistentFlags())

	root.AddCommand(c.voicesCmd())
	return root
}

func (c *cli) voicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "Список голосов выбранного сервиса TTS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := provider.New(c.cfg, c.logger)
			if err != nil {
				return err
			}
			if p.Lister == nil {
				return fmt.Errorf("tts service %s cannot list voices", p.Name)
			}
			voices, err := p.Lister.ListVoices(cmd.Context())
			if err != nil {
				return err
			}
			for _, v := range voices {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %-32s %s\n", v.ID, v.Name, v.Language)
			}
			return nil
		},
	}
}

// app собранные зависимости одного запуска.
type app struct {
	quiz   *quiz.Runner
	text   *freetext.Runner
	notify *notify.SoundNotifier
}

func (c *cli) build(ctx context.Context) (*app, error) {
	p, err := provider.New(c.cfg, c.logger)
	if err != nil {
		return nil, err
	}
	hc, err := sheet.NewHTTPClient(ctx, c.cfg.Sheet.UseADC, c.cfg.Sheet.Timeout)
	if err != nil {
		return nil, err
	}

	var ply player.Player
	if c.cfg.Play {
		ply = player.NewWithVolume(c.cfg.PlayerVolumeDB)
	}
	n := narrator.New(p.Synth, output.NewStore(c.cfg.Output.BaseDir), ply, c.logger)

	return &app{
		quiz:   quiz.New(c.cfg, sheet.NewFetcher(hc, c.logger), n, c.logger),
		text:   freetext.New(n, c.logger),
		notify: notify.NewSoundNotifier(c.logger, c.cfg.DoneSoundPath, player.NewWithVolume(c.cfg.PlayerVolumeDB)),
	}, nil
}

func (c *cli) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := c.build(ctx)
	if err != nil {
		return err
	}

	switch {
	case c.sheet != "":
		_, err := a.quiz.Run(ctx, c.sheet, c.cfg.Sheet.Rounds, c.cfg.Sheet.Questions, provider.DefaultVoice(c.cfg))
		if err != nil {
			return err
		}
		_ = a.notify.PlayDone(ctx)
		return nil
	case len(args) == 1:
		path, err := a.text.Text(ctx, args[0], provider.DefaultVoice(c.cfg))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	}

	rl, err := menu.NewReadline(filepath.Join(os.TempDir(), ".quizvoice_history"))
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer rl.Close()

	return menu.New(rl, cmd.OutOrStdout(), c.cfg, a.quiz, a.text, a.notify, c.logger).Run(ctx)
}
