package narrator

import (
	"QuizVoice/internal/service/output"
	"QuizVoice/internal/service/tts"
	"QuizVoice/internal/service/tts/player"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Report итог пакетного прогона.
type Report struct {
	Written int
	Failed  int
	Skipped int
}

// Narrator озвучивает один текст в один файл: синтез, запись, по желанию воспроизведение.
type Narrator struct {
	synth  tts.Synthesizer
	store  *output.Store
	player player.Player
	logger *zap.SugaredLogger
}

// New создаёт озвучивателя. ply == nil отключает воспроизведение записанных файлов.
func New(synth tts.Synthesizer, store *output.Store, ply player.Player, logger *zap.SugaredLogger) *Narrator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Narrator{synth: synth, store: store, player: ply, logger: logger}
}

// Store хранилище, в которое пишет озвучиватель.
func (n *Narrator) Store() *output.Store { return n.store }

// Speak синтезирует raw голосом voice и сохраняет результат в folder/name.
func (n *Narrator) Speak(ctx context.Context, folder, name, raw, voice string) (string, error) {
	u := tts.NewUtterance(raw, voice)
	audio, err := n.synth.Synthesize(ctx, u)
	if err != nil {
		return "", err
	}
	path, err := n.store.Save(folder, name, audio)
	if err != nil {
		return "", err
	}
	n.logger.Infow("Saved", "file", name, "question", u.IsQuestion(), "bytes", len(audio))

	if n.player != nil {
		if perr := n.player.PlayFile(ctx, path); perr != nil {
			n.logger.Warnw("Не удалось воспроизвести файл", "path", path, "error", perr)
		}
	}
	return path, nil
}

// Fatal ошибка, после которой продолжать прогон бессмысленно:
// нет ключа сервиса или прогон отменён.
func Fatal(err error) bool {
	return errors.Is(err, tts.ErrNoCredential) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Item результат одного элемента пакета: пишет в отчёт и решает, продолжать ли.
// Возвращает ошибку только если прогон нужно прервать.
func (r *Report) Item(logger *zap.SugaredLogger, name string, err error) error {
	if err == nil {
		r.Written++
		return nil
	}
	r.Failed++
	if Fatal(err) {
		return fmt.Errorf("%s: %w", name, err)
	}
	logger.Errorw("Synthesis failed, moving on", "file", name, "error", err)
	return nil
}
