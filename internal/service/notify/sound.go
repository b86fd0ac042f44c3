package notify

import (
	"QuizVoice/internal/service/tts/player"
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// SoundNotifier проигрывает короткий звук по окончании пакетного озвучивания.
type SoundNotifier struct {
	logger *zap.SugaredLogger
	path   string
	ply    player.Player
}

// NewSoundNotifier создаёт нотификатор. Пустой путь отключает звук.
// Относительный путь сначала ищется рядом с бинарём, затем от рабочей директории.
func NewSoundNotifier(logger *zap.SugaredLogger, path string, ply player.Player) *SoundNotifier {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SoundNotifier{logger: logger, path: resolve(path), ply: ply}
}

func resolve(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if exe, err := os.Executable(); err == nil {
		cand := filepath.Join(filepath.Dir(exe), path)
		if _, statErr := os.Stat(cand); statErr == nil {
			return cand
		}
	}
	return filepath.FromSlash(path)
}

// Enabled задан ли звук.
func (n *SoundNotifier) Enabled() bool { return n != nil && n.path != "" && n.ply != nil }

// PlayDone проигрывает звук завершения. Ошибки логируются и возвращаются,
// вызывающий обычно их игнорирует.
func (n *SoundNotifier) PlayDone(ctx context.Context) error {
	if !n.Enabled() {
		return nil
	}
	if err := context.Cause(ctx); err != nil {
		return err
	}
	if err := n.ply.PlayFile(ctx, n.path); err != nil {
		n.logger.Warnw("Не удалось воспроизвести звуковое уведомление", "path", n.path, "error", err)
		return err
	}
	return nil
}
