package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// ErrUnsupportedFormat формат, который плеер не умеет декодировать.
var ErrUnsupportedFormat = errors.New("unsupported format for playback; use mp3 or wav")

// Player воспроизводит аудио потоком в зависимости от формата.
type Player interface {
	Play(ctx context.Context, format string, r io.ReadCloser) error
	PlayFile(ctx context.Context, path string) error
}

// Default реализует Player и поддерживает mp3 и wav.
type Default struct {
	volumeDB float64
	mu       sync.Mutex // динамик один на процесс
}

// New создаёт плеер без изменения громкости (0 dB).
func New() *Default { return &Default{volumeDB: 0} }

// NewWithVolume создаёт плеер с предустановленной громкостью в dB (отрицательные тише).
func NewWithVolume(db float64) *Default { return &Default{volumeDB: db} }

// Play декодирует поток и блокируется до конца воспроизведения или отмены ctx.
func (d *Default) Play(ctx context.Context, format string, r io.ReadCloser) error {
	defer r.Close()

	var (
		streamer beep.StreamSeekCloser
		bf       beep.Format
		err      error
	)
	switch strings.ToLower(format) {
	case "wav":
		streamer, bf, err = wav.Decode(r)
	case "mp3":
		streamer, bf, err = mp3.Decode(r)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", format, err)
	}
	defer streamer.Close()

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := speaker.Init(bf.SampleRate, bf.SampleRate.N(time.Second/10)); err != nil {
		return err
	}
	vol := &effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   d.volumeDB,
		Silent:   false,
	}
	done := make(chan struct{})
	speaker.Play(beep.Seq(vol, beep.Callback(func() { close(done) })))
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return context.Cause(ctx)
	}
}

// PlayFile проигрывает файл, формат определяется по расширению (по умолчанию mp3).
func (d *Default) PlayFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return d.Play(ctx, FormatOf(path), f)
}

// FormatOf формат по расширению файла.
func FormatOf(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "mp3"
	}
	return ext
}
