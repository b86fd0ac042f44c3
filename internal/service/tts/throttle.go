package tts

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttled выдерживает минимальный интервал между запросами к провайдеру.
type Throttled struct {
	next    Synthesizer
	limiter *rate.Limiter
}

// NewThrottled оборачивает s; при interval <= 0 возвращает s как есть.
func NewThrottled(s Synthesizer, interval time.Duration) Synthesizer {
	if interval <= 0 {
		return s
	}
	return &Throttled{next: s, limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (t *Throttled) Synthesize(ctx context.Context, u Utterance) ([]byte, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.next.Synthesize(ctx, u)
}
