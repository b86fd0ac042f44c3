package tts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUtterance(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		wantText      string
		wantStability float64
		wantStyle     float64
	}{
		{"statement", "Это была Москва", "Это была Москва.", BaseStability, BaseStyle},
		{"question word", "Кто написал Войну и мир", "Кто написал Войну и мир?", QuestionStability, QuestionStyle},
		{"explicit question", "А это вопрос?", "А это вопрос?", QuestionStability, QuestionStyle},
		{"question mark inside", "Вопрос «где?» остался. Ответ был", "Вопрос «где?» остался. Ответ был.", QuestionStability, QuestionStyle},
		{"exclamation", "Верно!", "Верно!", BaseStability, BaseStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUtterance(tt.raw, "voice-1")
			assert.Equal(t, tt.raw, u.RawText)
			assert.Equal(t, tt.wantText, u.Text)
			assert.Equal(t, "voice-1", u.VoiceID)
			assert.Equal(t, tt.wantStability, u.Stability)
			assert.Equal(t, tt.wantStyle, u.Style)
		})
	}
}

func TestSynthesisError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &SynthesisError{Provider: "elevenlabs", VoiceID: "v1", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "elevenlabs tts (voice v1): connection reset", err.Error())
}

type countingSynth struct {
	calls []time.Time
}

func (c *countingSynth) Synthesize(_ context.Context, _ Utterance) ([]byte, error) {
	c.calls = append(c.calls, time.Now())
	return []byte("mp3"), nil
}

func TestNewThrottled_ZeroIntervalIsPassthrough(t *testing.T) {
	s := &countingSynth{}
	assert.Same(t, s, NewThrottled(s, 0).(*countingSynth))
}

func TestThrottled_SpacesCalls(t *testing.T) {
	s := &countingSynth{}
	th := NewThrottled(s, 40*time.Millisecond)

	for range 3 {
		_, err := th.Synthesize(context.Background(), NewUtterance("текст", "v"))
		require.NoError(t, err)
	}

	require.Len(t, s.calls, 3)
	assert.GreaterOrEqual(t, s.calls[2].Sub(s.calls[0]), 70*time.Millisecond)
}

func TestThrottled_CancelledContext(t *testing.T) {
	s := &countingSynth{}
	th := NewThrottled(s, time.Hour)

	_, err := th.Synthesize(context.Background(), NewUtterance("первый", "v"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = th.Synthesize(ctx, NewUtterance("второй", "v"))

	require.Error(t, err)
	assert.Len(t, s.calls, 1)
}
