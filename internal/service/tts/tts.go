package tts

import (
	"QuizVoice/internal/service/text"
	"context"
	"errors"
	"fmt"
	"strings"
)

// Параметры голоса. Для вопросов стабильность ниже, а стиль выше, интонация живее.
const (
	BaseStability     = 0.65
	BaseStyle         = 0.0
	QuestionStability = 0.50
	QuestionStyle     = 0.35
	SimilarityBoost   = 0.75
	SpeakerBoost      = true
)

// ErrNoCredential не задан ключ сервиса синтеза. Повторять запрос бессмысленно.
var ErrNoCredential = errors.New("tts credential is not configured")

// Utterance один запрос синтеза: исходный и подготовленный текст, голос и параметры интонации.
type Utterance struct {
	RawText   string
	Text      string
	VoiceID   string
	Stability float64
	Style     float64
}

// NewUtterance нормализует текст и выводит из него параметры интонации.
func NewUtterance(raw, voiceID string) Utterance {
	normalized := text.Normalize(raw)
	u := Utterance{
		RawText:   raw,
		Text:      normalized,
		VoiceID:   voiceID,
		Stability: BaseStability,
		Style:     BaseStyle,
	}
	if u.IsQuestion() {
		u.Stability = QuestionStability
		u.Style = QuestionStyle
	}
	return u
}

// IsQuestion в подготовленном тексте есть «?».
func (u Utterance) IsQuestion() bool { return strings.Contains(u.Text, "?") }

// Synthesizer абстракция TTS: текст и голос на входе, MP3 на выходе.
type Synthesizer interface {
	Synthesize(ctx context.Context, u Utterance) ([]byte, error)
}

// Voice голос провайдера.
type Voice struct {
	ID       string
	Name     string
	Language string
}

// VoiceLister провайдер умеет перечислять свои голоса.
type VoiceLister interface {
	ListVoices(ctx context.Context) ([]Voice, error)
}

// SynthesisError ошибка удалённого вызова синтеза.
type SynthesisError struct {
	Provider string
	VoiceID  string
	Err      error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("%s tts (voice %s): %v", e.Provider, e.VoiceID, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }
