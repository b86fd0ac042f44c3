package google

import (
	"QuizVoice/internal/config"
	"QuizVoice/internal/service/tts"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageOf(t *testing.T) {
	tests := []struct {
		voice string
		lang  string
		ok    bool
	}{
		{"ru-RU-Standard-A", "ru-RU", true},
		{"pl-PL-Wavenet-B", "pl-PL", true},
		{"cmn-CN-Standard-A", "cmn-CN", true},
		{"yfwJfbXlpnn3qMSjFykp", "", false},
		{"ru-RU", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		lang, ok := LanguageOf(tt.voice)
		assert.Equal(t, tt.ok, ok, tt.voice)
		assert.Equal(t, tt.lang, lang, tt.voice)
	}
}

func TestVoice_FallsBackToConfig(t *testing.T) {
	c := New(config.Defaults().GoogleTTS, nil)

	name, lang := c.voice("lt-LT-Standard-A")
	assert.Equal(t, "lt-LT-Standard-A", name)
	assert.Equal(t, "lt-LT", lang)

	name, lang = c.voice("yfwJfbXlpnn3qMSjFykp")
	assert.Equal(t, "ru-RU-Standard-A", name)
	assert.Equal(t, "ru-RU", lang)
}

func TestSynthesize_EmptyText(t *testing.T) {
	var _ tts.Synthesizer = (*Client)(nil)

	_, err := New(config.Defaults().GoogleTTS, nil).Synthesize(context.Background(), tts.NewUtterance("  ", "ru-RU-Standard-A"))
	assert.ErrorContains(t, err, "empty input text")
}
