package yandex

import (
	"QuizVoice/internal/config"
	"QuizVoice/internal/service/tts"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	provider        = "yandex"
	defaultEndpoint = "https://tts.api.cloud.yandex.net/speech/v1/tts:synthesize"
	maxAudioBytes   = 50 << 20
)

// Client реализует синтез речи через Yandex SpeechKit.
type Client struct {
	http   *http.Client
	cfg    config.YandexTTSConfig
	logger *zap.SugaredLogger
}

func New(cfg config.YandexTTSConfig, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{http: http.DefaultClient, cfg: cfg, logger: logger}
}

// Synthesize выполняет запрос к Yandex TTS и возвращает MP3.
// Голос из Utterance используется, только если это имя голоса SpeechKit (без цифр);
// иначе берётся голос из конфигурации.
func (c *Client) Synthesize(ctx context.Context, u tts.Utterance) ([]byte, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, fmt.Errorf("yandex tts: %w (set YC_TTS_API_KEY in .env/ENV)", tts.ErrNoCredential)
	}
	if strings.TrimSpace(u.Text) == "" {
		return nil, errors.New("yandex tts: empty input text")
	}
	voice := c.voice(u.VoiceID)

	form := url.Values{}
	form.Set("text", u.Text)
	form.Set("voice", voice)
	form.Set("format", "mp3")
	form.Set("speed", c.cfg.Speed)
	form.Set("emotion", strings.ToLower(c.cfg.Emotion))

	endpoint := strings.TrimSpace(c.cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Api-Key "+c.cfg.APIKey)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &tts.SynthesisError{Provider: provider, VoiceID: voice, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(b) == 0 {
			b = []byte(resp.Status)
		}
		return nil, &tts.SynthesisError{
			Provider: provider,
			VoiceID:  voice,
			Err:      fmt.Errorf("status=%d, body=%s", resp.StatusCode, bytes.TrimSpace(b)),
		}
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, &tts.SynthesisError{Provider: provider, VoiceID: voice, Err: fmt.Errorf("read audio: %w", err)}
	}
	if len(audio) == 0 {
		return nil, &tts.SynthesisError{Provider: provider, VoiceID: voice, Err: errors.New("empty audio in response")}
	}
	c.logger.Debugw("Yandex TTS synthesize completed", "voice", voice, "bytes", len(audio), "took", time.Since(started).String())
	return audio, nil
}

func (c *Client) voice(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.ContainsAny(id, "0123456789") {
		return c.cfg.Voice
	}
	return strings.ToLower(id)
}
