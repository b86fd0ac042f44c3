package elevenlabs

import (
	"QuizVoice/internal/config"
	"QuizVoice/internal/service/tts"
	"bytes"
	"context"
	"encoding/json"
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
	provider      = "elevenlabs"
	maxAudioBytes = 50 << 20
)

// Client синтезирует речь через ElevenLabs text-to-speech API.
type Client struct {
	http   *http.Client
	cfg    config.ElevenLabsConfig
	logger *zap.SugaredLogger
}

func New(cfg config.ElevenLabsConfig, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{http: &http.Client{Timeout: cfg.Timeout}, cfg: cfg, logger: logger}
}

// WithHTTPClient подменяет HTTP-клиент (таймауты, тесты).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Synthesize отправляет один запрос синтеза и возвращает MP3.
func (c *Client) Synthesize(ctx context.Context, u tts.Utterance) ([]byte, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, fmt.Errorf("elevenlabs tts: %w (set ELEVENLABS_API_KEY in .env/ENV)", tts.ErrNoCredential)
	}
	if strings.TrimSpace(u.Text) == "" {
		return nil, errors.New("elevenlabs tts: empty input text")
	}
	if strings.TrimSpace(u.VoiceID) == "" {
		return nil, errors.New("elevenlabs tts: empty voice id")
	}

	body, err := json.Marshal(synthesizeRequest{
		Text:    u.Text,
		ModelID: c.cfg.ModelID,
		VoiceSettings: voiceSettings{
			Stability:       u.Stability,
			SimilarityBoost: tts.SimilarityBoost,
			Style:           u.Style,
			UseSpeakerBoost: tts.SpeakerBoost,
		},
	})
	if err != nil {
		return nil, err
	}

	endpoint := c.endpoint("/v1/text-to-speech/" + url.PathEscape(u.VoiceID))
	if f := strings.TrimSpace(c.cfg.OutputFormat); f != "" {
		endpoint += "?" + url.Values{"output_format": {f}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.cfg.APIKey)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail(u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(u, statusError(resp))
	}

	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, c.fail(u, fmt.Errorf("read audio: %w", err))
	}
	if len(audio) == 0 {
		return nil, c.fail(u, errors.New("empty audio in response"))
	}

	c.logger.Debugw("ElevenLabs TTS synthesize completed",
		"voice", u.VoiceID,
		"chars", len([]rune(u.Text)),
		"bytes", len(audio),
		"stability", u.Stability,
		"style", u.Style,
		"took", time.Since(started).String(),
	)
	return audio, nil
}

type voicesResponse struct {
	Voices []struct {
		VoiceID string            `json:"voice_id"`
		Name    string            `json:"name"`
		Labels  map[string]string `json:"labels"`
	} `json:"voices"`
}

// ListVoices голоса, доступные аккаунту.
func (c *Client) ListVoices(ctx context.Context) ([]tts.Voice, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, fmt.Errorf("elevenlabs tts: %w", tts.ErrNoCredential)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/v1/voices"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("xi-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elevenlabs voices: %w", statusError(resp))
	}

	var payload voicesResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 5<<20)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("elevenlabs voices: decode json response: %w", err)
	}
	voices := make([]tts.Voice, 0, len(payload.Voices))
	for _, v := range payload.Voices {
		lang := v.Labels["language"]
		if lang == "" {
			lang = v.Labels["accent"]
		}
		voices = append(voices, tts.Voice{ID: v.VoiceID, Name: v.Name, Language: lang})
	}
	return voices, nil
}

func (c *Client) endpoint(path string) string {
	base := strings.TrimRight(strings.TrimSpace(c.cfg.Endpoint), "/")
	if base == "" {
		base = "https://api.elevenlabs.io"
	}
	return base + path
}

func (c *Client) fail(u tts.Utterance, err error) error {
	return &tts.SynthesisError{Provider: provider, VoiceID: u.VoiceID, Err: err}
}

func statusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if len(b) == 0 {
		b = []byte(resp.Status)
	}
	return fmt.Errorf("status=%d, body=%s", resp.StatusCode, bytes.TrimSpace(b))
}
