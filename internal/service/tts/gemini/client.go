package gemini

import (
	"QuizVoice/internal/config"
	"QuizVoice/internal/service/tts"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
)

const (
	provider = "gemini"
	// По умолчанию используем Cloud TTS v1beta1 text:synthesize, совместимый с Generative AI TTS.
	defaultEndpoint = "https://texttospeech.googleapis.com/v1beta1/text:synthesize"
	cloudScope      = "https://www.googleapis.com/auth/cloud-platform"
)

// Client реализует синтез речи через Cloud Text-to-Speech: Gemini-TTS.
type Client struct {
	http   *http.Client // nil: OAuth2-клиент ADC создаётся на каждый вызов
	cfg    config.GeminiTTSConfig
	logger *zap.SugaredLogger
}

func New(cfg config.GeminiTTSConfig, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{cfg: cfg, logger: logger}
}

// WithHTTPClient подменяет HTTP-клиент; авторизацию тогда обеспечивает он сам.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

type requestPayload struct {
	Input struct {
		Prompt string `json:"prompt,omitempty"`
		Text   string `json:"text,omitempty"`
	} `json:"input"`
	Voice struct {
		ModelName    string `json:"modelName,omitempty"`
		LanguageCode string `json:"languageCode,omitempty"`
		VoiceName    string `json:"name,omitempty"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding,omitempty"`
		SpeakingRate  float64 `json:"speakingRate,omitempty"`
	} `json:"audioConfig"`
}

type jsonAudioResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize выполняет запрос к Gemini-TTS и возвращает MP3.
func (c *Client) Synthesize(ctx context.Context, u tts.Utterance) ([]byte, error) {
	// Cloud TTS ожидает непустой text, иначе 400
	if strings.TrimSpace(u.Text) == "" {
		return nil, errors.New("gemini tts: empty input text")
	}

	hc := c.http
	if hc == nil {
		var err error
		if hc, err = google.DefaultClient(ctx, cloudScope); err != nil {
			return nil, fmt.Errorf("gemini tts: %w (set GOOGLE_APPLICATION_CREDENTIALS to a service account JSON): %v", tts.ErrNoCredential, err)
		}
	}

	voice := c.voice(u.VoiceID)
	var rp requestPayload
	rp.Input.Text = u.Text
	// Пустой промпт не отправляем
	rp.Input.Prompt = strings.TrimSpace(c.cfg.Prompt)
	rp.Voice.ModelName = strings.TrimSpace(c.cfg.ModelName)
	rp.Voice.LanguageCode = strings.TrimSpace(c.cfg.Language)
	rp.Voice.VoiceName = voice
	rp.AudioConfig.AudioEncoding = "MP3"
	rp.AudioConfig.SpeakingRate = c.cfg.SpeakingRate

	body, err := json.Marshal(&rp)
	if err != nil {
		return nil, err
	}
	endpoint := strings.TrimSpace(c.cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		return nil, c.fail(voice, err)
	}
	defer resp.Body.Close()

	c.logger.Debugw("Gemini TTS request completed", "status", resp.StatusCode, "took", time.Since(started).String())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(b) == 0 {
			b = []byte(resp.Status)
		}
		return nil, c.fail(voice, fmt.Errorf("status=%d, body=%s", resp.StatusCode, strings.TrimSpace(string(b))))
	}

	// JSON с base64 полем audioContent
	var jr jsonAudioResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 20<<20)).Decode(&jr); err != nil {
		return nil, c.fail(voice, fmt.Errorf("decode json response: %w", err))
	}
	if strings.TrimSpace(jr.AudioContent) == "" {
		return nil, c.fail(voice, errors.New("empty audioContent in response"))
	}
	data, err := base64.StdEncoding.DecodeString(jr.AudioContent)
	if err != nil {
		return nil, c.fail(voice, fmt.Errorf("base64 decode: %w", err))
	}
	return data, nil
}

// voice голоса Gemini называются одним словом (Kore, Charon); ID других сервисов заменяются голосом из конфигурации.
func (c *Client) voice(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return c.cfg.VoiceName
	}
	for _, r := range id {
		if !unicode.IsLetter(r) {
			return c.cfg.VoiceName
		}
	}
	return id
}

func (c *Client) fail(voice string, err error) error {
	return &tts.SynthesisError{Provider: provider, VoiceID: voice, Err: err}
}
