package google

import (
	"QuizVoice/internal/config"
	"QuizVoice/internal/service/tts"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gctts "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"go.uber.org/zap"
)

const provider = "google"

// Client реализует синтез речи через Google Cloud Text-to-Speech.
// Параметры стабильности и стиля ElevenLabs здесь не выражаются и игнорируются.
type Client struct {
	cfg    config.GoogleTTSConfig
	logger *zap.SugaredLogger
}

func New(cfg config.GoogleTTSConfig, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{cfg: cfg, logger: logger}
}

// Synthesize выполняет запрос к Google TTS и возвращает MP3.
func (c *Client) Synthesize(ctx context.Context, u tts.Utterance) ([]byte, error) {
	if strings.TrimSpace(u.Text) == "" {
		return nil, errors.New("google tts: empty input text")
	}

	// Создаём клиента SDK на каждый вызов, ресурсы освобождаются сразу
	ttsClient, err := gctts.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("google tts: %w: %v", tts.ErrNoCredential, err)
	}
	defer ttsClient.Close()

	name, lang := c.voice(u.VoiceID)
	req := &ttspb.SynthesizeSpeechRequest{
		Input: &ttspb.SynthesisInput{InputSource: &ttspb.SynthesisInput_Text{Text: u.Text}},
		Voice: &ttspb.VoiceSelectionParams{
			LanguageCode: lang,
			Name:         name,
		},
		// Только MP3
		AudioConfig: &ttspb.AudioConfig{
			AudioEncoding: ttspb.AudioEncoding_MP3,
			SpeakingRate:  c.cfg.SpeakingRate,
			Pitch:         c.cfg.Pitch,
			VolumeGainDb:  c.cfg.VolumeGainDb,
		},
	}

	started := time.Now()
	resp, err := ttsClient.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, &tts.SynthesisError{Provider: provider, VoiceID: name, Err: err}
	}
	audio := resp.GetAudioContent()
	if len(audio) == 0 {
		return nil, &tts.SynthesisError{Provider: provider, VoiceID: name, Err: errors.New("empty audio in response")}
	}
	c.logger.Debugw("Google TTS synthesize completed", "voice", name, "bytes", len(audio), "took", time.Since(started).String())
	return audio, nil
}

// ListVoices голоса для языка из конфигурации.
func (c *Client) ListVoices(ctx context.Context) ([]tts.Voice, error) {
	ttsClient, err := gctts.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("google tts: %w: %v", tts.ErrNoCredential, err)
	}
	defer ttsClient.Close()

	resp, err := ttsClient.ListVoices(ctx, &ttspb.ListVoicesRequest{LanguageCode: c.cfg.Language})
	if err != nil {
		return nil, fmt.Errorf("google tts voices: %w", err)
	}
	voices := make([]tts.Voice, 0, len(resp.GetVoices()))
	for _, v := range resp.GetVoices() {
		voices = append(voices, tts.Voice{
			ID:       v.GetName(),
			Name:     v.GetName(),
			Language: strings.Join(v.GetLanguageCodes(), ","),
		})
	}
	return voices, nil
}

// voice имя голоса и код языка. Голос вида ru-RU-Wavenet-A задаёт язык своим префиксом;
// всё остальное (напр. ID голоса ElevenLabs) заменяется голосом из конфигурации.
func (c *Client) voice(id string) (name, lang string) {
	if l, ok := LanguageOf(id); ok {
		return id, l
	}
	return c.cfg.Voice, c.cfg.Language
}

// LanguageOf извлекает код языка из имени голоса Google («pl-PL-Standard-A» → «pl-PL»).
func LanguageOf(voice string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(voice), "-", 3)
	if len(parts) < 3 || len(parts[0]) < 2 || len(parts[0]) > 3 || len(parts[1]) != 2 {
		return "", false
	}
	return parts[0] + "-" + parts[1], true
}
