package provider

import (
	"QuizVoice/internal/config"
	"QuizVoice/internal/service/tts"
	"QuizVoice/internal/service/tts/elevenlabs"
	"QuizVoice/internal/service/tts/gemini"
	"QuizVoice/internal/service/tts/google"
	"QuizVoice/internal/service/tts/yandex"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Языки озвучивания, доступные в меню.
const (
	LangRussian    = "ru"
	LangPolish     = "pl"
	LangLithuanian = "lt"
)

// Languages порядок языков в меню.
var Languages = []string{LangRussian, LangPolish, LangLithuanian}

// LanguageNames человекочитаемые названия языков.
var LanguageNames = map[string]string{
	LangRussian:    "Русский",
	LangPolish:     "Polski",
	LangLithuanian: "Lietuvių",
}

var googleLocales = map[string]string{
	LangRussian:    "ru-RU",
	LangPolish:     "pl-PL",
	LangLithuanian: "lt-LT",
}

// Provider выбранный клиент TTS. Lister может быть nil.
type Provider struct {
	Name   string
	Synth  tts.Synthesizer
	Lister tts.VoiceLister
}

// New создаёт клиента для cfg.TTSService и оборачивает его ограничителем частоты запросов.
func New(cfg *config.Config, logger *zap.SugaredLogger) (*Provider, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	service := cfg.Service()

	var p *Provider
	switch service {
	case config.ServiceElevenLabs:
		c := elevenlabs.New(cfg.ElevenLabs, logger)
		p = &Provider{Synth: c, Lister: c}
	case config.ServiceGoogle:
		// SDK берёт ключ сервисного аккаунта из окружения
		if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" && cfg.GoogleTTS.CredentialsPath != "" {
			_ = os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", cfg.GoogleTTS.CredentialsPath)
		}
		c := google.New(cfg.GoogleTTS, logger)
		p = &Provider{Synth: c, Lister: c}
	case config.ServiceYandex:
		p = &Provider{Synth: yandex.New(cfg.YandexTTS, logger)}
	case config.ServiceGemini:
		p = &Provider{Synth: gemini.New(cfg.GeminiTTS, logger)}
	default:
		return nil, fmt.Errorf("unknown tts service %q", cfg.TTSService)
	}
	p.Name = service
	p.Synth = tts.NewThrottled(p.Synth, cfg.MinSynthInterval)

	logger.Infow("TTS selected", "service", service, "min_interval", cfg.MinSynthInterval.String())
	return p, nil
}

// VoiceFor голос для языка с учётом выбранного сервиса. Явно заданный голос (--voice) имеет приоритет.
// Yandex и Gemini говорят на языке из своей конфигурации, выбор языка на них не влияет.
func VoiceFor(cfg *config.Config, lang string) string {
	if v := strings.TrimSpace(cfg.Voices.Default); v != "" {
		return v
	}
	switch cfg.Service() {
	case config.ServiceGoogle:
		if loc, ok := googleLocales[lang]; ok {
			return loc + "-Standard-A"
		}
		return cfg.GoogleTTS.Voice
	case config.ServiceYandex:
		return cfg.YandexTTS.Voice
	case config.ServiceGemini:
		return cfg.GeminiTTS.VoiceName
	}
	switch lang {
	case LangPolish:
		return cfg.Voices.Polish
	case LangLithuanian:
		return cfg.Voices.Lithuanian
	default:
		return cfg.Voices.Russian
	}
}

// DefaultVoice голос для запусков без меню (русский).
func DefaultVoice(cfg *config.Config) string { return VoiceFor(cfg, LangRussian) }
