package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Поддерживаемые сервисы синтеза речи.
const (
	ServiceElevenLabs = "elevenlabs"
	ServiceGoogle     = "google"
	ServiceYandex     = "yandex"
	ServiceGemini     = "gemini"
)

type Config struct {
	DebugMode  bool   `env:"DEBUG_MODE"`  // Режим дебага (уровень логов debug)
	TTSService string `env:"TTS_SERVICE"` // elevenlabs|google|yandex|gemini, по умолчанию elevenlabs

	ElevenLabs ElevenLabsConfig // Основной провайдер
	GoogleTTS  GoogleTTSConfig  // Альтернатива: Google Cloud Text-to-Speech
	YandexTTS  YandexTTSConfig  // Альтернатива: Yandex SpeechKit
	GeminiTTS  GeminiTTSConfig  // Альтернатива: Cloud TTS с моделями Gemini-TTS

	Sheet  SheetConfig
	Output OutputConfig
	Voices VoicesConfig

	// Минимальный интервал между запросами синтеза; 0 без ограничений
	MinSynthInterval time.Duration `env:"TTS_MIN_INTERVAL"`

	// Воспроизведение
	Play           bool    `env:"PLAY"`             // Проигрывать каждый записанный файл
	PlayerVolumeDB float64 `env:"PLAYER_VOLUME_DB"` // Громкость плеера в dB (отрицательные тише)
	DoneSoundPath  string  `env:"DONE_SOUND_PATH"`  // Звук по окончании пакетного прогона; пусто: без звука
}

// ElevenLabsConfig конфигурация синтеза через ElevenLabs.
type ElevenLabsConfig struct {
	APIKey       string        `env:"ELEVENLABS_API_KEY"` // Без ключа любой синтез завершится ошибкой
	Endpoint     string        `env:"ELEVENLABS_ENDPOINT"`
	ModelID      string        `env:"ELEVENLABS_MODEL_ID"`
	OutputFormat string        `env:"ELEVENLABS_OUTPUT_FORMAT"` // напр. mp3_44100_128
	Timeout      time.Duration `env:"ELEVENLABS_TIMEOUT"`       // Таймаут одного запроса синтеза
}

// GoogleTTSConfig конфигурация для синтеза речи через Google Cloud Text-to-Speech.
type GoogleTTSConfig struct {
	// Путь к файлу ключа сервисного аккаунта. Фактически читается из ENV GOOGLE_APPLICATION_CREDENTIALS.
	CredentialsPath string  `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	Language        string  `env:"GOOGLE_TTS_LANGUAGE"`
	Voice           string  `env:"GOOGLE_TTS_VOICE"`
	SpeakingRate    float64 `env:"GOOGLE_TTS_SPEAKING_RATE"`
	Pitch           float64 `env:"GOOGLE_TTS_PITCH"`
	VolumeGainDb    float64 `env:"GOOGLE_TTS_VOLUME_DB"`
}

// YandexTTSConfig конфигурация для синтеза речи через Yandex SpeechKit.
type YandexTTSConfig struct {
	APIKey   string `env:"YC_TTS_API_KEY"`
	Endpoint string `env:"YC_TTS_ENDPOINT"`
	Voice    string `env:"YC_TTS_VOICE"` // filipp, jane, ermil, ...
	Speed    string `env:"YC_TTS_SPEED"`
	Emotion  string `env:"YC_TTS_EMOTION"` // neutral|good|evil
}

// GeminiTTSConfig синтез через Cloud Text-to-Speech моделями Gemini-TTS.
// Авторизация только через Application Default Credentials.
type GeminiTTSConfig struct {
	Endpoint     string  `env:"GEMINI_TTS_ENDPOINT"`
	ModelName    string  `env:"GEMINI_TTS_MODEL"`
	Language     string  `env:"GEMINI_TTS_LANGUAGE"`
	VoiceName    string  `env:"GEMINI_TTS_VOICE"`  // Kore, Charon, ...
	Prompt       string  `env:"GEMINI_TTS_PROMPT"` // Подсказка по манере чтения, напр. «Читай как ведущий квиза»
	SpeakingRate float64 `env:"GEMINI_TTS_SPEAKING_RATE"`
}

// SheetConfig описывает источник таблицы и её фиксированную раскладку.
type SheetConfig struct {
	TabName        string        `env:"SHEET_TAB"`
	Rounds         int           `env:"SHEET_ROUNDS"`
	Questions      int           `env:"SHEET_QUESTIONS"`
	HeaderPrefixes []string      `env:"SHEET_HEADER_PREFIXES" envSeparator:";"` // Строки-заголовки туров, пропускаются при поиске
	Timeout        time.Duration `env:"SHEET_TIMEOUT"`
	UseADC         bool          `env:"SHEET_USE_ADC"` // Ходить за приватными таблицами с Application Default Credentials

	QuestionColumn int `env:"SHEET_QUESTION_COLUMN"` // J
	IntroColumn    int `env:"SHEET_INTRO_COLUMN"`    // M
	AnswerColumn   int `env:"SHEET_ANSWER_COLUMN"`   // N
	StartRow       int `env:"SHEET_START_ROW"`       // Третья строка
}

// OutputConfig куда складывать результат.
type OutputConfig struct {
	BaseDir string `env:"OUTPUT_DIR"` // По умолчанию ~/Desktop
}

// VoicesConfig голоса для выбора языка в интерактивном меню.
type VoicesConfig struct {
	Default    string `env:"VOICE_DEFAULT"` // Явно заданный голос; пусто: голос сервиса для русского языка
	Russian    string `env:"VOICE_RU"`
	Polish     string `env:"VOICE_PL"`
	Lithuanian string `env:"VOICE_LT"`
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		TTSService: ServiceElevenLabs,
		ElevenLabs: ElevenLabsConfig{
			Endpoint:     "https://api.elevenlabs.io",
			ModelID:      "eleven_multilingual_v2",
			OutputFormat: "mp3_44100_128",
			Timeout:      60 * time.Second,
		},
		GoogleTTS: GoogleTTSConfig{
			CredentialsPath: "service-account.json",
			Language:        "ru-RU",
			Voice:           "ru-RU-Standard-A",
			SpeakingRate:    1.0,
		},
		YandexTTS: YandexTTSConfig{
			Endpoint: "https://tts.api.cloud.yandex.net/speech/v1/tts:synthesize",
			Voice:    "filipp",
			Speed:    "1.0",
			Emotion:  "neutral",
		},
		GeminiTTS: GeminiTTSConfig{
			Endpoint:     "https://texttospeech.googleapis.com/v1beta1/text:synthesize",
			ModelName:    "gemini-2.5-flash-tts",
			Language:     "ru-RU",
			VoiceName:    "Charon",
			SpeakingRate: 1.0,
		},
		Sheet: SheetConfig{
			TabName:        "Верстка",
			Rounds:         7,
			Questions:      7,
			HeaderPrefixes: []string{"тур", "round"},
			Timeout:        60 * time.Second,
			QuestionColumn: 9,
			IntroColumn:    12,
			AnswerColumn:   13,
			StartRow:       2,
		},
		Output: OutputConfig{
			BaseDir: desktopDir(),
		},
		Voices: VoicesConfig{
			Russian:    "yfwJfbXlpnn3qMSjFykp", // ANDRew
			Polish:     "eJLcDj3fKW65V8WhDqPI",
			Lithuanian: "pNInz6obpgDQGcFmaJgB", // Adam
		},
	}
}

// NewConfig загружает конфигурацию приложения: дефолты, затем .env и окружение.
// Флаги CLI накладываются отдельно через BindFlags.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

// BindFlags регистрирует флаги, перекрывающие значения из окружения.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.DebugMode, "debug-mode", c.DebugMode, "включить режим дебага")
	fs.StringVar(&c.TTSService, "tts-service", c.TTSService, "сервис TTS: elevenlabs|google|yandex|gemini")
	fs.StringVarP(&c.Voices.Default, "voice", "v", c.Voices.Default, "ID голоса (для google имя голоса, напр. ru-RU-Wavenet-A)")
	fs.StringVar(&c.ElevenLabs.ModelID, "model", c.ElevenLabs.ModelID, "ID модели ElevenLabs")
	fs.StringVar(&c.Sheet.TabName, "tab", c.Sheet.TabName, "имя листа таблицы")
	fs.IntVar(&c.Sheet.Rounds, "rounds", c.Sheet.Rounds, "количество туров")
	fs.IntVar(&c.Sheet.Questions, "questions", c.Sheet.Questions, "вопросов в туре")
	fs.BoolVar(&c.Sheet.UseADC, "sheet-adc", c.Sheet.UseADC, "скачивать таблицу с Application Default Credentials")
	fs.StringVar(&c.Output.BaseDir, "output-dir", c.Output.BaseDir, "каталог, в котором создаются папки voice_*")
	fs.DurationVar(&c.MinSynthInterval, "min-interval", c.MinSynthInterval, "минимальный интервал между запросами синтеза, напр. 500ms")
	fs.BoolVar(&c.Play, "play", c.Play, "проигрывать каждый записанный файл")
}

// Validate проверяет значения, с которыми работа невозможна.
func (c *Config) Validate() error {
	switch c.Service() {
	case ServiceElevenLabs, ServiceGoogle, ServiceYandex, ServiceGemini:
	default:
		return fmt.Errorf("config: unknown tts service %q", c.TTSService)
	}
	if c.Sheet.Rounds <= 0 || c.Sheet.Questions <= 0 {
		return errors.New("config: rounds and questions must be positive")
	}
	if c.Sheet.QuestionColumn < 0 || c.Sheet.IntroColumn < 0 || c.Sheet.AnswerColumn < 0 || c.Sheet.StartRow < 0 {
		return errors.New("config: sheet layout indices must not be negative")
	}
	if strings.TrimSpace(c.Output.BaseDir) == "" {
		return errors.New("config: empty output dir")
	}
	return nil
}

// Service возвращает нормализованное имя выбранного сервиса TTS. Пустое значение означает elevenlabs.
func (c *Config) Service() string {
	s := strings.ToLower(strings.TrimSpace(c.TTSService))
	if s == "" {
		return ServiceElevenLabs
	}
	return s
}

// desktopDir рабочий стол пользователя; если домашний каталог неизвестен, текущий.
func desktopDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Desktop")
}
