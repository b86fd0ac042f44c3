package main

import (
	"QuizVoice/internal/config"
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	c := &cli{cfg: cfg}
	root := c.rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func elevenLabsStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/voices":
			_, _ = w.Write([]byte(`{"voices":[{"voice_id":"yfwJfbXlpnn3qMSjFykp","name":"ANDRew","labels":{"language":"ru"}}]}`))
		case strings.HasPrefix(r.URL.Path, "/v1/text-to-speech/"):
			_, _ = w.Write([]byte("mp3-bytes"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVoices_ListsElevenLabs(t *testing.T) {
	cfg := config.Defaults()
	cfg.ElevenLabs.Endpoint = elevenLabsStub(t).URL
	cfg.ElevenLabs.APIKey = "k"

	out, err := execute(t, cfg, "voices")
	require.NoError(t, err)
	assert.Contains(t, out, "yfwJfbXlpnn3qMSjFykp")
	assert.Contains(t, out, "ANDRew")
}

func TestVoices_YandexCannotList(t *testing.T) {
	_, err := execute(t, config.Defaults(), "voices", "--tts-service", "yandex")
	assert.ErrorContains(t, err, "cannot list voices")
}

func TestRun_TextArgument(t *testing.T) {
	cfg := config.Defaults()
	cfg.ElevenLabs.Endpoint = elevenLabsStub(t).URL
	cfg.ElevenLabs.APIKey = "k"
	dir := t.TempDir()

	out, err := execute(t, cfg, "Кто здесь", "--output-dir", dir)
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(path, dir))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(b))
}

func TestRun_NoCredential(t *testing.T) {
	cfg := config.Defaults()
	cfg.ElevenLabs.APIKey = ""

	_, err := execute(t, cfg, "текст", "--output-dir", t.TempDir())
	assert.ErrorContains(t, err, "credential")
}

func TestRun_InvalidConfig(t *testing.T) {
	_, err := execute(t, config.Defaults(), "текст", "--rounds", "0")
	assert.ErrorContains(t, err, "must be positive")
}
