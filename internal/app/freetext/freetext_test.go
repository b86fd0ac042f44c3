package freetext

import (
	"QuizVoice/internal/app/narrator"
	"QuizVoice/internal/service/output"
	"QuizVoice/internal/service/tts"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSynth struct {
	calls []tts.Utterance
	fail  map[string]bool
}

func (f *fakeSynth) Synthesize(_ context.Context, u tts.Utterance) ([]byte, error) {
	f.calls = append(f.calls, u)
	if f.fail[u.RawText] {
		return nil, &tts.SynthesisError{Provider: "fake", VoiceID: u.VoiceID, Err: errors.New("boom")}
	}
	return []byte(u.Text), nil
}

func newRunner(t *testing.T, synth tts.Synthesizer) (*Runner, string) {
	t.Helper()
	base := t.TempDir()
	return New(narrator.New(synth, output.NewStore(base), nil, nil), nil), base
}

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"один\n\nдва", []string{"один", "два"}},
		{"строка 1\nстрока 2\n \t\nтри", []string{"строка 1\nстрока 2", "три"}},
		{"\n\n  \n\n", []string{}},
		{"a\r\n\r\nb", []string{"a", "b"}},
		{"  одиночный  ", []string{"одиночный"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitParagraphs(tt.in), tt.in)
	}
}

func TestCleanPath(t *testing.T) {
	assert.Equal(t, "/tmp/my file.txt", CleanPath(`'/tmp/my\ file.txt' `))
	assert.Equal(t, "/tmp/a b.txt", CleanPath(`"/tmp/a b.txt"`))
	assert.Equal(t, "notes.txt", CleanPath("notes.txt"))
}

func TestText(t *testing.T) {
	synth := &fakeSynth{}
	r, base := newRunner(t, synth)

	path, err := r.Text(context.Background(), "Привет мир", "v")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`voice_\d{4}-\d{2}-\d{2}/audio_\d{2}-\d{2}-\d{2}\.mp3$`), filepath.ToSlash(path))
	assert.True(t, strings.HasPrefix(path, base))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Привет мир.", string(b))
}

func TestText_Empty(t *testing.T) {
	r, _ := newRunner(t, &fakeSynth{})
	_, err := r.Text(context.Background(), "   ", "v")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestFile_Paragraphs(t *testing.T) {
	src := filepath.Join(t.TempDir(), "lecture.txt")
	require.NoError(t, os.WriteFile(src, []byte("Первый абзац\n\nКто здесь\n\n\nТретий"), 0o644))

	synth := &fakeSynth{fail: map[string]bool{"Кто здесь": true}}
	r, base := newRunner(t, synth)

	report, err := r.File(context.Background(), `"`+src+`"`, "v")
	require.NoError(t, err)

	assert.Equal(t, narrator.Report{Written: 2, Failed: 1}, report)
	assert.Len(t, synth.calls, 3)
	assert.Equal(t, "Кто здесь?", synth.calls[1].Text)

	dirs, err := filepath.Glob(filepath.Join(base, "voice_*"))
	require.NoError(t, err)
	require.Len(t, dirs, 1)
	assert.FileExists(t, filepath.Join(dirs[0], "lecture_paragraph_1.mp3"))
	assert.NoFileExists(t, filepath.Join(dirs[0], "lecture_paragraph_2.mp3"))
	assert.FileExists(t, filepath.Join(dirs[0], "lecture_paragraph_3.mp3"))
}

func TestFile_Missing(t *testing.T) {
	r, base := newRunner(t, &fakeSynth{})
	_, err := r.File(context.Background(), filepath.Join(base, "none.txt"), "v")
	assert.ErrorContains(t, err, "file not found")
}

func TestFile_NoParagraphs(t *testing.T) {
	src := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(src, []byte("\n \n"), 0o644))

	synth := &fakeSynth{}
	r, base := newRunner(t, synth)
	_, err := r.File(context.Background(), src, "v")

	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Empty(t, synth.calls)
	entries, _ := os.ReadDir(base)
	assert.Empty(t, entries)
}
