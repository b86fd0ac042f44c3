package sheet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestExportURL(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{
			"sharing link",
			"https://docs.google.com/spreadsheets/d/18oK50U01PLDFIUYM2rDGwMOujmDBNdOH_eA1ogzj-ko/edit?usp=sharing",
			"https://docs.google.com/spreadsheets/d/18oK50U01PLDFIUYM2rDGwMOujmDBNdOH_eA1ogzj-ko/export?format=xlsx",
		},
		{
			"plain edit link",
			"https://docs.google.com/spreadsheets/d/abc/edit",
			"https://docs.google.com/spreadsheets/d/abc/export?format=xlsx",
		},
		{
			"gid kept, fragment dropped",
			"https://docs.google.com/spreadsheets/d/abc/edit?gid=42#gid=42",
			"https://docs.google.com/spreadsheets/d/abc/export?format=xlsx&gid=42",
		},
		{
			"without scheme",
			"docs.google.com/spreadsheets/d/abc",
			"https://docs.google.com/spreadsheets/d/abc/export?format=xlsx",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExportURL(tt.link)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExportURL_InvalidLink(t *testing.T) {
	for _, link := range []string{"", "https://example.com/sheet", "https://docs.google.com/spreadsheets/d/", "/d/abc"} {
		_, err := ExportURL(link)
		assert.ErrorIs(t, err, ErrInvalidLink, link)
	}
}

func TestDocumentIDAndEditURL(t *testing.T) {
	link := "https://docs.google.com/spreadsheets/d/doc-1/edit?usp=sharing#gid=0"

	id, err := DocumentID(link)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", id)

	edit, err := EditURL(link)
	require.NoError(t, err)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/doc-1/edit", edit)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		page string
		want string
	}{
		{"<html><head><title>Квиз №5 - Google Таблицы</title></head></html>", "Квиз №5"},
		{"<TITLE>Pub Quiz - Google Sheets</TITLE>", "Pub Quiz"},
		{"<title>Tom &amp; Jerry</title>", "Tom & Jerry"},
		{"<title> - Google Sheets</title>", DefaultTitle},
		{"<html>no title</html>", DefaultTitle},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractTitle(tt.page))
	}
}

func newWorkbook(t *testing.T, tab string, cells map[string]string) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	_, err := f.NewSheet(tab)
	require.NoError(t, err)
	for cell, v := range cells {
		require.NoError(t, f.SetCellValue(tab, cell, v))
	}
	return f
}

func TestOpenWorkbook(t *testing.T) {
	f := newWorkbook(t, "Верстка", map[string]string{
		"J3": "Столица Литвы",
		"M3": "Это",
		"N3": "Вильнюс",
	})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	g, err := OpenWorkbook(buf, "Верстка")
	require.NoError(t, err)

	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, "Столица Литвы", g.Cell(2, 9))
	assert.Equal(t, "Вильнюс", g.Cell(2, 13))
}

func TestOpenWorkbook_TabNotFound(t *testing.T) {
	f := newWorkbook(t, "Ответы", map[string]string{"A1": "x"})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = OpenWorkbook(buf, "Верстка")

	var tabErr *TabNotFoundError
	require.True(t, errors.As(err, &tabErr))
	assert.Equal(t, "Верстка", tabErr.Tab)
	assert.ElementsMatch(t, []string{"Sheet1", "Ответы"}, tabErr.Available)
	assert.Contains(t, err.Error(), "Ответы")
}

func TestFetcherLoad_Remote(t *testing.T) {
	f := newWorkbook(t, "Верстка", map[string]string{"J3": "Вопрос", "N3": "Ответ"})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	payload := buf.Bytes()

	mux := http.NewServeMux()
	mux.HandleFunc("/spreadsheets/d/doc42/export", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "xlsx", r.URL.Query().Get("format"))
		_, _ = w.Write(payload)
	})
	mux.HandleFunc("/spreadsheets/d/doc42/edit", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><title>Весенний квиз - Google Таблицы</title></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fetcher := NewFetcher(srv.Client(), zap.NewNop().Sugar())
	doc, err := fetcher.Load(context.Background(), srv.URL+"/spreadsheets/d/doc42/edit?usp=sharing", "Верстка")
	require.NoError(t, err)

	assert.Equal(t, "Весенний квиз", doc.Title)
	assert.Equal(t, "Вопрос", doc.Grid.Cell(2, 9))
	assert.Equal(t, "Ответ", doc.Grid.Cell(2, 13))
}

func TestFetcherLoad_TitleFailureIsNotFatal(t *testing.T) {
	f := newWorkbook(t, "Верстка", map[string]string{"J3": "Вопрос"})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	payload := buf.Bytes()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/d/x/export" {
			_, _ = w.Write(payload)
			return
		}
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	doc, err := NewFetcher(srv.Client(), zap.NewNop().Sugar()).Load(context.Background(), srv.URL+"/d/x/edit", "Верстка")
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, doc.Title)
}

func TestFetcherLoad_DownloadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "login required", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewFetcher(srv.Client(), zap.NewNop().Sugar()).Load(context.Background(), srv.URL+"/d/x/edit", "Верстка")
	require.Error(t, err)
	assert.ErrorContains(t, err, "status=401")
	assert.ErrorContains(t, err, "login required")
}

func TestFetcherLoad_InvalidLink(t *testing.T) {
	_, err := NewFetcher(nil, zap.NewNop().Sugar()).Load(context.Background(), "https://example.com/quiz", "Верстка")
	assert.ErrorIs(t, err, ErrInvalidLink)
}

func TestFetcherLoad_LocalFile(t *testing.T) {
	f := newWorkbook(t, "Верстка", map[string]string{"J3": "Локальный вопрос"})
	path := filepath.Join(t.TempDir(), "Финал.xlsx")
	require.NoError(t, f.SaveAs(path))

	doc, err := NewFetcher(nil, zap.NewNop().Sugar()).Load(context.Background(), path, "Верстка")
	require.NoError(t, err)

	assert.Equal(t, "Финал", doc.Title)
	assert.Equal(t, "Локальный вопрос", doc.Grid.Cell(2, 9))
}
