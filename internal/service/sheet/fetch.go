package sheet

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
)

// DefaultTitle подпись папки, если название документа узнать не удалось.
const DefaultTitle = "GoogleSheet"

const (
	maxWorkbookBytes = 50 << 20
	maxTitlePage     = 2 << 20
	readonlyScope    = "https://www.googleapis.com/auth/drive.readonly"
)

// ErrInvalidLink ссылка не похожа на ссылку Google Таблицы (нет сегмента /d/).
var ErrInvalidLink = errors.New("invalid google sheet link")

// TabNotFoundError в книге нет запрошенного листа.
type TabNotFoundError struct {
	Tab       string
	Available []string
}

func (e *TabNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found, available sheets: %s", e.Tab, strings.Join(e.Available, ", "))
}

// Document загруженный лист и название книги.
type Document struct {
	Title string
	Grid  *Grid
}

var (
	titleRe       = regexp.MustCompile(`(?is)<title>(.+?)</title>`)
	titleSuffixes = []string{" - Google Таблицы", " - Google Sheets"}
)

// Fetcher скачивает таблицу в формате xlsx и разбирает нужный лист.
type Fetcher struct {
	http   *http.Client
	logger *zap.SugaredLogger
}

func NewFetcher(hc *http.Client, logger *zap.SugaredLogger) *Fetcher {
	if hc == nil {
		hc = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Fetcher{http: hc, logger: logger}
}

// NewHTTPClient HTTP-клиент для скачивания. С useADC используется OAuth2 через Application Default Credentials,
// что позволяет читать приватные таблицы сервисным аккаунтом.
func NewHTTPClient(ctx context.Context, useADC bool, timeout time.Duration) (*http.Client, error) {
	if !useADC {
		return &http.Client{Timeout: timeout}, nil
	}
	hc, err := google.DefaultClient(ctx, readonlyScope)
	if err != nil {
		return nil, fmt.Errorf("sheet: ADC credentials not found: %w", err)
	}
	hc.Timeout = timeout
	return hc, nil
}

// Load открывает лист tab по ссылке на Google Таблицу или по пути к локальному .xlsx.
func (f *Fetcher) Load(ctx context.Context, link, tab string) (*Document, error) {
	link = strings.TrimSpace(link)
	if isLocalWorkbook(link) {
		grid, err := OpenWorkbookFile(link, tab)
		if err != nil {
			return nil, err
		}
		title := strings.TrimSuffix(filepath.Base(link), filepath.Ext(link))
		return &Document{Title: title, Grid: grid}, nil
	}

	exportURL, err := ExportURL(link)
	if err != nil {
		return nil, err
	}

	f.logger.Infow("Скачивание таблицы (XLSX)...", "url", exportURL)
	started := time.Now()
	grid, err := f.download(ctx, exportURL, tab)
	if err != nil {
		return nil, err
	}
	f.logger.Infow("Таблица загружена", "rows", grid.Rows(), "columns", grid.Width(), "took", time.Since(started).String())

	return &Document{Title: f.title(ctx, link), Grid: grid}, nil
}

func (f *Fetcher) download(ctx context.Context, exportURL, tab string) (*Grid, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheet: download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(b) == 0 {
			b = []byte(resp.Status)
		}
		return nil, fmt.Errorf("sheet: download error: status=%d, body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	return OpenWorkbook(io.LimitReader(resp.Body, maxWorkbookBytes), tab)
}

// title название документа со страницы редактирования. Ошибки не фатальны.
func (f *Fetcher) title(ctx context.Context, link string) string {
	pageURL, err := EditURL(link)
	if err != nil {
		return DefaultTitle
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return DefaultTitle
	}
	resp, err := f.http.Do(req)
	if err != nil {
		f.logger.Warnw("Не удалось получить название документа", "error", err)
		return DefaultTitle
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		f.logger.Warnw("Не удалось получить название документа", "status", resp.StatusCode)
		return DefaultTitle
	}

	page, err := io.ReadAll(io.LimitReader(resp.Body, maxTitlePage))
	if err != nil {
		f.logger.Warnw("Не удалось прочитать страницу документа", "error", err)
		return DefaultTitle
	}
	return ExtractTitle(string(page))
}

// ExtractTitle достаёт <title> и убирает суффикс « - Google Sheets».
func ExtractTitle(page string) string {
	m := titleRe.FindStringSubmatch(page)
	if m == nil {
		return DefaultTitle
	}
	title := html.UnescapeString(m[1])
	for _, s := range titleSuffixes {
		title = strings.ReplaceAll(title, s, "")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return DefaultTitle
	}
	return title
}

// OpenWorkbook разбирает xlsx из r и возвращает лист tab.
func OpenWorkbook(r io.Reader, tab string) (*Grid, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("sheet: open xlsx: %w", err)
	}
	defer wb.Close()
	return readTab(wb, tab)
}

// OpenWorkbookFile то же, что OpenWorkbook, для файла на диске.
func OpenWorkbookFile(path, tab string) (*Grid, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("sheet: open xlsx: %w", err)
	}
	defer wb.Close()
	return readTab(wb, tab)
}

func readTab(wb *excelize.File, tab string) (*Grid, error) {
	available := wb.GetSheetList()
	found := false
	for _, name := range available {
		if name == tab {
			found = true
			break
		}
	}
	if !found {
		return nil, &TabNotFoundError{Tab: tab, Available: available}
	}
	rows, err := wb.GetRows(tab)
	if err != nil {
		return nil, fmt.Errorf("sheet: read rows of %q: %w", tab, err)
	}
	return NewGrid(rows), nil
}

// DocumentID идентификатор документа: сегмент пути после /d/.
func DocumentID(link string) (string, error) {
	u, err := parseLink(link)
	if err != nil {
		return "", err
	}
	_, id, err := splitDocPath(u.Path)
	return id, err
}

// ExportURL ссылка на выгрузку книги в xlsx: /edit → /export, format=xlsx.
// Параметр gid сохраняется, usp и фрагмент отбрасываются.
func ExportURL(link string) (string, error) {
	return rewriteLink(link, "/export", func(q url.Values) {
		q.Del("usp")
		q.Set("format", "xlsx")
	})
}

// EditURL ссылка на страницу редактирования документа (из неё берётся название).
func EditURL(link string) (string, error) {
	return rewriteLink(link, "/edit", func(q url.Values) {
		for k := range q {
			delete(q, k)
		}
	})
}

func rewriteLink(link, action string, query func(url.Values)) (string, error) {
	u, err := parseLink(link)
	if err != nil {
		return "", err
	}
	prefix, id, err := splitDocPath(u.Path)
	if err != nil {
		return "", err
	}
	u.Path = prefix + id + action
	u.RawPath = ""
	q := u.Query()
	query(q)
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String(), nil
}

func parseLink(link string) (*url.URL, error) {
	link = strings.TrimSpace(link)
	if !strings.Contains(link, "/d/") {
		return nil, ErrInvalidLink
	}
	if !strings.Contains(link, "://") {
		link = "https://" + link
	}
	u, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLink, err)
	}
	if u.Host == "" {
		return nil, ErrInvalidLink
	}
	return u, nil
}

// splitDocPath делит путь на префикс до id включительно с /d/ и сам id.
func splitDocPath(p string) (prefix, id string, err error) {
	i := strings.Index(p, "/d/")
	if i < 0 {
		return "", "", ErrInvalidLink
	}
	prefix = p[:i+len("/d/")]
	id, _, _ = strings.Cut(p[len(prefix):], "/")
	if id == "" {
		return "", "", ErrInvalidLink
	}
	return prefix, id, nil
}

func isLocalWorkbook(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
