package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store пишет аудио в датированные папки внутри базового каталога.
type Store struct {
	baseDir string
	now     func() time.Time
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

// Now текущее время по часам хранилища.
func (s *Store) Now() time.Time { return s.now() }

// EnsureFolder создаёт (если нужно) папку прогона и возвращает её путь.
func (s *Store) EnsureFolder(label string) (string, error) {
	dir := filepath.Join(s.baseDir, FolderName(label, s.now()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output folder: %w", err)
	}
	return dir, nil
}

// Save записывает файл, существующий файл перезаписывается.
func (s *Store) Save(folder, name string, audio []byte) (string, error) {
	path := filepath.Join(folder, name)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}
