package workbench

import (
	"fmt"

	"github.com/lijianqiao/datamerge/pkg/cache"
	"github.com/lijianqiao/datamerge/pkg/readers"
)

// Session - состояние одного сеанса объединения: загруженные файлы,
// флаги предобработки и выбор колонок для экспорта.
// Сессия пассивна: все операции выполняет Workbench.
type Session struct {
	// Files - загруженные файлы в порядке добавления
	Files []readers.File

	// Clean - удалять полностью пустые строки и обрезать пробелы
	Clean bool

	// Deduplicate - удалять точные дубликаты строк
	Deduplicate bool

	// SourceColumn - имя колонки-источника в результате.
	// Пустое значение отключает пометку строк.
	SourceColumn string

	// SelectedColumns - колонки для экспорта. Пустой список означает все.
	SelectedColumns []string
}

// NewSession создает сессию с настройками по умолчанию из конфигурации
func (c *Config) NewSession(files ...readers.File) *Session {
	s := &Session{
		Files:        files,
		SourceColumn: c.Merge.SourceColumn,
	}
	for _, step := range c.Steps {
		switch step {
		case "clean":
			s.Clean = true
		case "deduplicate":
			s.Deduplicate = true
		}
	}
	return s
}

// AddFile добавляет файл в сессию
func (s *Session) AddFile(file readers.File) {
	s.Files = append(s.Files, file)
}

// Fingerprint строит ключ кеша сессии: упорядоченные идентификаторы
// файлов, колонка-источник и флаги предобработки. Выбор колонок для
// экспорта на результат объединения не влияет и в ключ не входит.
func (s *Session) Fingerprint() string {
	tokens := make([]string, 0, len(s.Files)+1)
	for _, file := range s.Files {
		tokens = append(tokens, fileToken(file))
	}
	tokens = append(tokens, s.SourceColumn)
	return cache.Fingerprint(tokens, s.Clean, s.Deduplicate)
}

// fileToken возвращает стабильный идентификатор файла.
// Если загрузчик не присвоил токен, используется имя с размером.
func fileToken(file readers.File) string {
	if file.Token != "" {
		return file.Token
	}
	return fmt.Sprintf("%s:%d", file.Name, file.Size)
}
