package workbench

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lijianqiao/datamerge/pkg/audit"
	"github.com/lijianqiao/datamerge/pkg/clean"
)

// Config - конфигурация рабочей области объединения
type Config struct {
	// MaxFileSizeMB - лимит размера загружаемого файла в мегабайтах
	MaxFileSizeMB int `yaml:"max_file_size_mb"`

	// NullMarkers - строковые значения, интерпретируемые как null при
	// чтении. Пустой список означает маркеры по умолчанию.
	NullMarkers []string `yaml:"null_markers"`

	// Steps - шаги предобработки по умолчанию для новых сессий
	// (имена из фабрики шагов: clean, deduplicate)
	Steps []string `yaml:"steps"`

	// Merge - параметры объединения
	Merge MergeConfig `yaml:"merge"`

	// Output - параметры экспорта
	Output OutputConfig `yaml:"output"`

	// Cache - параметры кеша результатов
	Cache CacheConfig `yaml:"cache"`

	// Audit - параметры журнала операций
	Audit AuditConfig `yaml:"audit"`
}

// MergeConfig - параметры объединения таблиц
type MergeConfig struct {
	// SourceColumn - имя колонки-источника. Пустое значение отключает
	// пометку строк именем исходной таблицы.
	SourceColumn string `yaml:"source_column"`
}

// OutputConfig - параметры экспорта результата
type OutputConfig struct {
	// Sheet - имя листа в итоговом XLSX
	Sheet string `yaml:"sheet"`

	// Compression - упаковать результат в zstd
	Compression bool `yaml:"compression"`

	// CompressionLevel - уровень zstd (1-22)
	CompressionLevel int `yaml:"compression_level"`
}

// CacheConfig - параметры кеша результатов объединения
type CacheConfig struct {
	// Capacity - количество закешированных результатов
	Capacity int `yaml:"capacity"`
}

// AuditConfig - параметры журнала операций
type AuditConfig struct {
	// Enabled - включить журнал
	Enabled bool `yaml:"enabled"`

	// Path - файл журнала. Пустое значение означает stderr.
	Path string `yaml:"path"`

	// Format - формат записей: text или json
	Format string `yaml:"format"`
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		MaxFileSizeMB: 100,
		Output: OutputConfig{
			Sheet:            "Sheet1",
			CompressionLevel: 3,
		},
		Cache: CacheConfig{
			Capacity: 16,
		},
		Audit: AuditConfig{
			Format: "text",
		},
	}
}

// LoadConfig загружает конфигурацию из YAML файла.
// Переменные окружения в значениях (${VAR}) раскрываются до парсинга.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Валидация конфигурации
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("max_file_size_mb must be positive, got %d", c.MaxFileSizeMB)
	}

	// Проверка имен шагов по фабрике
	for _, name := range c.Steps {
		if _, err := clean.DefaultFactory.Create(name); err != nil {
			return fmt.Errorf("steps: %w", err)
		}
	}

	if c.Output.CompressionLevel < 1 || c.Output.CompressionLevel > 22 {
		return fmt.Errorf("output: compression_level must be 1-22, got %d", c.Output.CompressionLevel)
	}

	if c.Cache.Capacity < 1 {
		return fmt.Errorf("cache: capacity must be positive, got %d", c.Cache.Capacity)
	}

	switch c.Audit.Format {
	case "text", "json":
	default:
		return fmt.Errorf("audit: unsupported format %q (expected text or json)", c.Audit.Format)
	}

	return nil
}

// NewLogger создает журнал операций по конфигурации.
// Выключенный журнал возвращает no-op логгер.
func (c AuditConfig) NewLogger() (*audit.Logger, error) {
	if !c.Enabled {
		return audit.Nop(), nil
	}

	formatJSON := c.Format == "json"

	if c.Path == "" {
		return audit.NewLogger(audit.NewWriterAppender(os.Stderr, formatJSON)), nil
	}

	appender, err := audit.NewFileAppender(c.Path, formatJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	return audit.NewLogger(appender), nil
}
