// Package workbench связывает валидацию, чтение, объединение,
// очистку и экспорт в единый сценарий работы с табличными файлами.
package workbench

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lijianqiao/datamerge/pkg/audit"
	"github.com/lijianqiao/datamerge/pkg/cache"
	"github.com/lijianqiao/datamerge/pkg/clean"
	"github.com/lijianqiao/datamerge/pkg/core/table"
	"github.com/lijianqiao/datamerge/pkg/export"
	"github.com/lijianqiao/datamerge/pkg/merge"
	"github.com/lijianqiao/datamerge/pkg/pipeline"
	"github.com/lijianqiao/datamerge/pkg/readers"
	"github.com/lijianqiao/datamerge/pkg/validate"
)

// InvalidFilesError возникает когда один или несколько файлов сессии
// не прошли валидацию. Results содержит результаты всех файлов.
type InvalidFilesError struct {
	Results []validate.Result
}

func (e *InvalidFilesError) Error() string {
	var names []string
	for _, r := range e.Results {
		if !r.Valid {
			names = append(names, r.Info.Name)
		}
	}
	return fmt.Sprintf("validation failed for %d file(s): %s", len(names), strings.Join(names, ", "))
}

// ProcessResult - результат объединения сессии
type ProcessResult struct {
	// Table - итоговая таблица после объединения и предобработки
	Table *table.Table

	// MergeStats - статистика согласования схем
	MergeStats merge.Stats

	// PipelineStats - статистика шагов предобработки
	PipelineStats pipeline.ExecutionStats

	// FromCache - результат взят из кеша без пересчета
	FromCache bool
}

// ExportResult - результат экспорта сессии
type ExportResult struct {
	// Data - содержимое файла (XLSX, при включенном сжатии - zstd)
	Data []byte

	// MIME - тип содержимого
	MIME string

	// Filename - предлагаемое имя файла
	Filename string

	// Summary - сводка экспорта
	Summary export.Summary
}

// Workbench - рабочая область объединения файлов.
// Безопасна для последовательного использования из одной горутины;
// кеш результатов внутри потокобезопасен.
type Workbench struct {
	config    Config
	validator *validate.Validator
	registry  *readers.Registry
	factory   *clean.Factory
	exporter  *export.Exporter
	cache     *cache.Cache
	logger    *audit.Logger
}

// New создает рабочую область. nil logger отключает журнал операций.
func New(config Config, logger *audit.Logger) *Workbench {
	if logger == nil {
		logger = audit.Nop()
	}

	registry := readers.DefaultRegistry
	if len(config.NullMarkers) > 0 {
		registry = readers.NewRegistryWithNullMarkers(config.NullMarkers)
	}
	maxSize := int64(config.MaxFileSizeMB) * 1024 * 1024

	return &Workbench{
		config:    config,
		validator: validate.NewValidator(maxSize, registry),
		registry:  registry,
		factory:   clean.DefaultFactory,
		exporter: export.NewExporter(export.Options{
			Sheet:            config.Output.Sheet,
			Compress:         config.Output.Compression,
			CompressionLevel: config.Output.CompressionLevel,
		}),
		cache:  cache.New(config.Cache.Capacity),
		logger: logger,
	}
}

// Validate проверяет файлы сессии, результаты в порядке файлов
func (w *Workbench) Validate(session *Session) []validate.Result {
	return w.validator.ValidateAll(session.Files)
}

// Process выполняет полный сценарий сессии: валидация, чтение,
// объединение, предобработка. Результат кешируется по отпечатку сессии;
// повторный вызов с теми же файлами и флагами отдает кеш без пересчета.
//
// progress вызывается по ходу шагов предобработки, может быть nil.
func (w *Workbench) Process(ctx context.Context, session *Session, progress pipeline.ProgressFunc) (*ProcessResult, error) {
	if len(session.Files) == 0 {
		return nil, &merge.EmptyInputError{}
	}

	results := w.Validate(session)
	for _, r := range results {
		if !r.Valid {
			err := &InvalidFilesError{Results: results}
			w.logger.LogFailure(audit.OpValidate, r.Info.Name, err)
			return nil, err
		}
	}

	key := session.Fingerprint()
	computed := false

	value, err := w.cache.GetOrCompute(key, func() (any, error) {
		computed = true
		return w.process(ctx, session, progress)
	})
	if err != nil {
		return nil, err
	}

	result := value.(*ProcessResult)
	if !computed {
		// Копия с пометкой: закешированный экземпляр не трогаем
		cached := *result
		cached.FromCache = true
		w.logger.LogSuccess(audit.OpCacheHit, key, cached.Table.RowCount(), cached.Table.RowCount(), 0)
		return &cached, nil
	}
	return result, nil
}

// process выполняет сценарий без кеша
func (w *Workbench) process(ctx context.Context, session *Session, progress pipeline.ProgressFunc) (*ProcessResult, error) {
	tables, err := w.readAll(session.Files)
	if err != nil {
		return nil, err
	}

	merger := merge.NewMerger(merge.Options{SourceColumn: session.SourceColumn})

	mergeStart := time.Now()
	merged, err := merger.Merge(tables...)
	if err != nil {
		w.logger.LogFailure(audit.OpMerge, "merge", err)
		return nil, err
	}
	w.logger.LogSuccess(audit.OpMerge, merged.Table.Name,
		merged.Stats.RowsIn, merged.Stats.RowsOut, time.Since(mergeStart))

	runner := pipeline.NewRunner()
	for _, name := range session.stepNames() {
		step, err := w.factory.Create(name)
		if err != nil {
			return nil, err
		}
		runner.AddStep(step.Name, step.Transform, step.Description)
	}

	final, err := runner.Execute(ctx, merged.Table, progress)
	if err != nil {
		w.logger.LogFailure(audit.OpPipeline, merged.Table.Name, err)
		return nil, err
	}
	stats := runner.ExecutionStats()
	w.logger.LogSuccess(audit.OpPipeline, final.Name, stats.InputRows, final.RowCount(), stats.Duration)

	return &ProcessResult{
		Table:         final,
		MergeStats:    merged.Stats,
		PipelineStats: stats,
	}, nil
}

// readAll декодирует все файлы сессии в таблицы.
// Таблица единственного листа получает имя файла без расширения;
// при нескольких листах имя дополняется именем листа.
func (w *Workbench) readAll(files []readers.File) ([]*table.Table, error) {
	var all []*table.Table
	for _, file := range files {
		readStart := time.Now()
		tables, err := w.registry.Read(file)
		if err != nil {
			w.logger.LogFailure(audit.OpRead, file.Name, err)
			return nil, err
		}

		rows := 0
		for _, t := range tables {
			if len(tables) == 1 {
				t.Name = file.Label()
			} else {
				t.Name = file.Label() + "_" + t.Name
			}
			rows += t.RowCount()
		}
		w.logger.LogSuccess(audit.OpRead, file.Name, 0, rows, time.Since(readStart))

		all = append(all, tables...)
	}
	return all, nil
}

// stepNames возвращает имена шагов предобработки сессии в порядке
// выполнения: сначала очистка, затем дедупликация
func (s *Session) stepNames() []string {
	var names []string
	if s.Clean {
		names = append(names, "clean")
	}
	if s.Deduplicate {
		names = append(names, "deduplicate")
	}
	return names
}

// Export сериализует таблицу в XLSX с учетом выбора колонок сессии.
// Перед экспортом таблица проверяется; непрошедшая проверка таблица
// не сериализуется.
func (w *Workbench) Export(session *Session, t *table.Table) (*ExportResult, error) {
	validation := export.ValidateExportData(t, session.SelectedColumns)
	if !validation.Valid {
		err := fmt.Errorf("export validation failed: %s", strings.Join(validation.Errors, "; "))
		w.logger.LogFailure(audit.OpExport, t.Name, err)
		return nil, err
	}

	summary, err := export.GetSummary(t, session.SelectedColumns)
	if err != nil {
		return nil, err
	}

	exportStart := time.Now()
	data, err := w.exporter.Export(t, session.SelectedColumns)
	if err != nil {
		w.logger.LogFailure(audit.OpExport, t.Name, err)
		return nil, err
	}
	w.logger.LogSuccess(audit.OpExport, t.Name, t.RowCount(), summary.RowCount, time.Since(exportStart))

	filename := fmt.Sprintf("merged_data_%s.xlsx", time.Now().Format("20060102_150405"))
	if w.config.Output.Compression {
		filename += ".zst"
	}

	return &ExportResult{
		Data:     data,
		MIME:     export.MIMEXLSX,
		Filename: filename,
		Summary:  summary,
	}, nil
}

// PurgeCache очищает кеш результатов
func (w *Workbench) PurgeCache() {
	w.cache.Purge()
}
