package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/lijianqiao/datamerge/pkg/core/table"
)

// State представляет состояние выполнения пайплайна
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// StepFunc - чистая трансформация таблицы
type StepFunc func(ctx context.Context, t *table.Table) (*table.Table, error)

// Step - именованный шаг пайплайна
type Step struct {
	Name        string
	Transform   StepFunc
	Description string
}

// StepStats статистика одного шага
type StepStats struct {
	Name       string
	Duration   time.Duration
	OutputRows int
	Success    bool
	Error      string // Текст ошибки при Success == false
}

// ExecutionStats статистика последнего запуска.
// Создается заново при каждом Execute, истории не хранится.
type ExecutionStats struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	InputRows int // Количество строк на входе первого шага
	Steps     []StepStats
	State     State
}

// ProgressFunc вызывается после каждого успешного шага.
// Вызов синхронный, в горутине вызывающего.
type ProgressFunc func(fraction float64, message string)

// StepExecutionError возникает при падении шага пайплайна.
// Именует упавший шаг и оборачивает исходную ошибку.
type StepExecutionError struct {
	Step string
	Err  error
}

func (e *StepExecutionError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepExecutionError) Unwrap() error {
	return e.Err
}

// Runner выполняет упорядоченную последовательность шагов над таблицей.
// Инвариант: список шагов и статистика всегда соответствуют последнему
// вызову Execute.
type Runner struct {
	steps []Step
	stats ExecutionStats
}

// NewRunner создает новый пустой Runner
func NewRunner() *Runner {
	return &Runner{
		stats: ExecutionStats{State: StateIdle},
	}
}

// AddStep добавляет шаг в конец списка. Возвращает Runner для чейнинга.
// Никаких побочных эффектов выполнения не имеет.
func (r *Runner) AddStep(name string, transform StepFunc, description string) *Runner {
	r.steps = append(r.steps, Step{
		Name:        name,
		Transform:   transform,
		Description: description,
	})
	return r
}

// StepCount возвращает количество зарегистрированных шагов
func (r *Runner) StepCount() int {
	return len(r.steps)
}

// Steps возвращает копию списка шагов
func (r *Runner) Steps() []Step {
	steps := make([]Step, len(r.steps))
	copy(steps, r.steps)
	return steps
}

// Execute выполняет шаги по порядку начиная с входной таблицы.
//
// После каждого успешного шага записывается статистика (длительность,
// количество строк на выходе) и вызывается progress, если он задан.
// При падении шага выполнение прерывается: статистика шага фиксируется
// с Success=false, оставшиеся шаги не выполняются, возвращается
// StepExecutionError. Частичный результат не возвращается.
func (r *Runner) Execute(ctx context.Context, t *table.Table, progress ProgressFunc) (*table.Table, error) {
	r.stats = ExecutionStats{
		StartTime: time.Now(),
		State:     StateRunning,
		InputRows: t.RowCount(),
	}

	current := t
	total := len(r.steps)

	for i, step := range r.steps {
		stepStart := time.Now()
		result, err := step.Transform(ctx, current)
		duration := time.Since(stepStart)

		if err != nil {
			r.stats.Steps = append(r.stats.Steps, StepStats{
				Name:     step.Name,
				Duration: duration,
				Success:  false,
				Error:    err.Error(),
			})
			r.finish(StateFailed)
			return nil, &StepExecutionError{Step: step.Name, Err: err}
		}

		r.stats.Steps = append(r.stats.Steps, StepStats{
			Name:       step.Name,
			Duration:   duration,
			OutputRows: result.RowCount(),
			Success:    true,
		})

		current = result

		if progress != nil {
			fraction := float64(i+1) / float64(total)
			progress(fraction, fmt.Sprintf("%s (%d/%d)", step.Name, i+1, total))
		}
	}

	r.finish(StateCompleted)
	return current, nil
}

// ExecutionStats возвращает снимок статистики последнего запуска
// (пустая статистика до первого запуска)
func (r *Runner) ExecutionStats() ExecutionStats {
	snapshot := r.stats
	snapshot.Steps = make([]StepStats, len(r.stats.Steps))
	copy(snapshot.Steps, r.stats.Steps)
	return snapshot
}

// ClearSteps сбрасывает список шагов и статистику
func (r *Runner) ClearSteps() {
	r.steps = nil
	r.stats = ExecutionStats{State: StateIdle}
}

func (r *Runner) finish(state State) {
	r.stats.EndTime = time.Now()
	r.stats.Duration = r.stats.EndTime.Sub(r.stats.StartTime)
	r.stats.State = state
}
