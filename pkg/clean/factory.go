package clean

import (
	"fmt"

	"github.com/lijianqiao/datamerge/pkg/pipeline"
)

// Factory создает шаги очистки по их имени.
// Замена динамической загрузки плагинов: список регистрируется на старте.
type Factory struct {
	creators map[string]pipeline.Step
}

// NewFactory создает фабрику со встроенными шагами
func NewFactory() *Factory {
	f := &Factory{
		creators: make(map[string]pipeline.Step),
	}

	f.Register(pipeline.Step{
		Name:        "clean",
		Transform:   Clean,
		Description: "remove all-null rows and trim text values",
	})
	f.Register(pipeline.Step{
		Name:        "deduplicate",
		Transform:   Deduplicate,
		Description: "remove exact duplicate rows, keep first occurrence",
	})

	return f
}

// Register регистрирует шаг под его именем
func (f *Factory) Register(step pipeline.Step) {
	f.creators[step.Name] = step
}

// Create возвращает шаг по имени
func (f *Factory) Create(name string) (pipeline.Step, error) {
	step, ok := f.creators[name]
	if !ok {
		return pipeline.Step{}, fmt.Errorf("unknown cleaning step: %s", name)
	}
	return step, nil
}

// Names возвращает имена зарегистрированных шагов
func (f *Factory) Names() []string {
	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	return names
}

// DefaultFactory - фабрика со встроенными шагами
var DefaultFactory = NewFactory()
