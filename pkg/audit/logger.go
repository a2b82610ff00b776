package audit

import (
	"time"
)

// Logger - журнал операций над данными.
// Модель выполнения синхронная: запись уходит в appenders сразу,
// буферизации и фоновых горутин нет.
type Logger struct {
	appenders []Appender
}

// NewLogger создает логгер с заданными appenders.
// Без appenders все записи отбрасываются.
func NewLogger(appenders ...Appender) *Logger {
	return &Logger{appenders: appenders}
}

// Log записывает entry во все appenders.
// Ошибки записи не прерывают операцию — возвращается первая из них.
func (l *Logger) Log(entry *Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	var firstErr error
	for _, appender := range l.appenders {
		if err := appender.Append(entry); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// LogSuccess записывает успешную операцию
func (l *Logger) LogSuccess(op Operation, resource string, rowsIn, rowsOut int, duration time.Duration) {
	_ = l.Log(&Entry{
		Operation: op,
		Status:    StatusSuccess,
		Resource:  resource,
		RowsIn:    rowsIn,
		RowsOut:   rowsOut,
		Duration:  duration,
	})
}

// LogFailure записывает проваленную операцию
func (l *Logger) LogFailure(op Operation, resource string, err error) {
	entry := &Entry{
		Operation: op,
		Status:    StatusFailure,
		Resource:  resource,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	_ = l.Log(entry)
}

// Close закрывает все appenders
func (l *Logger) Close() error {
	var firstErr error
	for _, appender := range l.appenders {
		if err := appender.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Nop возвращает логгер, отбрасывающий все записи
func Nop() *Logger {
	return NewLogger()
}
