package availability

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics учет отброшенных записей расписания
type Metrics interface {
	ObserveDroppedRecord(reason string)
}
