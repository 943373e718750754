package spaapi

import "time"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics интерфейс сбора метрик вызовов бэкенда
type Metrics interface {
	ObserveBackendCall(operation string, err error, duration time.Duration)
}
