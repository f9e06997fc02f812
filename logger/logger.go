// Package logger реализует журналы ретранслятора: ошибки, отладка и общий журнал.
// Ядро сервера знает только интерфейс Sink - "добавить запись с меткой времени";
// где и как записи хранятся, решает окружение.
package logger

import (
	"log/slog"
	"time"
)

// Sink принимает записи журнала
type Sink interface {
	Write(rec Record) error
	Close() error
}

// Flusher реализуют приёмники с буферизацией
type Flusher interface {
	Flush() error
}

// Logger строит записи и передаёт их в Sink
type Logger struct {
	sink Sink
	now  func() time.Time
}

// New создает логгер поверх приёмника
func New(sink Sink) *Logger {
	if sink == nil {
		sink = Nop{}
	}
	return &Logger{sink: sink, now: time.Now}
}

// Error записывает ошибку: тег категории, код и текст
func (l *Logger) Error(tag string, code int, msg string) {
	l.write(Record{Category: CategoryError, Tag: tag, Code: code, Message: msg})
}

// Debug записывает отладочное событие с контекстными полями (пары ключ/значение)
func (l *Logger) Debug(tag string, fields ...any) {
	l.write(Record{Category: CategoryDebug, Tag: tag, Fields: fieldsFromPairs(fields)})
}

// Log записывает строку общего журнала
func (l *Logger) Log(line string) {
	l.write(Record{Category: CategoryLog, Message: line})
}

// Sink возвращает приёмник логгера
func (l *Logger) Sink() Sink {
	return l.sink
}

// Close закрывает приёмник
func (l *Logger) Close() error {
	return l.sink.Close()
}

func (l *Logger) write(rec Record) {
	rec.Time = l.now()
	if err := l.sink.Write(rec); err != nil {
		// журнал не должен останавливать сервер
		slog.Warn("log sink write failed", "category", rec.Category, "tag", rec.Tag, "error", err)
	}
}
