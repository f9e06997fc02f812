package logger

import (
	"errors"
	"log/slog"
	"sync"
)

// Console дублирует записи в slog
type Console struct {
	Logger *slog.Logger
}

// Write реализует Sink
func (c Console) Write(rec Record) error {
	l := c.Logger
	if l == nil {
		l = slog.Default()
	}
	switch rec.Category {
	case CategoryError:
		l.Error(rec.Tag, "code", rec.Code, "error", rec.Message)
	case CategoryDebug:
		args := make([]any, 0, len(rec.Fields)*2)
		for k, v := range rec.Fields {
			args = append(args, k, v)
		}
		l.Debug(rec.Tag, args...)
	default:
		l.Info(rec.Message)
	}
	return nil
}

// Close реализует Sink
func (Console) Close() error { return nil }

// Nop отбрасывает все записи
type Nop struct{}

func (Nop) Write(Record) error { return nil }
func (Nop) Close() error       { return nil }

// Multi рассылает записи в несколько приёмников
type Multi []Sink

// Write пишет во все приёмники и собирает ошибки
func (m Multi) Write(rec Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Flush сбрасывает буферы приёмников, которые их имеют
func (m Multi) Flush() error {
	var errs []error
	for _, s := range m {
		if f, ok := s.(Flusher); ok {
			if err := f.Flush(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close закрывает все приёмники
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Memory хранит записи в памяти; используется в тестах и для отладки
type Memory struct {
	mu      sync.Mutex
	records []Record
}

// Write реализует Sink
func (m *Memory) Write(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

// Close реализует Sink
func (m *Memory) Close() error { return nil }

// Records возвращает копию накопленных записей
func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// Find возвращает записи с заданной категорией и тегом
func (m *Memory) Find(category Category, tag string) []Record {
	var out []Record
	for _, rec := range m.Records() {
		if rec.Category == category && rec.Tag == tag {
			out = append(out, rec)
		}
	}
	return out
}
