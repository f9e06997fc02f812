// database/event_log.go
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/LilVoxy/chatrelay/errors"
	"github.com/LilVoxy/chatrelay/logger"
)

const (
	writeTimeout = 3 * time.Second

	// Размер очереди записей, ожидающих вставки
	defaultQueueSize = 1024
)

const createEventLogTable = `
	CREATE TABLE IF NOT EXISTS relay_event_log (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		created_at DATETIME(6) NOT NULL,
		category VARCHAR(16) NOT NULL,
		tag VARCHAR(64) NOT NULL,
		code INT NOT NULL DEFAULT 0,
		message TEXT NOT NULL,
		fields JSON NULL,
		INDEX idx_category_created (category, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

// queueItem - запись для вставки либо метка сброса очереди
type queueItem struct {
	rec     logger.Record
	flushed chan struct{}
}

// EventLog - приёмник журнала, сохраняющий записи в таблицу relay_event_log.
// Write только ставит запись в очередь; вставку выполняет отдельная горутина.
// При переполненной очереди запись отбрасывается и учитывается в Dropped.
type EventLog struct {
	db *sql.DB

	mu     sync.RWMutex
	closed bool
	queue  chan queueItem
	done   chan struct{}

	dropped atomic.Int64
	failed  atomic.Int64
}

// NewEventLog создает таблицу журнала, если её нет, и запускает запись
func NewEventLog(ctx context.Context, db *sql.DB) (*EventLog, error) {
	return newEventLog(ctx, db, defaultQueueSize)
}

func newEventLog(ctx context.Context, db *sql.DB, queueSize int) (*EventLog, error) {
	if _, err := db.ExecContext(ctx, createEventLogTable); err != nil {
		return nil, errors.WrapFatal(err, errors.KindInit, "EventLog", "NewEventLog", "create table relay_event_log")
	}
	l := &EventLog{
		db:    db,
		queue: make(chan queueItem, queueSize),
		done:  make(chan struct{}),
	}
	go l.run()
	return l, nil
}

// Write реализует logger.Sink и никогда не ждёт базу
func (l *EventLog) Write(rec logger.Record) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return os.ErrClosed
	}

	select {
	case l.queue <- queueItem{rec: rec}:
	default:
		l.dropped.Add(1)
	}
	return nil
}

// Flush ждёт, пока в базу попадут все записи, поставленные в очередь до вызова
func (l *EventLog) Flush() error {
	l.mu.RLock()
	if l.closed {
		l.mu.RUnlock()
		return nil
	}
	flushed := make(chan struct{})
	l.queue <- queueItem{flushed: flushed}
	l.mu.RUnlock()

	<-flushed
	if n := l.dropped.Load(); n > 0 {
		slog.Warn("⚠️ event log queue overflow", "dropped_total", n)
	}
	return nil
}

// Dropped возвращает число записей, отброшенных из-за переполнения очереди
func (l *EventLog) Dropped() int64 {
	return l.dropped.Load()
}

// Failed возвращает число записей, которые не удалось вставить
func (l *EventLog) Failed() int64 {
	return l.failed.Load()
}

func (l *EventLog) run() {
	defer close(l.done)
	for item := range l.queue {
		if item.flushed != nil {
			close(item.flushed)
			continue
		}
		if err := l.insert(item.rec); err != nil {
			l.failed.Add(1)
			slog.Warn("❌ event log insert failed", "tag", item.rec.Tag, "error", err)
		}
	}
}

func (l *EventLog) insert(rec logger.Record) error {
	var fields sql.NullString
	if len(rec.Fields) > 0 {
		data, err := json.Marshal(rec.Fields)
		if err != nil {
			return fmt.Errorf("marshal fields of %s record: %w", rec.Tag, err)
		}
		fields = sql.NullString{String: string(data), Valid: true}
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	_, err := l.db.ExecContext(ctx,
		"INSERT INTO relay_event_log (created_at, category, tag, code, message, fields) VALUES (?, ?, ?, ?, ?, ?)",
		rec.Time, string(rec.Category), rec.Tag, rec.Code, rec.Message, fields,
	)
	if err != nil {
		return errors.Wrap(err, "EventLog", "Write", "insert record")
	}
	return nil
}

// Recent возвращает последние записи, новые первыми
func (l *EventLog) Recent(ctx context.Context, limit int) ([]logger.Record, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT created_at, category, tag, code, message, fields
		FROM relay_event_log
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "EventLog", "Recent", "query records")
	}
	defer rows.Close()

	records := make([]logger.Record, 0, limit)
	for rows.Next() {
		var (
			rec      logger.Record
			category string
			fields   sql.NullString
		)
		if err := rows.Scan(&rec.Time, &category, &rec.Tag, &rec.Code, &rec.Message, &fields); err != nil {
			return nil, errors.Wrap(err, "EventLog", "Recent", "scan record")
		}
		rec.Category = logger.Category(category)
		if fields.Valid {
			if err := json.Unmarshal([]byte(fields.String), &rec.Fields); err != nil {
				return nil, errors.Wrap(err, "EventLog", "Recent", "decode fields")
			}
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "EventLog", "Recent", "iterate records")
	}
	return records, nil
}

// Close дописывает очередь и закрывает соединение с базой
func (l *EventLog) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()

	<-l.done
	return l.db.Close()
}
