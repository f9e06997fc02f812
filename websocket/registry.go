package websocket

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LilVoxy/chatrelay/errors"
)

// Registry хранит записи соединений в порядке регистрации.
// Принадлежит циклу событий и не защищён мьютексом.
type Registry struct {
	records map[Handle]*ConnectionRecord
	order   []Handle
}

// NewRegistry создает пустой реестр
func NewRegistry() *Registry {
	return &Registry{records: make(map[Handle]*ConnectionRecord)}
}

// Register добавляет запись нового соединения
func (r *Registry) Register(h Handle, address string) (ConnectionRecord, error) {
	if _, exists := r.records[h]; exists {
		return ConnectionRecord{}, fmt.Errorf("handle %d: %w", h, errors.ErrDuplicateHandle)
	}
	rec := &ConnectionRecord{
		Handle:      h,
		Address:     address,
		Session:     uuid.New(),
		ConnectedAt: time.Now(),
	}
	r.records[h] = rec
	r.order = append(r.order, h)
	return *rec, nil
}

// MarkHandshakeDone отмечает завершение рукопожатия
func (r *Registry) MarkHandshakeDone(h Handle) error {
	rec, ok := r.records[h]
	if !ok {
		return fmt.Errorf("handle %d: %w", h, errors.ErrUnknownHandle)
	}
	rec.HandshakeDone = true
	return nil
}

// SetDisplayName задаёт отображаемое имя
func (r *Registry) SetDisplayName(h Handle, name string) error {
	rec, ok := r.records[h]
	if !ok {
		return fmt.Errorf("handle %d: %w", h, errors.ErrUnknownHandle)
	}
	rec.DisplayName = name
	return nil
}

// Remove удаляет запись и возвращает её; повторный вызов безопасен
func (r *Registry) Remove(h Handle) (ConnectionRecord, bool) {
	rec, ok := r.records[h]
	if !ok {
		return ConnectionRecord{}, false
	}
	delete(r.records, h)
	for i, oh := range r.order {
		if oh == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return *rec, true
}

// Get возвращает копию записи
func (r *Registry) Get(h Handle) (ConnectionRecord, bool) {
	rec, ok := r.records[h]
	if !ok {
		return ConnectionRecord{}, false
	}
	return *rec, true
}

// IsHandshakeDone сообщает, завершено ли рукопожатие; для неизвестного соединения false
func (r *Registry) IsHandshakeDone(h Handle) bool {
	rec, ok := r.records[h]
	return ok && rec.HandshakeDone
}

// All возвращает снимок всех записей в порядке регистрации
func (r *Registry) All() []ConnectionRecord {
	out := make([]ConnectionRecord, 0, len(r.order))
	for _, h := range r.order {
		out = append(out, *r.records[h])
	}
	return out
}

// Roster возвращает отображаемые имена в порядке регистрации.
// Соединения, ещё не приславшие login, пропускаются: пустых имён в userList нет,
// полный список записей с пустыми именами отдаёт All.
func (r *Registry) Roster() []string {
	names := make([]string, 0, len(r.order))
	for _, h := range r.order {
		if name := r.records[h].DisplayName; name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Len возвращает число записей
func (r *Registry) Len() int {
	return len(r.records)
}
