package logger

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Category - журнал, в который попадает запись
type Category string

const (
	CategoryError Category = "error"
	CategoryDebug Category = "debug"
	CategoryLog   Category = "log"
)

// TimeLayout - формат времени в строках журнала
const TimeLayout = "2006-01-02 15:04:05"

// Record - одна запись журнала
type Record struct {
	Time     time.Time      `json:"time"`
	Category Category       `json:"category"`
	Tag      string         `json:"tag,omitempty"`
	Code     int            `json:"code,omitempty"`
	Message  string         `json:"message,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
}

// Line форматирует запись как строку файла журнала:
// время и поля через " | ", каждое поле закодировано в JSON.
func (r Record) Line() string {
	stamp := r.Time.Format(TimeLayout)
	if r.Category == CategoryLog {
		return stamp + " : " + r.Message
	}

	parts := []string{jsonString(stamp)}
	if r.Tag != "" {
		parts = append(parts, jsonString(r.Tag))
	}
	switch r.Category {
	case CategoryError:
		parts = append(parts, fmt.Sprint(r.Code), jsonString(r.Message))
	case CategoryDebug:
		if r.Message != "" {
			parts = append(parts, jsonString(r.Message))
		}
		if len(r.Fields) > 0 {
			parts = append(parts, jsonString(r.Fields))
		}
	}
	return strings.Join(parts, " | ")
}

// fieldsFromPairs превращает пары ключ/значение в map; ключ без значения получает nil
func fieldsFromPairs(pairs []any) map[string]any {
	if len(pairs) == 0 {
		return nil
	}
	fields := make(map[string]any, len(pairs)/2+1)
	for i := 0; i < len(pairs); i += 2 {
		key := fmt.Sprint(pairs[i])
		if i+1 < len(pairs) {
			fields[key] = pairs[i+1]
		} else {
			fields[key] = nil
		}
	}
	return fields
}

func jsonString(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%q", fmt.Sprint(v))
	}
	return string(data)
}
