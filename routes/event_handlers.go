// routes/event_handlers.go
package routes

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/LilVoxy/chatrelay/logger"
)

const (
	defaultEventsLimit = 50
	maxEventsLimit     = 500
)

// EventsResponse структура ответа API для журнала событий
type EventsResponse struct {
	Events []logger.Record `json:"events"`
}

// EventsHandler отдаёт последние записи журнала событий
func EventsHandler(events EventSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultEventsLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > maxEventsLimit {
				http.Error(w, "Неверный параметр limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		recs, err := events.Recent(r.Context(), limit)
		if err != nil {
			slog.Error("❌ Ошибка при запросе журнала", "error", err)
			http.Error(w, "Ошибка при получении журнала", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, EventsResponse{Events: recs})
	}
}
