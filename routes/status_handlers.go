// routes/status_handlers.go
package routes

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/LilVoxy/chatrelay/errors"
)

// UsersResponse структура ответа API для списка пользователей
type UsersResponse struct {
	Users []string `json:"users"`
}

// HealthHandler сообщает, что процесс жив
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// StatusHandler отдаёт число соединений и список пользователей
func StatusHandler(relay StatusSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := relay.Status(r.Context())
		if err != nil {
			writeStatusError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// UsersHandler отдаёт текущий список пользователей
func UsersHandler(relay StatusSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := relay.Status(r.Context())
		if err != nil {
			writeStatusError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, UsersResponse{Users: st.Users})
	}
}

func writeStatusError(w http.ResponseWriter, err error) {
	if errors.Is(err, errors.ErrServerClosed) {
		http.Error(w, "Сервер остановлен", http.StatusServiceUnavailable)
		return
	}
	slog.Error("❌ Ошибка при получении состояния", "error", err)
	http.Error(w, "Ошибка при получении состояния", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("❌ Ошибка при кодировании ответа", "error", err)
	}
}
