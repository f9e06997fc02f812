// routes/api_routes.go
package routes

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/LilVoxy/chatrelay/logger"
	"github.com/LilVoxy/chatrelay/websocket"
)

// StatusSource отдаёт снимок состояния ретранслятора
type StatusSource interface {
	Status(ctx context.Context) (websocket.Status, error)
}

// EventSource отдаёт последние записи журнала
type EventSource interface {
	Recent(ctx context.Context, limit int) ([]logger.Record, error)
}

// Deps - зависимости административного API
type Deps struct {
	Relay StatusSource
	// Events может быть nil, если журнал в MySQL отключён
	Events  EventSource
	Metrics http.Handler
}

// SetupRoutes настраивает маршруты административного API
func SetupRoutes(router *mux.Router, deps Deps) {
	// Применяем CORS middleware
	router.Use(CORSMiddleware)

	router.HandleFunc("/health", HealthHandler).Methods("GET", "OPTIONS")

	router.HandleFunc("/api/status", StatusHandler(deps.Relay)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/users", UsersHandler(deps.Relay)).Methods("GET", "OPTIONS")

	if deps.Events != nil {
		router.HandleFunc("/api/events", EventsHandler(deps.Events)).Methods("GET", "OPTIONS")
	}

	if deps.Metrics != nil {
		router.Handle("/metrics", deps.Metrics).Methods("GET")
	}
}

// CORSMiddleware разрешает запросы с любого источника
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
