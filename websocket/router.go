package websocket

import (
	"encoding/json"

	"github.com/LilVoxy/chatrelay/logger"
)

// Router превращает входящие сообщения в исходящий JSON для рассылки.
// Сам в сокеты не пишет.
type Router struct {
	registry *Registry
	log      *logger.Logger
}

// NewRouter создает маршрутизатор поверх реестра
func NewRouter(reg *Registry, log *logger.Logger) *Router {
	if log == nil {
		log = logger.New(nil)
	}
	return &Router{registry: reg, log: log}
}

// Route обрабатывает сообщение соединения h и возвращает payload для рассылки.
// nil без ошибки означает, что рассылать нечего.
func (r *Router) Route(h Handle, msg DecodedMessage) ([]byte, error) {
	switch msg.Type {
	case TypeLogin:
		if err := r.registry.SetDisplayName(h, msg.Content); err != nil {
			return nil, err
		}
		return json.Marshal(rosterMessage{Type: "login", Content: msg.Content, UserList: r.registry.Roster()})

	case TypeLogout:
		// запись уже удалена, список без ушедшего
		return json.Marshal(rosterMessage{Type: "logout", Content: msg.Content, UserList: r.registry.Roster()})

	case TypeUser:
		rec, _ := r.registry.Get(h)
		return json.Marshal(chatMessage{Type: "user", From: rec.DisplayName, Content: msg.Content})

	case TypeUnrecognized:
		r.log.Debug("unknown_message_type", "handle", h, "type", msg.RawType)
		return nil, nil
	}
	return nil, nil
}
