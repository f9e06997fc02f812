package websocket

import (
	"time"

	"github.com/google/uuid"
)

// Handle - идентификатор соединения; не переиспользуется в пределах процесса
type Handle uint64

// ConnectionRecord - состояние одного принятого соединения
type ConnectionRecord struct {
	Handle        Handle
	Address       string
	HandshakeDone bool
	DisplayName   string

	// Session связывает записи журнала одного соединения
	Session     uuid.UUID
	ConnectedAt time.Time
}

// MessageType - логический тип входящего сообщения
type MessageType int

const (
	TypeUnrecognized MessageType = iota
	TypeLogin
	TypeLogout
	TypeUser
)

// String возвращает тип в том виде, в каком он передаётся в JSON
func (t MessageType) String() string {
	switch t {
	case TypeLogin:
		return "login"
	case TypeLogout:
		return "logout"
	case TypeUser:
		return "user"
	default:
		return "unrecognized"
	}
}

func parseMessageType(s string) MessageType {
	switch s {
	case "login":
		return TypeLogin
	case "logout":
		return TypeLogout
	case "user":
		return TypeUser
	default:
		return TypeUnrecognized
	}
}

// DecodedMessage - разобранное входящее сообщение
type DecodedMessage struct {
	Type    MessageType
	Content string

	// RawType хранит исходную строку типа для журнала, если тип не распознан
	RawType string
}

// Структура входящего JSON
type inboundMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Исходящее сообщение о входе или выходе с текущим списком пользователей
type rosterMessage struct {
	Type     string   `json:"type"`
	Content  string   `json:"content"`
	UserList []string `json:"userList"`
}

// Исходящее сообщение чата
type chatMessage struct {
	Type    string `json:"type"`
	From    string `json:"from"`
	Content string `json:"content"`
}

// Уведомление о завершении рукопожатия
type handshakeMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}
