package websocket

import (
	"bytes"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"

	"github.com/LilVoxy/chatrelay/errors"
)

var keyHeader = []byte("sec-websocket-key:")

// ParseKey находит значение заголовка Sec-WebSocket-Key в запросе на upgrade.
// Имя заголовка сравнивается без учёта регистра, значение - до ближайшего CRLF.
func ParseKey(request []byte) (string, error) {
	idx := bytes.Index(bytes.ToLower(request), keyHeader)
	if idx < 0 {
		return "", errors.ErrMalformedHandshake
	}
	rest := request[idx+len(keyHeader):]

	end := bytes.Index(rest, []byte("\r\n"))
	if end < 0 {
		return "", errors.ErrMalformedHandshake
	}
	key := bytes.TrimSpace(rest[:end])
	if len(key) == 0 {
		return "", errors.ErrMalformedHandshake
	}
	return string(key), nil
}

// AcceptKey вычисляет Sec-WebSocket-Accept: base64(SHA-1(key + GUID))
func AcceptKey(key string) string {
	sum := sha1.Sum([]byte(key + acceptGUID))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// HandshakeResponse формирует ответ 101 Switching Protocols
func HandshakeResponse(accept string) []byte {
	var b bytes.Buffer
	b.WriteString("HTTP/1.1 101 Switching Protocols\r\n")
	b.WriteString("Upgrade: websocket\r\n")
	b.WriteString("Sec-WebSocket-Version: 13\r\n")
	b.WriteString("Connection: Upgrade\r\n")
	b.WriteString("Sec-WebSocket-Accept: " + accept + "\r\n")
	b.WriteString("\r\n")
	return b.Bytes()
}

// handshakeDoneFrame - кадр, после которого клиент отправляет login
var handshakeDoneFrame = func() []byte {
	data, _ := json.Marshal(handshakeMessage{Type: "handshake", Content: "done"})
	return EncodeFrame(data)
}()

// handshake отвечает на запрос upgrade, отмечает соединение и шлёт уведомление
func (m *Manager) handshake(c *Client, request []byte) error {
	key, err := ParseKey(request)
	if err != nil {
		return errors.WrapInvalid(err, errors.KindHandshake, "Manager", "handshake", "parse upgrade request")
	}

	if err := c.write(HandshakeResponse(AcceptKey(key))); err != nil {
		return errors.WrapTransient(err, errors.KindWrite, "Manager", "handshake", "write upgrade response")
	}
	if err := m.registry.MarkHandshakeDone(c.handle); err != nil {
		return err
	}
	m.metrics.Handshakes.Inc()

	rec, _ := m.registry.Get(c.handle)
	m.log.Debug("hand_shake", "handle", c.handle, "address", rec.Address, "session", rec.Session.String())

	if err := c.write(handshakeDoneFrame); err != nil {
		return errors.WrapTransient(err, errors.KindWrite, "Manager", "handshake", "write handshake notification")
	}
	return nil
}
