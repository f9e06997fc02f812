// websocket/message_handler.go
package websocket

import (
	"github.com/LilVoxy/chatrelay/errors"
)

// handleRead обрабатывает одно чтение из сокета клиента
func (m *Manager) handleRead(ev readEvent) {
	c, ok := m.clients[ev.handle]
	if !ok {
		// соединение уже закрыто, событие устарело
		return
	}

	switch ClassifyRead(len(ev.data), m.registry.IsHandshakeDone(ev.handle)) {
	case OutcomeDisconnect:
		m.disconnect(c)
	case OutcomeHandshake:
		if err := m.handshake(c, ev.data); err != nil {
			m.report(err)
		}
	case OutcomeFrame:
		m.dispatch(c, ev.data)
	}
}

// dispatch разбирает кадр и передаёт сообщение маршрутизатору
func (m *Manager) dispatch(c *Client, frame []byte) {
	msg, err := DecodeMessage(frame)
	if err != nil {
		m.report(errors.WrapInvalid(err, errors.KindPayload, "Manager", "dispatch", "decode message"))
		return
	}
	m.metrics.RecordMessage(msg.Type.String())

	rec, _ := m.registry.Get(c.handle)
	m.log.Debug("receive_msg", "handle", c.handle, "type", msg.Type.String(),
		"content", msg.Content, "from", rec.DisplayName)

	if msg.Type == TypeLogout {
		// отправитель уходит до рассылки, список пользователей без него
		if _, removed, ok := Disconnect(m.registry, c.handle); ok {
			if msg.Content == "" {
				msg.Content = removed.DisplayName
			}
			m.metrics.Disconnects.Inc()
		}
		m.closeClient(c)
	}

	m.route(c.handle, msg)
}

// route получает ответ маршрутизатора и рассылает его
func (m *Manager) route(h Handle, msg DecodedMessage) {
	payload, err := m.router.Route(h, msg)
	if err != nil {
		m.report(errors.WrapInvalid(err, errors.KindPayload, "Manager", "route", "route "+msg.Type.String()))
		return
	}
	if payload == nil {
		return
	}
	m.broadcast(payload)
}
