// websocket/connection_handler.go
package websocket

import (
	"net"
	"time"

	"github.com/LilVoxy/chatrelay/errors"
)

// acceptEvent - результат одного accept
type acceptEvent struct {
	conn net.Conn
	err  error
}

// acceptLoop принимает соединения и передаёт их в цикл событий
func (m *Manager) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil && errors.Is(err, net.ErrClosed) {
			return
		}

		select {
		case m.accepts <- acceptEvent{conn: conn, err: err}:
		case <-m.stopped:
			if conn != nil {
				conn.Close()
			}
			return
		}

		if err != nil {
			time.Sleep(acceptRetryDelay)
		}
	}
}

// handleAccept регистрирует новое соединение и запускает его чтение
func (m *Manager) handleAccept(ev acceptEvent) {
	if ev.err != nil {
		m.report(errors.WrapTransient(ev.err, errors.KindAccept, "Manager", "handleAccept", "accept connection"))
		return
	}

	m.nextHandle++
	h := m.nextHandle
	address := ev.conn.RemoteAddr().String()

	rec, err := m.registry.Register(h, address)
	if err != nil {
		m.report(errors.WrapTransient(err, errors.KindAccept, "Manager", "handleAccept", "register connection"))
		ev.conn.Close()
		return
	}

	c := newClient(h, ev.conn)
	m.clients[h] = c
	m.metrics.ConnectionsAccepted.Inc()
	m.metrics.ConnectionsActive.Set(float64(len(m.clients)))

	ip, port, _ := net.SplitHostPort(address)
	m.log.Debug("socket_connect", "handle", h, "ip", ip, "port", port, "session", rec.Session.String())

	go c.readPump(m.reads, m.stopped)
}

// disconnect убирает соединение из реестра, закрывает сокет и сообщает
// остальным об уходе, если соединение успело пройти рукопожатие
func (m *Manager) disconnect(c *Client) {
	msg, rec, ok := Disconnect(m.registry, c.handle)
	m.closeClient(c)
	if !ok {
		return
	}
	m.metrics.Disconnects.Inc()
	m.log.Debug("socket_disconnect", "handle", rec.Handle, "address", rec.Address,
		"name", rec.DisplayName, "session", rec.Session.String())

	if !rec.HandshakeDone {
		return
	}
	m.route(c.handle, msg)
}
