// websocket/status.go
package websocket

import (
	"context"

	"github.com/LilVoxy/chatrelay/errors"
)

// Status - снимок состояния ретранслятора
type Status struct {
	Connections int      `json:"connections"`
	Handshaken  int      `json:"handshaken"`
	Users       []string `json:"users"`
}

type statusQuery struct {
	reply chan Status
}

// Status запрашивает снимок у цикла событий.
// После остановки цикла возвращает errors.ErrServerClosed.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	q := statusQuery{reply: make(chan Status, 1)}

	select {
	case m.queries <- q:
	case <-m.stopped:
		return Status{}, errors.ErrServerClosed
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}

	select {
	case s := <-q.reply:
		return s, nil
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
}

// status вызывается только из цикла событий
func (m *Manager) status() Status {
	s := Status{Users: m.registry.Roster()}
	for _, rec := range m.registry.All() {
		s.Connections++
		if rec.HandshakeDone {
			s.Handshaken++
		}
	}
	return s
}
