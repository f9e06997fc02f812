// websocket/write_pump.go
package websocket

import (
	"fmt"

	"github.com/LilVoxy/chatrelay/errors"
)

// broadcast отправляет payload всем соединениям, прошедшим рукопожатие,
// включая отправителя. Ошибка записи одному клиенту не прерывает рассылку.
// Соединения, ещё не получившие ответ 101, кадры не получают намеренно.
func (m *Manager) broadcast(payload []byte) {
	frame := EncodeFrame(payload)

	for _, rec := range m.registry.All() {
		if !rec.HandshakeDone {
			continue
		}
		c, ok := m.clients[rec.Handle]
		if !ok {
			continue
		}

		if err := c.write(frame); err != nil {
			m.report(errors.WrapTransient(err, errors.KindWrite, "Manager", "broadcast",
				fmt.Sprintf("write frame to %s (handle %d)", rec.Address, rec.Handle)))
			continue
		}
		m.metrics.FramesBroadcast.Inc()
	}
}
