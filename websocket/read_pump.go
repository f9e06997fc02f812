// websocket/read_pump.go
package websocket

// readEvent - результат одного чтения из сокета клиента
type readEvent struct {
	handle Handle
	data   []byte
}

// readPump читает сокет клиента и передаёт каждое чтение в цикл событий.
// Ошибка чтения после данных даёт дополнительное пустое чтение, чтобы цикл
// увидел обрыв соединения.
func (c *Client) readPump(events chan<- readEvent, stopped <-chan struct{}) {
	buf := make([]byte, readBufferSize)

	post := func(data []byte) bool {
		select {
		case events <- readEvent{handle: c.handle, data: data}:
			return true
		case <-stopped:
			return false
		}
	}

	for {
		n, err := c.conn.Read(buf)
		data := make([]byte, n)
		copy(data, buf[:n])

		if !post(data) {
			return
		}
		if err != nil {
			if n > 0 {
				post(nil)
			}
			return
		}
	}
}
