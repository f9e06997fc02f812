// websocket/client.go
package websocket

import (
	"net"
	"time"
)

// Client - открытый сокет клиента
type Client struct {
	handle Handle
	conn   net.Conn
}

func newClient(h Handle, conn net.Conn) *Client {
	return &Client{handle: h, conn: conn}
}

// write отправляет байты клиенту целиком с ограничением по времени
func (c *Client) write(p []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	_, err := c.conn.Write(p)
	return err
}

func (c *Client) close() error {
	return c.conn.Close()
}
