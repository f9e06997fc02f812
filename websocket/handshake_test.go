package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/chatrelay/errors"
)

const sampleUpgradeRequest = "GET /chat HTTP/1.1\r\n" +
	"Host: 127.0.0.1:8080\r\n" +
	"Upgrade: websocket\r\n" +
	"Connection: Upgrade\r\n" +
	"Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\n" +
	"Sec-WebSocket-Version: 13\r\n" +
	"\r\n"

func TestAcceptKey_Deterministic(t *testing.T) {
	// пример из RFC 6455
	const want = "s3pPLMBiTxaQ9kYGzzhZRbK+xOo="
	for i := 0; i < 3; i++ {
		assert.Equal(t, want, AcceptKey("dGhlIHNhbXBsZSBub25jZQ=="))
	}
}

func TestParseKey(t *testing.T) {
	key, err := ParseKey([]byte(sampleUpgradeRequest))
	require.NoError(t, err)
	assert.Equal(t, "dGhlIHNhbXBsZSBub25jZQ==", key)
}

func TestParseKey_CaseInsensitiveHeader(t *testing.T) {
	req := "GET / HTTP/1.1\r\nsec-websocket-key:   abc123==  \r\nHost: x\r\n\r\n"
	key, err := ParseKey([]byte(req))
	require.NoError(t, err)
	assert.Equal(t, "abc123==", key)

	req = "GET / HTTP/1.1\r\nSec-Websocket-Key: xyz\r\n\r\n"
	key, err = ParseKey([]byte(req))
	require.NoError(t, err)
	assert.Equal(t, "xyz", key)
}

func TestParseKey_Malformed(t *testing.T) {
	tests := map[string]string{
		"missing header": "GET / HTTP/1.1\r\nHost: x\r\n\r\n",
		"no CRLF":        "GET / HTTP/1.1\r\nSec-WebSocket-Key: abc",
		"empty value":    "GET / HTTP/1.1\r\nSec-WebSocket-Key: \r\n\r\n",
		"not http":       "hello there, server",
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseKey([]byte(req))
			assert.ErrorIs(t, err, errors.ErrMalformedHandshake)
		})
	}
}

func TestHandshakeResponse(t *testing.T) {
	want := "HTTP/1.1 101 Switching Protocols\r\n" +
		"Upgrade: websocket\r\n" +
		"Sec-WebSocket-Version: 13\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Accept: s3pPLMBiTxaQ9kYGzzhZRbK+xOo=\r\n" +
		"\r\n"
	assert.Equal(t, want, string(HandshakeResponse(AcceptKey("dGhlIHNhbXBsZSBub25jZQ=="))))
}

func TestHandshakeDoneFrame(t *testing.T) {
	assert.Equal(t, EncodeFrame([]byte(`{"type":"handshake","content":"done"}`)), handshakeDoneFrame)
}
