package websocket

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LilVoxy/chatrelay/errors"
)

var testMaskKey = [4]byte{0x37, 0xfa, 0x21, 0x3d}

// maskFrame превращает кадр сервера в кадр клиента: ставит бит маски,
// вставляет ключ после поля длины и маскирует payload
func maskFrame(t *testing.T, frame []byte, key [4]byte) []byte {
	t.Helper()
	require.GreaterOrEqual(t, len(frame), 2)

	headerLen := 2
	switch frame[1] & 0x7F {
	case lengthCode16:
		headerLen = 4
	case lengthCode64:
		headerLen = 10
	}

	out := make([]byte, 0, len(frame)+4)
	out = append(out, frame[:headerLen]...)
	out[1] |= maskBit
	out = append(out, key[:]...)

	payload := append([]byte(nil), frame[headerLen:]...)
	unmask(payload, key)
	return append(out, payload...)
}

// clientFrame собирает замаскированный текстовый кадр клиента
func clientFrame(t *testing.T, payload string) []byte {
	return maskFrame(t, EncodeFrame([]byte(payload)), testMaskKey)
}

func TestFrame_RoundTrip(t *testing.T) {
	for _, n := range []int{0, 10, 130, 70000} {
		payload := bytes.Repeat([]byte("x"), n)

		got, err := DecodeFrame(maskFrame(t, EncodeFrame(payload), testMaskKey))
		require.NoError(t, err, "length %d", n)
		assert.Equal(t, payload, got, "length %d", n)
	}
}

func TestEncodeFrame_LengthBranches(t *testing.T) {
	tests := []struct {
		length     int
		code       byte
		headerSize int
	}{
		{0, 0, 2},
		{125, 125, 2},
		{126, lengthCode16, 4},
		{65024, lengthCode16, 4},
		{65025, lengthCode64, 10},
		{70000, lengthCode64, 10},
	}

	for _, tt := range tests {
		frame := EncodeFrame(make([]byte, tt.length))

		assert.Equal(t, byte(0x81), frame[0], "length %d", tt.length)
		assert.Equal(t, tt.code, frame[1], "length %d", tt.length)
		assert.Len(t, frame, tt.headerSize+tt.length, "length %d", tt.length)

		switch tt.code {
		case lengthCode16:
			assert.Equal(t, uint16(tt.length), binary.BigEndian.Uint16(frame[2:4]))
		case lengthCode64:
			assert.Equal(t, uint64(tt.length), binary.BigEndian.Uint64(frame[2:10]))
		}
	}
}

func TestEncodeFrame_PayloadNotMasked(t *testing.T) {
	frame := EncodeFrame([]byte(`{"type":"handshake","content":"done"}`))
	assert.Equal(t, byte(0), frame[1]&maskBit)
	assert.Equal(t, `{"type":"handshake","content":"done"}`, string(frame[2:]))
}

func TestDecodeFrame_Errors(t *testing.T) {
	valid := clientFrame(t, `{"type":"user","content":"hi"}`)

	unmasked := EncodeFrame([]byte("hello"))

	binaryFrame := append([]byte(nil), valid...)
	binaryFrame[0] = 0x82

	continued := append([]byte(nil), valid...)
	continued[0] = 0x01

	tests := []struct {
		name string
		buf  []byte
		want error
	}{
		{"empty", nil, errors.ErrShortFrame},
		{"mask key missing", []byte{0x81, 0x85, 0x01}, errors.ErrShortFrame},
		{"extended 16 header missing", []byte{0x81, 0xFE, 0x00, 0x80, 0x01}, errors.ErrShortFrame},
		{"extended 64 header missing", []byte{0x81, 0xFF, 0, 0, 0, 0, 0, 1}, errors.ErrShortFrame},
		{"truncated payload", valid[:len(valid)-3], errors.ErrTruncatedFrame},
		{"unmasked", unmasked, errors.ErrUnmaskedFrame},
		{"binary opcode", binaryFrame, errors.ErrUnsupportedFrame},
		{"not final", continued, errors.ErrUnsupportedFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFrame(tt.buf)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeFrame_IgnoresTrailingBytes(t *testing.T) {
	buf := append(clientFrame(t, "abc"), 0xDE, 0xAD)

	got, err := DecodeFrame(buf)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestParseMessage(t *testing.T) {
	tests := []struct {
		payload string
		want    DecodedMessage
	}{
		{`{"type":"login","content":"alice"}`, DecodedMessage{Type: TypeLogin, Content: "alice"}},
		{`{"type":"logout","content":"alice"}`, DecodedMessage{Type: TypeLogout, Content: "alice"}},
		{`{"type":"user","content":"hi"}`, DecodedMessage{Type: TypeUser, Content: "hi"}},
		{`{"type":"ping"}`, DecodedMessage{Type: TypeUnrecognized, RawType: "ping"}},
		{`{"content":"no type"}`, DecodedMessage{Type: TypeUnrecognized, Content: "no type"}},
	}

	for _, tt := range tests {
		got, err := ParseMessage([]byte(tt.payload))
		require.NoError(t, err, tt.payload)
		assert.Equal(t, tt.want, got, tt.payload)
	}
}

func TestParseMessage_Malformed(t *testing.T) {
	for _, payload := range []string{"", "not json", `{"type":`, `["login"]`} {
		_, err := ParseMessage([]byte(payload))
		assert.ErrorIs(t, err, errors.ErrMalformedPayload, payload)
	}
}

func TestDecodeMessage(t *testing.T) {
	msg, err := DecodeMessage(clientFrame(t, `{"type":"user","content":"привет"}`))
	require.NoError(t, err)
	assert.Equal(t, DecodedMessage{Type: TypeUser, Content: "привет"}, msg)

	_, err = DecodeMessage(clientFrame(t, "garbage!!"))
	assert.ErrorIs(t, err, errors.ErrMalformedPayload)
}
