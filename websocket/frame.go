package websocket

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/LilVoxy/chatrelay/errors"
)

// EncodeFrame собирает исходящий кадр: FIN + текст, длина, payload без маски.
// До 126 байт длина пишется одним байтом, до 65025 - двумя, иначе восемью.
func EncodeFrame(payload []byte) []byte {
	n := len(payload)

	var frame []byte
	switch {
	case n < lengthCode16:
		frame = make([]byte, 2, 2+n)
		frame[1] = byte(n)
	case n < maxLength16:
		frame = make([]byte, 4, 4+n)
		frame[1] = lengthCode16
		binary.BigEndian.PutUint16(frame[2:], uint16(n))
	default:
		frame = make([]byte, 10, 10+n)
		frame[1] = lengthCode64
		binary.BigEndian.PutUint64(frame[2:], uint64(n))
	}
	frame[0] = finalTextFrame

	return append(frame, payload...)
}

// DecodeFrame разбирает один входящий кадр и возвращает снятый с маски payload.
// Поддерживается только один завершённый текстовый кадр с маской; байты после
// объявленной длины игнорируются.
func DecodeFrame(buf []byte) ([]byte, error) {
	if len(buf) < 2 {
		return nil, fmt.Errorf("%w: got %d bytes", errors.ErrShortFrame, len(buf))
	}
	if buf[0]&finBit == 0 || buf[0]&opcodeMask != opcodeText {
		return nil, fmt.Errorf("%w: first byte 0x%02x", errors.ErrUnsupportedFrame, buf[0])
	}
	if buf[1]&maskBit == 0 {
		return nil, errors.ErrUnmaskedFrame
	}

	// Смещения ключа маски и данных зависят от кода длины
	var (
		length     uint64
		maskOffset int
	)
	switch code := buf[1] & 0x7F; code {
	case lengthCode16:
		if len(buf) < 8 {
			return nil, fmt.Errorf("%w: got %d bytes, need 8", errors.ErrShortFrame, len(buf))
		}
		length = uint64(binary.BigEndian.Uint16(buf[2:4]))
		maskOffset = 4
	case lengthCode64:
		if len(buf) < 14 {
			return nil, fmt.Errorf("%w: got %d bytes, need 14", errors.ErrShortFrame, len(buf))
		}
		length = binary.BigEndian.Uint64(buf[2:10])
		maskOffset = 10
	default:
		if len(buf) < 6 {
			return nil, fmt.Errorf("%w: got %d bytes, need 6", errors.ErrShortFrame, len(buf))
		}
		length = uint64(code)
		maskOffset = 2
	}

	dataOffset := maskOffset + 4
	available := uint64(len(buf) - dataOffset)
	if length > available {
		return nil, fmt.Errorf("%w: declared %d bytes, have %d", errors.ErrTruncatedFrame, length, available)
	}

	var key [4]byte
	copy(key[:], buf[maskOffset:dataOffset])

	payload := make([]byte, length)
	copy(payload, buf[dataOffset:])
	unmask(payload, key)
	return payload, nil
}

// unmask применяет XOR с ключом маски; операция обратима
func unmask(payload []byte, key [4]byte) {
	for i := range payload {
		payload[i] ^= key[i%4]
	}
}

// ParseMessage разбирает JSON-сообщение клиента
func ParseMessage(payload []byte) (DecodedMessage, error) {
	var in inboundMessage
	if err := json.Unmarshal(payload, &in); err != nil {
		return DecodedMessage{}, fmt.Errorf("%w: %v", errors.ErrMalformedPayload, err)
	}
	msg := DecodedMessage{Type: parseMessageType(in.Type), Content: in.Content}
	if msg.Type == TypeUnrecognized {
		msg.RawType = in.Type
	}
	return msg, nil
}

// DecodeMessage разбирает кадр и его JSON
func DecodeMessage(buf []byte) (DecodedMessage, error) {
	payload, err := DecodeFrame(buf)
	if err != nil {
		return DecodedMessage{}, err
	}
	return ParseMessage(payload)
}
