package websocket

import (
	"time"
)

// Константы протокола и соединения
const (
	// GUID, который добавляется к Sec-WebSocket-Key при вычислении ответа (RFC 6455, 1.3)
	acceptGUID = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

	// Размер буфера одного чтения из сокета
	readBufferSize = 2048

	// Чтение меньшего числа байт считается обрывом соединения
	minFrameBytes = 9

	// Первый байт исходящего кадра: FIN + текстовый кадр
	finalTextFrame = 0x81

	finBit  = 0x80
	maskBit = 0x80

	opcodeMask = 0x0F
	opcodeText = 0x1

	// Коды длины во втором байте кадра
	lengthCode16 = 126
	lengthCode64 = 127

	// Граница 16-битной длины в исходящих кадрах (не 65535, а 65025)
	maxLength16 = 65025

	// Время ожидания записи кадра клиенту
	writeWait = 10 * time.Second

	// Пауза после ошибки accept, чтобы не крутить цикл вхолостую
	acceptRetryDelay = 50 * time.Millisecond
)
