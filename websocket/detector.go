package websocket

// ReadOutcome - что делать с результатом чтения из сокета
type ReadOutcome int

const (
	// OutcomeDisconnect - клиент оборвал соединение
	OutcomeDisconnect ReadOutcome = iota
	// OutcomeHandshake - первый запрос, нужно рукопожатие
	OutcomeHandshake
	// OutcomeFrame - кадр данных
	OutcomeFrame
)

// ClassifyRead определяет исход чтения по числу прочитанных байт.
// Чтение короче minFrameBytes считается обрывом соединения.
func ClassifyRead(n int, handshakeDone bool) ReadOutcome {
	switch {
	case n < minFrameBytes:
		return OutcomeDisconnect
	case !handshakeDone:
		return OutcomeHandshake
	default:
		return OutcomeFrame
	}
}

// Disconnect удаляет запись соединения и формирует logout с последним известным именем
func Disconnect(reg *Registry, h Handle) (DecodedMessage, ConnectionRecord, bool) {
	rec, ok := reg.Remove(h)
	if !ok {
		return DecodedMessage{}, ConnectionRecord{}, false
	}
	return DecodedMessage{Type: TypeLogout, Content: rec.DisplayName}, rec, true
}
