// Package errors содержит классификацию ошибок ретранслятора чата.
// Каждая ошибка относится к классу (transient, invalid, fatal) и к виду,
// определяющему, как цикл событий должен на неё реагировать.
package errors

import (
	"errors"
	"fmt"
)

// ErrorClass определяет, как обрабатывать ошибку
type ErrorClass int

const (
	// ErrorTransient - временная ошибка, текущая итерация пропускается
	ErrorTransient ErrorClass = iota
	// ErrorInvalid - некорректные входные данные от клиента
	ErrorInvalid
	// ErrorFatal - сервер не может продолжать работу
	ErrorFatal
)

// String возвращает строковое представление класса
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransient:
		return "transient"
	case ErrorInvalid:
		return "invalid"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Kind - вид сбоя, по которому выбирается тег записи в журнале ошибок
type Kind int

const (
	KindUnknown Kind = iota
	// KindInit - создание, привязка или прослушивание сокета
	KindInit
	// KindWait - ожидание готовности
	KindWait
	// KindAccept - приём нового соединения
	KindAccept
	// KindHandshake - некорректный запрос на upgrade
	KindHandshake
	// KindPayload - некорректный кадр или JSON
	KindPayload
	// KindWrite - ошибка записи при рассылке
	KindWrite
)

// Tag возвращает тег записи в журнале ошибок
func (k Kind) Tag() string {
	switch k {
	case KindInit:
		return "err_init_server"
	case KindWait:
		return "error_select"
	case KindAccept:
		return "err_accept"
	case KindHandshake:
		return "err_handshake"
	case KindPayload:
		return "err_parse"
	case KindWrite:
		return "err_write"
	default:
		return "err_unknown"
	}
}

// Code возвращает числовой код вида для журнала ошибок
func (k Kind) Code() int {
	return int(k)
}

// String возвращает имя вида для меток метрик
func (k Kind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindWait:
		return "wait"
	case KindAccept:
		return "accept"
	case KindHandshake:
		return "handshake"
	case KindPayload:
		return "payload"
	case KindWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Стандартные ошибки
var (
	ErrInvalidConfig = errors.New("invalid configuration")

	ErrMalformedHandshake = errors.New("malformed handshake: Sec-WebSocket-Key header not found")
	ErrShortFrame         = errors.New("frame shorter than its header")
	ErrTruncatedFrame     = errors.New("frame payload truncated")
	ErrUnmaskedFrame      = errors.New("client frame is not masked")
	ErrUnsupportedFrame   = errors.New("only final text frames are supported")
	ErrMalformedPayload   = errors.New("malformed JSON payload")

	ErrDuplicateHandle = errors.New("handle already registered")
	ErrUnknownHandle   = errors.New("handle not registered")
	ErrServerClosed    = errors.New("server closed")
)

// ClassifiedError оборачивает ошибку вместе с её классом и видом
type ClassifiedError struct {
	Class     ErrorClass
	Kind      Kind
	Err       error
	Component string
	Operation string
}

// Error реализует интерфейс error
func (ce *ClassifiedError) Error() string {
	return ce.Err.Error()
}

// Unwrap возвращает исходную ошибку
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// Wrap добавляет контекст в формате "component.operation: action failed: %w"
func Wrap(err error, component, operation, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, operation, action, err)
}

func wrapClassified(class ErrorClass, kind Kind, err error, component, operation, action string) error {
	if err == nil {
		return nil
	}
	return &ClassifiedError{
		Class:     class,
		Kind:      kind,
		Err:       Wrap(err, component, operation, action),
		Component: component,
		Operation: operation,
	}
}

// WrapTransient помечает ошибку как временную
func WrapTransient(err error, kind Kind, component, operation, action string) error {
	return wrapClassified(ErrorTransient, kind, err, component, operation, action)
}

// WrapInvalid помечает ошибку как вызванную некорректными данными
func WrapInvalid(err error, kind Kind, component, operation, action string) error {
	return wrapClassified(ErrorInvalid, kind, err, component, operation, action)
}

// WrapFatal помечает ошибку как фатальную
func WrapFatal(err error, kind Kind, component, operation, action string) error {
	return wrapClassified(ErrorFatal, kind, err, component, operation, action)
}

// ClassOf возвращает класс ошибки; неклассифицированные считаются временными
func ClassOf(err error) ErrorClass {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class
	}
	if errors.Is(err, ErrInvalidConfig) {
		return ErrorFatal
	}
	return ErrorTransient
}

// KindOf возвращает вид ошибки
func KindOf(err error) Kind {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// IsFatal сообщает, должен ли сервер остановиться
func IsFatal(err error) bool {
	return err != nil && ClassOf(err) == ErrorFatal
}

// IsInvalid сообщает, вызвана ли ошибка некорректными данными клиента
func IsInvalid(err error) bool {
	return err != nil && ClassOf(err) == ErrorInvalid
}

// IsTransient сообщает, можно ли просто перейти к следующей итерации
func IsTransient(err error) bool {
	return err != nil && ClassOf(err) == ErrorTransient
}

// Is и As повторяют стандартную библиотеку, чтобы не импортировать оба пакета
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

// New повторяет errors.New
func New(text string) error { return errors.New(text) }
