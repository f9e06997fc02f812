package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/snappy"
)

// Имена файлов журналов
const (
	ErrorFileName = "websocket_error.log"
	DebugFileName = "websocket_debug.log"
	LogFileName   = "websocket.log"

	// CompressedSuffix добавляется к журналу отладки, сжатому snappy
	CompressedSuffix = ".sz"
)

// FileSink дописывает записи в три файла в одном каталоге
type FileSink struct {
	mu sync.Mutex

	errorFile *os.File
	debugFile *os.File
	logFile   *os.File

	// debug указывает либо на debugFile, либо на snappy поверх него
	debug  io.Writer
	snappy *snappy.Writer
}

// NewFileSink открывает (или создает) файлы журналов в каталоге dir.
// При compressDebug журнал отладки пишется в потоковом формате snappy.
func NewFileSink(dir string, compressDebug bool) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог журналов %s: %w", dir, err)
	}

	s := &FileSink{}
	var err error
	if s.errorFile, err = openAppend(filepath.Join(dir, ErrorFileName)); err != nil {
		return nil, err
	}

	debugName := DebugFileName
	if compressDebug {
		debugName += CompressedSuffix
	}
	if s.debugFile, err = openAppend(filepath.Join(dir, debugName)); err != nil {
		s.errorFile.Close()
		return nil, err
	}
	if s.logFile, err = openAppend(filepath.Join(dir, LogFileName)); err != nil {
		s.errorFile.Close()
		s.debugFile.Close()
		return nil, err
	}

	s.debug = s.debugFile
	if compressDebug {
		s.snappy = snappy.NewBufferedWriter(s.debugFile)
		s.debug = s.snappy
	}
	return s, nil
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть файл журнала %s: %w", path, err)
	}
	return f, nil
}

// Write добавляет строку записи в файл её категории
func (s *FileSink) Write(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var w io.Writer
	switch rec.Category {
	case CategoryError:
		w = s.errorFile
	case CategoryDebug:
		w = s.debug
	default:
		w = s.logFile
	}
	if w == nil {
		return os.ErrClosed
	}
	_, err := io.WriteString(w, rec.Line()+"\r\n")
	return err
}

// Flush сбрасывает буфер snappy, если он есть
func (s *FileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snappy == nil {
		return nil
	}
	return s.snappy.Flush()
}

// Close сбрасывает буферы и закрывает файлы
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.snappy != nil {
		errs = append(errs, s.snappy.Close())
		s.snappy = nil
	}
	for _, f := range []*os.File{s.errorFile, s.debugFile, s.logFile} {
		if f != nil {
			errs = append(errs, f.Close())
		}
	}
	s.errorFile, s.debugFile, s.logFile, s.debug = nil, nil, nil, nil
	return errors.Join(errs...)
}

// OpenDebugLog открывает журнал отладки для чтения, распаковывая snappy при необходимости
func OpenDebugLog(dir string, compressed bool) (io.ReadCloser, error) {
	if !compressed {
		return os.Open(filepath.Join(dir, DebugFileName))
	}
	f, err := os.Open(filepath.Join(dir, DebugFileName+CompressedSuffix))
	if err != nil {
		return nil, err
	}
	return struct {
		io.Reader
		io.Closer
	}{snappy.NewReader(f), f}, nil
}
