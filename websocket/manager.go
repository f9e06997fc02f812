// websocket/manager.go
package websocket

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"syscall"

	"github.com/LilVoxy/chatrelay/errors"
	"github.com/LilVoxy/chatrelay/logger"
	"github.com/LilVoxy/chatrelay/metrics"
)

// Options - зависимости менеджера
type Options struct {
	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

// Manager - цикл событий ретранслятора. Реестр, сокеты клиентов и запись в них
// принадлежат одной горутине, запущенной в Serve.
type Manager struct {
	registry *Registry
	router   *Router
	clients  map[Handle]*Client

	log     *logger.Logger
	metrics *metrics.Metrics

	accepts chan acceptEvent
	reads   chan readEvent
	queries chan statusQuery

	// stopped закрывается, когда цикл завершился
	stopped  chan struct{}
	stopOnce sync.Once

	nextHandle Handle
}

// NewManager создает менеджер соединений
func NewManager(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = logger.New(nil)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}

	reg := NewRegistry()
	return &Manager{
		registry: reg,
		router:   NewRouter(reg, opts.Logger),
		clients:  make(map[Handle]*Client),
		log:      opts.Logger,
		metrics:  opts.Metrics,
		accepts:  make(chan acceptEvent),
		reads:    make(chan readEvent),
		queries:  make(chan statusQuery),
		stopped:  make(chan struct{}),
	}
}

// ListenAndServe открывает слушающий сокет и запускает цикл.
// Ошибка открытия сокета фатальна: сервер не должен работать без него.
func (m *Manager) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		err = errors.WrapFatal(err, errors.KindInit, "Manager", "ListenAndServe", "listen on "+addr)
		m.report(err)
		return err
	}
	return m.Serve(ctx, ln)
}

// Serve обслуживает соединения со слушающего сокета до отмены ctx.
// Менеджер одноразовый: после возврата Serve повторно не запускается.
func (m *Manager) Serve(ctx context.Context, ln net.Listener) error {
	addr := ln.Addr().String()
	m.log.Debug("server_started", "pid", os.Getpid(), "address", addr)
	m.log.Log(fmt.Sprintf("🚀 chat relay listening on %s", addr))

	go m.acceptLoop(ln)

	for {
		select {
		case <-ctx.Done():
			m.shutdown(ln)
			return nil

		case ev := <-m.accepts:
			m.handleAccept(ev)

		case ev := <-m.reads:
			m.handleRead(ev)

		case q := <-m.queries:
			q.reply <- m.status()
		}
	}
}

// shutdown закрывает слушающий сокет и все клиентские соединения
func (m *Manager) shutdown(ln net.Listener) {
	m.stopOnce.Do(func() { close(m.stopped) })
	if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		m.log.Log(fmt.Sprintf("⚠️ closing listener: %v", err))
	}

	for _, rec := range m.registry.All() {
		m.registry.Remove(rec.Handle)
		if c, ok := m.clients[rec.Handle]; ok {
			m.closeClient(c)
		}
	}
	m.log.Log(fmt.Sprintf("👋 chat relay on %s stopped", ln.Addr()))
}

// closeClient закрывает сокет и забывает клиента; записи реестра не касается
func (m *Manager) closeClient(c *Client) {
	delete(m.clients, c.handle)
	_ = c.close()
	m.metrics.ConnectionsActive.Set(float64(len(m.clients)))
}

// report пишет ошибку в журнал ошибок и в метрики.
// Код ошибки - errno, если он есть, иначе код вида.
func (m *Manager) report(err error) {
	kind := errors.KindOf(err)
	code := kind.Code()

	var errno syscall.Errno
	if errors.As(err, &errno) {
		code = int(errno)
	}

	m.log.Error(kind.Tag(), code, err.Error())
	m.metrics.RecordError(kind.String())
}
