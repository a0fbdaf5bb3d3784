// Package yawebhook receives Telegram updates pushed to "https://{host}/bot{token}" and
// feeds them into a yaupdates.Queue.
//
// Every request that reaches the update handler is acknowledged with 200 OK, malformed
// payloads included, so Telegram never retries them. Only failures of the HTTP layer itself
// are answered with 500.
//
// Example usage:
//
//	queue := yaupdates.NewQueue()
//
//	listener, err := yawebhook.New(cfg, api, queue, yawebhook.WithLogger(log))
//	if err != nil {
//		// Handle error
//	}
//
//	if err := listener.Start(ctx); err != nil {
//		// Handle error
//	}
//
//	<-listener.Done()
package yawebhook

import (
	"context"
	"crypto/subtle"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
	"github.com/YaCodeDev/GoYaTgWebhook/yalogger"
	"github.com/YaCodeDev/GoYaTgWebhook/yatgtypes"
	"github.com/YaCodeDev/GoYaTgWebhook/yaupdates"
)

const (
	DefaultShutdownTimeout   = 10 * time.Second
	defaultReadHeaderTimeout = 10 * time.Second
)

// Registrar registers and removes the webhook URL on the Telegram side.
// *yatgapi.Client implements it.
type Registrar interface {
	SetWebhook(ctx context.Context, url string) yaerrors.Error
	DeleteWebhook(ctx context.Context) yaerrors.Error
}

// DropHook observes payloads that were acknowledged but not enqueued.
type DropHook func(ctx context.Context, body []byte, reason yaerrors.Error)

// FatalFunc aborts the process. The default is the logger's Fatalf.
type FatalFunc func(format string, args ...any)

// Option configures a Listener.
type Option func(*Listener)

// WithLogger sets the base logger.
func WithLogger(log yalogger.Logger) Option {
	return func(l *Listener) {
		l.log = log
	}
}

// WithDropHook reports malformed payloads to hook.
//
// Example usage:
//
//	store, _ := yadeadletter.Open(dsn, log)
//	listener, _ := yawebhook.New(cfg, api, queue, yawebhook.WithDropHook(store.Record))
func WithDropHook(hook DropHook) Option {
	return func(l *Listener) {
		l.dropHook = hook
	}
}

// WithFatal replaces the function called when an update cannot be enqueued.
func WithFatal(fatal FatalFunc) Option {
	return func(l *Listener) {
		l.fatal = fatal
	}
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(l *Listener) {
		l.shutdownTimeout = timeout
	}
}

// Listener is the webhook HTTP endpoint.
type Listener struct {
	config          Config
	registrar       Registrar
	queue           *yaupdates.Queue
	log             yalogger.Logger
	dropHook        DropHook
	fatal           FatalFunc
	shutdownTimeout time.Duration
	engine          *gin.Engine
	started         atomic.Bool
	dropped         atomic.Uint64
	done            chan struct{}
	addr            atomic.Pointer[net.Addr]
}

// New validates config and builds the gin engine. Nothing is registered or bound until
// Start.
func New(
	config Config,
	registrar Registrar,
	queue *yaupdates.Queue,
	opts ...Option,
) (*Listener, yaerrors.Error) {
	if err := config.Validate(); err != nil {
		return nil, err.Wrap("failed to create webhook listener")
	}

	listener := &Listener{
		config:          config,
		registrar:       registrar,
		queue:           queue,
		shutdownTimeout: DefaultShutdownTimeout,
		done:            make(chan struct{}),
	}

	for _, opt := range opts {
		opt(listener)
	}

	if listener.log == nil {
		listener.log = yalogger.NewBaseLogger(nil).NewLogger()
	}

	listener.log = listener.log.WithField(yalogger.KeyComponent, "webhook")

	if listener.fatal == nil {
		listener.fatal = listener.log.Fatalf
	}

	listener.engine = gin.New()
	listener.engine.Use(RequestLogger{Log: listener.log}.Handle, Recovery(listener.log))
	listener.engine.POST(webhookRoute, listener.handleUpdate)

	return listener, nil
}

// Handler exposes the gin engine, e.g. for httptest.
func (l *Listener) Handler() http.Handler {
	return l.engine
}

// Dropped returns how many malformed payloads were acknowledged without being enqueued.
func (l *Listener) Dropped() uint64 {
	return l.dropped.Load()
}

// Done is closed after the server has stopped and the queue is closed.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

// Addr is the bound address once the listener serves, nil before.
func (l *Listener) Addr() net.Addr {
	addr := l.addr.Load()
	if addr == nil {
		return nil
	}

	return *addr
}

// Start registers the callback URL with Telegram, binds the configured address and
// serves in the background until ctx is cancelled. Any failure aborts startup before a
// single request is accepted.
func (l *Listener) Start(ctx context.Context) yaerrors.Error {
	if err := l.register(ctx); err != nil {
		return err
	}

	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", l.config.ListenAddress())
	if err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			err,
			"failed to bind webhook listener on "+l.config.ListenAddress(),
		)
	}

	l.serve(ctx, ln)

	return nil
}

// Serve is Start over an already bound listener.
func (l *Listener) Serve(ctx context.Context, ln net.Listener) yaerrors.Error {
	if err := l.register(ctx); err != nil {
		_ = ln.Close()

		return err
	}

	l.serve(ctx, ln)

	return nil
}

func (l *Listener) register(ctx context.Context) yaerrors.Error {
	if !l.started.CompareAndSwap(false, true) {
		return yaerrors.FromError(http.StatusConflict, ErrAlreadyStarted, "failed to start webhook listener")
	}

	if err := l.registrar.SetWebhook(ctx, l.config.URL()); err != nil {
		return yaerrors.FromError(
			http.StatusBadGateway,
			errors.Join(ErrRegistrationFailed, err),
			"failed to register webhook for host "+l.config.Host,
		)
	}

	l.log.Infof("Webhook registered for host %s", l.config.Host)

	return nil
}

func (l *Listener) serve(ctx context.Context, ln net.Listener) {
	addr := ln.Addr()
	l.addr.Store(&addr)

	server := &http.Server{
		Handler:           l.engine,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}

	stopped := make(chan struct{})

	go func() {
		defer close(stopped)

		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.log.Errorf("Webhook server stopped: %v", err)
		}
	}()

	go func() {
		defer close(l.done)

		select {
		case <-ctx.Done():
		case <-stopped:
		}

		l.shutdown(context.WithoutCancel(ctx), server)

		<-stopped

		l.queue.Close()

		l.log.Info("Webhook listener stopped")
	}()

	l.log.Infof("Webhook listener serving on %s", addr)
}

func (l *Listener) shutdown(ctx context.Context, server *http.Server) {
	ctx, cancel := context.WithTimeout(ctx, l.shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		l.log.Warnf("Webhook server shutdown: %v", err)
	}

	if !l.config.DeleteWebhookOnStop {
		return
	}

	if err := l.registrar.DeleteWebhook(ctx); err != nil {
		l.log.Warnf("Failed to delete webhook: %v", err)
	}
}

// authorized compares the requested segment with "bot{token}". The token is never part of
// a gin pattern: a ':' inside it would turn the rest into a wildcard.
func (l *Listener) authorized(ctx *gin.Context) bool {
	want := PathPrefix + l.config.BotToken

	return subtle.ConstantTimeCompare([]byte(ctx.Param(pathParam)), []byte(want)) == 1
}

func (l *Listener) handleUpdate(ctx *gin.Context) {
	if !l.authorized(ctx) {
		ctx.AbortWithStatus(http.StatusNotFound)

		return
	}

	log := requestLogger(ctx, l.log)

	body, err := ctx.GetRawData()
	if err != nil {
		abortWithError(ctx, yaerrors.FromError(http.StatusInternalServerError, err, "failed to read webhook body"))

		return
	}

	update, yaerr := yatgtypes.DecodeUpdate(body)
	if yaerr != nil {
		l.drop(ctx.Request.Context(), log, body, yaerr)
		ctx.Status(http.StatusOK)

		return
	}

	log = log.WithUpdateID(update.ID)

	if yaerr := l.queue.Push(update); yaerr != nil {
		l.fatal("Failed to enqueue update %d: %v", update.ID, yaerr)
		abortWithError(ctx, yaerr)

		return
	}

	log.Tracef("Update of kind %s enqueued", update.Kind())

	ctx.Status(http.StatusOK)
}

func (l *Listener) drop(ctx context.Context, log yalogger.Logger, body []byte, reason yaerrors.Error) {
	l.dropped.Add(1)

	log.Debugf("Dropped malformed update payload: %v", reason)

	if l.dropHook != nil {
		l.dropHook(ctx, body, reason)
	}
}
