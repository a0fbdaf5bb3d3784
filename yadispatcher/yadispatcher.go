// Package yadispatcher routes updates from a yaupdates stream to handlers.
//
// Routes are declared on a Router and frozen by New. Dispatch then pulls updates one at a
// time and runs at most one handler per update: the first route, in registration order,
// whose update kind, command and filters match. Handler errors go to the error handler;
// an error handler that fails is fatal.
//
// Example usage:
//
//	router := yadispatcher.NewRouter("main")
//	router.AddMiddleware(yadispatcher.Recover())
//	router.OnCommand("Ping", func(ctx context.Context, hd *yadispatcher.HandlerData) yaerrors.Error {
//		return hd.Reply(ctx, "pong")
//	})
//
//	dispatcher, err := yadispatcher.New(router, &yadispatcher.Dependencies{
//		Commands:    commands,
//		BotUsername: "MyNameBot",
//		Sender:      api,
//		Log:         log,
//	})
//	if err != nil {
//		// Handle error
//	}
//
//	_ = dispatcher.Dispatch(ctx, stream)
package yadispatcher

import (
	"context"
	"net/http"
	"slices"
	"sync/atomic"

	"github.com/YaCodeDev/GoYaTgWebhook/yacommand"
	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
	"github.com/YaCodeDev/GoYaTgWebhook/yafsm"
	"github.com/YaCodeDev/GoYaTgWebhook/yalogger"
	"github.com/YaCodeDev/GoYaTgWebhook/yatgtypes"
	"github.com/YaCodeDev/GoYaTgWebhook/yaupdates"
)

// State is the lifecycle stage of a Dispatcher.
type State uint32

const (
	StateBuilt State = iota
	StateServing
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateBuilt:
		return "built"
	case StateServing:
		return "serving"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ErrorHandler receives handler errors, command parse errors and ingestion errors. update
// is nil for ingestion errors. A non-nil return is fatal.
type ErrorHandler func(ctx context.Context, update *yatgtypes.Update, err yaerrors.Error) yaerrors.Error

// FatalFunc aborts the process. The default is the logger's Fatalf.
type FatalFunc func(format string, args ...any)

// UpdateStream is the consuming side of an update queue. *yaupdates.Stream implements it.
type UpdateStream interface {
	Next(ctx context.Context) (yaupdates.Item, bool)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithErrorHandler replaces the default error handler, which logs the error.
func WithErrorHandler(h ErrorHandler) Option {
	return func(d *Dispatcher) {
		d.errorHandler = h
	}
}

// WithFatal replaces the function called when the error handler fails.
func WithFatal(fatal FatalFunc) Option {
	return func(d *Dispatcher) {
		d.fatal = fatal
	}
}

type compiledRoute struct {
	router  string
	kinds   []yatgtypes.Kind
	command string
	filters []Filter
	handler HandlerNext
}

func (r *compiledRoute) matches(kind yatgtypes.Kind, parsed *yacommand.Parsed) bool {
	if r.kinds != nil && !slices.Contains(r.kinds, kind) {
		return false
	}

	return r.command == "" || (parsed != nil && parsed.Name == r.command)
}

// Dispatcher is an immutable set of routes plus its serving state.
type Dispatcher struct {
	deps          Dependencies
	routes        []compiledRoute
	commandRoutes bool
	errorHandler  ErrorHandler
	fatal         FatalFunc
	state         atomic.Uint32
	log           yalogger.Logger
}

// New freezes the routes of router and its sub-routers into a Dispatcher in StateBuilt.
// Command routes must name commands declared in deps.Commands.
func New(router *Router, deps *Dependencies, opts ...Option) (*Dispatcher, yaerrors.Error) {
	if deps == nil {
		deps = &Dependencies{}
	}

	d := &Dispatcher{deps: *deps}

	if d.deps.Log == nil {
		d.deps.Log = yalogger.NewBaseLogger(nil).NewLogger()
	}

	d.log = d.deps.Log.WithField(yalogger.KeyComponent, "dispatcher")

	for _, opt := range opts {
		opt(d)
	}

	if d.errorHandler == nil {
		d.errorHandler = d.logError
	}

	if d.fatal == nil {
		d.fatal = d.log.Fatalf
	}

	if err := d.compile(router); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Dispatcher) compile(r *Router) yaerrors.Error {
	filters := r.collectFilters()
	middlewares := r.collectMiddlewares()

	for _, rt := range r.routes {
		compiled := compiledRoute{
			router:  r.name,
			kinds:   slices.Clone(rt.kinds),
			filters: append(slices.Clone(filters), rt.filters...),
			handler: chainMiddleware(HandlerNext(rt.handler), middlewares...),
		}

		if rt.command != "" {
			if d.deps.Commands == nil {
				return yaerrors.FromError(http.StatusInternalServerError, ErrNoCommandSet, "route "+rt.command)
			}

			name, ok := d.deps.Commands.Lookup(rt.command)
			if !ok {
				return yaerrors.FromError(http.StatusInternalServerError, ErrUnknownCommand, "route "+rt.command)
			}

			compiled.command = name
			d.commandRoutes = true
		}

		d.routes = append(d.routes, compiled)
	}

	for _, sub := range r.sub {
		if err := d.compile(sub); err != nil {
			return err.Wrap("router " + sub.name)
		}
	}

	return nil
}

// State returns the current lifecycle stage.
func (d *Dispatcher) State() State {
	return State(d.state.Load())
}

// Dispatch consumes stream until it ends or ctx is done. A Dispatcher serves once; later
// calls fail with ErrAlreadyServing.
func (d *Dispatcher) Dispatch(ctx context.Context, stream UpdateStream) yaerrors.Error {
	if !d.state.CompareAndSwap(uint32(StateBuilt), uint32(StateServing)) {
		return yaerrors.FromError(http.StatusConflict, ErrAlreadyServing, "failed to start dispatching")
	}

	defer d.state.Store(uint32(StateStopped))

	d.log.Infof("Dispatching updates to %d routes", len(d.routes))

	for {
		item, ok := stream.Next(ctx)
		if !ok {
			d.log.Info("Update stream ended")

			return nil
		}

		if item.Err != nil {
			d.report(ctx, nil, item.Err)

			continue
		}

		d.DispatchOne(ctx, item.Update)
	}
}

// DispatchOne runs the matching handler for update synchronously and reports whether one
// ran. Errors are sent to the error handler, not returned.
func (d *Dispatcher) DispatchOne(ctx context.Context, update yatgtypes.Update) bool {
	matched, err := d.dispatch(ctx, &update)
	if err != nil {
		d.report(ctx, &update, err)
	}

	return matched
}

func (d *Dispatcher) dispatch(ctx context.Context, upd *yatgtypes.Update) (bool, yaerrors.Error) {
	log := d.log.WithUpdateID(upd.ID)

	chat := upd.EffectiveChat()
	if chat != nil {
		log = log.WithChatID(chat.ID)
	}

	kind := upd.Kind()
	msg := upd.EffectiveMessage()

	var parsed *yacommand.Parsed

	if d.deps.Commands != nil && msg != nil && kind != yatgtypes.KindCallbackQuery {
		command, err := d.deps.Commands.Parse(msg.Content(), d.deps.BotUsername)

		switch {
		case err == nil:
			parsed = &command
		case yacommand.IsNotCommand(err):
		case kind == yatgtypes.KindMessage && d.commandRoutes:
			return false, err.Wrap("failed to parse command")
		}
	}

	var storage *yafsm.EntityFSMStorage

	if d.deps.FSMStore != nil && chat != nil {
		storage = yafsm.NewChatFSMStorage(d.deps.FSMStore, chat.ID)
	}

	filterDeps := FilterDependencies{
		storage: storage,
		update:  upd,
		command: parsed,
	}

	for i := range d.routes {
		rt := &d.routes[i]

		if !rt.matches(kind, parsed) {
			continue
		}

		ok, err := checkFilters(ctx, filterDeps, rt.filters)
		if err != nil {
			return false, err.Wrap("failed to apply filters of router " + rt.router)
		}

		if !ok {
			continue
		}

		log.Debugf("Update of kind %s handled by router %s", kind, rt.router)

		return true, rt.handler(ctx, &HandlerData{
			Update:       upd,
			Message:      msg,
			Command:      parsed,
			StateStorage: storage,
			Log:          log,
			Sender:       d.deps.Sender,
		})
	}

	log.Debugf("No route for update of kind %s", kind)

	return false, nil
}

func (d *Dispatcher) report(ctx context.Context, update *yatgtypes.Update, err yaerrors.Error) {
	if handlerErr := d.errorHandler(ctx, update, err); handlerErr != nil {
		d.fatal("Error handler failed: %v (while handling: %v)", handlerErr, err)
	}
}

func (d *Dispatcher) logError(_ context.Context, update *yatgtypes.Update, err yaerrors.Error) yaerrors.Error {
	log := d.log
	if update != nil {
		log = log.WithUpdateID(update.ID)
	}

	log.Errorf("Update handling failed: %v", err)

	return nil
}
