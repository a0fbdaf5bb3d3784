package yadispatcher

import (
	"context"

	"github.com/YaCodeDev/GoYaTgWebhook/yaerrors"
	"github.com/YaCodeDev/GoYaTgWebhook/yatgtypes"
)

// Handler processes one update.
type Handler func(ctx context.Context, handlerData *HandlerData) yaerrors.Error

// route represents a single route in the router.
type route struct {
	kinds   []yatgtypes.Kind
	command string
	filters []Filter
	handler Handler
}

// Router collects routes, filters and middlewares. Routers nest: a sub-router only sees
// updates that passed the base filters of its parents and runs inside their middlewares.
//
// A Router is only read when the Dispatcher is built; changing it afterwards has no effect
// on that Dispatcher.
type Router struct {
	name        string
	parent      *Router
	base        []Filter
	sub         []*Router
	routes      []*route
	middlewares []HandlerMiddleware
}

// NewRouter creates a router whose routes all require base filters to pass.
//
// Example of usage:
//
//	admin := yadispatcher.NewRouter("admin", yadispatcher.ChatIs(adminChatID))
func NewRouter(name string, base ...Filter) *Router {
	return &Router{
		name: name,
		base: base,
	}
}

// Name returns the router name given to NewRouter.
func (r *Router) Name() string {
	return r.name
}

// IncludeRouter includes sub-routers. Their routes are tried after the routes of r.
//
// Example of usage:
//
//	main := yadispatcher.NewRouter("main")
//	main.IncludeRouter(admin, games)
func (r *Router) IncludeRouter(subs ...*Router) {
	for _, s := range subs {
		s.parent = r

		r.sub = append(r.sub, s)
	}
}

// OnCommand registers h for message updates whose text parses as the named command.
// name is the declared or the canonical command name.
//
// Example of usage:
//
//	router.OnCommand("Start", startHandler)
func (r *Router) OnCommand(name string, h Handler, filters ...Filter) {
	r.add([]yatgtypes.Kind{yatgtypes.KindMessage}, name, h, filters)
}

// OnMessage registers h for new messages, commands included.
func (r *Router) OnMessage(h Handler, filters ...Filter) {
	r.add([]yatgtypes.Kind{yatgtypes.KindMessage}, "", h, filters)
}

func (r *Router) OnEditedMessage(h Handler, filters ...Filter) {
	r.add([]yatgtypes.Kind{yatgtypes.KindEditedMessage}, "", h, filters)
}

func (r *Router) OnChannelPost(h Handler, filters ...Filter) {
	r.add([]yatgtypes.Kind{yatgtypes.KindChannelPost}, "", h, filters)
}

func (r *Router) OnEditedChannelPost(h Handler, filters ...Filter) {
	r.add([]yatgtypes.Kind{yatgtypes.KindEditedChannelPost}, "", h, filters)
}

// OnCallbackQuery registers h for inline button presses.
//
// Example of usage:
//
//	router.OnCallbackQuery(confirmHandler, yadispatcher.CallbackEq("confirm"))
func (r *Router) OnCallbackQuery(h Handler, filters ...Filter) {
	r.add([]yatgtypes.Kind{yatgtypes.KindCallbackQuery}, "", h, filters)
}

// OnUpdate registers h for updates of any kind, unknown ones included.
func (r *Router) OnUpdate(h Handler, filters ...Filter) {
	r.add(nil, "", h, filters)
}

func (r *Router) add(kinds []yatgtypes.Kind, command string, h Handler, filters []Filter) {
	r.routes = append(r.routes, &route{
		kinds:   kinds,
		command: command,
		filters: filters,
		handler: h,
	})
}

// collectFilters returns the base filters of r and its parents, root first.
func (r *Router) collectFilters() []Filter {
	if r.parent == nil {
		return r.base
	}

	return append(append([]Filter{}, r.parent.collectFilters()...), r.base...)
}

// collectMiddlewares returns the middlewares of r and its parents, root first.
func (r *Router) collectMiddlewares() []HandlerMiddleware {
	if r.parent == nil {
		return r.middlewares
	}

	return append(append([]HandlerMiddleware{}, r.parent.collectMiddlewares()...), r.middlewares...)
}
