package core

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// ErrorRenderer turns a handler error into the response shown to the user
type ErrorRenderer func(err *HandlerError) *Response

// Router dispatches slash commands to handlers
type Router struct {
	handlers    map[string]Handler
	middleware  []Middleware
	renderError ErrorRenderer
}

// NewRouter creates a new command router
func NewRouter(renderError ErrorRenderer) *Router {
	if renderError == nil {
		renderError = func(err *HandlerError) *Response {
			return NewResponse(err.UserMessage).AsEphemeral()
		}
	}
	return &Router{
		handlers:    make(map[string]Handler),
		renderError: renderError,
	}
}

// Use adds middleware applied to handlers registered afterwards
func (r *Router) Use(middleware ...Middleware) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Command registers a slash command handler
func (r *Router) Command(name string, handler Handler) *Router {
	wrapped := handler
	for i := len(r.middleware) - 1; i >= 0; i-- {
		wrapped = r.middleware[i](wrapped)
	}
	r.handlers[name] = wrapped
	return r
}

// Commands lists the registered command names
func (r *Router) Commands() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// Dispatch runs the handler for the interaction and sends its response.
// Interactions that are not registered commands are ignored.
func (r *Router) Dispatch(ctx context.Context, responder InteractionResponder, i *discordgo.InteractionCreate) error {
	ic := NewInteractionContext(ctx, i)
	if !ic.IsCommand() {
		return nil
	}

	handler, ok := r.handlers[ic.GetCommandName()]
	if !ok {
		return nil
	}

	result, err := handler.Handle(ic)
	if err != nil {
		return responder.Respond(r.renderError(FromError(err)))
	}
	if result == nil || result.Response == nil {
		return nil
	}

	return responder.Respond(result.Response)
}
