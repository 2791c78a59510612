package core

import (
	"github.com/bwmarrin/discordgo"
)

// Handler defines the interface for all interaction handlers
type Handler interface {
	// Handle processes the interaction and returns a result
	Handle(ctx *InteractionContext) (*HandlerResult, error)
}

// HandlerFunc allows functions to implement the Handler interface
type HandlerFunc func(ctx *InteractionContext) (*HandlerResult, error)

// Handle calls the function
func (f HandlerFunc) Handle(ctx *InteractionContext) (*HandlerResult, error) {
	return f(ctx)
}

// Middleware wraps a handler
type Middleware func(next Handler) Handler

// HandlerResult contains the response from a handler
type HandlerResult struct {
	Response *Response
}

// Response represents a Discord-agnostic response
type Response struct {
	// Text content of the response
	Content string

	// Discord embeds
	Embeds []*discordgo.MessageEmbed

	// Whether this response should be ephemeral (only visible to the user)
	Ephemeral bool
}

// NewResponse creates a new response with the given content
func NewResponse(content string) *Response {
	return &Response{Content: content}
}

// NewEmbedResponse creates a response carrying embeds
func NewEmbedResponse(embeds ...*discordgo.MessageEmbed) *Response {
	return &Response{Embeds: embeds}
}

// AsEphemeral marks the response as only visible to the invoking user
func (r *Response) AsEphemeral() *Response {
	r.Ephemeral = true
	return r
}

// Result wraps a response in a HandlerResult
func Result(response *Response) *HandlerResult {
	return &HandlerResult{Response: response}
}
