// Package textgen is the boundary to the text-generation backend. It
// defines the Client interface, typed payload parsing for the three
// response shapes the pipeline consumes, live HTTP/Gemini clients, and a
// deterministic mock client for tests and offline runs.
package textgen

import (
	"context"
	"fmt"
)

// Shape tells the backend (and the parser) which payload the caller
// expects back.
type Shape string

const (
	ShapePost    Shape = "post"    // {"title": ..., "body": ...}
	ShapeReply   Shape = "reply"   // {"text": ...}
	ShapeRewrite Shape = "rewrite" // {"variation": ...}
)

// Options are the per-call generation options.
type Options struct {
	Temperature float64
	MaxTokens   int
	Shape       Shape
}

// Client is the text-generation backend. Complete returns the raw model
// output; the Generate* helpers parse it into the expected shape.
type Client interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}

// BackendError is a transport or parse failure from the backend,
// distinguishable from validation errors with errors.As.
type BackendError struct {
	Reason string
	Err    error
}

func (e *BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("text backend: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("text backend: %s", e.Reason)
}

func (e *BackendError) Unwrap() error { return e.Err }

// PostPayload is the parsed response for a post generation call.
type PostPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ReplyPayload is the parsed response for a reply generation call.
type ReplyPayload struct {
	Text string `json:"text"`
}

// RewritePayload is the parsed response for a rewrite call.
type RewritePayload struct {
	Variation string `json:"variation"`
}

// GeneratePost invokes the client and parses a {title,body} payload.
func GeneratePost(ctx context.Context, c Client, prompt string, opts Options) (*PostPayload, error) {
	opts.Shape = ShapePost
	raw, err := c.Complete(ctx, prompt, opts)
	if err != nil {
		return nil, err
	}
	var p PostPayload
	if err := decodePayload(raw, &p); err != nil {
		return nil, &BackendError{Reason: "unparseable post payload", Err: err}
	}
	if p.Title == "" || p.Body == "" {
		return nil, &BackendError{Reason: "post payload missing title or body"}
	}
	return &p, nil
}

// GenerateReply invokes the client and parses a {text} payload.
func GenerateReply(ctx context.Context, c Client, prompt string, opts Options) (*ReplyPayload, error) {
	opts.Shape = ShapeReply
	raw, err := c.Complete(ctx, prompt, opts)
	if err != nil {
		return nil, err
	}
	var p ReplyPayload
	if err := decodePayload(raw, &p); err != nil {
		return nil, &BackendError{Reason: "unparseable reply payload", Err: err}
	}
	if p.Text == "" {
		return nil, &BackendError{Reason: "reply payload missing text"}
	}
	return &p, nil
}

// GenerateRewrite invokes the client and parses a {variation} payload.
func GenerateRewrite(ctx context.Context, c Client, prompt string, opts Options) (*RewritePayload, error) {
	opts.Shape = ShapeRewrite
	raw, err := c.Complete(ctx, prompt, opts)
	if err != nil {
		return nil, err
	}
	var p RewritePayload
	if err := decodePayload(raw, &p); err != nil {
		return nil, &BackendError{Reason: "unparseable rewrite payload", Err: err}
	}
	if p.Variation == "" {
		return nil, &BackendError{Reason: "rewrite payload missing variation"}
	}
	return &p, nil
}
