package core

import "context"

// GenerationRequest is one logical "generate a response" request. At least one
// of Text or Image must be set. The request is owned by the caller and is
// never mutated by the client.
type GenerationRequest struct {
	Text string

	// Image is an optional raw image payload sent alongside the text.
	Image         []byte
	ImageMIMEType string
}

// IsEmpty reports whether the request carries neither text nor image.
func (r *GenerationRequest) IsEmpty() bool {
	return r == nil || (r.Text == "" && len(r.Image) == 0)
}

// TextStream is an iterator over incremental text fragments from a streaming
// generation call. Next returns io.EOF on clean completion and a *Error on a
// classified failure.
type TextStream interface {
	Next() (string, error)

	// Close releases resources. Safe to call more than once.
	Close() error
}

// Generator is the boundary to the remote generation service. Implementations
// classify every failure into a *Error so callers can decide between retrying,
// falling through to another model, or aborting.
type Generator interface {
	GenerateStream(ctx context.Context, model string, system string, req *GenerationRequest) (TextStream, error)
}
