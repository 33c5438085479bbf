// Package gemini adapts the Gemini API to the shared generation and live
// connection interfaces.
package gemini

import (
	"context"
	"io"
	"iter"

	"google.golang.org/genai"

	"github.com/medisage-ai/medisage-go/pkg/core"
)

// Provider implements core.Generator on top of the Gemini API.
type Provider struct {
	client *genai.Client
}

// NewProvider creates a provider bound to the given API key.
func NewProvider(ctx context.Context, apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, core.NewAuthenticationError("api key must not be empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, classifyError(err)
	}
	return &Provider{client: client}, nil
}

// GenerateStream starts a streaming generation against one model. Errors are
// classified into the shared taxonomy, both at start and mid-stream.
func (p *Provider) GenerateStream(ctx context.Context, model string, system string, req *core.GenerationRequest) (core.TextStream, error) {
	if req == nil || req.IsEmpty() {
		return nil, core.NewInvalidRequestError("request must carry text or an image")
	}

	parts := make([]*genai.Part, 0, 2)
	if req.Text != "" {
		parts = append(parts, genai.NewPartFromText(req.Text))
	}
	if len(req.Image) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Image, req.ImageMIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	var config *genai.GenerateContentConfig
	if system != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	seq := p.client.Models.GenerateContentStream(ctx, model, contents, config)
	next, stop := iter.Pull2(seq)
	return &textStream{next: next, stop: stop}, nil
}

// textStream adapts the SDK's push iterator to the pull-based TextStream.
type textStream struct {
	next func() (*genai.GenerateContentResponse, error, bool)
	stop func()
	done bool
}

func (s *textStream) Next() (string, error) {
	if s.done {
		return "", io.EOF
	}
	for {
		resp, err, ok := s.next()
		if !ok {
			s.done = true
			return "", io.EOF
		}
		if err != nil {
			s.done = true
			return "", classifyError(err)
		}
		// Chunks without text (for example usage metadata) are skipped.
		if text := resp.Text(); text != "" {
			return text, nil
		}
	}
}

func (s *textStream) Close() error {
	if !s.done {
		s.done = true
		s.stop()
	}
	return nil
}
