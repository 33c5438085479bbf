// Package medisage provides the MediSage SDK for Go.
//
// The SDK is the orchestration layer between a health-advice UI and the
// generative backend: streaming chat with model fallback, a best-effort
// quote service, and duplex voice sessions.
package medisage

import (
	"context"
	"log/slog"
	"time"

	"github.com/medisage-ai/medisage-go/pkg/core"
	"github.com/medisage-ai/medisage-go/pkg/core/live"
	"github.com/medisage-ai/medisage-go/pkg/core/providers/gemini"
)

// DefaultModels is the fallback hierarchy for chat generation, in preference
// order.
var DefaultModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
}

// DefaultLiveModel is the model used for duplex voice sessions.
const DefaultLiveModel = "gemini-2.0-flash-live-001"

// DefaultVoice is the prebuilt voice persona for live sessions.
const DefaultVoice = "Aoede"

const (
	defaultMaxAttemptsPerModel = 3
	defaultRetryBase           = 500 * time.Millisecond
)

// systemInstruction is the assistant persona shared by chat and live modes.
const systemInstruction = `You are MediSage, a careful health-advice assistant. Give practical,
evidence-based guidance in plain language. Always remind users to consult a
medical professional for diagnosis or treatment. After your answer, append a
line containing exactly ` + SuggestionDelimiter + ` followed by up to three
short follow-up questions separated by the | character.`

// Client is the main entry point for the SDK. The credential is immutable
// for the lifetime of a client; build a new client when it changes.
type Client struct {
	Chat  *ChatService
	Quote *QuoteService
	Live  *LiveService

	credential  string
	models      []string
	maxAttempts int
	retryBase   time.Duration
	system      string
	generator   core.Generator
	dialer      live.Dialer
	logger      *slog.Logger
}

// NewClient creates a client bound to the given credential. An empty
// credential produces a client whose generation calls yield the
// credential-invalid sentinel.
func NewClient(credential string, opts ...ClientOption) *Client {
	c := &Client{
		credential:  credential,
		models:      DefaultModels,
		maxAttempts: defaultMaxAttemptsPerModel,
		retryBase:   defaultRetryBase,
		system:      systemInstruction,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.generator == nil && c.credential != "" {
		provider, err := gemini.NewProvider(context.Background(), c.credential)
		if err != nil {
			c.logger.Warn("gemini provider not initialized", "error", err)
		} else {
			c.generator = provider
		}
	}
	if c.dialer == nil && c.credential != "" {
		c.dialer = gemini.NewLiveDialer(c.credential)
	}

	c.Chat = &ChatService{client: c}
	c.Quote = &QuoteService{client: c}
	c.Live = &LiveService{client: c}
	return c
}

// Models returns the candidate model hierarchy.
func (c *Client) Models() []string {
	return append([]string(nil), c.models...)
}
