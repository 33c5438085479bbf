package medisage

import (
	"log/slog"
	"time"

	"github.com/medisage-ai/medisage-go/pkg/core"
	"github.com/medisage-ai/medisage-go/pkg/core/live"
)

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger for the client.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithModels replaces the candidate model hierarchy. Order encodes
// preference; earlier entries are tried first.
func WithModels(models ...string) ClientOption {
	return func(c *Client) {
		if len(models) > 0 {
			c.models = append([]string(nil), models...)
		}
	}
}

// WithMaxAttempts sets the per-model attempt cap for retryable failures.
func WithMaxAttempts(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithRetryBase sets the base delay for retry backoff.
func WithRetryBase(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.retryBase = d
		}
	}
}

// WithSystemInstruction replaces the assistant persona prompt.
func WithSystemInstruction(system string) ClientOption {
	return func(c *Client) {
		if system != "" {
			c.system = system
		}
	}
}

// WithGenerator replaces the backend generator. Mainly useful for tests.
func WithGenerator(g core.Generator) ClientOption {
	return func(c *Client) {
		c.generator = g
	}
}

// WithLiveDialer replaces the live connection dialer. Mainly useful for tests.
func WithLiveDialer(d live.Dialer) ClientOption {
	return func(c *Client) {
		c.dialer = d
	}
}
