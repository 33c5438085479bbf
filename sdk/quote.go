package medisage

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"strings"

	"github.com/medisage-ai/medisage-go/pkg/core"
)

// QuoteService generates short wellness quotes. Best effort: any failure
// falls back to a local quote instead of an error.
type QuoteService struct {
	client *Client
}

const quotePrompt = "Give me one short, uplifting quote about health or wellbeing. " +
	"Reply with the quote only, no attribution and no extra text."

var fallbackQuotes = []string{
	"Take care of your body. It's the only place you have to live.",
	"Health is not valued till sickness comes.",
	"A good laugh and a long sleep are the best cures.",
	"Small daily habits build lifelong health.",
	"Rest when you're weary. Refresh and renew yourself.",
	"The groundwork for all happiness is good health.",
}

// GetQuote returns a wellness quote. Single attempt against the preferred
// model, no retry; never returns an error.
func (s *QuoteService) GetQuote(ctx context.Context) string {
	c := s.client
	if c.generator == nil || len(c.models) == 0 {
		return fallbackQuote()
	}

	stream, err := c.generator.GenerateStream(ctx, c.models[0], "", &core.GenerationRequest{Text: quotePrompt})
	if err != nil {
		c.logger.Debug("quote generation failed", "error", err)
		return fallbackQuote()
	}
	defer func() { _ = stream.Close() }()

	var quote strings.Builder
	for {
		chunk, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			c.logger.Debug("quote stream failed", "error", err)
			return fallbackQuote()
		}
		quote.WriteString(chunk)
	}

	if text := strings.TrimSpace(quote.String()); text != "" {
		return text
	}
	return fallbackQuote()
}

func fallbackQuote() string {
	return fallbackQuotes[rand.Intn(len(fallbackQuotes))]
}
