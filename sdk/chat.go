package medisage

import (
	"context"
	"errors"
	"io"

	"github.com/sethvargo/go-retry"

	"github.com/medisage-ai/medisage-go/pkg/core"
)

// ChatService issues streaming generation requests with model fallback.
type ChatService struct {
	client *Client
}

// GenerateStream starts one logical generation. Candidates from the client's
// model hierarchy are tried in order; retryable failures are retried with
// backoff up to the per-model attempt cap, fatal failures fall through to
// the next candidate, and credential failures short-circuit the whole
// operation with the credential-invalid sentinel.
//
// The returned stream always terminates: either after a clean completion or
// with exactly one terminal fragment.
func (s *ChatService) GenerateStream(ctx context.Context, req *core.GenerationRequest) *FragmentStream {
	ctx, cancel := context.WithCancel(ctx)
	stream := newFragmentStream(cancel)
	go s.run(ctx, req, stream)
	return stream
}

func (s *ChatService) run(ctx context.Context, req *core.GenerationRequest, stream *FragmentStream) {
	defer close(stream.fragments)
	c := s.client

	if req == nil || req.IsEmpty() {
		stream.emit(ctx, ErrorFragment{
			Message: "Please enter a message or attach an image.",
			Class:   core.ErrInvalidRequest,
		})
		return
	}
	if c.credential == "" || c.generator == nil {
		stream.emit(ctx, CredentialInvalidFragment{})
		return
	}

	var lastErr *core.Error
	for _, model := range c.models {
		outcome := s.tryCandidate(ctx, model, req, stream)
		switch outcome.kind {
		case outcomeDone, outcomeCancelled:
			return
		case outcomeCredential:
			stream.emit(ctx, CredentialInvalidFragment{})
			return
		case outcomeAborted:
			// Partial output is already visible; rerunning any candidate
			// would duplicate it.
			stream.emit(ctx, ErrorFragment{
				Message: errorMessage(outcome.err),
				Class:   outcome.err.Type,
			})
			return
		case outcomeFailed:
			lastErr = outcome.err
			c.logger.Warn("model candidate exhausted", "model", model, "error", outcome.err)
		}
	}

	if lastErr == nil {
		lastErr = core.NewAPIError("no model candidates configured")
	}
	stream.emit(ctx, ErrorFragment{Message: errorMessage(lastErr), Class: lastErr.Type})
}

type outcomeKind int

const (
	outcomeFailed outcomeKind = iota
	outcomeDone
	outcomeCredential
	outcomeAborted
	outcomeCancelled
)

type candidateOutcome struct {
	kind outcomeKind
	err  *core.Error
}

// tryCandidate runs the bounded retry loop for one model. Only failures that
// happen before any fragment was forwarded are retried.
func (s *ChatService) tryCandidate(ctx context.Context, model string, req *core.GenerationRequest, stream *FragmentStream) candidateOutcome {
	c := s.client

	var result candidateOutcome
	settled := false

	backoff := retry.WithMaxRetries(uint64(c.maxAttempts-1), retry.NewExponential(c.retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		ts, err := c.generator.GenerateStream(ctx, model, c.system, req)
		if err != nil {
			return retryableIfTransient(err)
		}
		defer func() { _ = ts.Close() }()

		forwarded := false
		for {
			chunk, err := ts.Next()
			if errors.Is(err, io.EOF) {
				result, settled = candidateOutcome{kind: outcomeDone}, true
				return nil
			}
			if err != nil {
				if coreErr := asCoreError(err); coreErr.IsCredential() {
					result, settled = candidateOutcome{kind: outcomeCredential}, true
					return nil
				} else if forwarded {
					result, settled = candidateOutcome{kind: outcomeAborted, err: coreErr}, true
					return nil
				}
				return retryableIfTransient(err)
			}
			forwarded = true
			if !stream.emit(ctx, TextFragment{Text: chunk}) {
				result, settled = candidateOutcome{kind: outcomeCancelled}, true
				return nil
			}
		}
	})

	if settled {
		return result
	}
	if ctx.Err() != nil {
		return candidateOutcome{kind: outcomeCancelled}
	}
	coreErr := asCoreError(err)
	if coreErr.IsCredential() {
		return candidateOutcome{kind: outcomeCredential}
	}
	return candidateOutcome{kind: outcomeFailed, err: coreErr}
}

// retryableIfTransient marks rate-limit and overload failures for the
// backoff loop; everything else stops the candidate immediately.
func retryableIfTransient(err error) error {
	if asCoreError(err).IsRetryable() {
		return retry.RetryableError(err)
	}
	return err
}

func asCoreError(err error) *core.Error {
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		return coreErr
	}
	return core.NewProviderError("backend", err)
}

func errorMessage(err *core.Error) string {
	switch err.Type {
	case core.ErrRateLimit, core.ErrOverloaded:
		return "The assistant is handling too many requests right now. Please try again in a moment."
	default:
		return "Something went wrong while generating a response. Please try again."
	}
}
