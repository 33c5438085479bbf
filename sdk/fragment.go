package medisage

import (
	"context"
	"sync"

	"github.com/medisage-ai/medisage-go/pkg/core"
)

// Fragment is one item of a streamed generation response. The closed set of
// variants is TextFragment, ErrorFragment and CredentialInvalidFragment;
// error and credential fragments are always terminal.
type Fragment interface {
	fragmentType() string
}

// TextFragment carries an incremental piece of generated text. Fragments
// concatenate in emission order to form the full response.
type TextFragment struct {
	Text string
}

func (f TextFragment) fragmentType() string { return "text" }

// ErrorFragment is the terminal item after all candidates and retries are
// exhausted. Message is human-readable; Class is the last failure class.
type ErrorFragment struct {
	Message string
	Class   core.ErrorType
}

func (f ErrorFragment) fragmentType() string { return "error" }

// CredentialInvalidFragment is the terminal sentinel for a missing or
// rejected credential. The UI should prompt for a new credential.
type CredentialInvalidFragment struct{}

func (f CredentialInvalidFragment) fragmentType() string { return "credential_invalid" }

// FragmentStream is a lazy sequence of fragments. The channel ends after a
// clean completion or a terminal fragment.
type FragmentStream struct {
	fragments chan Fragment
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func newFragmentStream(cancel context.CancelFunc) *FragmentStream {
	return &FragmentStream{
		fragments: make(chan Fragment, 16),
		cancel:    cancel,
	}
}

// Fragments yields fragments in generation order.
func (s *FragmentStream) Fragments() <-chan Fragment {
	return s.fragments
}

// Close abandons the stream. Safe to call at any point; the producer stops
// at its next suspension point.
func (s *FragmentStream) Close() {
	s.closeOnce.Do(s.cancel)
}

// emit blocks until the consumer takes the fragment or the stream context
// ends, preserving fragment order.
func (s *FragmentStream) emit(ctx context.Context, f Fragment) bool {
	select {
	case s.fragments <- f:
		return true
	case <-ctx.Done():
		return false
	}
}
