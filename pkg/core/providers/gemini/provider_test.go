package gemini

import (
	"errors"
	"io"
	"iter"
	"testing"

	"google.golang.org/genai"

	"github.com/medisage-ai/medisage-go/pkg/core"
)

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func pullStream(seq iter.Seq2[*genai.GenerateContentResponse, error]) *textStream {
	next, stop := iter.Pull2(seq)
	return &textStream{next: next, stop: stop}
}

func TestTextStreamForwardsChunksThenEOF(t *testing.T) {
	t.Parallel()

	seq := func(yield func(*genai.GenerateContentResponse, error) bool) {
		if !yield(textResponse("hello "), nil) {
			return
		}
		yield(textResponse("world"), nil)
	}
	stream := pullStream(seq)
	defer func() { _ = stream.Close() }()

	var got string
	for {
		chunk, err := stream.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next error: %v", err)
		}
		got += chunk
	}
	if got != "hello world" {
		t.Fatalf("concatenated text = %q", got)
	}

	// Exhausted streams keep returning EOF.
	if _, err := stream.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF after exhaustion, got %v", err)
	}
}

func TestTextStreamSkipsEmptyChunks(t *testing.T) {
	t.Parallel()

	seq := func(yield func(*genai.GenerateContentResponse, error) bool) {
		if !yield(&genai.GenerateContentResponse{}, nil) {
			return
		}
		yield(textResponse("only text"), nil)
	}
	stream := pullStream(seq)
	defer func() { _ = stream.Close() }()

	chunk, err := stream.Next()
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if chunk != "only text" {
		t.Fatalf("chunk = %q", chunk)
	}
}

func TestTextStreamClassifiesMidStreamErrors(t *testing.T) {
	t.Parallel()

	seq := func(yield func(*genai.GenerateContentResponse, error) bool) {
		if !yield(textResponse("partial"), nil) {
			return
		}
		yield(nil, genai.APIError{Code: 503, Message: "overloaded"})
	}
	stream := pullStream(seq)
	defer func() { _ = stream.Close() }()

	if _, err := stream.Next(); err != nil {
		t.Fatalf("first chunk error: %v", err)
	}
	_, err := stream.Next()
	var coreErr *core.Error
	if !errors.As(err, &coreErr) {
		t.Fatalf("mid-stream error = %T, want *core.Error", err)
	}
	if coreErr.Type != core.ErrOverloaded {
		t.Fatalf("type = %q, want %q", coreErr.Type, core.ErrOverloaded)
	}
}
