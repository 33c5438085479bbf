package medisage

import "strings"

// SuggestionDelimiter separates the user-facing message from the trailing
// follow-up prompt block in a full response.
const SuggestionDelimiter = "===SUGGESTIONS==="

// maxSuggestions caps the parsed follow-up prompts.
const maxSuggestions = 3

// ResponseEnvelope is a full concatenated response split into the
// user-facing content and up to three follow-up prompts.
type ResponseEnvelope struct {
	Content     string
	Suggestions []string
}

// ParseEnvelope splits a full response at the suggestion delimiter. Without
// a delimiter the whole text is content. The suggestion segment is
// pipe-separated; empty entries are dropped and at most three are kept.
func ParseEnvelope(full string) ResponseEnvelope {
	content, tail, found := strings.Cut(full, SuggestionDelimiter)
	envelope := ResponseEnvelope{Content: strings.TrimSpace(content)}
	if !found {
		return envelope
	}

	for _, entry := range strings.Split(tail, "|") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		envelope.Suggestions = append(envelope.Suggestions, entry)
		if len(envelope.Suggestions) == maxSuggestions {
			break
		}
	}
	return envelope
}
