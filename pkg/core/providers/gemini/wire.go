package gemini

import "encoding/json"

// Wire types for the BidiGenerateContent websocket protocol. Field names
// follow the service's camelCase JSON convention.

type setupMessage struct {
	Setup setupPayload `json:"setup"`
}

type setupPayload struct {
	Model             string            `json:"model"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
	SystemInstruction *contentPayload   `json:"systemInstruction,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig *voiceConfig `json:"voiceConfig,omitempty"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig *prebuiltVoiceConfig `json:"prebuiltVoiceConfig,omitempty"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type contentPayload struct {
	Parts []partPayload `json:"parts"`
	Role  string        `json:"role,omitempty"`
}

type partPayload struct {
	Text       string       `json:"text,omitempty"`
	InlineData *blobPayload `json:"inlineData,omitempty"`
}

type blobPayload struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type realtimeInputMessage struct {
	RealtimeInput realtimeInput `json:"realtimeInput"`
}

type realtimeInput struct {
	MediaChunks []blobPayload `json:"mediaChunks"`
}

// serverMessage is the union of inbound frame shapes; exactly one field is
// set per frame.
type serverMessage struct {
	SetupComplete *struct{}       `json:"setupComplete,omitempty"`
	ServerContent *serverContent  `json:"serverContent,omitempty"`
	GoAway        json.RawMessage `json:"goAway,omitempty"`
}

type serverContent struct {
	ModelTurn    *contentPayload `json:"modelTurn,omitempty"`
	Interrupted  bool            `json:"interrupted,omitempty"`
	TurnComplete bool            `json:"turnComplete,omitempty"`
}
