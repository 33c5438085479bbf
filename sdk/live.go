package medisage

import (
	"github.com/medisage-ai/medisage-go/pkg/core"
	"github.com/medisage-ai/medisage-go/pkg/core/live"
)

// LiveService opens duplex voice sessions.
type LiveService struct {
	client *Client
}

// LiveSessionRequest configures a voice session. Zero values use the client
// defaults.
type LiveSessionRequest struct {
	Model string
	Voice string

	// Capture and Sink bind the session to the local audio hardware.
	Capture live.CaptureSource
	Sink    live.Sink

	Config live.SessionConfig
}

// NewSession creates a voice session bound to the client's credential. The
// session is not started; call Start on the returned session.
func (s *LiveService) NewSession(req LiveSessionRequest) (*live.Session, error) {
	c := s.client
	if c.dialer == nil {
		return nil, core.NewAuthenticationError("credential must not be empty")
	}
	if req.Capture == nil || req.Sink == nil {
		return nil, core.NewInvalidRequestError("capture source and playback sink are required")
	}

	config := req.Config
	config.Model = req.Model
	if config.Model == "" {
		config.Model = DefaultLiveModel
	}
	config.Voice = req.Voice
	if config.Voice == "" {
		config.Voice = DefaultVoice
	}
	if config.SystemInstruction == "" {
		config.SystemInstruction = c.system
	}

	session := live.NewSession(config, c.dialer, req.Capture, req.Sink)
	session.SetLogger(c.logger)
	return session, nil
}
