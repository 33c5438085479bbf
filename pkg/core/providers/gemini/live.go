package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/medisage-ai/medisage-go/pkg/core"
	"github.com/medisage-ai/medisage-go/pkg/core/live"
)

const (
	defaultLiveEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

	defaultLiveConnectTimeout = 15 * time.Second
)

// LiveDialer opens BidiGenerateContent websocket connections.
type LiveDialer struct {
	apiKey string

	// Endpoint overrides the service URL. Empty means the production endpoint.
	Endpoint string

	// ConnectTimeout bounds the handshake when ctx has no deadline.
	ConnectTimeout time.Duration
}

// NewLiveDialer creates a dialer bound to the given API key.
func NewLiveDialer(apiKey string) *LiveDialer {
	return &LiveDialer{apiKey: apiKey}
}

// Dial opens a connection, sends the session setup frame and waits for the
// service to acknowledge it before handing the connection over.
func (d *LiveDialer) Dial(ctx context.Context, cfg live.LiveConfig) (live.Conn, error) {
	if d.apiKey == "" {
		return nil, core.NewAuthenticationError("api key must not be empty")
	}
	if cfg.Model == "" {
		return nil, core.NewInvalidRequestError("live model must not be empty")
	}

	endpoint := d.Endpoint
	if endpoint == "" {
		endpoint = defaultLiveEndpoint
	}
	wsURL := endpoint + "?key=" + d.apiKey

	dialCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		timeout := d.ConnectTimeout
		if timeout <= 0 {
			timeout = defaultLiveConnectTimeout
		}
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	wsConn, resp, err := websocket.DefaultDialer.DialContext(dialCtx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, core.NewConnectionError(fmt.Sprintf("websocket dial failed (status %d)", resp.StatusCode), err)
		}
		return nil, core.NewConnectionError("websocket dial failed", err)
	}

	if err := wsConn.WriteJSON(buildSetup(cfg)); err != nil {
		_ = wsConn.Close()
		return nil, core.NewConnectionError("send session setup", err)
	}

	_ = wsConn.SetReadDeadline(time.Now().Add(defaultLiveConnectTimeout))
	_, payload, err := wsConn.ReadMessage()
	if err != nil {
		_ = wsConn.Close()
		return nil, core.NewConnectionError("read setup acknowledgement", err)
	}
	_ = wsConn.SetReadDeadline(time.Time{})

	var first serverMessage
	if err := json.Unmarshal(payload, &first); err != nil {
		_ = wsConn.Close()
		return nil, core.NewDecodeError("decode setup acknowledgement: " + err.Error())
	}
	if first.SetupComplete == nil {
		_ = wsConn.Close()
		return nil, core.NewConnectionError("service rejected session setup", nil)
	}

	conn := &liveConn{
		ws:        wsConn,
		inputRate: cfg.InputRate,
		events:    make(chan live.ServerEvent, 256),
		done:      make(chan struct{}),
	}
	conn.emit(live.ServerOpenedEvent{})
	go conn.readLoop()
	return conn, nil
}

func buildSetup(cfg live.LiveConfig) setupMessage {
	model := cfg.Model
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}

	setup := setupPayload{
		Model: model,
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
		},
	}
	if cfg.Voice != "" {
		setup.GenerationConfig.SpeechConfig = &speechConfig{
			VoiceConfig: &voiceConfig{
				PrebuiltVoiceConfig: &prebuiltVoiceConfig{VoiceName: cfg.Voice},
			},
		}
	}
	if cfg.SystemInstruction != "" {
		setup.SystemInstruction = &contentPayload{
			Parts: []partPayload{{Text: cfg.SystemInstruction}},
		}
	}
	return setupMessage{Setup: setup}
}

// liveConn is an open BidiGenerateContent websocket connection.
type liveConn struct {
	ws        *websocket.Conn
	inputRate int

	events chan live.ServerEvent
	done   chan struct{}

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
}

// Send wraps one outbound audio frame in a realtime input message.
func (c *liveConn) Send(frame string) error {
	if c.closed.Load() {
		return core.NewConnectionError("connection is closed", nil)
	}
	rate := c.inputRate
	if rate <= 0 {
		rate = 16000
	}
	msg := realtimeInputMessage{
		RealtimeInput: realtimeInput{
			MediaChunks: []blobPayload{{
				MIMEType: fmt.Sprintf("audio/pcm;rate=%d", rate),
				Data:     frame,
			}},
		},
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteJSON(msg)
}

func (c *liveConn) Events() <-chan live.ServerEvent {
	return c.events
}

func (c *liveConn) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(2*time.Second))
		c.writeMu.Unlock()
		_ = c.ws.Close()
	})
	<-c.done
	return nil
}

func (c *liveConn) readLoop() {
	defer close(c.done)
	defer close(c.events)

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if c.closed.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.emit(live.ServerClosedEvent{})
				return
			}
			c.emit(live.ServerClosedEvent{Err: core.NewConnectionError("read live frame", err)})
			return
		}

		var msg serverMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			// Unknown frames are skipped; the protocol may grow fields.
			continue
		}

		switch {
		case msg.ServerContent != nil:
			if msg.ServerContent.Interrupted {
				c.emit(live.ServerInterruptedEvent{})
			}
			if msg.ServerContent.ModelTurn != nil {
				for _, part := range msg.ServerContent.ModelTurn.Parts {
					if part.InlineData != nil && part.InlineData.Data != "" {
						c.emit(live.ServerAudioEvent{Data: part.InlineData.Data})
					}
				}
			}
		case msg.GoAway != nil:
			c.emit(live.ServerClosedEvent{Err: core.NewConnectionError("service requested disconnect", nil)})
			return
		}
	}
}

func (c *liveConn) emit(event live.ServerEvent) {
	select {
	case c.events <- event:
	default:
		// Avoid deadlocking the read loop if the caller stops consuming.
	}
}
