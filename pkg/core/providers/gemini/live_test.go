package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/medisage-ai/medisage-go/pkg/core/live"
)

func newLiveWebsocketTestServer(t *testing.T, handler func(conn *websocket.Conn)) (string, func()) {
	t.Helper()

	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		handler(conn)
	}))

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	return wsURL, server.Close
}

func testDialer(url string) *LiveDialer {
	d := NewLiveDialer("test-key")
	d.Endpoint = url
	return d
}

func dialTestConn(t *testing.T, url string) live.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	conn, err := testDialer(url).Dial(ctx, live.LiveConfig{
		Model:     "gemini-2.0-flash-live-001",
		Voice:     "Aoede",
		InputRate: 16000,
	})
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}
	return conn
}

func TestLiveDial_SendsSetupAndWaitsForAck(t *testing.T) {
	t.Parallel()

	setupCh := make(chan setupMessage, 1)
	serverURL, closeServer := newLiveWebsocketTestServer(t, func(conn *websocket.Conn) {
		defer conn.Close()

		var setup setupMessage
		if err := conn.ReadJSON(&setup); err != nil {
			return
		}
		setupCh <- setup

		_ = conn.WriteJSON(map[string]any{"setupComplete": map[string]any{}})
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(2*time.Second))
	})
	defer closeServer()

	conn := dialTestConn(t, serverURL)
	defer conn.Close()

	setup := <-setupCh
	if setup.Setup.Model != "models/gemini-2.0-flash-live-001" {
		t.Fatalf("setup model = %q, want models/ prefix", setup.Setup.Model)
	}
	if got := setup.Setup.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName; got != "Aoede" {
		t.Fatalf("setup voice = %q, want %q", got, "Aoede")
	}
}

func TestLiveDial_RejectedSetupFails(t *testing.T) {
	t.Parallel()

	serverURL, closeServer := newLiveWebsocketTestServer(t, func(conn *websocket.Conn) {
		defer conn.Close()
		var setup setupMessage
		if err := conn.ReadJSON(&setup); err != nil {
			return
		}
		_ = conn.WriteJSON(map[string]any{"goAway": map[string]any{}})
	})
	defer closeServer()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := testDialer(serverURL).Dial(ctx, live.LiveConfig{Model: "gemini-2.0-flash-live-001"})
	if err == nil {
		t.Fatal("expected a rejected setup to fail the dial")
	}
}

func TestLiveConn_DeliversAudioAndInterruption(t *testing.T) {
	t.Parallel()

	serverURL, closeServer := newLiveWebsocketTestServer(t, func(conn *websocket.Conn) {
		defer conn.Close()
		var setup setupMessage
		if err := conn.ReadJSON(&setup); err != nil {
			return
		}
		_ = conn.WriteJSON(map[string]any{"setupComplete": map[string]any{}})
		_ = conn.WriteJSON(map[string]any{
			"serverContent": map[string]any{
				"modelTurn": map[string]any{
					"parts": []any{
						map[string]any{"inlineData": map[string]any{"mimeType": "audio/pcm;rate=24000", "data": "AAAA"}},
					},
				},
			},
		})
		_ = conn.WriteJSON(map[string]any{
			"serverContent": map[string]any{"interrupted": true, "turnComplete": true},
		})
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(2*time.Second))
	})
	defer closeServer()

	conn := dialTestConn(t, serverURL)
	defer conn.Close()

	var got []string
	for event := range conn.Events() {
		switch e := event.(type) {
		case live.ServerOpenedEvent:
			got = append(got, "opened")
		case live.ServerAudioEvent:
			got = append(got, "audio:"+e.Data)
		case live.ServerInterruptedEvent:
			got = append(got, "interrupted")
		case live.ServerClosedEvent:
			if e.Err != nil {
				t.Fatalf("unexpected close error: %v", e.Err)
			}
			got = append(got, "closed")
		}
	}

	want := []string{"opened", "audio:AAAA", "interrupted", "closed"}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLiveConn_SendWrapsFrameInRealtimeInput(t *testing.T) {
	t.Parallel()

	inputCh := make(chan realtimeInputMessage, 1)
	serverURL, closeServer := newLiveWebsocketTestServer(t, func(conn *websocket.Conn) {
		defer conn.Close()
		var setup setupMessage
		if err := conn.ReadJSON(&setup); err != nil {
			return
		}
		_ = conn.WriteJSON(map[string]any{"setupComplete": map[string]any{}})

		var input realtimeInputMessage
		if err := conn.ReadJSON(&input); err != nil {
			return
		}
		inputCh <- input
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(2*time.Second))
	})
	defer closeServer()

	conn := dialTestConn(t, serverURL)
	defer conn.Close()

	if err := conn.Send("cGNtZGF0YQ=="); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	select {
	case input := <-inputCh:
		chunks := input.RealtimeInput.MediaChunks
		if len(chunks) != 1 {
			t.Fatalf("expected 1 media chunk, got %d", len(chunks))
		}
		if chunks[0].MIMEType != "audio/pcm;rate=16000" {
			t.Fatalf("mime type = %q", chunks[0].MIMEType)
		}
		if chunks[0].Data != "cGNtZGF0YQ==" {
			t.Fatalf("data = %q", chunks[0].Data)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not receive the frame")
	}
}

func TestLiveConn_AbnormalCloseReportsError(t *testing.T) {
	t.Parallel()

	serverURL, closeServer := newLiveWebsocketTestServer(t, func(conn *websocket.Conn) {
		var setup setupMessage
		if err := conn.ReadJSON(&setup); err != nil {
			return
		}
		_ = conn.WriteJSON(map[string]any{"setupComplete": map[string]any{}})
		// Drop the connection without a close frame.
		_ = conn.Close()
	})
	defer closeServer()

	conn := dialTestConn(t, serverURL)
	defer conn.Close()

	var closeErr error
	for event := range conn.Events() {
		if e, ok := event.(live.ServerClosedEvent); ok {
			closeErr = e.Err
		}
	}
	if closeErr == nil {
		t.Fatal("expected an error on abnormal close")
	}
}
