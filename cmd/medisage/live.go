package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/medisage-ai/medisage-go/pkg/core/live"
	medisage "github.com/medisage-ai/medisage-go/sdk"
)

var liveFlags struct {
	model string
	voice string
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Start a live voice conversation",
	Long: `Opens a duplex voice session: your microphone is streamed to the
assistant and its spoken replies play through the speaker. Type "m" to
toggle mute, "q" or Ctrl+C to stop.`,
	RunE: runLive,
}

func init() {
	rootCmd.AddCommand(liveCmd)
	liveCmd.Flags().StringVar(&liveFlags.model, "live-model", "", "live model identifier")
	liveCmd.Flags().StringVar(&liveFlags.voice, "voice", "", "prebuilt voice persona")
}

func runLive(cmd *cobra.Command, args []string) error {
	client := newClient()

	sink, err := newSpeakerSink()
	if err != nil {
		return err
	}
	defer sink.Close()

	session, err := client.Live.NewSession(medisage.LiveSessionRequest{
		Model:   liveFlags.model,
		Voice:   liveFlags.voice,
		Capture: newMicCapture(),
		Sink:    sink,
	})
	if err != nil {
		return err
	}

	if err := session.Start(cmd.Context()); err != nil {
		return err
	}
	defer session.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	inputCh := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			inputCh <- strings.TrimSpace(scanner.Text())
		}
		close(inputCh)
	}()

	fmt.Println("Live session starting. \"m\" toggles mute, \"q\" quits.")
	for {
		select {
		case <-sigCh:
			fmt.Println("\nStopping session.")
			return nil
		case line, ok := <-inputCh:
			if !ok {
				return nil
			}
			switch line {
			case "m":
				session.Mute(!session.Muted())
				if session.Muted() {
					fmt.Println("Muted. Silence is being sent.")
				} else {
					fmt.Println("Unmuted.")
				}
			case "q":
				return nil
			}
		case event, ok := <-session.Events():
			if !ok {
				return nil
			}
			if done := printLiveEvent(event); done {
				return nil
			}
		}
	}
}

// printLiveEvent reports session status changes; returns true on terminal
// events.
func printLiveEvent(event live.Event) bool {
	switch e := event.(type) {
	case *live.ConnectedEvent:
		fmt.Println("Connected. Start talking.")
	case *live.ReconnectingEvent:
		fmt.Printf("Connection lost. Reconnecting (attempt %d)...\n", e.Attempt)
	case *live.PlaybackInterruptedEvent:
		fmt.Println("(interrupted)")
	case *live.SessionErrorEvent:
		fmt.Fprintf(os.Stderr, "Session error: %v\n", e.Err)
		if e.Terminal {
			fmt.Fprintln(os.Stderr, "Connection unstable. Run \"medisage live\" again to retry.")
			return true
		}
	case *live.SessionClosedEvent:
		return true
	}
	return false
}
