package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/medisage-ai/medisage-go/pkg/core"
	medisage "github.com/medisage-ai/medisage-go/sdk"
)

var chatFlags struct {
	imagePath string
}

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the assistant a question and stream the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVarP(&chatFlags.imagePath, "image", "i", "", "attach an image file to the request")
}

func runChat(cmd *cobra.Command, args []string) error {
	req := &core.GenerationRequest{Text: strings.Join(args, " ")}
	if chatFlags.imagePath != "" {
		data, err := os.ReadFile(chatFlags.imagePath)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		req.Image = data
		req.ImageMIMEType = imageMIMEType(chatFlags.imagePath)
	}

	client := newClient()
	stream := client.Chat.GenerateStream(cmd.Context(), req)
	defer stream.Close()

	var full strings.Builder
	printedLen := 0
	for fragment := range stream.Fragments() {
		switch f := fragment.(type) {
		case medisage.TextFragment:
			full.WriteString(f.Text)
			// Hold back everything from the suggestion delimiter onward.
			visible := full.String()
			if cut := strings.Index(visible, medisage.SuggestionDelimiter); cut >= 0 {
				visible = visible[:cut]
			}
			if len(visible) > printedLen {
				fmt.Print(visible[printedLen:])
				printedLen = len(visible)
			}
		case medisage.ErrorFragment:
			fmt.Fprintf(os.Stderr, "\n%s\n", f.Message)
			return nil
		case medisage.CredentialInvalidFragment:
			return fmt.Errorf("the API key was rejected; set --api-key or GEMINI_API_KEY")
		}
	}
	fmt.Println()

	envelope := medisage.ParseEnvelope(full.String())
	if len(envelope.Suggestions) > 0 {
		fmt.Println("\nYou could ask next:")
		for _, suggestion := range envelope.Suggestions {
			fmt.Printf("  - %s\n", suggestion)
		}
	}
	return nil
}

func imageMIMEType(path string) string {
	switch strings.ToLower(path[strings.LastIndex(path, ".")+1:]) {
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
