package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/medisage-ai/medisage-go/internal/envfile"
	medisage "github.com/medisage-ai/medisage-go/sdk"
)

var rootFlags struct {
	apiKey  string
	models  []string
	verbose bool
}

var rootCmd = &cobra.Command{
	Use:   "medisage",
	Short: "Talk to the MediSage health assistant from the terminal",
	Long: `medisage is a terminal client for the MediSage health assistant:
streaming text chat with model fallback, wellness quotes, and a live
duplex voice session.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := envfile.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFlags.apiKey, "api-key", "k", "", "Gemini API key (defaults to GEMINI_API_KEY, then GOOGLE_API_KEY)")
	rootCmd.PersistentFlags().StringSliceVarP(&rootFlags.models, "model", "m", nil, "model candidates in preference order (repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "enable debug logging")
}

// resolveCredential returns the API key from the flag or the environment.
// Empty is allowed; the SDK surfaces the credential-invalid sentinel.
func resolveCredential() string {
	if rootFlags.apiKey != "" {
		return rootFlags.apiKey
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("GOOGLE_API_KEY")
}

func newClient() *medisage.Client {
	level := slog.LevelWarn
	if rootFlags.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []medisage.ClientOption{medisage.WithLogger(logger)}
	if len(rootFlags.models) > 0 {
		opts = append(opts, medisage.WithModels(rootFlags.models...))
	}
	return medisage.NewClient(resolveCredential(), opts...)
}
