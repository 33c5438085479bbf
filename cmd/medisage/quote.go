package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Print a short wellness quote",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		fmt.Println(client.Quote.GetQuote(cmd.Context()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quoteCmd)
}
