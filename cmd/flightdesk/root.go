package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flightdesk",
	Short: "Flightdesk is a multi-agent airline customer service backend",
	Long: `Flightdesk routes customer chat turns to a roster of specialist agents
(triage, seat booking, flight status, cancellation, FAQ), applies input
guardrails and exposes the conversation API over HTTP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the YAML config file")
}
