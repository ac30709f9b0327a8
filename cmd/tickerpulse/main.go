package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tickerpulse",
		Short: "Rank stock and crypto tickers by social media hype",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(scanCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(runCmd())

	return root
}

func scanCmd() *cobra.Command {
	var (
		jsonOutput  bool
		explain     bool
		top         int
		minMentions int
		sources     []string
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan and print the hype leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(jsonOutput, explain, top, minMentions, sources)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&explain, "explain", false, "print the score breakdown per ticker")
	cmd.Flags().IntVar(&top, "top", 0, "max tickers to rank (default: from config)")
	cmd.Flags().IntVar(&minMentions, "min-mentions", -1, "minimum mentions to rank (default: from config)")
	cmd.Flags().StringSliceVar(&sources, "source", nil, "specific sources to scan (e.g., reddit,stocktwits)")
	return cmd
}

func historyCmd() *cobra.Command {
	var (
		tickerSym  string
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past scores for one ticker",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(tickerSym, limit, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&tickerSym, "ticker", "", "ticker symbol (required)")
	cmd.Flags().IntVar(&limit, "limit", 20, "max scans to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}

func runCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start daemon with scheduler and HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}
