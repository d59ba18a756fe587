package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information (set at build time with -ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	configPath  string
	backendFlag string
	logLevel    string
	logFormat   string
)

var rootCmd = &cobra.Command{
	Use:   "irconsole",
	Short: "irconsole - incident-response console",
	Long: `irconsole runs diagnostic and management actions against processes, sockets,
services, users, cron jobs, firewall rules and startup items on a remote host,
and streams an AI explanation of the result.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: search irconsole.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "execution backend: ssh, agent or local")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (auto, console, json)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(aiCmd)
	rootCmd.AddCommand(agentTokenCmd)
	rootCmd.AddCommand(localCmd)
	rootCmd.AddCommand(shellCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "irconsole %s\n", Version)
		if BuildTime != "unknown" {
			fmt.Fprintf(out, "Built: %s\n", BuildTime)
		}
		if GitCommit != "unknown" {
			fmt.Fprintf(out, "Commit: %s\n", GitCommit)
		}
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
