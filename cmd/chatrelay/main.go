// Package main is the entry point for the chatrelay CLI.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/flemzord/chatrelay/internal/config"
	"github.com/flemzord/chatrelay/pkg/app"
	"github.com/spf13/cobra"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chatrelay",
		Short:         "An authenticated relay in front of an OpenAI-compatible chat API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(versionCmd(), serveCmd(), configCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "chatrelay %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the relay until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			return app.Run(app.RunParams{
				ConfigPath: cfgPath,
				Version:    version,
				Commit:     commit,
				Date:       date,
			})
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to configuration file")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check <path>",
		Short: "Validate configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(args[0])
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), cfg)
			return nil
		},
	})
	return cmd
}

// printSummary never prints key or token values.
func printSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration OK")
	fmt.Fprintf(w, "  listen:        %s\n", cfg.Server.Bind)
	fmt.Fprintf(w, "  upstream:      %s\n", cfg.UpstreamURL())
	fmt.Fprintf(w, "  model:         %s\n", cfg.Model)
	fmt.Fprintf(w, "  api keys:      %d\n", len(cfg.APIKeys))
	fmt.Fprintf(w, "  max history:   %d\n", cfg.History())
	fmt.Fprintf(w, "  request mode:  %s\n", cfg.RequestMode)
	fmt.Fprintf(w, "  response mode: %s\n", cfg.ResponseMode)
	if cfg.Telemetry.Enabled {
		fmt.Fprintf(w, "  tracing:       %s\n", cfg.Telemetry.Endpoint)
	}
}
