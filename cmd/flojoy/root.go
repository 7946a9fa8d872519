package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/flojoy/internal/logging"
	"github.com/aretw0/flojoy/internal/presentation/tui"
	"github.com/aretw0/flojoy/pkg/config"
	"github.com/spf13/cobra"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "flojoy",
	Short: "flojoy runs and inspects dataflow node jobs",
	Long: `flojoy validates data containers, prints the container schema and runs
pre-ordered job pipelines against the built-in nodes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "flojoy.yaml", "Path to the configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().Bool("debug", false, "Trace node execution and store calls")
	rootCmd.PersistentFlags().Bool("offline", false, "Keep results in process memory whatever the configured backend")
	rootCmd.PersistentFlags().Bool("plain", false, "Disable colors and markdown rendering")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) error {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")

	var err error
	cfg, err = config.Load(path)
	if err != nil {
		return err
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("offline") {
		cfg.Offline, _ = flags.GetBool("offline")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = logging.NewWithWriter(cmd.ErrOrStderr(), level)
	return nil
}

// rich reports whether output goes to a terminal and --plain is unset.
func rich(cmd *cobra.Command) bool {
	plain, _ := cmd.Flags().GetBool("plain")
	return !plain && tui.IsTerminal(cmd.OutOrStdout())
}

// render writes markdown to the command output.
func render(cmd *cobra.Command, markdown string) error {
	out, err := tui.NewRenderer(rich(cmd))(markdown)
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
