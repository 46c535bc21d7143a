// Package main provides the CLI entrypoint for jobsdone.
//
// jobsdone reads the .jobs_done.yaml document of a repository and:
//   - Expands its matrix into one job specification per row
//   - Applies conditional options and {placeholder} substitution
//   - Renders every job through a CI generator (jenkins)
//   - Checks documents and reports diagnostics
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobsdone/internal/config"
	"jobsdone/internal/gen"
	"jobsdone/internal/gen/jenkins"
	"jobsdone/internal/logging"
)

// app holds the state shared by all commands.
type app struct {
	// Global flags
	configPath string
	logLevel   string
	logFormat  string
	url        string
	branch     string
	name       string

	cfg      *config.Config
	logger   *zap.Logger
	registry *gen.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{registry: gen.NewRegistry()}
	jenkins.Register(a.registry)

	rootCmd := &cobra.Command{
		Use:   "jobsdone",
		Short: "Generate CI jobs from a repository's .jobs_done.yaml",
		Long: `jobsdone expands the .jobs_done.yaml document of a repository into CI jobs.

Every matrix row becomes one job. Options prefixed with conditions such as
"planet-mars:" only apply to matching rows, and {placeholders} are replaced by
row values, {branch} and {name}.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.DefaultPath, "path to the jobsdone configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format (console, json)")
	flags.StringVar(&a.url, "url", "", "repository URL (default: git remote origin)")
	flags.StringVar(&a.branch, "branch", "", "branch name (default: current git branch)")
	flags.StringVar(&a.name, "name", "", "repository name (default: derived from the URL)")

	rootCmd.AddCommand(
		a.generateCmd(),
		a.expandCmd(),
		a.checkCmd(),
		a.watchCmd(),
	)

	return rootCmd
}

// setup loads the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}

	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger

	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
