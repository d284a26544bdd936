// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/conciliation/internal/config"
	"fjacquet/conciliation/internal/container"
	"fjacquet/conciliation/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Config   string
	LogLevel string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.NewNopLogger()

	// AppContainer holds the dependencies wired from the configuration.
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "conciliation",
		Short: "A CLI tool to reconcile bank movements with expense and income ledgers.",
		Long: `conciliation matches the movements of a bank statement against the
expense and income ledgers of a property manager settlement. Rows that
belong together are grouped in numbered buckets; the check command reports
what is left unmatched and whether matched money balances.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Setup()
		},
	}

	// SharedFlags holds the flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input workbook directory or source file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output workbook directory")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Config, "config", "", "Configuration file (default: config.yaml lookup)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (overrides configuration)")
}

// Setup loads the configuration and wires the container used by the
// subcommands. LOG_LEVEL from the environment applies unless --log-level
// is given.
func Setup() error {
	config.LoadEnv()

	var (
		cfg *config.Config
		err error
	)
	if SharedFlags.Config != "" {
		cfg, err = config.InitializeConfigFromFile(SharedFlags.Config)
	} else {
		cfg, err = config.InitializeConfig()
	}
	if err != nil {
		return err
	}

	if lvl := config.GetEnv("LOG_LEVEL", ""); lvl != "" {
		cfg.Log.Level = lvl
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level %q", cfg.Log.Level)
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("error wiring application: %w", err)
	}
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

// RequireInput returns the --input value or an error naming what it should hold.
func RequireInput(what string) (string, error) {
	if SharedFlags.Input == "" {
		return "", fmt.Errorf("--input is required: %s", what)
	}
	return SharedFlags.Input, nil
}
