package cli

import (
	"io"

	"github.com/grovetools/pollwatch/config"
	"github.com/grovetools/pollwatch/errors"
	"github.com/grovetools/pollwatch/logging"
	"github.com/grovetools/pollwatch/util/pathutil"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandOptions holds common options for pollwatch commands
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with the standard flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		// Errors are rendered by ErrorHandler so exit codes and messages stay in one place.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to pollwatch.yml or pollwatch.toml")

	SetStyledHelp(cmd)

	return cmd
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// LoadConfig loads the explicit config file if one was given, otherwise the
// layered configuration for the current directory.
func LoadConfig(opts CommandOptions) (*config.Config, error) {
	if opts.ConfigFile != "" {
		path, err := pathutil.Expand(opts.ConfigFile)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid --config path").
				WithDetail("path", opts.ConfigFile)
		}
		return config.Load(path)
	}
	return config.LoadDefault()
}

// GetLogger creates a logger for component from the logging section of cfg
// and the command's flags. stderr receives the stderr sink.
func GetLogger(cmd *cobra.Command, component string, cfg *config.Config, stderr io.Writer) *logrus.Entry {
	opts := GetOptions(cmd)

	var logCfg logging.Config
	if err := logging.DecodeConfig(cfg, &logCfg); err != nil {
		logrus.Warnf("Failed to parse 'logging' config: %v", err)
	}

	return logging.New(component, logCfg, logging.Options{
		Verbose: opts.Verbose,
		Stderr:  stderr,
	})
}
