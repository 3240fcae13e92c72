package cmd

import (
	"fmt"

	"github.com/grovetools/pollwatch/cli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the 'config' command, which prints the effective
// configuration and the files it was merged from.
func NewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Display the effective configuration",
		Long: `Shows the configuration pollwatch would run with, built by merging:
1. Global config (~/.config/pollwatch/pollwatch.yml)
2. Project config (pollwatch.yml or pollwatch.toml, searched upward)
3. Override files (pollwatch.override.yml)
This is useful for debugging configuration issues.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cli.GetOptions(cmd))
			if err != nil {
				return err
			}

			cli.GetLogger(cmd, "config", cfg, cmd.ErrOrStderr()).WithField("sources", len(cfg.Sources)).Debug("Resolved configuration")

			out := cmd.OutOrStdout()
			if len(cfg.Sources) == 0 {
				fmt.Fprintln(out, "# Source: defaults")
			}
			for _, src := range cfg.Sources {
				fmt.Fprintf(out, "# Source: %s\n", src)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, string(data))
			return err
		},
	}
}
