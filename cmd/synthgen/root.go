package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/synthgen/pkg/config"
	"github.com/YuminosukeSato/synthgen/pkg/log"
)

// rootOptions holds the persistent flags and the configuration loaded from
// them. Subcommands copy cfg by value before applying their own flags.
type rootOptions struct {
	cfgFile  string
	logLevel string
	cfg      *config.Config
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "synthgen",
		Short:         "Synthetic minority records for mixed tables",
		Long:          `synthgen oversamples the minority class of a table with mixed continuous and categorical columns using SMOTE-NC, and writes only the synthesized rows.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is ./synthgen.yaml when present)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	cmd.AddCommand(newGenerateCmd(opts), newDescribeCmd(opts), newVersionCmd())
	return cmd
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	c, err := config.Load(o.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		c.Log.Level = o.logLevel
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := log.SetupLogger(cmd.ErrOrStderr(), c.Log.Level, c.Log.Format); err != nil {
		return err
	}
	o.cfg = c
	return nil
}
