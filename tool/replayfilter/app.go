// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package replayfilter defines the "replayfilter" command-line tool.
//
// The tool removes selected packets from recorded replay archives. It can
// also describe an archive and extract its raw record stream.
//
// Settings may be supplied by flag or by a YAML configuration file passed
// with --config. Flags take precedence over the configuration file.
package replayfilter

import (
	"fmt"
	"os"
	"strings"

	"github.com/danjacques/replayfilter/support/logging"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Main is the main entry point.
func Main() {
	if err := NewCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// app holds state shared by all commands.
type app struct {
	configPath string
	verbose    bool

	log     logging.L
	syncLog func()
}

// NewCommand builds the root command and its subcommands.
func NewCommand() *cobra.Command {
	a := app{
		log:     logging.Nop,
		syncLog: func() {},
	}

	root := &cobra.Command{
		Use:           "replayfilter",
		Short:         "Filter packets out of recorded replays",
		Long:          `replayfilter removes selected packet types from replay (.mcpr) archives.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(cmd.Flags()); err != nil {
				return err
			}

			cfg := logging.Config{
				Output:  cmd.ErrOrStderr(),
				Verbose: a.verbose,
			}
			a.log, a.syncLog = cfg.New()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.syncLog()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file.")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log every record that is processed.")

	root.AddCommand(
		a.newFilterCommand(),
		a.newInspectCommand(),
		a.newExtractCommand(),
	)

	return root
}

// loadConfig applies values from the configuration file to every flag that
// was not set on the command line.
func (a *app) loadConfig(flags *pflag.FlagSet) error {
	if a.configPath == "" {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(a.configPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "reading config file %q", a.configPath)
	}

	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}

		// Lists may be written as YAML sequences.
		value := v.GetString(f.Name)
		if _, ok := v.Get(f.Name).([]interface{}); ok {
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		}

		if setErr := flags.Set(f.Name, value); setErr != nil {
			err = errors.Wrapf(setErr, "config value %q", f.Name)
		}
	})
	return err
}
