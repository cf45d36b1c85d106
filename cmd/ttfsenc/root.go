package main

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "TTFS"

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v      *viper.Viper
	logger *zap.Logger
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

func newRootCmd() *cobra.Command {
	a := &app{v: newViper(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "ttfsenc",
		Short: "Encode network-flow records into TTFS spike trains",
		Long: `ttfsenc - Time-To-First-Spike encoding of network-flow records.

Each feature value is normalized against its (min, max) range and mapped to one
spike per delay ring; larger values fire earlier. Channel ids follow
ring * feature_count + feature_index, with features sorted by name.

Available commands:
  encode    - Encode JSONL or CSV records into spike trains
  decode    - Print the trains stored in spike blobs as JSONL
  topology  - Show the channel layout for a range source
  ranges    - Import or show ranges kept in a SQLite store

Examples:
  ttfsenc encode --ranges ranges.json --input flows.csv > spikes.jsonl
  ttfsenc encode --ranges sqlite://ranges.db --input flows.jsonl --format blob --output spikes.blob
  ttfsenc topology --ranges ranges.json --rings 4`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = a.logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (yaml, json or toml) providing flag defaults")
	pf.String("log-level", "warn", "log level: debug, info, warn or error")
	pf.Bool("log-json", false, "log as JSON instead of console text")

	root.AddCommand(
		a.newEncodeCmd(),
		a.newDecodeCmd(),
		a.newTopologyCmd(),
		a.newRangesCmd(),
	)

	return root
}

// setup binds the running command's flags, reads the optional config file and
// builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.WithHint(errors.Wrapf(err, "read config file %s", path),
				"config files use the flag names as keys, for example `rings: 4`")
		}
	}

	logger, err := newLogger(a.v.GetString("log-level"), a.v.GetBool("log-json"), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger.With(zap.String("command", cmd.Name()))

	return nil
}
