package main

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/ttfs/ranges"
)

func (a *app) newRangesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ranges",
		Short: "Import or show ranges kept in a SQLite store",
		Long: `A SQLite range store lets several encoders share one set of feature ranges.
Encode and topology read it with --ranges sqlite://PATH.`,
	}

	cmd.AddCommand(a.newRangesImportCmd(), a.newRangesShowCmd())

	return cmd
}

func (a *app) newRangesImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the ranges of a SQLite store with those of a range file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withHint(a.runRangesImport(cmd))
		},
	}

	cmd.Flags().String("ranges", "", "range source: JSON or YAML file, or sqlite://PATH")
	cmd.Flags().String("db", "", "SQLite database to write")

	return cmd
}

func (a *app) newRangesShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the ranges of a source as YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withHint(a.runRangesShow(cmd))
		},
	}

	cmd.Flags().String("ranges", "", "range source: JSON or YAML file, or sqlite://PATH")
	cmd.Flags().String("db", "", "SQLite database to read, shorthand for --ranges sqlite://PATH")
	cmd.Flags().String("as", "yaml", "output syntax: yaml or json")

	return cmd
}

func (a *app) runRangesImport(cmd *cobra.Command) error {
	db := a.v.GetString("db")
	if db == "" {
		return errors.WithHint(errors.New("no database given"), "pass --db PATH or set TTFS_DB")
	}

	reg, err := a.loadRanges(cmd)
	if err != nil {
		return err
	}

	store, err := ranges.OpenSQLite(cmd.Context(), db)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Save(cmd.Context(), reg); err != nil {
		return err
	}

	a.logger.Info("ranges imported",
		zap.String("db", db),
		zap.Int("features", reg.Len()),
		zap.Uint64("fingerprint", reg.Fingerprint()),
	)

	return store.Close()
}

func (a *app) runRangesShow(cmd *cobra.Command) error {
	if db := a.v.GetString("db"); db != "" {
		a.v.Set("ranges", ranges.SQLiteScheme+db)
	}

	reg, err := a.loadRanges(cmd)
	if err != nil {
		return err
	}

	var kind ranges.Kind
	switch as := strings.ToLower(a.v.GetString("as")); as {
	case "yaml", "yml":
		kind = ranges.KindYAML
	case "json":
		kind = ranges.KindJSON
	default:
		return errors.WithHint(errors.Newf("unknown syntax %q", as), "use yaml or json")
	}

	data, err := ranges.Marshal(reg, kind)
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)

	return errors.Wrap(err, "write ranges")
}
