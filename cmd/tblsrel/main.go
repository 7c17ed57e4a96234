package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tordrt/tblsrel"
	"github.com/tordrt/tblsrel/internal/config"
	"github.com/tordrt/tblsrel/internal/errs"
	"github.com/tordrt/tblsrel/internal/formatter"
	"github.com/tordrt/tblsrel/internal/logger"
	"github.com/tordrt/tblsrel/internal/output"
	"github.com/tordrt/tblsrel/internal/rule"
	"github.com/tordrt/tblsrel/internal/tbls"
)

// app holds the state shared by all commands of one invocation
type app struct {
	cfg       *config.Config
	envFile   string
	verbose   bool
	logFormat string
	format    string
	log       *logger.Logger
	stderr    io.Writer
}

func newApp() *app {
	return &app{
		cfg:    config.Default(),
		log:    logger.New(nil),
		stderr: os.Stderr,
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tblsrel",
		Short:         "Detect table relations and write them to a tbls config",
		Long:          `tblsrel reads the tables and indexes of a MySQL, PostgreSQL or SQLite database, infers relations that are not declared as foreign keys, and writes them to a .tbls.yml file as additional relations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Show debug messages")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "Log format: console or json")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", config.DefaultEnvFile, "File with TBLSREL_* environment variables")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Codegen related commands",
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Generate configs file from database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerateConfig(cmd.Context())
		},
	}
	addDetectionFlags(configCmd, a.cfg)
	configCmd.Flags().StringVarP(&a.cfg.Output, "output", "o", config.DefaultOutput,
		"Output file path, - for stdout, or s3://bucket/key")
	generateCmd.AddCommand(configCmd)

	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Print detected relations without writing a config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDetect(cmd.Context(), cmd.OutOrStdout())
		},
	}
	addDetectionFlags(detectCmd, a.cfg)
	detectCmd.Flags().StringVarP(&a.format, "format", "f", formatter.FormatText, "Output format: text or markdown")

	rootCmd.AddCommand(generateCmd, detectCmd)
	return rootCmd
}

func addDetectionFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.DatabaseURL, "database-url", "", "Database URL")
	cmd.Flags().StringVar(&cfg.Schema, "schema", "", "PostgreSQL schema name (default: public)")
	cmd.Flags().StringSliceVarP(&cfg.Rules, "rules", "r", []string{rule.NameEndsWith},
		fmt.Sprintf("Rules for detecting relations (%v). By default, column names that end with the table_name_column_name of the parent table are detected as relations", rule.Names()))
	cmd.Flags().StringSliceVar(&cfg.Prefixes, "ends-with-excepting-prefixes", nil,
		"Prefixes to be specified for detection by the ends-with-excepting-the-prefixes rule")
	cmd.Flags().Uint64Var(&cfg.MaxCombinations, "max-combinations", config.DefaultMaxCombinations,
		"Skip an index against a table when it has more candidate column combinations than this (0: no limit)")
	cmd.Flags().BoolVar(&cfg.SkipEmptyIndexes, "skip-empty-indexes", false, "Ignore indexes without columns")
	cmd.Flags().BoolVar(&cfg.Deduplicate, "dedup", false, "Drop relations detected more than once")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", config.DefaultTimeout, "Time limit for reading the schema and writing the output")
}

// setup configures logging and fills unset flags from the environment
func (a *app) setup(cmd *cobra.Command) error {
	// Warnings stay visible: a skipped search means relations may be missing.
	level := "warn"
	if a.verbose {
		level = "debug"
	}
	a.log = logger.New(&logger.Config{Level: level, Format: a.logFormat, Output: a.stderr})

	required := cmd.Flags().Changed("env-file")
	if err := config.LoadEnvFile(a.envFile, required); err != nil {
		return errs.Wrap(errs.KindConfig, "failed to load environment", err)
	}
	if err := a.cfg.ApplyEnv(cmd.Flags().Changed); err != nil {
		return errs.Wrap(errs.KindConfig, "invalid environment", err)
	}
	return nil
}

func (a *app) options() *tblsrel.Options {
	return &tblsrel.Options{
		Rules:            a.cfg.Rules,
		Prefixes:         a.cfg.Prefixes,
		Schema:           a.cfg.Schema,
		MaxCombinations:  a.cfg.MaxCombinations,
		SkipEmptyIndexes: a.cfg.SkipEmptyIndexes,
		Deduplicate:      a.cfg.Deduplicate,
		Logger:           a.log,
	}
}

// generate validates the configuration and runs extraction and detection
func (a *app) generate(ctx context.Context) (*tbls.Config, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, errs.Wrap(errs.KindConfig, "invalid configuration", err)
	}
	return tblsrel.Generate(ctx, a.cfg.DatabaseURL, a.options())
}

func (a *app) runGenerateConfig(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.cfg.Validate(); err != nil {
		return errs.Wrap(errs.KindConfig, "invalid configuration", err)
	}
	sink, err := output.Open(ctx, a.cfg.Output, a.cfg.Storage)
	if err != nil {
		return errs.Wrap(errs.KindConfig, "invalid output", err)
	}

	doc, err := tblsrel.Generate(ctx, a.cfg.DatabaseURL, a.options())
	if err != nil {
		return err
	}

	if err := tblsrel.WriteConfig(ctx, doc, sink); err != nil {
		return err
	}
	a.log.With().Str("output", sink.String()).Int("relations", len(doc.Relations)).Logger().
		Info("wrote config")
	return nil
}

func (a *app) runDetect(ctx context.Context, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	f, err := formatter.New(a.format, w)
	if err != nil {
		return errs.Wrap(errs.KindConfig, "invalid format", err)
	}

	doc, err := a.generate(ctx)
	if err != nil {
		return err
	}

	if err := f.Format(doc.Relations); err != nil {
		return errs.Wrap(errs.KindPersistence, "failed to format output", err)
	}
	return nil
}

func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.cfg.Timeout)
}

func main() {
	a := newApp()
	if err := newRootCmd(a).Execute(); err != nil {
		a.log.ErrorWith("tblsrel failed", err, map[string]interface{}{"phase": errs.KindOf(err).String()})
		os.Exit(1)
	}
}
