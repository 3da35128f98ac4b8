package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coolbeans/ryakugo/pkg/abbrev"
	"github.com/coolbeans/ryakugo/pkg/config"
	"github.com/coolbeans/ryakugo/pkg/document"
	"github.com/coolbeans/ryakugo/pkg/kb"
	"github.com/coolbeans/ryakugo/pkg/output"
	"github.com/coolbeans/ryakugo/pkg/source"
)

var version = "0.1.0"

// app carries the state shared by subcommands once the configuration has
// been loaded.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "ryakugo",
		Short: "Extract defined terms and abbreviations from Japanese statutes",
		Long: `ryakugo finds the definitions drafted into Japanese statutory text and
reports each formal term together with its abbreviation.

It recognizes the common drafting idioms:
  「本機構」とは、独立行政法人をいう。
  行政手続法（以下「法」という。）
  許可（この法律に規定する許可をいう。）
  金融機関等（銀行、信用金庫その他の金融機関をいう。）

and looks inside nested parentheticals.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default $"+config.EnvConfigPath+" or "+config.DefaultConfigPath+")")
	flags.StringP("format", "f", "", fmt.Sprintf("Output format %v", output.Formats))
	flags.StringP("encoding", "e", "", fmt.Sprintf("Input encoding %v", source.SupportedEncodings))
	flags.Int("max-depth", 0, "Maximum parenthetical nesting to recurse into (0 = unlimited)")
	flags.String("db", "", "SQLite knowledge base path")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(extractCmd(a))
	rootCmd.AddCommand(stripCmd(a))
	rootCmd.AddCommand(batchCmd(a))
	rootCmd.AddCommand(watchCmd(a))
	rootCmd.AddCommand(lookupCmd(a))

	return rootCmd
}

// load reads the configuration, applies the flags set on cmd over it and
// builds the logger.
func (a *app) load(cmd *cobra.Command) error {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if flags.Changed("format") {
		cfg.Output.Format, _ = flags.GetString("format")
	}
	if flags.Changed("encoding") {
		cfg.Input.Encoding, _ = flags.GetString("encoding")
	}
	if flags.Changed("max-depth") {
		cfg.Extract.MaxDepth, _ = flags.GetInt("max-depth")
	}
	if flags.Changed("db") {
		cfg.Output.DB, _ = flags.GetString("db")
	}
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("dedupe") {
		cfg.Extract.Dedupe, _ = flags.GetBool("dedupe")
	}
	if flags.Changed("sort") {
		cfg.Extract.Sort, _ = flags.GetBool("sort")
	}
	if flags.Changed("only-paren") {
		cfg.Extract.OnlyParen, _ = flags.GetBool("only-paren")
	}
	if flags.Changed("workers") {
		cfg.Batch.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("debounce") {
		cfg.Watch.Debounce, _ = flags.GetDuration("debounce")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = newLogger(cfg.Log, cmd.ErrOrStderr())
	return nil
}

func (a *app) extractor() *abbrev.Extractor {
	return abbrev.NewExtractor(abbrev.WithMaxDepth(a.cfg.Extract.MaxDepth))
}

func (a *app) pairOptions() document.Options {
	return document.Options{
		Dedupe:    a.cfg.Extract.Dedupe,
		Sort:      a.cfg.Extract.Sort,
		OnlyParen: a.cfg.Extract.OnlyParen,
	}
}

func (a *app) matcher() (*source.Matcher, error) {
	return source.NewMatcher(a.cfg.Input.Include, a.cfg.Input.Exclude)
}

// openDB opens the configured knowledge base, or returns nil when none is
// configured.
func (a *app) openDB() (*kb.DB, error) {
	if a.cfg.Output.DB == "" {
		return nil, nil
	}
	db, err := kb.Open(a.cfg.Output.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base: %w", err)
	}
	return db, nil
}

// addPairFlags registers the post-processing flags shared by the
// extracting commands.
func addPairFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Write results to this file instead of stdout")
	cmd.Flags().Bool("dedupe", false, "Drop repeated pairs, keeping the first")
	cmd.Flags().Bool("sort", false, "Sort pairs by formal term, then abbreviation")
	cmd.Flags().Bool("only-paren", false, "Keep only pairs defined inside parentheticals")
}

// openOutput returns the destination selected by --output.
func openOutput(cmd *cobra.Command) (io.Writer, func() error, error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output: %w", err)
	}
	return file, file.Close, nil
}
