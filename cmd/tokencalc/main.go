package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/everstacklabs/tokencalc/internal/catalog"
	"github.com/everstacklabs/tokencalc/internal/config"
	"github.com/everstacklabs/tokencalc/internal/diff"
	"github.com/everstacklabs/tokencalc/internal/estimator"
	"github.com/everstacklabs/tokencalc/internal/quote"
	"github.com/everstacklabs/tokencalc/internal/ranking"
	"github.com/everstacklabs/tokencalc/internal/server"
	"github.com/everstacklabs/tokencalc/internal/validate"
)

// Exit codes.
const (
	ExitErrors  = 1 // validation errors or command failure
	ExitChanges = 2 // diff found changes
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	cfgFile     string
	catalogPath string
	json        bool
}

// env is the loaded state a command runs against.
type env struct {
	cfg  *config.Config
	cat  *catalog.Catalog
	svc  *quote.Service
	json bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(ExitErrors)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "tokencalc",
		Short:        "Estimate LLM token counts and prompt costs",
		Long:         "Estimates token counts with per-provider heuristics and prices prompts against a catalog of model rates.",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog-path", "", "Path to model catalog (default: built-in)")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print JSON instead of a table")

	rootCmd.AddCommand(
		providersCmd(opts),
		modelsCmd(opts),
		estimateCmd(opts),
		quoteCmd(opts),
		compareCmd(opts),
		cheapestCmd(opts),
		validateCmd(opts),
		diffCmd(opts),
		exportCmd(opts),
		serveCmd(opts),
	)

	return rootCmd
}

func providersCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List catalog providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}
			return e.printProviders(cmd.OutOrStdout())
		},
	}
}

func modelsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List models and their rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}

			provider, _ := cmd.Flags().GetString("provider")
			var models []catalog.Model
			if provider == "" {
				models = e.cat.AllModels()
			} else {
				key := catalog.ProviderKey(provider)
				if !e.cat.HasProvider(key) {
					return fmt.Errorf("unknown provider %q: %w", provider, catalog.ErrNotFound)
				}
				models = e.cat.ListModels(key)
			}
			return e.printModels(cmd.OutOrStdout(), models, -1)
		},
	}

	cmd.Flags().String("provider", "", "Only list models from this provider")

	return cmd
}

func estimateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate [text...]",
		Short: "Estimate the token count of text",
		Long:  "Estimates tokens for text given as arguments, read from --file, or piped on stdin.",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}

			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			provider, _ := cmd.Flags().GetString("provider")
			if provider == "" {
				provider = e.cfg.DefaultProvider
			}
			key := catalog.ProviderKey(provider)
			if _, ok := estimator.Lookup(key); !ok {
				slog.Warn("no dedicated formula, using chars/4", "provider", provider)
			}

			return e.printEstimate(cmd.OutOrStdout(), key, estimator.Analyze(text), estimator.Estimate(text, key))
		},
	}

	cmd.Flags().String("provider", "", "Provider whose formula to use (default: from config)")
	cmd.Flags().String("file", "", "Read input text from a file")

	return cmd
}

func quoteCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote [text...]",
		Short: "Price a prompt on one model",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}

			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			provider, _ := cmd.Flags().GetString("provider")
			model, _ := cmd.Flags().GetString("model")
			if provider == "" {
				provider = e.cfg.DefaultProvider
				if model == "" {
					model = e.cfg.DefaultModel
				}
			}

			outputTokens := e.cfg.OutputTokens
			if cmd.Flags().Changed("output-tokens") {
				outputTokens, _ = cmd.Flags().GetInt("output-tokens")
			}

			res, err := e.svc.Quote(quote.Request{
				Provider:     catalog.ProviderKey(provider),
				ModelID:      model,
				InputText:    text,
				OutputTokens: outputTokens,
			})
			if err != nil {
				return err
			}
			if res.ExceedsContext {
				slog.Warn("prompt exceeds model context window",
					"model", res.Model.ID, "tokens", res.Cost.Tokens, "context_length", res.Model.ContextLength)
			}
			return e.printQuote(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().String("provider", "", "Provider (default: from config)")
	cmd.Flags().String("model", "", "Model id (default: the provider's first model)")
	cmd.Flags().Int("output-tokens", 0, "Expected output tokens (default: from config)")
	cmd.Flags().String("file", "", "Read input text from a file")

	return cmd
}

func compareCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [text...]",
		Short: "Price a prompt on every model",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}

			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			outputTokens := e.cfg.OutputTokens
			if cmd.Flags().Changed("output-tokens") {
				outputTokens, _ = cmd.Flags().GetInt("output-tokens")
			}
			includeDeprecated, _ := cmd.Flags().GetBool("include-deprecated")
			sortByCost, _ := cmd.Flags().GetBool("sort")

			results, err := e.svc.Compare(text, outputTokens, quote.CompareOptions{
				IncludeDeprecated: includeDeprecated,
				SortByCost:        sortByCost,
			})
			if err != nil {
				return err
			}
			return e.printComparison(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().Int("output-tokens", 0, "Expected output tokens (default: from config)")
	cmd.Flags().Bool("include-deprecated", false, "Include deprecated models")
	cmd.Flags().Bool("sort", false, "Sort by total cost, cheapest first")
	cmd.Flags().String("file", "", "Read input text from a file")

	return cmd
}

func cheapestCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cheapest",
		Short: "List the most cost-effective models by input price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}

			n := e.cfg.TopN
			if cmd.Flags().Changed("n") {
				n, _ = cmd.Flags().GetInt("n")
			}
			models := ranking.MostCostEffective(e.cat, n)
			return e.printModels(cmd.OutOrStdout(), models, 0)
		},
	}

	cmd.Flags().Int("n", ranking.DefaultTopN, "Number of models to list (default: from config)")

	return cmd
}

func validateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the catalog (CI check)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}

			result := validate.ValidateCatalog(e.cat)
			if e.json {
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), validate.FormatResult(result))
			}

			if result.HasErrors() {
				os.Exit(ExitErrors)
			}
			return nil
		},
	}
}

func diffCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show how another catalog differs from the current one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}

			against, _ := cmd.Flags().GetString("against")
			other, err := catalog.LoadDir(against)
			if err != nil {
				return fmt.Errorf("loading catalog to compare: %w", err)
			}

			changesets := diff.Compute(e.cat, other)
			hasChanges, err := e.printDiff(cmd.OutOrStdout(), changesets)
			if err != nil {
				return err
			}

			if hasChanges {
				os.Exit(ExitChanges)
			}
			return nil
		},
	}

	cmd.Flags().String("against", "", "Catalog directory to compare with")
	_ = cmd.MarkFlagRequired("against")

	return cmd
}

func exportCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog to a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}

			dir, _ := cmd.Flags().GetString("dir")
			formatName, _ := cmd.Flags().GetString("format")
			format, err := catalog.ParseFormat(formatName)
			if err != nil {
				return err
			}

			written, err := catalog.Export(dir, e.cat, format)
			if err != nil {
				return err
			}
			slog.Info("catalog exported", "dir", dir, "format", format, "files", len(written))
			return nil
		},
	}

	cmd.Flags().String("dir", "", "Output directory")
	cmd.Flags().String("format", "yaml", "Model file format: yaml or toml")
	_ = cmd.MarkFlagRequired("dir")

	return cmd
}

func serveCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(opts)
			if err != nil {
				return err
			}

			addr := e.cfg.Server.Addr
			if cmd.Flags().Changed("addr") {
				addr, _ = cmd.Flags().GetString("addr")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(e.svc, server.Options{
				Addr:      addr,
				RateLimit: e.cfg.Server.RateLimit,
				Burst:     e.cfg.Server.Burst,
				Logger:    slog.Default(),
			})
			return srv.Run(ctx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default: from config)")

	return cmd
}

// setup loads config, installs the logger, and opens the catalog.
func setup(opts *rootOptions) (*env, error) {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := setupLogger(cfg.LogLevel); err != nil {
		return nil, err
	}

	catalogPath := cfg.CatalogPath
	if opts.catalogPath != "" {
		catalogPath = opts.catalogPath
	}

	var cat *catalog.Catalog
	if catalogPath != "" {
		cat, err = catalog.LoadDir(catalogPath)
	} else {
		cat, err = catalog.Builtin()
	}
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	slog.Debug("catalog loaded", "version", cat.Version(), "path", catalogPath, "models", len(cat.AllModels()))

	return &env{
		cfg:  cfg,
		cat:  cat,
		svc:  quote.New(cat),
		json: opts.json || cfg.Output == "json",
	}, nil
}

func setupLogger(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

// readInput returns the prompt text from --file, the arguments, or stdin.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading input file: %w", err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return "", errors.New("no input text: pass it as arguments, with --file, or on stdin")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
