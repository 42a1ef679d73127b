// Package main provides the CLI entry point for vdombench, which inspects,
// validates, renders and serves virtual-DOM benchmark contestant lists.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/weiihann/vdombench/contestant"
	"github.com/weiihann/vdombench/registry"
	"github.com/weiihann/vdombench/report"
	"github.com/weiihann/vdombench/server"
)

func main() {
	envCfg, err := parseEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level, err := parseLevel(envCfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	registry.Default = registry.New(logger)

	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	root := newRootCmd(logger, envCfg)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", slog.String("error", err.Error()))
		stop()
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger, envCfg envConfig) *cobra.Command {
	root := &cobra.Command{
		Use:   "vdombench",
		Short: "Virtual-DOM benchmark contestant registry",
		Long: `Vdombench manages the contestant list of the virtual-DOM benchmark:
the tests locator plus each contestant's name, source URL and hosted
benchmark URL, as declared by a benchmarkConfig registration script.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newListCmd(logger, envCfg),
		newValidateCmd(logger, envCfg),
		newRenderCmd(logger, envCfg),
		newDiffCmd(logger),
		newServeCmd(logger, envCfg),
	)

	return root
}

// sourceFlags selects the configuration a command operates on.
type sourceFlags struct {
	variant    string
	configPath string
}

func (s *sourceFlags) bind(cmd *cobra.Command, envCfg envConfig) {
	flags := cmd.Flags()
	flags.StringVar(&s.variant, "variant", envCfg.Variant,
		"Built-in variant: root, web")
	flags.StringVar(&s.configPath, "config", envCfg.ConfigPath,
		"Path to a config.js or JSON file (overrides --variant)")
}

// register loads the selected configuration and registers it.
func (s *sourceFlags) register(
	ctx context.Context,
	logger *slog.Logger,
) (*registry.Registry, error) {
	arg := s.variant
	if s.configPath != "" {
		arg = s.configPath
	}

	cfg, err := loadSource(ctx, logger, arg)
	if err != nil {
		return nil, err
	}

	if err := registry.Register(cfg); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	return registry.Default, nil
}

// loadSource resolves arg as a built-in variant name, else as a file path.
func loadSource(
	ctx context.Context,
	logger *slog.Logger,
	arg string,
) (*contestant.Config, error) {
	if slices.Contains(contestant.Variants(), arg) {
		logger.DebugContext(ctx, "loading built-in configuration",
			slog.String("variant", arg),
		)

		return contestant.Builtin(arg)
	}

	if _, err := os.Stat(arg); err != nil {
		return nil, fmt.Errorf(
			"%q is neither a built-in variant (%v) nor a readable file: %w",
			arg, contestant.Variants(), err,
		)
	}

	logger.DebugContext(ctx, "loading configuration file",
		slog.String("path", arg),
	)

	return contestant.Load(arg)
}

func newListCmd(logger *slog.Logger, envCfg envConfig) *cobra.Command {
	var (
		src        sourceFlags
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contestants in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := src.register(cmd.Context(), logger)
			if err != nil {
				return err
			}

			cfg, _ := reg.Config()
			if outputJSON {
				return report.GenerateJSON(cmd.OutOrStdout(), cfg)
			}

			return report.Generate(cmd.OutOrStdout(), cfg)
		},
	}

	src.bind(cmd, envCfg)
	cmd.Flags().BoolVar(&outputJSON, "json", false,
		"Output as JSON instead of table")

	return cmd
}

func newValidateCmd(logger *slog.Logger, envCfg envConfig) *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check contestant fields and URLs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := src.register(cmd.Context(), logger)
			if err != nil {
				return err
			}

			cfg, _ := reg.Config()

			return runValidate(cmd.Context(), logger, cmd.OutOrStdout(), cfg)
		},
	}

	src.bind(cmd, envCfg)

	return cmd
}

func runValidate(
	ctx context.Context,
	logger *slog.Logger,
	w io.Writer,
	cfg *contestant.Config,
) error {
	for _, name := range contestant.Duplicates(cfg) {
		logger.WarnContext(ctx, "duplicate contestant name",
			slog.String("name", name),
		)
	}

	err := contestant.Validate(cfg)
	if err == nil {
		fmt.Fprintf(w, "ok: %d contestants\n", len(cfg.Contestants))

		return nil
	}

	violations := []error{err}

	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		violations = joined.Unwrap()
	}

	for _, v := range violations {
		fmt.Fprintf(w, "invalid: %v\n", v)
	}

	return fmt.Errorf("%d validation errors", len(violations))
}

func newRenderCmd(logger *slog.Logger, envCfg envConfig) *cobra.Command {
	var (
		src        sourceFlags
		outputJSON bool
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the benchmarkConfig registration script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := src.register(cmd.Context(), logger)
			if err != nil {
				return err
			}

			cfg, _ := reg.Config()

			encode := contestant.Encode
			if outputJSON {
				encode = contestant.EncodeJSON
			}

			if outPath == "" {
				if err := encode(cmd.OutOrStdout(), cfg); err != nil {
					return fmt.Errorf("render: %w", err)
				}

				return nil
			}

			if err := renderFile(outPath, cfg, encode); err != nil {
				return err
			}

			logger.InfoContext(cmd.Context(), "configuration rendered",
				slog.String("path", outPath),
			)

			return nil
		},
	}

	src.bind(cmd, envCfg)
	flags := cmd.Flags()
	flags.BoolVar(&outputJSON, "json", false,
		"Write bare JSON instead of a registration script")
	flags.StringVarP(&outPath, "output", "o", "",
		"Output file (default: stdout)")

	return cmd
}

// renderFile encodes cfg into path. The file is removed if encoding or
// closing fails.
func renderFile(
	path string,
	cfg *contestant.Config,
	encode func(io.Writer, *contestant.Config) error,
) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	defer func() {
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := encode(f, cfg); err != nil {
		f.Close()

		return fmt.Errorf("render %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	return nil
}

func newDiffCmd(logger *slog.Logger) *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "diff <a> <b>",
		Short: "Compare two configurations field by field",
		Long: `Compare two configurations. Each argument is a built-in variant
name (root, web) or a path to a config.js or JSON file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			a, err := loadSource(ctx, logger, args[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}

			b, err := loadSource(ctx, logger, args[1])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[1], err)
			}

			diffs := contestant.Diff(a, b)

			logger.DebugContext(ctx, "configurations compared",
				slog.Int("differences", len(diffs)),
			)

			if outputJSON {
				return report.GenerateDiffJSON(cmd.OutOrStdout(), diffs)
			}

			return report.GenerateDiff(cmd.OutOrStdout(), diffs)
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false,
		"Output differences as JSON")

	return cmd
}

func newServeCmd(logger *slog.Logger, envCfg envConfig) *cobra.Command {
	var (
		src  sourceFlags
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve config.js to browser harnesses over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := src.register(cmd.Context(), logger)
			if err != nil {
				return err
			}

			cfg, _ := reg.Config()

			srv, err := server.New(server.Config{
				Addr:            addr,
				ShutdownTimeout: envCfg.ShutdownTimeout,
				Primary:         cfg,
			}, logger)
			if err != nil {
				return err
			}

			return srv.Run(cmd.Context())
		},
	}

	src.bind(cmd, envCfg)
	cmd.Flags().StringVar(&addr, "addr", envCfg.Addr,
		"Listen address")

	return cmd
}
