// Package main provides the CLI entrypoint for bfhl.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/bfhl/internal/client"
	"github.com/verte-zerg/bfhl/internal/config"
	"github.com/verte-zerg/bfhl/internal/envelope"
	"github.com/verte-zerg/bfhl/internal/generator"
	"github.com/verte-zerg/bfhl/internal/logging"
	"github.com/verte-zerg/bfhl/internal/model"
	"github.com/verte-zerg/bfhl/internal/render"
	"github.com/verte-zerg/bfhl/internal/selection"
	"github.com/verte-zerg/bfhl/internal/tui"
)

const (
	defaultMode       = string(model.ModeToggle)
	defaultTimeout    = 0
	defaultTokens     = 5
	defaultLetterPct  = 0.5
	defaultCapsPct    = 0.8
	defaultFormat     = "text"
	maxInputBytes     = 1 << 20
	logLevelFlagUsage = "log level (debug, info, warn, error)"
)

type formOptions struct {
	endpoint string
	mode     string
	timeout  time.Duration
	logLevel string
}

var (
	formOpts formOptions

	submitFilter string
	submitFormat string

	sampleTokens    int
	sampleLetterPct float64
	sampleCapsPct   float64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bfhl",
		Short:         "Submit token lists to the BFHL classifier and filter the reply",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runFormCmd,
	}

	rootCmd.PersistentFlags().StringVar(&formOpts.endpoint, "endpoint", client.DefaultEndpoint, "classifier endpoint URL")
	rootCmd.PersistentFlags().DurationVar(&formOpts.timeout, "timeout", defaultTimeout, "request timeout (0 uses the transport default)")
	rootCmd.PersistentFlags().StringVar(&formOpts.logLevel, "log-level", logging.DefaultLevel, logLevelFlagUsage)
	rootCmd.Flags().StringVar(&formOpts.mode, "mode", defaultMode, "filter control: toggle or multi")

	rootCmd.AddCommand(newSubmitCmd())
	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runFormCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, config.DefaultLogPath())
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	cl, err := client.New(cfg.Endpoint, client.WithTimeout(cfg.Timeout), client.WithLogger(logger))
	if err != nil {
		return err
	}
	logger.Info("starting form", zap.String("endpoint", cfg.Endpoint), zap.String("mode", string(cfg.Mode)))

	form, err := tui.NewModel(cfg, cl, logger)
	if err != nil {
		return err
	}
	program := tea.NewProgram(form, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newSubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit [json]",
		Short: "Validate, submit and print the filtered reply",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSubmitCmd,
	}
	cmd.Flags().StringVar(&submitFilter, "filter", strings.Join(categoryNames(), ","), "comma-separated categories to show")
	cmd.Flags().StringVar(&submitFormat, "format", defaultFormat, "output format: text, json, yaml or table")
	return cmd
}

func runSubmitCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	sel, err := parseFilter(submitFilter)
	if err != nil {
		return err
	}
	if err := validateFormat(submitFormat); err != nil {
		return err
	}

	text, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	env, err := envelope.Parse(text)
	if err != nil {
		return errors.New(envelope.InvalidInputMessage)
	}

	logger, err := logging.New(cfg.LogLevel, "")
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	cl, err := client.New(cfg.Endpoint, client.WithTimeout(cfg.Timeout), client.WithLogger(logger))
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := cl.Submit(ctx, env)
	if err != nil {
		logger.Debug("submit failed", zap.Error(err))
		return errors.New(client.TransportErrorMessage)
	}
	return writeResult(cmd.OutOrStdout(), resp, sel, submitFormat)
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print a random valid input",
		Args:  cobra.NoArgs,
		RunE:  runSampleCmd,
	}
	cmd.Flags().IntVar(&sampleTokens, "tokens", defaultTokens, "number of tokens")
	cmd.Flags().Float64Var(&sampleLetterPct, "letters", defaultLetterPct, "probability of a letter token (0-1)")
	cmd.Flags().Float64Var(&sampleCapsPct, "caps", defaultCapsPct, "probability of an upper-case letter (0-1)")
	return cmd
}

func runSampleCmd(cmd *cobra.Command, _ []string) error {
	if sampleTokens < 0 {
		return fmt.Errorf("--tokens must be >= 0")
	}
	if sampleLetterPct < 0 || sampleLetterPct > 1 {
		return fmt.Errorf("--letters must be between 0 and 1")
	}
	if sampleCapsPct < 0 || sampleCapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	text, err := generator.New().Envelope(sampleTokens, sampleLetterPct, sampleCapsPct)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

// resolveConfig merges the config file under any flags the user set.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	opts := formOpts
	applyStringConfig(cmd, "endpoint", &opts.endpoint, fileCfg.Form.Endpoint)
	applyStringConfig(cmd, "mode", &opts.mode, fileCfg.Form.Mode)
	applyStringConfig(cmd, "log-level", &opts.logLevel, fileCfg.Form.LogLevel)
	if err := applyDurationConfig(cmd, "timeout", &opts.timeout, fileCfg.Form.Timeout); err != nil {
		return model.Config{}, err
	}
	return buildConfig(opts)
}

func buildConfig(opts formOptions) (model.Config, error) {
	mode, err := model.ParseMode(opts.mode)
	if err != nil {
		return model.Config{}, fmt.Errorf("--mode: %w", err)
	}
	cfg := model.Config{
		Endpoint: strings.TrimSpace(opts.endpoint),
		Mode:     mode,
		Timeout:  opts.timeout,
		LogLevel: opts.logLevel,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("--endpoint must not be empty")
	}
	if cfg.Timeout < 0 {
		return fmt.Errorf("--timeout must be >= 0")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil {
		return nil
	}
	if flag := cmd.Flags().Lookup(name); flag == nil || flag.Changed {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*value))
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = d
	return nil
}

func parseFilter(value string) (selection.Set, error) {
	var labels []model.Category
	for _, part := range strings.Split(value, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := model.ParseCategory(part)
		if err != nil {
			return selection.Set{}, fmt.Errorf("--filter: %w", err)
		}
		labels = append(labels, c)
	}
	var ms selection.MultiSelect
	ms.Replace(labels)
	return ms.Selected(), nil
}

func validateFormat(format string) error {
	switch format {
	case "text", "json", "yaml", "table":
		return nil
	default:
		return fmt.Errorf("--format must be one of text, json, yaml, table")
	}
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", fmt.Errorf("no input: pass JSON as an argument or pipe it on stdin")
	}
	data, err := io.ReadAll(io.LimitReader(stdin, maxInputBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func writeResult(w io.Writer, resp *model.ResponseEnvelope, sel selection.Set, format string) error {
	var out string
	switch format {
	case "json":
		block, err := render.Block(resp, sel)
		if err != nil {
			return err
		}
		out = block
	case "yaml":
		block, err := render.YAML(resp, sel)
		if err != nil {
			return err
		}
		out = block
	case "table":
		out = strings.Join(render.Table(resp, sel), "\n")
	default:
		out = strings.Join(render.Lines(resp, sel), "\n")
	}
	if _, err := fmt.Fprintln(w, out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func categoryNames() []string {
	names := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		names = append(names, string(c))
	}
	return names
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# bfhl configuration
# Uncomment a value to enable it. CLI flags override config values.

[form]
# endpoint = %q
# mode = %q             # Filter control: "toggle" buttons or "multi" list
# timeout = "10s"           # Request timeout; unset uses the transport default
# log-level = %q          # debug, info, warn, error
`,
		client.DefaultEndpoint,
		defaultMode,
		logging.DefaultLevel,
	)
}
