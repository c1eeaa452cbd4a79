package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"docchat/pkg/ai"
	_ "docchat/pkg/ai/providers"
	"docchat/pkg/config"
	"docchat/pkg/logging"

	"github.com/alecthomas/kong"
	"golang.org/x/term"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Config file path. Set before calling Run().
	ConfigPath string

	// Optional overrides for end-to-end testing.
	NewProvider func(config.Config) (ai.Provider, error)
	IsTerminal  func() bool
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPath: config.GetConfigPath(),
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:         ctx,
		Stdout:      stdout,
		Stderr:      stderr,
		NewProvider: m.NewProvider,
		IsTerminal:  m.IsTerminal,
	}
	if deps.NewProvider == nil {
		deps.NewProvider = ai.GetProviderFromConfig
	}
	if deps.IsTerminal == nil {
		deps.IsTerminal = stdioIsTerminal
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docchat"),
		kong.Description("Documentation chat assistant: relay server and terminal widget."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docchat --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// version needs neither config nor logging
	if cmd != "version" {
		cfg, err := m.loadConfig(cli.Config)
		if err != nil {
			fmt.Fprintf(stderr, "Hint: Use --config to point at a different configuration file\n")
			return err
		}
		deps.Config = cfg

		opts := logging.Options{}
		if cmd == "serve" && cli.Serve.LogStderr {
			opts.Stderr = stderr
		}
		if _, err := logging.InitWithOptions(cfg, opts); err != nil {
			fmt.Fprintf(stderr, "warning: file logging disabled: %v\n", err)
		}
	}

	return kongCtx.Run(deps)
}

func (m *Main) loadConfig(override string) (config.Config, error) {
	path := m.ConfigPath
	if override != "" {
		path = override
	}

	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	cfg = config.ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func stdioIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
