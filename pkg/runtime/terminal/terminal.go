package terminal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/vehicle-atlas/pkg/runtime/bootstrap"
	"github.com/de-tools/vehicle-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/vehicle-atlas/pkg/services/config"
	"github.com/de-tools/vehicle-atlas/pkg/services/registry"
)

// CLI represents the command-line interface
type CLI struct {
	renderers  map[string]registry.Factory
	output     io.Writer
	errOutput  io.Writer
	configPath string
	verbose    bool
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Renderers map[string]registry.Factory
	Output    io.Writer
	// ErrOutput receives logs and diagnostics.
	ErrOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.Renderers == nil {
		opts.Renderers = bootstrap.Renderers()
	}

	cli := &CLI{
		renderers: opts.Renderers,
		output:    opts.Output,
		errOutput: opts.ErrOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args for the root command.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "report",
		Short:         "Vehicle history report renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.output)
	cmd.SetErr(cli.errOutput)

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to the vehicle-atlas.yaml config file")
	cmd.PersistentFlags().BoolVarP(&cli.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(commands.NewRenderCmd(cli.load))
	cmd.AddCommand(commands.NewValidateCmd(cli.load))
	cmd.AddCommand(commands.NewSectionsCmd(cli.load))
	cmd.AddCommand(commands.NewFormatsCmd(cli.load))
	cmd.AddCommand(commands.NewBatchCmd(cli.load))

	return cmd
}

// load reads the config named by --config and attaches a logger to the
// command context.
func (cli *CLI) load(cmd *cobra.Command) (*bootstrap.Runtime, error) {
	cfg, err := config.Load(cli.configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel()
	if cli.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cli.errOutput, NoColor: true}).
		Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	rt, err := bootstrap.New(ctx, cfg, cli.renderers)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise renderer: %w", err)
	}
	return rt, nil
}
