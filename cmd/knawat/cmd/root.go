// Package cmd implements the knawat CLI commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/knawat/mp-go/internal/app"
	"github.com/knawat/mp-go/internal/config"
	"github.com/knawat/mp-go/internal/logger"
	"github.com/knawat/mp-go/pkg/mp"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	cfgFile    string
	output     string
	diagnostic bool
}

// Execute runs the root command with signal-aware cancellation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer logger.Close()

	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the knawat command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "knawat",
		Short: "CLI client for the Knawat marketplace API",
		Long: "knawat is a command-line client for the Knawat MP REST API.\n" +
			"It lists and fetches products, manages orders, sends raw requests\n" +
			"and syncs catalog changes to configured publishers.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			switch opts.output {
			case "json", "table":
				return nil
			default:
				return fmt.Errorf("invalid --output %q (expected json or table)", opts.output)
			}
		},
	}

	rootCmd.PersistentFlags().
		StringVar(&opts.cfgFile, "config", "", "config file (yaml, json or toml); KNAWAT_* env vars override it")
	rootCmd.PersistentFlags().
		StringVarP(&opts.output, "output", "o", "json", "output format (json, table)")
	rootCmd.PersistentFlags().
		BoolVar(&opts.diagnostic, "diagnostic", false, "print request and transport details instead of the body only")

	rootCmd.AddCommand(
		tokenCmd(opts),
		productsCmd(opts),
		ordersCmd(opts),
		requestCmd(opts),
		syncCmd(opts),
	)

	return rootCmd
}

// loadConfig loads configuration and initializes the package logger.
func (o *rootOptions) loadConfig() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	sugar, err := logger.Init(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	log := logger.New(sugar)
	log.DebugObj("config loaded", "config", cfg.String())
	return cfg, log, nil
}

// newClient loads configuration and authenticates against the API.
func (o *rootOptions) newClient(ctx context.Context) (*mp.MP, *config.Config, logger.Logger, error) {
	cfg, log, err := o.loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := app.NewClient(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return client, cfg, log, nil
}

func (o *rootOptions) jsonOutput() bool {
	return o.output == "json"
}

// readPayload loads a JSON document from a file path or "-" for stdin.
func readPayload(path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("--file is required")
	}
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
