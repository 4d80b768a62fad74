package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/knawat/mp-go/internal/app"
)

func syncCmd(opts *rootOptions) *cobra.Command {
	var interval time.Duration

	runCmd := &cobra.Command{
		Use:   "sync",
		Short: "Publish catalog changes since the last sync to the configured publishers",
		Long: "sync fetches products updated since the stored cursor, publishes one\n" +
			"product.updated event per new revision and advances the cursor.\n" +
			"With --interval it keeps running until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			client, cfg, log, err := opts.newClient(c.Context())
			if err != nil {
				return err
			}
			if c.Flags().Changed("interval") {
				cfg.SyncInterval = interval
			}

			syncer, err := app.NewSyncer(c.Context(), cfg, client, log)
			if err != nil {
				return err
			}
			report, err := syncer.Run(c.Context())
			if perr := printReport(c.OutOrStdout(), report, opts.jsonOutput()); perr != nil && err == nil {
				err = perr
			}
			return err
		},
	}

	runCmd.Flags().DurationVar(&interval, "interval", 0, "repeat the sync at this interval (0 runs once)")
	return runCmd
}
