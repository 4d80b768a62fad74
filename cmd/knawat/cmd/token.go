package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func tokenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Exchange the consumer credentials and print the session token",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			client, _, _, err := opts.newClient(c.Context())
			if err != nil {
				return err
			}

			token, ok := client.AccessToken()
			if opts.jsonOutput() {
				return outputJSON(c.OutOrStdout(), map[string]any{"token": token, "present": ok})
			}
			if !ok {
				return fmt.Errorf("the token endpoint returned no token; check the consumer key and secret")
			}
			_, err = fmt.Fprintln(c.OutOrStdout(), token)
			return err
		},
	}
}
