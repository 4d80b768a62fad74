package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

func requestCmd(opts *rootOptions) *cobra.Command {
	var data string

	reqCmd := &cobra.Command{
		Use:   "request <method> <path>",
		Short: "Send a raw authenticated request (GET, POST, PUT, DELETE)",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			method := strings.ToUpper(args[0])
			path := args[1]

			var payload any
			if data != "" {
				if !json.Valid([]byte(data)) {
					return fmt.Errorf("--data is not valid JSON")
				}
				payload = json.RawMessage(data)
			}

			client, _, _, err := opts.newClient(c.Context())
			if err != nil {
				return err
			}

			return opts.emit(c, client, method, path, payload, func() (any, error) {
				switch method {
				case http.MethodGet:
					return client.Get(c.Context(), path)
				case http.MethodPost:
					return client.Post(c.Context(), path, payload)
				case http.MethodPut:
					return client.Put(c.Context(), path, payload)
				case http.MethodDelete:
					return client.Delete(c.Context(), path, payload)
				default:
					res, err := client.Do(c.Context(), method, path, payload)
					if err != nil {
						return nil, err
					}
					return res.Body, nil
				}
			}, noTable)
		},
	}

	reqCmd.Flags().StringVarP(&data, "data", "d", "", "JSON request body")
	return reqCmd
}
