package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/knawat/mp-go/pkg/mp"
)

func ordersCmd(opts *rootOptions) *cobra.Command {
	ordersRoot := &cobra.Command{
		Use:   "orders",
		Short: "Manage Knawat orders",
	}

	ordersRoot.AddCommand(
		ordersListCmd(opts),
		ordersGetCmd(opts),
		ordersCreateCmd(opts),
		ordersUpdateCmd(opts),
	)

	return ordersRoot
}

func ordersListCmd(opts *rootOptions) *cobra.Command {
	var q mp.OrdersQuery

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			client, _, _, err := opts.newClient(c.Context())
			if err != nil {
				return err
			}
			return opts.emit(c, client, http.MethodGet, mp.OrdersPath(q), nil, func() (any, error) {
				return client.GetOrders(c.Context(), q)
			}, orderColumns)
		},
	}

	listCmd.Flags().IntVar(&q.Limit, "limit", 10, "orders per page")
	listCmd.Flags().IntVar(&q.Page, "page", 1, "page number")

	return listCmd
}

func ordersGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			client, _, _, err := opts.newClient(c.Context())
			if err != nil {
				return err
			}
			id := args[0]
			return opts.emit(c, client, http.MethodGet, mp.OrderPath(id), nil, func() (any, error) {
				return client.GetOrderByID(c.Context(), id)
			}, noTable)
		},
	}
}

func ordersCreateCmd(opts *rootOptions) *cobra.Command {
	var file string

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an order from a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			payload, err := loadJSON(file)
			if err != nil {
				return err
			}
			client, _, _, err := opts.newClient(c.Context())
			if err != nil {
				return err
			}
			return opts.emit(c, client, http.MethodPost, mp.OrdersBasePath, payload, func() (any, error) {
				return client.CreateOrder(c.Context(), payload)
			}, noTable)
		},
	}

	createCmd.Flags().StringVarP(&file, "file", "f", "", "order JSON file, or - for stdin")
	return createCmd
}

func ordersUpdateCmd(opts *rootOptions) *cobra.Command {
	var file string

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an order from a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			payload, err := loadJSON(file)
			if err != nil {
				return err
			}
			client, _, _, err := opts.newClient(c.Context())
			if err != nil {
				return err
			}
			id := args[0]
			return opts.emit(c, client, http.MethodPut, mp.OrderPath(id), payload, func() (any, error) {
				return client.UpdateOrder(c.Context(), id, payload)
			}, noTable)
		},
	}

	updateCmd.Flags().StringVarP(&file, "file", "f", "", "order JSON file, or - for stdin")
	return updateCmd
}

// loadJSON reads and validates a JSON payload, returned verbatim as json.RawMessage.
func loadJSON(path string) (json.RawMessage, error) {
	raw, err := readPayload(path)
	if err != nil {
		return nil, err
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%s does not contain valid JSON", path)
	}
	return json.RawMessage(raw), nil
}
