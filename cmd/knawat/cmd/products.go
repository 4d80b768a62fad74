package cmd

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/knawat/mp-go/pkg/mp"
)

func productsCmd(opts *rootOptions) *cobra.Command {
	productsRoot := &cobra.Command{
		Use:   "products",
		Short: "Query the Knawat catalog",
	}

	productsRoot.AddCommand(
		productsListCmd(opts),
		productsGetCmd(opts),
	)

	return productsRoot
}

func productsListCmd(opts *rootOptions) *cobra.Command {
	var q mp.ProductsQuery

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			client, _, _, err := opts.newClient(c.Context())
			if err != nil {
				return err
			}
			return opts.emit(c, client, http.MethodGet, mp.ProductsPath(q), nil, func() (any, error) {
				return client.GetProducts(c.Context(), q)
			}, productColumns)
		},
	}

	listCmd.Flags().IntVar(&q.Limit, "limit", 25, "products per page")
	listCmd.Flags().IntVar(&q.Page, "page", 1, "page number")
	listCmd.Flags().StringVar(&q.LastUpdate, "last-update", "", "only products updated after this timestamp")
	listCmd.Flags().StringVar(&q.SortField, "sort-field", "", "sort field")
	listCmd.Flags().StringVar(&q.SortOrder, "sort-order", "", "sort order (asc, desc)")

	return listCmd
}

func productsGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <sku>",
		Short: "Show one product by SKU",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			client, _, _, err := opts.newClient(c.Context())
			if err != nil {
				return err
			}
			sku := args[0]
			return opts.emit(c, client, http.MethodGet, mp.ProductPath(sku), nil, func() (any, error) {
				return client.GetProductBySKU(c.Context(), sku)
			}, noTable)
		},
	}
}
