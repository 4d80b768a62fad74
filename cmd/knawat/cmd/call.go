package cmd

import (
	"github.com/spf13/cobra"

	"github.com/knawat/mp-go/pkg/mp"
)

// tableSpec names the list key and columns used in table output.
type tableSpec struct {
	key     string
	columns []string
}

var (
	productColumns = tableSpec{key: "products", columns: []string{"sku", "name", "updated", "variations"}}
	orderColumns   = tableSpec{key: "orders", columns: []string{"id", "status", "createdAt", "total"}}
	noTable        = tableSpec{}
)

// emit runs call, or the equivalent raw request when --diagnostic is set, and prints the outcome.
func (o *rootOptions) emit(c *cobra.Command, client *mp.MP, method, path string, data any, call func() (any, error), table tableSpec) error {
	w := c.OutOrStdout()
	if o.diagnostic {
		res, err := client.Do(c.Context(), method, path, data)
		if err != nil {
			return err
		}
		return printResult(w, res, o.jsonOutput())
	}

	body, err := call()
	if err != nil {
		return err
	}
	return printBody(w, body, o.jsonOutput(), table.key, table.columns)
}
