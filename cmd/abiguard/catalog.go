// Catalog command: manage the local shape catalog.
package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wirelayer/abiguard/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local shape catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved shapes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Open(cfg.CatalogPath)
		if err != nil {
			return err
		}
		defer cat.Close()

		entries, err := cat.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("catalog is empty")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "LIBRARY\tVERSION\tSAVED\tID")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				e.Library, e.Version, e.CreatedAt.Format("2006-01-02 15:04"), e.ID)
		}
		return w.Flush()
	},
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
}
