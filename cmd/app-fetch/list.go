package main

import (
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the applications in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(false)
		if err != nil {
			return err
		}
		defer env.close()

		checkedOnly, _ := cmd.Flags().GetBool("checked")
		renderCatalog(os.Stdout, env.services.Catalog.Apps(), checkedOnly)
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("checked", false, "Only show applications selected by default")
}
