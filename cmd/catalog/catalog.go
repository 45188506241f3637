// Package catalog implements the command that lists known repository packages.
package catalog

import (
	"github.com/wopanel/wopanel/app"
	"github.com/wopanel/wopanel/cmd/output"
	"github.com/wopanel/wopanel/cmd/utils"
	"github.com/spf13/cobra"
)

func NewCmdCatalog() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List known repository plugins and themes",
		Long: `Display the catalog of known wordpress.org packages. The catalog is
advisory: any valid repository slug can be deployed, listed or not.`,
		Run: func(cmd *cobra.Command, args []string) {
			entries := app.GetCatalog().Entries()

			header := []string{"Name", "Slug", "Kind"}
			var data [][]string
			for _, e := range entries {
				data = append(data, []string{e.Name, e.Slug, e.Kind.String()})
			}

			out, err := output.PrintTable(header, data)
			if err != nil {
				utils.HandleCommandError("printing catalog table", err)
				return
			}

			if err := output.FprintPlain(cmd, "%s", out); err != nil {
				utils.HandleCommandError("printing catalog output", err)
			}
		},
	}
}
