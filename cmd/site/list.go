package site

import (
	"github.com/wopanel/wopanel/app"
	"github.com/wopanel/wopanel/cmd/output"
	"github.com/wopanel/wopanel/cmd/utils"
	"github.com/spf13/cobra"
)

func NewCmdSiteList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all managed sites",
		Long: `Display all WordPress sites known to this panel in a table format,
including domain, stack, status and installed plugin count.`,
		Run: func(cmd *cobra.Command, args []string) {
			sites, err := app.GetDeployService().ListSites()
			if err != nil {
				utils.HandleCommandError("listing sites", err)
				return
			}

			out, err := output.PrintSiteList(sites)
			if err != nil {
				utils.HandleCommandError("printing site list table", err)
				return
			}

			if err := output.FprintPlain(cmd, "%s", out); err != nil {
				utils.HandleCommandError("printing site list output", err)
			}
		},
	}
}
