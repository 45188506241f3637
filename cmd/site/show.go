package site

import (
	"github.com/wopanel/wopanel/app"
	"github.com/wopanel/wopanel/cmd/output"
	"github.com/wopanel/wopanel/cmd/utils"
	"github.com/spf13/cobra"
)

func NewCmdSiteShow() *cobra.Command {
	return &cobra.Command{
		Use:   "show <domain>",
		Short: "Show details of a site",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			site, err := app.GetDeployService().GetSite(args[0])
			if err != nil {
				utils.HandleCommandError("showing site", err, "site_domain", args[0])
				return
			}

			out, err := output.PrintSiteDetails(site)
			if err != nil {
				utils.HandleCommandError("printing site details table", err)
				return
			}

			if err := output.FprintPlain(cmd, "%s", out); err != nil {
				utils.HandleCommandError("printing site details output", err)
			}
		},
	}
}
