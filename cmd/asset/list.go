package asset

import (
	"github.com/wopanel/wopanel/app"
	"github.com/wopanel/wopanel/cmd/output"
	"github.com/wopanel/wopanel/cmd/utils"
	"github.com/spf13/cobra"
)

func NewCmdAssetList() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all vault assets",
		Run: func(cmd *cobra.Command, args []string) {
			assets, err := app.GetVaultService().List()
			if err != nil {
				utils.HandleCommandError("listing assets", err)
				return
			}

			out, err := output.PrintAssetList(assets)
			if err != nil {
				utils.HandleCommandError("printing asset list table", err)
				return
			}

			if err := output.FprintPlain(cmd, "%s", out); err != nil {
				utils.HandleCommandError("printing asset list output", err)
			}
		},
	}
}
