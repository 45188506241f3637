package asset

import (
	"github.com/google/uuid"
	"github.com/wopanel/wopanel/app"
	"github.com/wopanel/wopanel/cmd/output"
	"github.com/wopanel/wopanel/cmd/utils"
	"github.com/spf13/cobra"
)

func NewCmdAssetRemove() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <asset-id>",
		Short: "Remove an asset from the vault",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := uuid.Parse(args[0])
			if err != nil {
				utils.HandleInvalidUUID("asset remove", args[0])
				return
			}

			if err := app.GetVaultService().Remove(id); err != nil {
				utils.HandleCommandError("removing asset", err, "asset_id", id)
				return
			}

			if err := output.FprintSuccess(cmd, "Asset %s removed", id); err != nil {
				utils.HandleCommandError("printing asset remove output", err)
			}
		},
	}
}
