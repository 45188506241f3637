// Package asset implements the asset vault commands.
package asset

import (
	"github.com/spf13/cobra"
)

func NewCmdAsset() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage the plugin and theme asset vault",
		Long:  `Upload, list and remove locally stored plugin and theme packages.`,
	}

	cmd.AddCommand(NewCmdAssetList())
	cmd.AddCommand(NewCmdAssetAdd())
	cmd.AddCommand(NewCmdAssetRemove())
	return cmd
}
