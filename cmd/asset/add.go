package asset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wopanel/wopanel/app"
	"github.com/wopanel/wopanel/cmd/output"
	"github.com/wopanel/wopanel/cmd/utils"
	"github.com/wopanel/wopanel/domain"
	"github.com/spf13/cobra"
)

func NewCmdAssetAdd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Add a plugin or theme package to the vault",
		Long: `Copy a local zip package into the asset vault and index it so it can
be referenced by ID when deploying sites.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runAssetAdd(cmd, args); err != nil {
				utils.HandleCommandError("adding asset", err)
			}
		},
	}

	cmd.Flags().String("kind", "plugin", "Asset kind: plugin or theme")
	return cmd
}

func runAssetAdd(cmd *cobra.Command, args []string) error {
	path := args[0]

	kindName, _ := cmd.Flags().GetString("kind")

	kind, err := domain.ParseAssetKind(kindName)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening package file: %w", err)
	}
	defer file.Close()

	asset, err := app.GetVaultService().Register(filepath.Base(path), kind, file)
	if err != nil {
		return err
	}

	if err := output.FprintSuccess(cmd, "Asset '%s' added to vault\n", asset.Name); err != nil {
		return err
	}
	return output.FprintPlain(cmd, "ID: %s", asset.ID)
}
