// Package site implements the site management commands.
package site

import (
	"github.com/spf13/cobra"
)

func NewCmdSite() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "Manage WordPress sites",
		Long:  `Deploy and inspect WordPress sites managed by this panel.`,
	}

	cmd.AddCommand(NewCmdSiteDeploy())
	cmd.AddCommand(NewCmdSiteList())
	cmd.AddCommand(NewCmdSiteShow())
	return cmd
}
