package site

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/wopanel/wopanel/app"
	"github.com/wopanel/wopanel/cmd/output"
	"github.com/wopanel/wopanel/cmd/utils"
	"github.com/wopanel/wopanel/deploy"
	"github.com/wopanel/wopanel/domain"
	"github.com/spf13/cobra"
)

func NewCmdSiteDeploy() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy <domain>",
		Short: "Deploy a new WordPress site",
		Long: `Provision a new WordPress site for the given domain and install the
requested plugins. Plugins are fetched from the public repository by slug,
or from the local asset vault by asset ID.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := runSiteDeploy(cmd, args); err != nil {
				utils.HandleCommandError("deploying site", err)
			}
		},
	}

	cmd.Flags().String("email", "", "Administrator email address (required)")
	cmd.Flags().String("user", "", "Administrator username (required)")
	cmd.Flags().String("stack", "fastcgi", "Cache stack: fastcgi or redis")
	cmd.Flags().StringArray("plugin", nil, "Repository plugin slug to install and activate (repeatable)")
	cmd.Flags().StringArray("vault", nil, "Vault asset ID to install and activate (repeatable)")
	cmd.Flags().Bool("skip-activate", false, "Install plugins without activating them")

	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runSiteDeploy(cmd *cobra.Command, args []string) error {
	siteDomain := args[0]

	email, _ := cmd.Flags().GetString("email")
	user, _ := cmd.Flags().GetString("user")
	stackName, _ := cmd.Flags().GetString("stack")
	repoPlugins, _ := cmd.Flags().GetStringArray("plugin")
	vaultAssets, _ := cmd.Flags().GetStringArray("vault")
	skipActivate, _ := cmd.Flags().GetBool("skip-activate")

	stack, err := domain.ParseStackType(stackName)
	if err != nil {
		return err
	}

	var plugins []domain.PluginReference
	for _, slug := range repoPlugins {
		plugins = append(plugins, domain.PluginReference{
			Identifier: slug,
			Source:     domain.SourceRepository,
			Install:    true,
			Activate:   !skipActivate,
		})
	}
	for _, id := range vaultAssets {
		if _, err := uuid.Parse(id); err != nil {
			utils.HandleInvalidUUID("site deploy", id)
			return nil
		}
		plugins = append(plugins, domain.PluginReference{
			Identifier: id,
			Source:     domain.SourceVault,
			Install:    true,
			Activate:   !skipActivate,
		})
	}

	if err := output.FprintPlain(cmd, "Deploying site '%s' (%s stack)...\n", siteDomain, stack); err != nil {
		return err
	}

	site, err := app.GetDeployService().StartDeployment(cmd.Context(), deploy.Request{
		Domain:     siteDomain,
		AdminEmail: email,
		AdminUser:  user,
		Stack:      stack,
		Plugins:    plugins,
	})
	if err != nil {
		if site != nil {
			// Provisioning failed after the record was created; show
			// what we know before bailing out.
			details, detailErr := output.PrintSiteDetails(site)
			if detailErr == nil {
				_ = output.FprintPlain(cmd, "%s", details)
			}
		}
		return err
	}

	if err := output.FprintSuccess(cmd, "Site '%s' deployed successfully\n", site.Domain); err != nil {
		return err
	}

	details, err := output.PrintSiteDetails(site)
	if err != nil {
		return fmt.Errorf("printing site details: %w", err)
	}
	return output.FprintPlain(cmd, "%s", details)
}
