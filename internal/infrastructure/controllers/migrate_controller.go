package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/repoclass/internal/domain/commands"
	"github.com/rios0rios0/repoclass/internal/domain/entities"
)

// MigrateController handles the "migrate" subcommand.
type MigrateController struct {
	command commands.Migrate
}

// NewMigrateController creates a new MigrateController.
func NewMigrateController(command commands.Migrate) *MigrateController {
	return &MigrateController{command: command}
}

// GetBind returns the Cobra command metadata for the migrate controller.
func (it *MigrateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "migrate",
		Short: "Migrate repositories into the target organization",
		Long: `Migrate master repositories into the target organization. Each
repository given by URL (--master-repo-urls) or by name within the
organization (--master-repo-names) is cloned, a repository with the same
name is created in the organization and the content is pushed to it.

Migrate can also be re-run to refresh already-migrated repositories.`,
	}
}

// Execute runs the migrate workflow.
func (it *MigrateController) Execute(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	urls, _ := cmd.Flags().GetStringSlice("master-repo-urls")
	names, _ := cmd.Flags().GetStringSlice("master-repo-names")

	return it.command.Execute(cmd.Context(), commands.MigrateOptions{
		PlatformOptions: platformOptions(cfg),
		MasterRepoURLs:  urls,
		MasterRepoNames: names,
		TargetBranch:    cfg.TargetBranch,
		Concurrency:     cfg.Concurrency,
	})
}

// AddFlags adds the migrate-specific flags to the given Cobra command.
func (it *MigrateController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("master-repo-urls", nil,
		"URLs of the repositories to migrate; one repo is created per URL")
	cmd.Flags().StringSlice("master-repo-names", nil,
		"Names of repositories to migrate; resolved within the organization")
	cmd.MarkFlagsMutuallyExclusive("master-repo-urls", "master-repo-names")
	cmd.MarkFlagsOneRequired("master-repo-urls", "master-repo-names")
}
