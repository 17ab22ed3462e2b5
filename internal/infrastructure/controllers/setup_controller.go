package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/repoclass/internal/domain/commands"
	"github.com/rios0rios0/repoclass/internal/domain/entities"
)

// SetupController handles the "setup" subcommand.
type SetupController struct {
	command commands.Setup
}

// NewSetupController creates a new SetupController.
func NewSetupController(command commands.Setup) *SetupController {
	return &SetupController{command: command}
}

// GetBind returns the Cobra command metadata for the setup controller.
func (it *SetupController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "setup",
		Short: "Set up student repositories",
		Long: `Set up student repositories from master repositories.

For every student team this creates the team/group, one repository per
master repo, pushes the master content into it and grants the team
members access. It is safe to run this command several times: any
previously performed step is simply skipped.`,
	}
}

// Execute runs the setup workflow.
func (it *SetupController) Execute(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	teams, err := resolveTeams(cmd, cfg)
	if err != nil {
		return err
	}

	masterNames, _ := cmd.Flags().GetStringSlice("master-repo-names")

	return it.command.Execute(cmd.Context(), commands.SetupOptions{
		PlatformOptions: platformOptions(cfg),
		MasterRepoNames: masterNames,
		Teams:           teams,
		TargetBranch:    cfg.TargetBranch,
		Concurrency:     cfg.Concurrency,
	})
}

// AddFlags adds the setup-specific flags to the given Cobra command.
func (it *SetupController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("master-repo-names", nil,
		"Names of the master repositories; must exist in the organization or as local directories")
	_ = cmd.MarkFlagRequired("master-repo-names")
	addStudentFlags(cmd)
}
