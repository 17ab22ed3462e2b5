package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/repoclass/config"
	"github.com/rios0rios0/repoclass/internal/domain/commands"
	"github.com/rios0rios0/repoclass/internal/domain/entities"
)

// UpdateController handles the "update" subcommand.
type UpdateController struct {
	command commands.Update
}

// NewUpdateController creates a new UpdateController.
func NewUpdateController(command commands.Update) *UpdateController {
	return &UpdateController{command: command}
}

// GetBind returns the Cobra command metadata for the update controller.
func (it *UpdateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "update",
		Short: "Push master changes to existing student repositories",
		Long: `Push changes from the master repositories to the student
repositories that were provisioned from them. Student repos that do not
exist yet are skipped. With --issue, the given issue is opened in every
repository whose push failed.`,
	}
}

// Execute runs the update workflow.
func (it *UpdateController) Execute(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	teams, err := resolveTeams(cmd, cfg)
	if err != nil {
		return err
	}

	masterNames, _ := cmd.Flags().GetStringSlice("master-repo-names")

	var issue *entities.Issue
	if issuePath, _ := cmd.Flags().GetString("issue"); issuePath != "" {
		parsed, issueErr := config.ReadIssueFile(issuePath)
		if issueErr != nil {
			return issueErr
		}
		issue = &parsed
	}

	return it.command.Execute(cmd.Context(), commands.UpdateOptions{
		PlatformOptions: platformOptions(cfg),
		MasterRepoNames: masterNames,
		Teams:           teams,
		TargetBranch:    cfg.TargetBranch,
		Concurrency:     cfg.Concurrency,
		Issue:           issue,
	})
}

// AddFlags adds the update-specific flags to the given Cobra command.
func (it *UpdateController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("master-repo-names", nil,
		"Names of the master repositories; must exist in the organization or as local directories")
	_ = cmd.MarkFlagRequired("master-repo-names")
	cmd.Flags().StringP("issue", "i", "",
		"Path to an issue file opened in repos whose push fails; the first line is the title")
	addStudentFlags(cmd)
}
