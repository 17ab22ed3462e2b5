package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/repoclass/internal/domain/commands"
	"github.com/rios0rios0/repoclass/internal/domain/entities"
)

// CloneController handles the "clone" subcommand.
type CloneController struct {
	command commands.Clone
}

// NewCloneController creates a new CloneController.
func NewCloneController(command commands.Clone) *CloneController {
	return &CloneController{command: command}
}

// GetBind returns the Cobra command metadata for the clone controller.
func (it *CloneController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "clone",
		Short: "Clone student repositories in bulk",
		Long: `Clone every student repository derived from the given master
repositories and student teams into the target directory.`,
	}
}

// Execute runs the bulk clone.
func (it *CloneController) Execute(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	teams, err := resolveTeams(cmd, cfg)
	if err != nil {
		return err
	}

	masterNames, _ := cmd.Flags().GetStringSlice("master-repo-names")
	targetDir, _ := cmd.Flags().GetString("target-dir")

	return it.command.Execute(cmd.Context(), commands.CloneOptions{
		PlatformOptions: platformOptions(cfg),
		MasterRepoNames: masterNames,
		Teams:           teams,
		TargetDir:       targetDir,
		Concurrency:     cfg.Concurrency,
	})
}

// AddFlags adds the clone-specific flags to the given Cobra command.
func (it *CloneController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("master-repo-names", nil,
		"Names of the master repositories the student repos were derived from")
	_ = cmd.MarkFlagRequired("master-repo-names")
	cmd.Flags().String("target-dir", ".",
		"Directory the student repositories are cloned into")
	addStudentFlags(cmd)
}
