package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/repoclass/config"
	"github.com/rios0rios0/repoclass/internal/domain/commands"
	"github.com/rios0rios0/repoclass/internal/domain/entities"
)

// OpenIssuesController handles the "open-issues" subcommand.
type OpenIssuesController struct {
	command commands.OpenIssues
}

// NewOpenIssuesController creates a new OpenIssuesController.
func NewOpenIssuesController(command commands.OpenIssues) *OpenIssuesController {
	return &OpenIssuesController{command: command}
}

// GetBind returns the Cobra command metadata for the open-issues controller.
func (it *OpenIssuesController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "open-issues",
		Short: "Open an issue in every student repository",
		Long: `Open the issue from the given file in every student repository
derived from the master repositories and student teams. The first line of
the issue file is the title, the rest the body.

Note that issue creation is not idempotent: running this command twice
opens the issue twice.`,
	}
}

// Execute runs the bulk issue opening.
func (it *OpenIssuesController) Execute(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	teams, err := resolveTeams(cmd, cfg)
	if err != nil {
		return err
	}

	issuePath, _ := cmd.Flags().GetString("issue")
	issue, err := config.ReadIssueFile(issuePath)
	if err != nil {
		return err
	}

	masterNames, _ := cmd.Flags().GetStringSlice("master-repo-names")

	return it.command.Execute(cmd.Context(), commands.OpenIssuesOptions{
		PlatformOptions: platformOptions(cfg),
		MasterRepoNames: masterNames,
		Teams:           teams,
		Issue:           issue,
		Concurrency:     cfg.Concurrency,
	})
}

// AddFlags adds the open-issues flags to the given Cobra command.
func (it *OpenIssuesController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("master-repo-names", nil,
		"Names of the master repositories the student repos were derived from")
	_ = cmd.MarkFlagRequired("master-repo-names")
	cmd.Flags().StringP("issue", "i", "",
		"Path to the issue file; the first line is the title")
	_ = cmd.MarkFlagRequired("issue")
	addStudentFlags(cmd)
}

// CloseIssuesController handles the "close-issues" subcommand.
type CloseIssuesController struct {
	command commands.CloseIssues
}

// NewCloseIssuesController creates a new CloseIssuesController.
func NewCloseIssuesController(command commands.CloseIssues) *CloseIssuesController {
	return &CloseIssuesController{command: command}
}

// GetBind returns the Cobra command metadata for the close-issues controller.
func (it *CloseIssuesController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "close-issues",
		Short: "Close matching issues in every student repository",
		Long: `Close every open issue whose title matches the given regex, in
every student repository derived from the master repositories and student
teams. Issues whose titles do not match are left untouched.`,
	}
}

// Execute runs the bulk issue closing.
func (it *CloseIssuesController) Execute(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	teams, err := resolveTeams(cmd, cfg)
	if err != nil {
		return err
	}

	masterNames, _ := cmd.Flags().GetStringSlice("master-repo-names")
	titleRegex, _ := cmd.Flags().GetString("title-regex")

	return it.command.Execute(cmd.Context(), commands.CloseIssuesOptions{
		PlatformOptions: platformOptions(cfg),
		MasterRepoNames: masterNames,
		Teams:           teams,
		TitleRegex:      titleRegex,
		Concurrency:     cfg.Concurrency,
	})
}

// AddFlags adds the close-issues flags to the given Cobra command.
func (it *CloseIssuesController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("master-repo-names", nil,
		"Names of the master repositories the student repos were derived from")
	_ = cmd.MarkFlagRequired("master-repo-names")
	cmd.Flags().StringP("title-regex", "r", "",
		"Issues whose titles match this regex are closed")
	_ = cmd.MarkFlagRequired("title-regex")
	addStudentFlags(cmd)
}

// ListIssuesController handles the "list-issues" subcommand.
type ListIssuesController struct {
	command commands.ListIssues
}

// NewListIssuesController creates a new ListIssuesController.
func NewListIssuesController(command commands.ListIssues) *ListIssuesController {
	return &ListIssuesController{command: command}
}

// GetBind returns the Cobra command metadata for the list-issues controller.
func (it *ListIssuesController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "list-issues",
		Short: "List issues of every student repository",
		Long: `List the issues of every student repository derived from the
master repositories and student teams.`,
	}
}

// Execute runs the bulk issue listing.
func (it *ListIssuesController) Execute(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	teams, err := resolveTeams(cmd, cfg)
	if err != nil {
		return err
	}

	masterNames, _ := cmd.Flags().GetStringSlice("master-repo-names")

	issuesByRepo, err := it.command.Execute(cmd.Context(), commands.ListIssuesOptions{
		PlatformOptions: platformOptions(cfg),
		MasterRepoNames: masterNames,
		Teams:           teams,
		Concurrency:     cfg.Concurrency,
	})
	if err != nil {
		return err
	}

	for repoName, issues := range issuesByRepo {
		logger.Infof("%s: %d issue(s)", repoName, len(issues))
		for _, issue := range issues {
			fmt.Printf("%s\t#%d\t[%s]\t%s\n", repoName, issue.Number, issue.State, issue.Title)
		}
	}
	return nil
}

// AddFlags adds the list-issues flags to the given Cobra command.
func (it *ListIssuesController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("master-repo-names", nil,
		"Names of the master repositories the student repos were derived from")
	_ = cmd.MarkFlagRequired("master-repo-names")
	addStudentFlags(cmd)
}
