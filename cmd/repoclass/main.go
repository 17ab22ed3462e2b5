package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/repoclass/internal"
)

// flagAdder is implemented by controllers that register subcommand flags.
type flagAdder interface {
	AddFlags(cmd *cobra.Command)
}

//nolint:gochecknoglobals // required by cobra CLI pattern
var verbose bool

func buildRootCommand() *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "repoclass",
		Short: "Classroom repository provisioning for GitHub and GitLab",
		Long: `A CLI tool that manages student repositories for course assignments.

For every student team it creates the team (or group), one repository per
master repo, pushes the master content into it and grants the members
access. Later it can push updates, clone all student repos, open and
close issues in bulk, and migrate master repositories into the target
organization.

Supports GitHub and GitLab as Git hosting platforms.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				logger.SetLevel(logger.DebugLevel)
			}
		},
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().StringP("provider", "p", "",
		"Git hosting platform (github, gitlab)")
	cmd.PersistentFlags().String("base-url", "",
		"Base URL of a self-hosted platform instance")
	cmd.PersistentFlags().StringP("org", "o", "",
		"Target organization (GitHub) or group (GitLab)")
	cmd.PersistentFlags().StringP("token", "t", "",
		"Auth token for the platform; ${ENV_VAR} and file paths are resolved")
	cmd.PersistentFlags().StringP("user", "u", "",
		"Username the token belongs to")
	cmd.PersistentFlags().String("target-branch", "",
		"Branch pushed to student repositories (default: master)")
	cmd.PersistentFlags().Int("concurrency", 0,
		"Maximum number of teams or repositories processed in parallel (default 4)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appInternal *internal.AppInternal) {
	for _, controller := range appInternal.GetControllers() {
		bind := controller.GetBind()
		ctrl := controller // capture for closure
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			RunE: func(command *cobra.Command, arguments []string) error {
				return ctrl.Execute(command, arguments)
			},
		}

		// Add controller-specific flags
		if adder, ok := ctrl.(flagAdder); ok {
			adder.AddFlags(subCmd)
		}

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	cobraRoot := buildRootCommand()

	// Inject controllers via DIG
	appInternal := injectAppInternal()
	addSubcommands(cobraRoot, appInternal)

	if err := cobraRoot.Execute(); err != nil {
		logger.Errorf("Error executing 'repoclass': %s", err)
		os.Exit(1)
	}
}
