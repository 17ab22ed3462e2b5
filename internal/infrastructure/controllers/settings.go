package controllers

import (
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/repoclass/config"
	"github.com/rios0rios0/repoclass/internal/domain/commands"
	"github.com/rios0rios0/repoclass/internal/domain/entities"
)

const defaultTargetBranch = "master"

// loadSettings merges the configuration file (when present) with the CLI
// flags; flags win. Returns a validated config.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if found, err := config.FindConfigFile(); err == nil {
			path = found
		}
	}
	if path != "" {
		logger.Debugf("Using config file: %s", path)
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		cfg.Provider = v
	}
	if v, _ := cmd.Flags().GetString("base-url"); v != "" {
		cfg.BaseURL = v
	}
	if v, _ := cmd.Flags().GetString("org"); v != "" {
		cfg.Organization = v
	}
	if v, _ := cmd.Flags().GetString("token"); v != "" {
		cfg.Token = config.ResolveToken(v)
	}
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		cfg.User = v
	}
	if v, _ := cmd.Flags().GetString("target-branch"); v != "" {
		cfg.TargetBranch = v
	}
	if v, _ := cmd.Flags().GetInt("concurrency"); v > 0 {
		cfg.Concurrency = v
	}

	if cfg.TargetBranch == "" {
		cfg.TargetBranch = defaultTargetBranch
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = commands.DefaultConcurrency
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func platformOptions(cfg *config.Config) commands.PlatformOptions {
	return commands.PlatformOptions{
		Provider:     cfg.Provider,
		BaseURL:      cfg.BaseURL,
		Organization: cfg.Organization,
		Token:        cfg.Token,
	}
}

// resolveTeams builds the student teams from --students, falling back to
// the students file from --students-file or the configuration.
func resolveTeams(cmd *cobra.Command, cfg *config.Config) ([]entities.Team, error) {
	if specs, _ := cmd.Flags().GetStringSlice("students"); len(specs) > 0 {
		return entities.NewTeams(specs)
	}

	path, _ := cmd.Flags().GetString("students-file")
	if path == "" {
		path = cfg.StudentsFile
	}
	if path == "" {
		return nil, &entities.ParseError{
			Message: "no students given; use --students or --students-file",
		}
	}
	return config.ReadTeamsFile(path)
}

// addStudentFlags registers the team-selection flags shared by most
// subcommands.
func addStudentFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("students", "s", nil,
		"Student team specs; each spec is one or more usernames separated by spaces")
	cmd.Flags().String("students-file", "",
		"Path to a file with one team per line, members separated by whitespace")
}
