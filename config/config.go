// Package config loads the repoclass configuration file and the
// user-supplied input files (student lists, issue files).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/repoclass/internal/domain/entities"
)

// Config is the top-level configuration for repoclass. Every value can be
// overridden by the matching CLI flag.
type Config struct {
	Provider     string `yaml:"provider"`      // "github" or "gitlab"
	BaseURL      string `yaml:"base_url"`      // empty for the hosted platform
	Organization string `yaml:"organization"`  // target org/group name
	Token        string `yaml:"token"`         // inline, ${ENV_VAR}, or file path
	User         string `yaml:"user"`          // platform username used for pushes
	StudentsFile string `yaml:"students_file"` // default team list
	TargetBranch string `yaml:"target_branch"` // branch pushed to student repos
	Concurrency  int    `yaml:"concurrency"`   // parallel teams/repos per run
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses a configuration file, expanding environment
// variables and resolving token file paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &entities.FileError{
			Message: fmt.Sprintf("failed to read config file %q: %v", path, err),
		}
	}

	var cfg Config
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, &entities.ParseError{
			Message: fmt.Sprintf("failed to parse config file %q: %v", path, unmarshalErr),
		}
	}

	cfg.Token = ResolveToken(cfg.Token)
	return &cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".repoclass.yaml",
		".repoclass.yml",
		"repoclass.yaml",
		"repoclass.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ResolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the
// file.
func ResolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// Validate checks for the values every command needs.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return &entities.ParseError{Message: "provider is required (github or gitlab)"}
	}
	if c.Organization == "" {
		return &entities.ParseError{Message: "organization is required"}
	}
	if c.Token == "" {
		return &entities.ParseError{
			Message: "token is required (set inline, via ${ENV_VAR}, or as file path)",
		}
	}
	return nil
}

// ReadTeamsFile parses a student team list: one team per line, members
// separated by whitespace. A single username forms a one-member team.
func ReadTeamsFile(path string) ([]entities.Team, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &entities.FileError{
			Message: fmt.Sprintf("%q is not a readable file: %v", path, err),
		}
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, &entities.FileError{Message: fmt.Sprintf("%q is empty", path)}
	}

	var specs []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		specs = append(specs, line)
	}
	return entities.NewTeams(specs)
}

// ReadIssueFile parses an issue file. The first line is the title, the
// remainder the body.
func ReadIssueFile(path string) (entities.Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entities.Issue{}, &entities.FileError{
			Message: fmt.Sprintf("%q is not a readable file: %v", path, err),
		}
	}

	content := strings.TrimRight(string(data), "\n")
	if strings.TrimSpace(content) == "" {
		return entities.Issue{}, &entities.FileError{
			Message: fmt.Sprintf("%q is empty", path),
		}
	}

	title, body, _ := strings.Cut(content, "\n")
	return entities.Issue{
		Title: strings.TrimSpace(title),
		Body:  strings.TrimLeft(body, "\n"),
		State: entities.IssueStateOpen,
	}, nil
}
