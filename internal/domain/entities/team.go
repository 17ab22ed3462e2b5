package entities

import (
	"fmt"
	"sort"
	"strings"
)

// TeamNameSeparator joins member identities into a team name.
const TeamNameSeparator = "-"

// Team is a named group of student member identities. The name is a
// deterministic function of the sorted, de-duplicated member list, so two
// Teams built from the same members always address the same remote group.
type Team struct {
	Name    string
	Members []string
}

// NewTeam builds a Team from a list of member usernames. Members are
// de-duplicated and sorted before the name is derived.
func NewTeam(members []string) (Team, error) {
	seen := make(map[string]struct{}, len(members))
	unique := make([]string, 0, len(members))
	for _, member := range members {
		member = strings.TrimSpace(member)
		if member == "" {
			continue
		}
		if _, ok := seen[member]; ok {
			continue
		}
		seen[member] = struct{}{}
		unique = append(unique, member)
	}

	if len(unique) == 0 {
		return Team{}, &ParseError{Message: "team must have at least one member"}
	}

	sort.Strings(unique)
	return Team{
		Name:    strings.Join(unique, TeamNameSeparator),
		Members: unique,
	}, nil
}

// NewTeams builds one Team per spec. Each spec is a whitespace-separated
// list of usernames forming a single team.
func NewTeams(specs []string) ([]Team, error) {
	teams := make([]Team, 0, len(specs))
	for _, spec := range specs {
		team, err := NewTeam(strings.Fields(spec))
		if err != nil {
			return nil, fmt.Errorf("invalid team spec %q: %w", spec, err)
		}
		teams = append(teams, team)
	}
	return teams, nil
}

// TeamHandle identifies an existing remote group or team.
type TeamHandle struct {
	ID   int64
	Name string
}
