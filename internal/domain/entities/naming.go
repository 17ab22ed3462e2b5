package entities

import (
	"strings"
)

// RepoName derives the student repository name for a (master repo, team)
// pair. The scheme is "<master>-<team>", which is a bijection as long as
// master repo names are distinct: the inverse is recovered by matching the
// longest known master-name prefix (see SplitRepoName).
func RepoName(master string, team Team) string {
	return master + "-" + team.Name
}

// RepoNames derives every student repository name for the cross product of
// master repo names and teams, masters-major (all teams of the first master
// first).
func RepoNames(masters []string, teams []Team) []string {
	names := make([]string, 0, len(masters)*len(teams))
	for _, master := range masters {
		for _, team := range teams {
			names = append(names, RepoName(master, team))
		}
	}
	return names
}

// SplitRepoName is the inverse of RepoName over a known set of master repo
// names. It matches the longest master prefix so that master names which are
// themselves prefixes of each other ("task" and "task-extra") resolve
// correctly. Returns ok=false when the name was not derived from any of the
// given masters.
func SplitRepoName(repoName string, masters []string) (master, teamName string, ok bool) {
	for _, candidate := range masters {
		if !strings.HasPrefix(repoName, candidate+"-") {
			continue
		}
		if len(candidate) > len(master) {
			master = candidate
		}
	}
	if master == "" {
		return "", "", false
	}
	return master, strings.TrimPrefix(repoName, master+"-"), true
}

// RepoNameFromURL extracts the repository name from a clone URL or local
// path, stripping a trailing ".git" suffix.
func RepoNameFromURL(url string) string {
	trimmed := strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	if idx := strings.LastIndexAny(trimmed, "/\\"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	return trimmed
}
