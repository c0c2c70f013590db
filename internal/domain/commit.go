package domain

import "sort"

// DedupCommits collapses commits sharing a SHA into a single record.
// The same commit can legitimately surface under more than one repository
// association (the GraphQL per-repository breakdown and a direct repo
// fetch); all fields except RepoName are SHA-invariant, so keeping the
// first representative per SHA is sufficient. The result is sorted by
// date descending for deterministic downstream consumption.
func DedupCommits(commits []Commit) []Commit {
	seen := make(map[string]struct{}, len(commits))
	out := make([]Commit, 0, len(commits))
	for _, c := range commits {
		if _, ok := seen[c.SHA]; ok {
			continue
		}
		seen[c.SHA] = struct{}{}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
