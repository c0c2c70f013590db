package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDedupCommits(t *testing.T) {
	t1 := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC)
	t3 := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		input    []Commit
		expected []Commit
	}{
		{
			name:     "empty input yields empty output",
			input:    nil,
			expected: []Commit{},
		},
		{
			name: "same SHA under two repository associations collapses to one",
			input: []Commit{
				{SHA: "abc", Date: t1, RepoName: "octo/app"},
				{SHA: "abc", Date: t1, RepoName: "octo/app-mirror"},
				{SHA: "def", Date: t2, RepoName: "octo/lib"},
			},
			expected: []Commit{
				{SHA: "def", Date: t2, RepoName: "octo/lib"},
				{SHA: "abc", Date: t1, RepoName: "octo/app"},
			},
		},
		{
			name: "output is sorted by date descending",
			input: []Commit{
				{SHA: "old", Date: t1},
				{SHA: "new", Date: t3},
				{SHA: "mid", Date: t2},
			},
			expected: []Commit{
				{SHA: "new", Date: t3},
				{SHA: "mid", Date: t2},
				{SHA: "old", Date: t1},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := DedupCommits(tc.input)
			assert.Equal(t, tc.expected, got)

			distinct := make(map[string]struct{})
			for _, c := range tc.input {
				distinct[c.SHA] = struct{}{}
			}
			assert.Len(t, got, len(distinct))
		})
	}
}
