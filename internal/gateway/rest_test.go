package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchRepositories(t *testing.T) {
	t.Run("stops on a short page", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/user/repos", r.URL.Path)
			page := r.URL.Query().Get("page")
			w.WriteHeader(http.StatusOK)
			if page == "1" {
				fmt.Fprint(w, `[
					{"name": "app", "full_name": "octo/app", "html_url": "https://github.com/octo/app",
					 "language": "Go", "stargazers_count": 10, "forks_count": 2, "fork": false,
					 "pushed_at": "2025-03-01T00:00:00Z"},
					{"name": "lib", "full_name": "octo/lib", "fork": true}
				]`)
				return
			}
			fmt.Fprint(w, `[]`)
		}
		client, server := setupTestClient(t, http.HandlerFunc(handler))
		defer server.Close()

		opts := testOptions()
		opts.PageSize = 2

		repos, err := client.FetchRepositories(context.Background(), opts)

		require.NoError(t, err)
		require.Len(t, repos, 2)
		assert.Equal(t, "octo/app", repos[0].FullName)
		assert.Equal(t, "Go", repos[0].Language)
		assert.Equal(t, 10, repos[0].Stars)
		assert.True(t, repos[1].IsFork)
	})

	t.Run("lists the target user's repositories when a user is set", func(t *testing.T) {
		// The listing must describe the same identity as the rest of the
		// run: a named user routes to that user's listing endpoint, never
		// to the token owner's.
		handler := func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/octocat/repos", r.URL.Path)
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `[{"full_name": "octocat/app", "stargazers_count": 3}]`)
		}
		client, server := setupTestClient(t, http.HandlerFunc(handler))
		defer server.Close()

		opts := testOptions()
		opts.Username = "octocat"

		repos, err := client.FetchRepositories(context.Background(), opts)

		require.NoError(t, err)
		require.Len(t, repos, 1)
		assert.Equal(t, "octocat/app", repos[0].FullName)
		assert.Equal(t, 3, repos[0].Stars)
	})

	t.Run("terminates at the page ceiling against an endless source", func(t *testing.T) {
		var requests int
		handler := func(w http.ResponseWriter, r *http.Request) {
			requests++
			// Always a full page: without the ceiling this would never stop.
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `[{"full_name": "octo/a"}, {"full_name": "octo/b"}]`)
		}
		client, server := setupTestClient(t, http.HandlerFunc(handler))
		defer server.Close()

		opts := testOptions()
		opts.PageSize = 2
		opts.MaxPages = 3

		repos, err := client.FetchRepositories(context.Background(), opts)

		require.NoError(t, err)
		assert.Len(t, repos, 6)
		assert.Equal(t, 3, requests)
	})

	t.Run("listing failure is fatal", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message": "Bad credentials"}`)
		}
		client, server := setupTestClient(t, http.HandlerFunc(handler))
		defer server.Close()

		repos, err := client.FetchRepositories(context.Background(), testOptions())

		assert.Error(t, err)
		assert.Nil(t, repos)
		assert.Contains(t, err.Error(), "failed to list repositories")
	})
}

func TestClient_FetchUser(t *testing.T) {
	t.Run("resolves the authenticated login", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/user", r.URL.Path)
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `{"login": "octocat", "id": 1}`)
		}
		client, server := setupTestClient(t, http.HandlerFunc(handler))
		defer server.Close()

		user, err := client.FetchUser(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "octocat", user)
	})

	t.Run("propagates auth failure", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message": "Bad credentials"}`)
		}
		client, server := setupTestClient(t, http.HandlerFunc(handler))
		defer server.Close()

		_, err := client.FetchUser(context.Background())

		assert.Error(t, err)
	})
}

func TestClient_FetchLanguages(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/app/languages", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"Go": 123456, "Makefile": 500}`)
	}
	client, server := setupTestClient(t, http.HandlerFunc(handler))
	defer server.Close()

	languages, err := client.FetchLanguages(context.Background(), "octo/app")

	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Go": 123456, "Makefile": 500}, languages)
}

func TestClient_SearchCommits(t *testing.T) {
	t.Run("maps search results to commits", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search/commits", r.URL.Path)
			query := r.URL.Query().Get("q")
			assert.Contains(t, query, "author:octocat")
			assert.Contains(t, query, "committer-date:2025-01-01..2025-12-31")
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `{"total_count": 1, "items": [
				{"sha": "abc123",
				 "commit": {"message": "fix parser", "author": {"date": "2025-02-01T10:00:00Z"}},
				 "repository": {"full_name": "octo/app"}}
			]}`)
		}
		client, server := setupTestClient(t, http.HandlerFunc(handler))
		defer server.Close()

		commits, err := client.SearchCommits(context.Background(), "octocat", testOptions())

		require.NoError(t, err)
		require.Len(t, commits, 1)
		assert.Equal(t, "abc123", commits[0].SHA)
		assert.Equal(t, "fix parser", commits[0].Message)
		assert.Equal(t, "octo/app", commits[0].RepoName)
	})

	t.Run("propagates search failure", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"message": "Validation Failed"}`)
		}
		client, server := setupTestClient(t, http.HandlerFunc(handler))
		defer server.Close()

		_, err := client.SearchCommits(context.Background(), "octocat", testOptions())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to search commits")
	})
}

func TestClient_SearchPullRequests(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/issues", r.URL.Path)
		query := r.URL.Query().Get("q")
		assert.Contains(t, query, "author:octocat")
		assert.Contains(t, query, "type:pr")
		assert.Contains(t, query, "created:2025-01-01..2025-12-31")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"total_count": 2, "items": [
			{"number": 7, "title": "Add feature", "state": "closed",
			 "created_at": "2025-04-01T09:00:00Z",
			 "html_url": "https://github.com/octo/app/pull/7",
			 "repository_url": "https://api.github.com/repos/octo/app",
			 "pull_request": {"merged_at": "2025-04-02T09:00:00Z"}},
			{"number": 8, "title": "WIP", "state": "open",
			 "created_at": "2025-05-01T09:00:00Z",
			 "html_url": "https://github.com/octo/app/pull/8",
			 "repository_url": "https://api.github.com/repos/octo/app",
			 "pull_request": {}}
		]}`)
	}
	client, server := setupTestClient(t, http.HandlerFunc(handler))
	defer server.Close()

	prs, err := client.SearchPullRequests(context.Background(), "octocat", testOptions())

	require.NoError(t, err)
	require.Len(t, prs, 2)

	assert.Equal(t, 7, prs[0].Number)
	assert.Equal(t, "octo/app", prs[0].RepoName)
	require.NotNil(t, prs[0].MergedAt)
	assert.Equal(t, "merged", string(prs[0].State))

	assert.Nil(t, prs[1].MergedAt)
	assert.Equal(t, "open", string(prs[1].State))
}

func TestClient_CountStarred(t *testing.T) {
	t.Run("uses the last page of the Link header as the count", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasPrefix(r.URL.Path, "/users/octocat/starred"))
			w.Header().Set("Link", fmt.Sprintf(`<%s?page=2&per_page=1>; rel="next", <%s?page=42&per_page=1>; rel="last"`, r.URL.Path, r.URL.Path))
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `[{"starred_at": "2025-01-01T00:00:00Z", "repo": {"full_name": "octo/app"}}]`)
		}
		client, server := setupTestClient(t, http.HandlerFunc(handler))
		defer server.Close()

		count, err := client.CountStarred(context.Background(), "octocat")

		require.NoError(t, err)
		assert.Equal(t, 42, count)
	})

	t.Run("falls back to the item count without a Link header", func(t *testing.T) {
		handler := func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `[{"starred_at": "2025-01-01T00:00:00Z", "repo": {"full_name": "octo/app"}}]`)
		}
		client, server := setupTestClient(t, http.HandlerFunc(handler))
		defer server.Close()

		count, err := client.CountStarred(context.Background(), "octocat")

		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestRepoNameFromURL(t *testing.T) {
	assert.Equal(t, "octo/app", repoNameFromURL("https://api.github.com/repos/octo/app"))
	assert.Equal(t, "", repoNameFromURL("https://api.github.com/users/octo"))
}
