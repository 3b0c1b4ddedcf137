package gh

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient serves mux over httptest and points a client at it. The
// go-github enterprise client prefixes every path with /api/v3/.
func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := NewClientWithBase(srv.URL)
	require.NoError(t, err)
	return client
}

func TestGetRepo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/golang/go", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"full_name": "golang/go",
			"description": "The Go programming language",
			"stargazers_count": 120000,
			"forks_count": 17000,
			"language": "Go",
			"topics": ["go", "language"],
			"default_branch": "master",
			"html_url": "https://github.com/golang/go"
		}`))
	})
	client := newTestClient(t, mux)

	info, err := client.GetRepo(context.Background(), "golang", "go")
	require.NoError(t, err)
	assert.Equal(t, "golang/go", info.FullName)
	assert.Equal(t, "The Go programming language", info.Description)
	assert.Equal(t, 120000, info.Stars)
	assert.Equal(t, 17000, info.Forks)
	assert.Equal(t, "Go", info.Language)
	assert.Equal(t, []string{"go", "language"}, info.Topics)
	assert.Equal(t, "master", info.DefaultBranch)
}

func TestGetRepoNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/nobody/nothing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	})
	client := newTestClient(t, mux)

	_, err := client.GetRepo(context.Background(), "nobody", "nothing")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestGetRepoRateLimited(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/golang/go", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "rate limit"}`, http.StatusForbidden)
	})
	client := newTestClient(t, mux)

	_, err := client.GetRepo(context.Background(), "golang", "go")
	assert.True(t, errors.Is(err, ErrRateLimited), "got %v", err)
}

func TestLatestRelease(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/golang/go/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"tag_name": "go1.22.0",
			"name": "Go 1.22",
			"published_at": "2024-02-06T12:00:00Z",
			"author": {"login": "gopherbot"},
			"body": "BREAKING: removed the old loop semantics"
		}`))
	})
	client := newTestClient(t, mux)

	rel, err := client.LatestRelease(context.Background(), "golang", "go")
	require.NoError(t, err)
	assert.Equal(t, "go1.22.0", rel.TagName)
	assert.Equal(t, "Go 1.22", rel.Name)
	assert.Equal(t, "gopherbot", rel.Author)
	assert.Equal(t, "2024-02-06 12:00", rel.PublishedAt)
	assert.Contains(t, rel.Body, "BREAKING")
}

func TestLatestReleaseNone(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/golang/go/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
	})
	client := newTestClient(t, mux)

	_, err := client.LatestRelease(context.Background(), "golang", "go")
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestListCommits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/golang/go/commits", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"sha": "abc1234def5678",
				"commit": {
					"message": "runtime: fix scheduler race\n\nLong body here.",
					"author": {"name": "A Developer", "date": "2024-02-01T10:00:00Z"}
				}
			}
		]`))
	})
	client := newTestClient(t, mux)

	commits, err := client.ListCommits(context.Background(), "golang", "go", 5)
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "abc1234def5678", commits[0].SHA)
	assert.Contains(t, commits[0].Message, "scheduler race")
	assert.Equal(t, "A Developer", commits[0].Author)
	assert.Equal(t, "2024-02-01 10:00", commits[0].Date)
}

func TestSearchRepos(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/search/repositories", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		assert.Contains(t, q, "cli framework")
		assert.Contains(t, q, "stars:>1000")
		assert.Contains(t, q, "language:Go")
		assert.Equal(t, "stars", r.URL.Query().Get("sort"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"total_count": 42,
			"items": [
				{
					"full_name": "spf13/cobra",
					"description": "A Commander for modern Go CLI interactions",
					"stargazers_count": 37000,
					"forks_count": 2800,
					"language": "Go",
					"html_url": "https://github.com/spf13/cobra"
				}
			]
		}`))
	})
	client := newTestClient(t, mux)

	total, results, err := client.SearchRepos(context.Background(), "cli framework", ">1000", "Go", 10)
	require.NoError(t, err)
	assert.Equal(t, 42, total)
	require.Len(t, results, 1)
	assert.Equal(t, "spf13/cobra", results[0].FullName)
	assert.Equal(t, 37000, results[0].Stars)
}
