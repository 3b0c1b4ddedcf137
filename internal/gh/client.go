// Package gh wraps the GitHub REST API behind the small surface the
// knowledge base needs: repository metadata, releases, commits, and
// repository search.
package gh

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

var (
	// ErrNotFound marks a remote entity that does not exist. Callers
	// surface it as a message, never a crash.
	ErrNotFound = errors.New("not found on GitHub")
	// ErrRateLimited marks an exhausted API quota. Setting GITHUB_TOKEN
	// raises the limit.
	ErrRateLimited = errors.New("GitHub API rate limit exceeded (set GITHUB_TOKEN for higher limits)")
)

// RepoInfo is the metadata snapshot fetched at add-time.
type RepoInfo struct {
	FullName      string
	Description   string
	Stars         int
	Forks         int
	Language      string
	Topics        []string
	DefaultBranch string
	HTMLURL       string
}

// Release is one published release.
type Release struct {
	TagName     string
	Name        string
	PublishedAt string
	Author      string
	Body        string
}

// Commit is one commit from the default branch listing.
type Commit struct {
	SHA     string
	Message string
	Author  string
	Date    string
}

// Client is the Remote Gateway. All calls block until complete or until
// the context deadline elapses.
type Client struct {
	gh *github.Client
}

// NewClient builds a client, authenticating with GITHUB_TOKEN when
// present. A missing token is not fatal; unauthenticated requests just hit
// lower rate limits.
func NewClient(ctx context.Context) *Client {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return &Client{gh: github.NewClient(nil)}
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{gh: github.NewClient(oauth2.NewClient(ctx, ts))}
}

// NewClientWithBase builds an unauthenticated client against a custom API
// base URL. Used by tests to point at a local server.
func NewClientWithBase(baseURL string) (*Client, error) {
	c, err := github.NewClient(nil).WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure client: %w", err)
	}
	return &Client{gh: c}, nil
}

// GetRepo fetches repository metadata.
func (c *Client) GetRepo(ctx context.Context, owner, name string) (*RepoInfo, error) {
	repo, resp, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, translate(resp, err)
	}
	return &RepoInfo{
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		Language:      repo.GetLanguage(),
		Topics:        repo.Topics,
		DefaultBranch: repo.GetDefaultBranch(),
		HTMLURL:       repo.GetHTMLURL(),
	}, nil
}

// LatestRelease fetches the most recent release. A repository without
// releases yields ErrNotFound.
func (c *Client) LatestRelease(ctx context.Context, owner, name string) (*Release, error) {
	rel, resp, err := c.gh.Repositories.GetLatestRelease(ctx, owner, name)
	if err != nil {
		return nil, translate(resp, err)
	}
	return convertRelease(rel), nil
}

// ListReleases fetches up to limit recent releases.
func (c *Client) ListReleases(ctx context.Context, owner, name string, limit int) ([]Release, error) {
	rels, resp, err := c.gh.Repositories.ListReleases(ctx, owner, name,
		&github.ListOptions{PerPage: limit})
	if err != nil {
		return nil, translate(resp, err)
	}
	out := make([]Release, 0, len(rels))
	for _, r := range rels {
		out = append(out, *convertRelease(r))
	}
	return out, nil
}

// ListCommits fetches up to limit recent commits from the default branch.
func (c *Client) ListCommits(ctx context.Context, owner, name string, limit int) ([]Commit, error) {
	commits, resp, err := c.gh.Repositories.ListCommits(ctx, owner, name,
		&github.CommitsListOptions{ListOptions: github.ListOptions{PerPage: limit}})
	if err != nil {
		return nil, translate(resp, err)
	}

	out := make([]Commit, 0, len(commits))
	for _, rc := range commits {
		commit := Commit{SHA: rc.GetSHA()}
		if c := rc.GetCommit(); c != nil {
			commit.Message = c.GetMessage()
			if a := c.GetAuthor(); a != nil {
				commit.Author = a.GetName()
				commit.Date = a.GetDate().Format("2006-01-02 15:04")
			}
		}
		out = append(out, commit)
	}
	return out, nil
}

// SearchRepos searches GitHub repositories, sorted by stars descending.
// The stars and language qualifiers are appended to the query when set.
func (c *Client) SearchRepos(ctx context.Context, query, stars, language string, limit int) (int, []RepoInfo, error) {
	q := query
	if stars != "" {
		q += " stars:" + stars
	}
	if language != "" {
		q += " language:" + language
	}

	result, resp, err := c.gh.Search.Repositories(ctx, q, &github.SearchOptions{
		Sort:        "stars",
		Order:       "desc",
		ListOptions: github.ListOptions{PerPage: limit},
	})
	if err != nil {
		return 0, nil, translate(resp, err)
	}

	out := make([]RepoInfo, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		out = append(out, RepoInfo{
			FullName:    repo.GetFullName(),
			Description: repo.GetDescription(),
			Stars:       repo.GetStargazersCount(),
			Forks:       repo.GetForksCount(),
			Language:    repo.GetLanguage(),
			Topics:      repo.Topics,
			HTMLURL:     repo.GetHTMLURL(),
		})
	}
	return result.GetTotal(), out, nil
}

func convertRelease(r *github.RepositoryRelease) *Release {
	rel := &Release{
		TagName: r.GetTagName(),
		Name:    r.GetName(),
		Body:    r.GetBody(),
	}
	if r.PublishedAt != nil {
		rel.PublishedAt = r.PublishedAt.Format("2006-01-02 15:04")
	}
	if r.Author != nil {
		rel.Author = r.Author.GetLogin()
	}
	return rel
}

// translate maps API failures onto the package's error taxonomy: 404 is a
// distinguished "not found", 403/429 a distinguished "rate limited".
func translate(resp *github.Response, err error) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return ErrRateLimited
	}
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusForbidden, http.StatusTooManyRequests:
			return ErrRateLimited
		}
	}
	return fmt.Errorf("GitHub API error: %w", err)
}
