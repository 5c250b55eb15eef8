package document

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/m3rciful/carta/core/buildinfo"
	"github.com/m3rciful/carta/internal/catalog"
)

// GitHubOptions locates the document inside a repository.
type GitHubOptions struct {
	// Repo is "owner/name".
	Repo   string
	Path   string
	Branch string
	Token  string
	// BaseURL overrides the API root (GitHub Enterprise, tests).
	BaseURL string
	Client  *http.Client
}

// GitHubStore reads and commits the document through the contents API.
// The revision is the blob SHA, which GitHub checks on every update.
type GitHubStore struct {
	client *github.Client
	owner  string
	repo   string
	path   string
	branch string
}

// NewGitHubStore validates opts and builds the API client.
func NewGitHubStore(opts GitHubOptions) (*GitHubStore, error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(opts.Repo), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return nil, fmt.Errorf("github repo must be owner/name, got %q", opts.Repo)
	}
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("github document path is required")
	}
	client := github.NewClient(opts.Client)
	if opts.Token != "" {
		client = client.WithAuthToken(opts.Token)
	}
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("github base url: %w", err)
		}
		client.BaseURL = u
	}
	client.UserAgent = buildinfo.UserAgent()
	branch := opts.Branch
	if branch == "" {
		branch = "main"
	}
	return &GitHubStore{
		client: client,
		owner:  owner,
		repo:   repo,
		path:   strings.TrimPrefix(opts.Path, "/"),
		branch: branch,
	}, nil
}

// Backend implements Store.
func (s *GitHubStore) Backend() string { return "github" }

// Fetch implements Store.
func (s *GitHubStore) Fetch(ctx context.Context) ([]byte, string, error) {
	file, _, _, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, s.path,
		&github.RepositoryContentGetOptions{Ref: s.branch})
	if err != nil {
		return nil, "", fmt.Errorf("github get %s: %w", s.path, err)
	}
	if file == nil {
		return nil, "", fmt.Errorf("github get %s: path is a directory", s.path)
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, "", fmt.Errorf("github decode %s: %w", s.path, err)
	}
	return []byte(content), file.GetSHA(), nil
}

// Replace implements Store.
func (s *GitHubStore) Replace(ctx context.Context, content []byte, revision, message string) error {
	_, _, err := s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, s.path, &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
		SHA:     github.String(revision),
		Branch:  github.String(s.branch),
	})
	if err == nil {
		return nil
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return fmt.Errorf("github put %s: %w", s.path, catalog.ErrConflict)
		}
	}
	return fmt.Errorf("github put %s: %w", s.path, err)
}
