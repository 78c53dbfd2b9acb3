// Package gateway provides a gateway to the GitHub REST API,
// wrapping the underlying client with retries and error classification.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/gitboard/gitboard/internal/domain"
)

// reposPerPage is the upstream page size and the hard cap on how many
// repositories a single query considers.
const reposPerPage = 100

// Fetcher defines the behavior of a gateway for fetching account
// information from GitHub.
type Fetcher interface {
	FetchProfile(ctx context.Context, login string) (*domain.Profile, error)
	FetchRepositories(ctx context.Context, login string) ([]domain.Repository, error)
	FetchLanguages(ctx context.Context, login, repo string) (map[string]int, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	client *github.Client
	policy Policy
	logger *logrus.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of
// GitHubGateway. The token is optional; without one the client is
// anonymous and subject to the lower unauthenticated rate limit. The
// transport always carries the secondary-rate-limit waiter so bursts
// of language fetches back off instead of getting the account blocked.
func NewGitHubGateway(token string, policy Policy, logger *logrus.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Minute, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	var transport http.RoundTripper = rateLimitWaiter
	if token != "" {
		transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		}
	}
	return &GitHubGateway{
		client: github.NewClient(&http.Client{Transport: transport}),
		policy: policy,
		logger: logger,
	}, nil
}

// FetchProfile fetches the account's profile record.
func (g *GitHubGateway) FetchProfile(ctx context.Context, login string) (*domain.Profile, error) {
	g.logger.WithField("login", login).Debug("fetching profile")
	var profile *domain.Profile
	err := g.policy.Do(ctx, func(ctx context.Context) error {
		user, _, err := g.client.Users.Get(ctx, login)
		if err != nil {
			return classify(err)
		}
		profile = profileFromUser(user)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch profile for %q: %w", login, err)
	}
	return profile, nil
}

// FetchRepositories fetches up to one page of the account's repositories,
// most recently updated first, with forks filtered out. An account that
// owns only forks yields an empty slice, not an error.
func (g *GitHubGateway) FetchRepositories(ctx context.Context, login string) ([]domain.Repository, error) {
	g.logger.WithField("login", login).Debug("fetching repositories")
	opts := &github.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: reposPerPage},
	}
	var repos []domain.Repository
	err := g.policy.Do(ctx, func(ctx context.Context) error {
		raw, _, err := g.client.Repositories.ListByUser(ctx, login, opts)
		if err != nil {
			return classify(err)
		}
		repos = make([]domain.Repository, 0, len(raw))
		for _, r := range raw {
			if r.GetFork() {
				continue
			}
			repos = append(repos, repositoryFromAPI(r))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch repositories for %q: %w", login, err)
	}
	g.logger.WithFields(logrus.Fields{"login": login, "count": len(repos)}).Debug("fetched repositories")
	return repos, nil
}

// FetchLanguages fetches the language byte-count breakdown of one repository.
func (g *GitHubGateway) FetchLanguages(ctx context.Context, login, repo string) (map[string]int, error) {
	var languages map[string]int
	err := g.policy.Do(ctx, func(ctx context.Context) error {
		langs, _, err := g.client.Repositories.ListLanguages(ctx, login, repo)
		if err != nil {
			return classify(err)
		}
		languages = langs
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch languages for %s/%s: %w", login, repo, err)
	}
	return languages, nil
}

func profileFromUser(u *github.User) *domain.Profile {
	return &domain.Profile{
		Login:       u.GetLogin(),
		Name:        u.GetName(),
		AvatarURL:   u.GetAvatarURL(),
		Bio:         u.GetBio(),
		Company:     u.GetCompany(),
		Location:    u.GetLocation(),
		Blog:        u.GetBlog(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
		PublicRepos: u.GetPublicRepos(),
		PublicGists: u.GetPublicGists(),
		CreatedAt:   u.GetCreatedAt().Time,
	}
}

func repositoryFromAPI(r *github.Repository) domain.Repository {
	return domain.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		HTMLURL:     r.GetHTMLURL(),
		Description: r.GetDescription(),
		Language:    r.GetLanguage(),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Private:     r.GetPrivate(),
		UpdatedAt:   r.GetUpdatedAt().Time,
	}
}
