// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Profile is the identity record of the queried GitHub account.
// It is fetched wholesale and replaced on every new query.
type Profile struct {
	Login       string    `json:"login"`
	Name        string    `json:"name,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Company     string    `json:"company,omitempty"`
	Location    string    `json:"location,omitempty"`
	Blog        string    `json:"blog,omitempty"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	PublicRepos int       `json:"public_repos"`
	PublicGists int       `json:"public_gists"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repository summarizes one non-fork repository of the account.
// Forks are filtered out before a Repository is ever constructed.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	HTMLURL     string    `json:"html_url"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Private     bool      `json:"private"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LanguageShare is one entry of the ranked language summary:
// cumulative bytes of a language across the sampled repositories.
type LanguageShare struct {
	Name  string `json:"name"`
	Bytes int    `json:"bytes"`
}

// ActivityPoint is one month of the synthetic activity series.
// The commit count is generated, not derived from real history.
type ActivityPoint struct {
	Month   string `json:"month"`
	Commits int    `json:"commits"`
}

// RepositoryStats holds star/fork statistics over the non-fork repository set.
type RepositoryStats struct {
	Count       int     `json:"count"`
	TotalStars  int     `json:"total_stars"`
	MeanStars   float64 `json:"mean_stars"`
	MedianStars float64 `json:"median_stars"`
	TotalForks  int     `json:"total_forks"`
}

// Insight is the combined result set of one successful query session.
type Insight struct {
	Profile         *Profile        `json:"profile"`
	Repositories    []Repository    `json:"repositories"`
	Languages       []LanguageShare `json:"languages"`
	Activity        []ActivityPoint `json:"activity"`
	RepositoryStats RepositoryStats `json:"repository_stats"`
}
