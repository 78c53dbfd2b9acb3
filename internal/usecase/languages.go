package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/gitboard/gitboard/internal/domain"
)

// maxLanguages is the length cap of the ranked language summary.
const maxLanguages = 8

// languageResult is the outcome of one per-repository language fetch.
// Failures are explicit values here, not control flow: the merge step
// folds only the successes.
type languageResult struct {
	repo       string
	byteCounts map[string]int
	err        error
}

// aggregateLanguages fetches language byte-counts for at most
// sampleSize repositories (in the incoming recency order) and merges
// them into a ranked summary. Individual fetch failures are logged and
// contribute nothing; the aggregation itself never fails, worst case
// it returns an empty summary.
func (s *Service) aggregateLanguages(ctx context.Context, login string, repos []domain.Repository) []domain.LanguageShare {
	sample := repos
	if len(sample) > s.sampleSize {
		sample = sample[:s.sampleSize]
	}

	results := make([]languageResult, 0, len(sample))
	for i, repo := range sample {
		if i > 0 {
			if err := s.pace(ctx); err != nil {
				break
			}
		}
		counts, err := s.fetcher.FetchLanguages(ctx, login, repo.Name)
		results = append(results, languageResult{repo: repo.Name, byteCounts: counts, err: err})
	}

	byteMaps := make([]map[string]int, 0, len(results))
	for _, res := range results {
		if res.err != nil {
			s.logger.WithError(res.err).WithField("repo", res.repo).Warn("language fetch failed, repository skipped")
			continue
		}
		byteMaps = append(byteMaps, res.byteCounts)
	}
	return mergeAndRank(byteMaps, maxLanguages)
}

// mergeAndRank sums per-repository byte counts into cumulative totals,
// sorts them non-increasing by bytes (name ascending on ties, so equal
// inputs always produce identical output) and truncates to limit.
func mergeAndRank(byteMaps []map[string]int, limit int) []domain.LanguageShare {
	totals := make(map[string]int)
	for _, m := range byteMaps {
		for name, bytes := range m {
			totals[name] += bytes
		}
	}

	shares := make([]domain.LanguageShare, 0, len(totals))
	for name, bytes := range totals {
		shares = append(shares, domain.LanguageShare{Name: name, Bytes: bytes})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Bytes != shares[j].Bytes {
			return shares[i].Bytes > shares[j].Bytes
		}
		return shares[i].Name < shares[j].Name
	})
	if len(shares) > limit {
		shares = shares[:limit]
	}
	return shares
}

// pace waits out the courtesy delay between language calls, unless the
// session context ends first.
func (s *Service) pace(ctx context.Context) error {
	if s.pacing <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.pacing)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
