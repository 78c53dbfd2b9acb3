package usecase

import (
	"github.com/montanaflynn/stats"

	"github.com/gitboard/gitboard/internal/domain"
)

// summarizeRepositories computes star/fork statistics over the non-fork
// repository set. An empty set yields zero-valued stats, not an error.
func summarizeRepositories(repos []domain.Repository) domain.RepositoryStats {
	if len(repos) == 0 {
		return domain.RepositoryStats{}
	}

	starData := make(stats.Float64Data, 0, len(repos))
	summary := domain.RepositoryStats{Count: len(repos)}
	for _, repo := range repos {
		starData = append(starData, float64(repo.Stars))
		summary.TotalStars += repo.Stars
		summary.TotalForks += repo.Forks
	}

	mean, _ := stats.Mean(starData)
	summary.MeanStars, _ = stats.Round(mean, 2)
	summary.MedianStars, _ = stats.Median(starData)
	return summary
}
