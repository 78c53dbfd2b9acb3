package usecase

import (
	"math/rand"
	"time"

	"github.com/gitboard/gitboard/internal/domain"
)

const activityMonths = 12

// synthesizeActivity produces the placeholder monthly activity series:
// one point per trailing calendar month, oldest first, current month
// included. Each value is a random integer in [0, 25) plus half the
// repository count. The randomness is deliberately unseeded; this is a
// generated series, not real commit history.
func synthesizeActivity(now time.Time, repoCount int) []domain.ActivityPoint {
	base := repoCount / 2
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	points := make([]domain.ActivityPoint, 0, activityMonths)
	for i := activityMonths - 1; i >= 0; i-- {
		month := current.AddDate(0, -i, 0)
		points = append(points, domain.ActivityPoint{
			Month:   month.Format("Jan 06"),
			Commits: base + rand.Intn(25),
		})
	}
	return points
}
