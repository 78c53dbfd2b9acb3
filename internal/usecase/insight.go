// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gitboard/gitboard/internal/domain"
	"github.com/gitboard/gitboard/internal/gateway"
)

const (
	// languageSampleSize bounds how many repositories contribute to the
	// language summary, to limit request volume.
	languageSampleSize = 10
	// languagePacing is the courtesy delay between successive language calls.
	languagePacing = 200 * time.Millisecond
)

// Service is the use case for building account insights. It sequences
// the profile, repository, language and activity producers into one
// session and owns the partial-failure policy.
type Service struct {
	fetcher gateway.Fetcher
	logger  *logrus.Logger

	sampleSize int
	pacing     time.Duration
	now        func() time.Time
	seq        atomic.Uint64
}

// NewService creates a new Service instance.
func NewService(fetcher gateway.Fetcher, logger *logrus.Logger) *Service {
	return &Service{
		fetcher:    fetcher,
		logger:     logger,
		sampleSize: languageSampleSize,
		pacing:     languagePacing,
		now:        time.Now,
	}
}

// Query runs one complete session for the given account login and
// returns it in a terminal state. Profile and repository failures are
// fatal to the session; language aggregation degrades instead of
// failing; activity synthesis cannot fail. A failed session carries no
// partial data.
func (s *Service) Query(ctx context.Context, login string) *domain.Session {
	login = strings.TrimSpace(login)
	session := &domain.Session{
		ID:        s.seq.Add(1),
		Login:     login,
		State:     domain.StateLoading,
		StartedAt: s.now(),
	}
	log := s.logger.WithFields(logrus.Fields{"session": session.ID, "login": login})

	if login == "" {
		return s.fail(session, &domain.Error{Kind: domain.ErrValidation, Message: "account login must not be empty"})
	}

	log.Debug("session started")
	profile, err := s.fetcher.FetchProfile(ctx, login)
	if err != nil {
		log.WithError(err).Warn("profile fetch failed, session aborted")
		return s.fail(session, err)
	}

	repos, err := s.fetcher.FetchRepositories(ctx, login)
	if err != nil {
		log.WithError(err).Warn("repository fetch failed, session aborted")
		return s.fail(session, err)
	}

	insight := &domain.Insight{
		Profile:         profile,
		Repositories:    repos,
		Languages:       []domain.LanguageShare{},
		Activity:        []domain.ActivityPoint{},
		RepositoryStats: summarizeRepositories(repos),
	}
	// Zero non-fork repositories is a valid terminal state: the summary
	// and the series stay empty and no language calls are issued.
	if len(repos) > 0 {
		insight.Languages = s.aggregateLanguages(ctx, login, repos)
		insight.Activity = synthesizeActivity(s.now(), len(repos))
	}

	session.Insight = insight
	session.State = domain.StateLoaded
	session.FinishedAt = s.now()
	log.WithField("repos", len(repos)).Debug("session loaded")
	return session
}

func (s *Service) fail(session *domain.Session, err error) *domain.Session {
	session.State = domain.StateFailed
	session.Err = err
	session.Error = err.Error()
	session.FinishedAt = s.now()
	return session
}
