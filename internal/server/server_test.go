package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitboard/gitboard/internal/domain"
)

// stubService returns canned terminal sessions per login.
type stubService struct {
	sessions map[string]*domain.Session
}

func (s *stubService) Query(ctx context.Context, login string) *domain.Session {
	return s.sessions[login]
}

func newTestServer(sessions map[string]*domain.Session) *Server {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(&stubService{sessions: sessions}, logger)
}

func doRequest(t *testing.T, srv *Server, method, target string) (*httptest.ResponseRecorder, *domain.Session) {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	var session domain.Session
	if rec.Body.Len() > 0 && rec.Code != http.StatusNotFound {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	}
	return rec, &session
}

func TestServer_HandleInsight(t *testing.T) {
	testCases := []struct {
		name           string
		session        *domain.Session
		expectedStatus int
	}{
		{
			name: "loaded session returns 200",
			session: &domain.Session{
				ID: 1, Login: "octocat", State: domain.StateLoaded,
				Insight: &domain.Insight{Profile: &domain.Profile{Login: "octocat"}},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found maps to 404",
			session: &domain.Session{
				ID: 1, Login: "ghost", State: domain.StateFailed,
				Error: "not_found (status 404): resource not found",
				Err:   &domain.Error{Kind: domain.ErrNotFound, Status: 404},
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "rate limited maps to 429",
			session: &domain.Session{
				ID: 1, Login: "busy", State: domain.StateFailed,
				Error: "rate_limited (status 403): API rate limit exhausted",
				Err:   &domain.Error{Kind: domain.ErrRateLimited, Status: 403},
			},
			expectedStatus: http.StatusTooManyRequests,
		},
		{
			name: "timeout maps to 504",
			session: &domain.Session{
				ID: 1, Login: "slow", State: domain.StateFailed,
				Error: "timeout: request timed out",
				Err:   &domain.Error{Kind: domain.ErrTimeout},
			},
			expectedStatus: http.StatusGatewayTimeout,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(map[string]*domain.Session{tc.session.Login: tc.session})

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/insight/"+tc.session.Login, nil))

			assert.Equal(t, tc.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var session domain.Session
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
			assert.Equal(t, tc.session.State, session.State)
			assert.Equal(t, tc.session.Error, session.Error)
		})
	}
}

func TestServer_LatestSession(t *testing.T) {
	loaded := &domain.Session{
		ID: 1, Login: "octocat", State: domain.StateLoaded,
		Insight: &domain.Insight{Profile: &domain.Profile{Login: "octocat"}},
	}
	srv := newTestServer(map[string]*domain.Session{"octocat": loaded})

	// No session has completed yet.
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/session", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, _ = doRequest(t, srv, http.MethodGet, "/api/v1/insight/octocat")

	rec, session := doRequest(t, srv, http.MethodGet, "/api/v1/session")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "octocat", session.Login)
}

func TestServer_StaleSessionsDoNotOverwrite(t *testing.T) {
	fresh := &domain.Session{ID: 5, Login: "fresh", State: domain.StateLoaded, Insight: &domain.Insight{}}
	stale := &domain.Session{ID: 3, Login: "stale", State: domain.StateLoaded, Insight: &domain.Insight{}}
	srv := newTestServer(map[string]*domain.Session{"fresh": fresh, "stale": stale})

	_, _ = doRequest(t, srv, http.MethodGet, "/api/v1/insight/fresh")
	_, _ = doRequest(t, srv, http.MethodGet, "/api/v1/insight/stale")

	// The older session resolved last; the newer one must survive.
	rec, session := doRequest(t, srv, http.MethodGet, "/api/v1/session")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(5), session.ID)
	assert.Equal(t, "fresh", session.Login)
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_RequestIDHeader(t *testing.T) {
	srv := newTestServer(nil)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "caller-supplied", rec.Header().Get("X-Request-ID"))
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(nil)

	_, _ = doRequest(t, srv, http.MethodGet, "/healthz")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gitboard_http_requests_total")
}
