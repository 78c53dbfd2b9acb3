package gateway

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gitboard/gitboard/internal/domain"
	"github.com/google/go-github/v62/github"
)

// classify translates a go-github or transport error into the domain
// error taxonomy. Already-classified errors pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &domain.Error{
			Kind:    domain.ErrRateLimited,
			Status:  http.StatusForbidden,
			Message: "API rate limit exhausted",
			Err:     err,
		}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &domain.Error{
			Kind:    domain.ErrRateLimited,
			Status:  http.StatusForbidden,
			Message: "secondary rate limit hit",
			Err:     err,
		}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		status := 0
		if respErr.Response != nil {
			status = respErr.Response.StatusCode
		}
		if status == http.StatusNotFound {
			return &domain.Error{
				Kind:    domain.ErrNotFound,
				Status:  status,
				Message: "resource not found",
				Err:     err,
			}
		}
		return &domain.Error{
			Kind:    domain.ErrUpstream,
			Status:  status,
			Message: "unexpected upstream response",
			Err:     err,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.Error{Kind: domain.ErrTimeout, Message: "request timed out", Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &domain.Error{Kind: domain.ErrTimeout, Message: "request timed out", Err: err}
	}

	return &domain.Error{Kind: domain.ErrNetwork, Message: "transport failure", Err: err}
}
