package taskapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"taskclient/internal/logger"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// requestIDTransport tags each request with a fresh id and logs its outcome.
type requestIDTransport struct {
	base http.RoundTripper
	log  *logger.Logger
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	// RoundTrippers must not modify the caller's request.
	req = req.Clone(req.Context())
	id := uuid.NewString()
	req.Header.Set(RequestIDHeader, id)

	start := time.Now()
	res, err := base.RoundTrip(req)
	if err != nil {
		t.log.Debugf("%s %s failed after %s id=%s: %v", req.Method, req.URL.Path, time.Since(start).Round(time.Millisecond), id, err)
		return nil, err
	}
	t.log.Debugf("%s %s -> %d in %s id=%s", req.Method, req.URL.Path, res.StatusCode, time.Since(start).Round(time.Millisecond), id)
	return res, nil
}
