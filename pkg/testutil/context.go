package testutil

import (
	"net/http"
	"time"

	"knights/pkg/requestcontext"
)

// WithRequestTime pins the request clock, as the time middleware would.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
