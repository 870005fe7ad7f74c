// Package common holds the small pieces shared by the HTTP layer and the error
// handler: per-request metadata and the JSON response helpers.
package common

import (
	"context"
	"time"
)

// RequestMeta is what the request middleware records about an inbound request.
type RequestMeta struct {
	ID      string
	Started time.Time
}

// Elapsed is the time since the request started, or zero if unknown.
func (m RequestMeta) Elapsed() time.Duration {
	if m.Started.IsZero() {
		return 0
	}
	return time.Since(m.Started)
}

type requestMetaKey struct{}

// WithRequestMeta stores m in ctx
func WithRequestMeta(ctx context.Context, m RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, m)
}

// RequestMetaFrom returns the metadata stored by WithRequestMeta. Outside an
// HTTP request it returns the zero value.
func RequestMetaFrom(ctx context.Context) RequestMeta {
	m, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return m
}
