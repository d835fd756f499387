package mock

import (
	"context"

	"github.com/fwojciec/cdpchat"
)

var _ cdpchat.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of cdpchat.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ cdpchat.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of cdpchat.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ cdpchat.Limiter = (*Limiter)(nil)

// Limiter is a mock implementation of cdpchat.Limiter.
type Limiter struct {
	WaitFn func(ctx context.Context) error
}

func (l *Limiter) Wait(ctx context.Context) error {
	return l.WaitFn(ctx)
}
