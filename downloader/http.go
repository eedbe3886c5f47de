package downloader

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// HTTP fetches over plain HTTP with exponential-backoff retries. A
// transient upstream failure shouldn't immediately surface as
// UpstreamUnavailable; a non-200 status is terminal, since retrying a
// 401 or 429 only burns the rate budget.
type HTTP struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func NewHTTP() *HTTP {
	return &HTTP{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

func (d *HTTP) Get(ctx context.Context, url string, headers map[string]string, options GetOptions) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = d.InitialInterval
	policy.MaxInterval = d.MaxInterval

	var body []byte
	operation := func() error {
		var err error
		body, err = HTTPGet(ctx, url, headers, options)
		if err != nil {
			if _, ok := err.(*HTTPStatusError); ok {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, d.MaxRetries), ctx))
	if err != nil {
		return nil, err
	}
	return body, nil
}
