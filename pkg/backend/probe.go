package backend

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// Pinger is implemented by Client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// WaitReady pings the backend with exponential backoff until it answers or maxRetries is spent.
// Hosted backends sleep when idle and can take a while to wake up.
func WaitReady(ctx context.Context, p Pinger, maxRetries uint64, maxElapsed time.Duration) error {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.MaxElapsedTime = maxElapsed

	attempt := 0
	operation := func() error {
		attempt++
		err := p.Ping(ctx)
		if err != nil {
			logrus.Warnf("analytics backend not reachable yet (attempt %d): %v", attempt, err)
		}
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(expBackoff, maxRetries), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return err
	}

	logrus.Infof("analytics backend reachable after %d attempt(s)", attempt)
	return nil
}
