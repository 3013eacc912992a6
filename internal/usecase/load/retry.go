package load

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/gorm"

	"github.com/ashok-rai/meetingbank-pipeline/pkg/config"
)

// RetryPolicy bounds how connection-level store failures are retried before
// they surface as an infrastructure failure for the sink. Per-row constraint
// violations are never retried.
type RetryPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	MaxAttempts     int
}

// DefaultRetryPolicy mirrors the orchestrator-facing defaults: three retries
// starting at five seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialInterval: 5 * time.Second,
		MaxInterval:     15 * time.Second,
		MaxElapsedTime:  45 * time.Second,
		MaxAttempts:     3,
	}
}

// PolicyFromConfig builds the retry policy from loader configuration.
func PolicyFromConfig(cfg *config.LoaderConfig) RetryPolicy {
	return RetryPolicy{
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		MaxElapsedTime:  cfg.RetryMaxElapsedTime,
		MaxAttempts:     cfg.RetryMaxAttempts,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		bo.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		bo.MaxInterval = p.MaxInterval
	}
	bo.MaxElapsedTime = p.MaxElapsedTime
	return backoff.WithMaxRetries(backoff.WithContext(bo, ctx), uint64(p.MaxAttempts))
}

// retryConnection runs op under the policy. Constraint violations and
// context cancellation are permanent; everything else is treated as a
// connection-level failure and retried.
func retryConnection(ctx context.Context, policy RetryPolicy, op backoff.Operation) error {
	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if isConstraintViolation(err) || errors.Is(err, context.Canceled) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(wrapped, policy.backOff(ctx))
}

// isConstraintViolation reports whether err is a per-row data failure rather
// than an infrastructure one. Relies on GORM's dialect-independent error
// translation.
func isConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated)
}
