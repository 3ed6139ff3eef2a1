package upstream

import "time"

// RetryPolicy controls retry behavior for upstream calls
type RetryPolicy struct {
	MaxRetries  int           //max retry attempts
	BaseBackoff time.Duration //initial backoff duration
	MaxBackoff  time.Duration // upper bound on backoff
	JitterFn    func(time.Duration) time.Duration

	// ShouldRetry reports whether err is worth another attempt.
	// nil treats every error as retryable.
	ShouldRetry func(error) bool

	// OnRetry is called before each backoff sleep.
	OnRetry func(attempt int, err error)
}

// HealthPolicy defines when the upstream is considered healthy or recovered
type HealthPolicy struct {
	FailureThreshold int //consecutive failures to mark unhealthy
	SuccessThreshold int //consecutive successes to mark healthy again
}

// ProbePolicy controls the optional background reachability check.
// A zero Interval disables probing.
type ProbePolicy struct {
	Interval time.Duration
	Timeout  time.Duration
}

type Config struct {
	Retry   RetryPolicy
	Timeout time.Duration
	Health  HealthPolicy
	Probe   ProbePolicy
}

func DefaultConfig() Config {
	return Config{
		Retry: RetryPolicy{
			MaxRetries:  2,
			BaseBackoff: 500 * time.Millisecond,
			MaxBackoff:  4 * time.Second,
			JitterFn:    func(d time.Duration) time.Duration { return d / 2 }, //default jitter:50%
		},
		Timeout: 60 * time.Second,
		Health: HealthPolicy{
			FailureThreshold: 3,
			SuccessThreshold: 1,
		},
		Probe: ProbePolicy{
			Timeout: 10 * time.Second,
		},
	}
}
