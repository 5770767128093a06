package resilience

import "time"

// FromConfig builds a RetryConfig from millisecond settings. Zero values
// keep the defaults.
func FromConfig(maxAttempts, initialBackoffMs, maxBackoffMs int) RetryConfig {
	cfg := DefaultRetryConfig()
	if maxAttempts > 0 {
		cfg.MaxAttempts = maxAttempts
	}
	if initialBackoffMs > 0 {
		cfg.InitialBackoff = time.Duration(initialBackoffMs) * time.Millisecond
	}
	if maxBackoffMs > 0 {
		cfg.MaxBackoff = time.Duration(maxBackoffMs) * time.Millisecond
	}
	return cfg
}

// BreakerFromConfig builds a BreakerConfig. Zero values keep the defaults.
func BreakerFromConfig(failureThreshold, cooldownSecs int) BreakerConfig {
	return BreakerConfig{
		FailureThreshold: failureThreshold,
		Cooldown:         time.Duration(cooldownSecs) * time.Second,
	}
}
