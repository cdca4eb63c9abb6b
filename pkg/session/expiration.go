package session

import "time"

// DefaultMaxAge is used when no max age is configured.
const DefaultMaxAge = 24 * time.Hour

// ExpirationPolicy computes expiresAt for every backend.
type ExpirationPolicy struct {
	MaxAge            time.Duration
	RefreshOnActivity bool
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// NewExpirationPolicy returns a policy with the default clock.
func NewExpirationPolicy(maxAge time.Duration, refreshOnActivity bool) ExpirationPolicy {
	return ExpirationPolicy{MaxAge: maxAge, RefreshOnActivity: refreshOnActivity}
}

// Next returns the next expiresAt in epoch milliseconds.
// A nil base always yields now+maxAge; a set base is kept unless the policy
// refreshes on activity.
func (p ExpirationPolicy) Next(base *int64) int64 {
	if base != nil && !p.RefreshOnActivity {
		return *base
	}
	return p.now().Add(p.maxAge()).UnixMilli()
}

// NewMeta returns metadata for a record created now.
func (p ExpirationPolicy) NewMeta() Meta {
	now := p.now().UnixMilli()
	return Meta{
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: p.Next(nil),
	}
}

// MaxAgeSeconds returns the remaining lifetime of expiresAt in whole seconds,
// never negative.
func (p ExpirationPolicy) MaxAgeSeconds(expiresAt int64) int {
	remaining := (expiresAt - p.now().UnixMilli()) / 1000
	if remaining < 0 {
		return 0
	}
	return int(remaining)
}

func (p ExpirationPolicy) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p ExpirationPolicy) maxAge() time.Duration {
	if p.MaxAge <= 0 {
		return DefaultMaxAge
	}
	return p.MaxAge
}
