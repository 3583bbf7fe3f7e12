package model

import "time"

// DefaultRefreshThreshold is how close to expiry a token may get before a
// protected call must replace it. Batch loops widen this because a whole
// polling round can pass between the check and the upload that needs it.
const (
	DefaultRefreshThreshold = 30 * time.Second
	BatchRefreshThreshold   = 180 * time.Second
)

// Credential is a short-lived bearer token obtained via the OAuth2
// client-credentials flow. It is never mutated in place; a stale one is
// replaced wholesale by a fresh fetch.
type Credential struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

func (c Credential) Valid(now time.Time) bool {
	return now.Before(c.ExpiresAt)
}

// ShouldRefresh reports whether the token is within threshold of expiry,
// i.e. now+threshold >= expiry.
func (c Credential) ShouldRefresh(now time.Time, threshold time.Duration) bool {
	return !now.Add(threshold).Before(c.ExpiresAt)
}

// Bearer renders the Authorization header value.
func (c Credential) Bearer() string {
	return "Bearer " + c.AccessToken
}
