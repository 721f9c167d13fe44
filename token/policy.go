package token

import "time"

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// IsExpired reports whether the token's expiry lies in the past.
// Undecodable tokens report as expired.
func IsExpired(rawToken string) bool {
	return ExpiryEpochMillis(rawToken) < NowTimeFunc().UnixMilli()
}

// WillExpireSoon reports whether the token expires within the given window.
// An already-expired token always reports true: expiry is a subset of
// "expiring soon".
func WillExpireSoon(rawToken string, window time.Duration) bool {
	return ExpiryEpochMillis(rawToken)-NowTimeFunc().UnixMilli() <= window.Milliseconds()
}
