package storage

// Keys under which the credential pair is persisted. Absence of the access
// token means the session is logged out, whatever other state exists.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
)

// Repo manages durable client-side storage of string values under fixed keys.
// A missing key is a valid state, not an error.
type Repo interface {
	Get(key string) (value string, ok bool)
	Set(key, value string) error
	Delete(key string) error
}
