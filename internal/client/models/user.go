// Package models defines client-side data models: locally persisted accounts,
// rooms as returned by the Talk server, and room operation requests.
package models

// User is a locally persisted Talk account.
//
// Identity is ID when it is non-zero, otherwise the (Username, BaseURL) pair.
// Empty optional strings are stored as NULL.
type User struct {
	// ID is the internal, database-assigned identifier.
	ID int64

	Username string
	// BaseURL is the server root, e.g. "https://cloud.example.com".
	BaseURL string
	// Token is the app password used for basic auth.
	Token string

	DisplayName string
	// UserID is the server-side user id, which may differ from Username.
	UserID string

	// PushConfigurationState is an opaque blob describing push registration.
	PushConfigurationState string

	// Current marks the account the session acts as.
	Current bool
	// ScheduledForDeletion is the soft-delete flag; such accounts are purged later.
	ScheduledForDeletion bool
}

// SameIdentity reports whether u and o refer to the same server account.
func (u User) SameIdentity(o User) bool {
	return u.Username == o.Username && u.BaseURL == o.BaseURL
}

// UserUpsert carries the input of a create-or-update call. Empty strings mean
// "not supplied"; Current is only applied when non-nil.
type UserUpsert struct {
	Username               string
	Token                  string
	ServerURL              string
	DisplayName            string
	PushConfigurationState string
	Current                *bool
	UserID                 string
	InternalID             int64
}
