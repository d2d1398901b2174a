// Package identity models who owns a diary partition. Besides registered
// accounts the app supports anonymous diaries: the server mints an anonymous
// identity once and hands it back inside a token, so ownership always arrives
// explicitly with the request instead of living in ambient client storage.
package identity

import "github.com/google/uuid"

// Kind distinguishes registered users from anonymous diaries.
type Kind string

const (
	KindUser      Kind = "user"
	KindAnonymous Kind = "anonymous"
)

// Identity is the owner of a request's data partition. The core trusts
// OwnerID as given; verification happened at the auth boundary.
type Identity struct {
	Kind    Kind   `json:"kind"`
	OwnerID string `json:"ownerId"`
}

// NewAnonymous mints a fresh anonymous identity. Called exactly once per
// anonymous diary; the ID is stable for its lifetime afterwards.
func NewAnonymous() Identity {
	return Identity{Kind: KindAnonymous, OwnerID: "anon-" + uuid.New().String()}
}

// ForUser wraps a registered account's ID.
func ForUser(userID string) Identity {
	return Identity{Kind: KindUser, OwnerID: userID}
}
