// Package session resolves the current user identity. The storage layer
// treats the user id purely as an opaque partition key; no validation or
// token handling happens here.
package session

// AnonymousUserID is the partition used when nobody is signed in.
const AnonymousUserID = "anonymous"

// Provider returns the id of the user whose partition is active. The
// accessor is synchronous; callers read it at operation time, never cache
// it across a sign-in boundary.
type Provider interface {
	CurrentUserID() string
}

// StaticProvider is a Provider with a fixed user id, set once at startup
// from configuration.
type StaticProvider struct {
	userID string
}

// NewStaticProvider returns a provider for the given user id, falling back
// to the anonymous partition when empty.
func NewStaticProvider(userID string) *StaticProvider {
	if userID == "" {
		userID = AnonymousUserID
	}
	return &StaticProvider{userID: userID}
}

// CurrentUserID implements Provider.
func (p *StaticProvider) CurrentUserID() string {
	return p.userID
}
