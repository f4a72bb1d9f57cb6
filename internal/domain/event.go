package domain

// AuthEventKind tells a sign-in notification apart from a sign-out one
type AuthEventKind int

const (
	SignedOut AuthEventKind = iota
	SignedIn
)

// String implements fmt.Stringer
func (k AuthEventKind) String() string {
	if k == SignedIn {
		return "signed_in"
	}
	return "signed_out"
}

// AuthEvent is published by an identity provider whenever its sign-in state
// changes. User is nil for SignedOut.
type AuthEvent struct {
	Kind AuthEventKind
	User *SessionUser
}

// SignedInEvent builds a SignedIn event for user
func SignedInEvent(user *SessionUser) AuthEvent {
	return AuthEvent{Kind: SignedIn, User: user}
}

// SignedOutEvent builds a SignedOut event
func SignedOutEvent() AuthEvent {
	return AuthEvent{Kind: SignedOut}
}

// EventFor returns SignedIn for a non-nil user and SignedOut otherwise
func EventFor(user *SessionUser) AuthEvent {
	if user == nil {
		return SignedOutEvent()
	}
	return SignedInEvent(user)
}
