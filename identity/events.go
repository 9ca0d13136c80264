package identity

import "time"

// EventKind classifies identity provider lifecycle events
type EventKind int

const (
	// EventOther is any event the session layer does not act on
	EventOther EventKind = iota
	// EventConfigured means the provider accepted its descriptor
	EventConfigured
	// EventSignedIn follows an interactive sign-in
	EventSignedIn
	// EventAutoSignIn follows a restored session
	EventAutoSignIn
	// EventTokenRefreshed follows a successful token refresh
	EventTokenRefreshed
	// EventSignedOut means the session was dropped
	EventSignedOut
)

// Wire names of the auth channel events
const (
	NameConfigured   = "configured"
	NameSignIn       = "signIn"
	NameAutoSignIn   = "autoSignIn"
	NameTokenRefresh = "tokenRefresh"
	NameSignOut      = "signOut"
)

var eventKinds = map[string]EventKind{
	NameConfigured:   EventConfigured,
	NameSignIn:       EventSignedIn,
	NameAutoSignIn:   EventAutoSignIn,
	NameTokenRefresh: EventTokenRefreshed,
	NameSignOut:      EventSignedOut,
}

// ParseEventName maps a wire name to its kind. Unknown names are EventOther.
func ParseEventName(name string) EventKind {
	if kind, ok := eventKinds[name]; ok {
		return kind
	}
	return EventOther
}

// String returns the wire name for known kinds
func (k EventKind) String() string {
	for name, kind := range eventKinds {
		if kind == k {
			return name
		}
	}
	return "other"
}

// Event is a single lifecycle notification from the identity provider
type Event struct {
	Kind EventKind
	Name string
	At   time.Time
}

// NewEvent builds an event from its wire name
func NewEvent(name string) Event {
	return Event{Kind: ParseEventName(name), Name: name, At: time.Now()}
}

// SignsIn reports whether the event establishes or renews a session
func (e Event) SignsIn() bool {
	switch e.Kind {
	case EventSignedIn, EventAutoSignIn, EventTokenRefreshed:
		return true
	}
	return false
}
