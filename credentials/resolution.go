package credentials

// Kind classifies the outcome of a token resolution
type Kind int

const (
	// KindNoCredential means no usable credential exists right now
	KindNoCredential Kind = iota
	// KindToken means a bearer token was resolved
	KindToken
	// KindFailed means the resolution crashed internally
	KindFailed
)

// String returns the kind name used in log fields
func (k Kind) String() string {
	switch k {
	case KindToken:
		return "token"
	case KindFailed:
		return "failed"
	default:
		return "no_credential"
	}
}

// Resolution is the typed result of invoking a Delegate
type Resolution struct {
	Kind  Kind
	Token string
	Err   error
}

// Resolved returns a token result. An empty token is reported as no credential.
func Resolved(token string) Resolution {
	if token == "" {
		return NoCredential()
	}
	return Resolution{Kind: KindToken, Token: token}
}

// NoCredential returns the "no usable credential" result
func NoCredential() Resolution {
	return Resolution{Kind: KindNoCredential}
}

// Failed returns an internal failure result carrying err
func Failed(err error) Resolution {
	return Resolution{Kind: KindFailed, Err: err}
}

// Bearer returns the token when one was resolved
func (r Resolution) Bearer() (string, bool) {
	if r.Kind != KindToken || r.Token == "" {
		return "", false
	}
	return r.Token, true
}
