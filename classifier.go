package auth

import "strings"

// Access labels a request path against the gating policy.
type Access int

const (
	// AccessPublic marks a path reachable without a valid token.
	AccessPublic Access = iota
	// AccessProtected marks a path requiring a valid session token.
	AccessProtected
)

func (a Access) String() string {
	if a == AccessPublic {
		return "public"
	}
	return "protected"
}

// DefaultPublicPrefixes are the always-public path prefixes: auth pages, the
// auth API, and the public weather API.
var DefaultPublicPrefixes = []string{"/auth/", "/api/auth/", "/api/weather/"}

// DefaultStaticPrefixes are filtered out by the gateway before
// classification runs.
var DefaultStaticPrefixes = []string{"/_next", "/static"}

// PathClassifier deterministically labels an inbound path as public or
// protected. It is pure and total over all strings; nothing is persisted and
// the decision is recomputed on every request.
type PathClassifier struct {
	publicPrefixes []string
}

// NewPathClassifier builds a classifier with the default policy. Extra
// public prefixes extend the policy without replacing it.
func NewPathClassifier(extraPublicPrefixes ...string) *PathClassifier {
	prefixes := make([]string, 0, len(DefaultPublicPrefixes)+len(extraPublicPrefixes))
	prefixes = append(prefixes, DefaultPublicPrefixes...)
	prefixes = append(prefixes, extraPublicPrefixes...)
	return &PathClassifier{publicPrefixes: prefixes}
}

// Classify evaluates the policy in order, first match wins:
// exact "/" is public, then the public prefixes, then everything else is
// protected.
func (pc *PathClassifier) Classify(path string) Access {
	if path == "/" {
		return AccessPublic
	}

	for _, prefix := range pc.publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return AccessPublic
		}
	}

	return AccessProtected
}

// IsPublic is a convenience wrapper used by the gateware middleware.
func (pc *PathClassifier) IsPublic(path string) bool {
	return pc.Classify(path) == AccessPublic
}
