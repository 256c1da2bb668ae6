package discovery

import (
	"strings"
	"time"
)

// Matcher decides whether a file name (not a path) belongs to a result set.
type Matcher interface {
	Match(name string) bool
}

// MatcherFunc adapts a plain function to Matcher.
type MatcherFunc func(name string) bool

// Match calls f(name).
func (f MatcherFunc) Match(name string) bool { return f(name) }

const (
	sessionSuffix = "-session.tmp"
	dateLayout    = "2006-01-02"
)

// SessionFiles matches the two session file shapes:
//
//	YYYY-MM-DD-session.tmp            (legacy)
//	YYYY-MM-DD-<shortid>-session.tmp  (current)
//
// The date must be a real calendar date and shortid is [A-Za-z0-9_]+.
var SessionFiles Matcher = MatcherFunc(matchSessionFile)

func matchSessionFile(name string) bool {
	if len(name) < len(dateLayout)+len(sessionSuffix) || !strings.HasSuffix(name, sessionSuffix) {
		return false
	}
	if _, err := time.Parse(dateLayout, name[:len(dateLayout)]); err != nil {
		return false
	}

	rest := strings.TrimSuffix(name[len(dateLayout):], sessionSuffix)
	if rest == "" {
		return true
	}
	if rest[0] != '-' {
		return false
	}
	return isShortID(rest[1:])
}

func isShortID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

// ShortID extracts the short id from a session file name. Legacy names and
// names that are not session files return "".
func ShortID(name string) string {
	if !matchSessionFile(name) {
		return ""
	}
	rest := strings.TrimSuffix(name[len(dateLayout):], sessionSuffix)
	return strings.TrimPrefix(rest, "-")
}

// Suffix matches names ending in suffix, e.g. Suffix(".md") for learned skills.
func Suffix(suffix string) Matcher {
	return MatcherFunc(func(name string) bool {
		return len(name) > len(suffix) && strings.HasSuffix(name, suffix)
	})
}
