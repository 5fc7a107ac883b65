package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // only the ring dump at exit
	LevelPhase               // driver and pass boundaries
	LevelDetail              // plus per-document events
	LevelDebug               // plus per-copybook events
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// widest scope admitted by each level; zero admits nothing
var levelBound = [...]Scope{
	LevelOff:    0,
	LevelError:  0,
	LevelPhase:  ScopePass,
	LevelDetail: ScopeDocument,
	LevelDebug:  ScopeCopybook,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a flag value to a Level. Case is ignored.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelBound) {
		return false
	}
	return scope != 0 && scope <= levelBound[l]
}
