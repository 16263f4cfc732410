package trace

import (
	"fmt"
	"strings"
	"time"
)

// Kind says whether an event opens a span, closes it, or stands alone.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

// Scope is the granularity of an event; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one compile call
	ScopePass                    // lex, parse, lower, locmap, check, build
	ScopeModule                  // one generated unit
	ScopeNode                    // one AST node during lowering
)

// Level is the verbosity threshold.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelPhase
	LevelDetail
	LevelDebug
)

var (
	kindNames  = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point"}
	scopeNames = [...]string{ScopeDriver: "driver", ScopePass: "pass", ScopeModule: "module", ScopeNode: "node"}
	levelNames = [...]string{LevelOff: "off", LevelError: "error", LevelPhase: "phase", LevelDetail: "detail", LevelDebug: "debug"}

	// самый мелкий scope, который уровень ещё пропускает; 0 = ничего
	levelCeiling = [...]Scope{LevelPhase: ScopePass, LevelDetail: ScopeModule, LevelDebug: ScopeNode}
)

func nameOf(names []string, i int) string {
	if i >= 0 && i < len(names) && names[i] != "" {
		return names[i]
	}
	return "unknown"
}

func (k Kind) String() string  { return nameOf(kindNames[:], int(k)) }
func (s Scope) String() string { return nameOf(scopeNames[:], int(s)) }
func (l Level) String() string { return nameOf(levelNames[:], int(l)) }

// ShouldEmit reports whether events of scope pass this level.
// LevelError keeps nothing live; it exists for the crash-dump ring.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelCeiling) {
		return false
	}
	return scope != 0 && scope <= levelCeiling[l]
}

// ParseLevel accepts the level names in any case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil // #nosec G115 -- table is tiny
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// Event is one trace record. Dur is set on KindSpanEnd only.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	GID      uint64
	Name     string
	Detail   string
	Dur      time.Duration
	Extra    map[string]string
}
