package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Format is the encoding of streamed or dumped events.
type Format uint8

const (
	FormatAuto Format = iota // text unless the output path ends in .ndjson
	FormatText
	FormatNDJSON
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent renders ev as one newline-terminated line.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return ndjsonLine(ev)
	}
	return textLine(ev)
}

type wireEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	GID      uint64            `json:"gid,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	DurUS    int64             `json:"dur_us,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func ndjsonLine(ev *Event) []byte {
	data, err := json.Marshal(wireEvent{
		Time:     ev.Time.UTC().Format("2006-01-02T15:04:05.000000Z"),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		GID:      ev.GID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		DurUS:    ev.Dur.Microseconds(),
		Extra:    ev.Extra,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

var kindMarks = [...]string{KindSpanBegin: "→", KindSpanEnd: "←", KindPoint: "•"}

// #12    g1     → parse
// #13    g1     ← parse (ok) {file=a.mcl} 0.42ms
func textLine(ev *Event) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "#%-5d g%-4d ", ev.Seq, ev.GID)
	b.WriteString(strings.Repeat("  ", depth(ev)))
	if int(ev.Kind) < len(kindMarks) && kindMarks[ev.Kind] != "" {
		b.WriteString(kindMarks[ev.Kind] + " ")
	}
	b.WriteString(ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&b, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		keys := slices.Sorted(maps.Keys(ev.Extra))
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + ev.Extra[k]
		}
		fmt.Fprintf(&b, " {%s}", strings.Join(pairs, ", "))
	}
	if ev.Kind == KindSpanEnd {
		fmt.Fprintf(&b, " %.2fms", float64(ev.Dur.Microseconds())/1000)
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// вложенность по scope, а не по реальному дереву: строки потока независимы
func depth(ev *Event) int {
	if ev.Scope <= ScopeDriver {
		return 0
	}
	return int(ev.Scope - ScopeDriver)
}
