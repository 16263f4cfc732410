package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const defaultRingSize = 4096

// StorageMode selects the sinks New builds.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1
	ModeRing
	ModeBoth
)

var modeNames = [...]string{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both"}

func (m StorageMode) String() string { return nameOf(modeNames[:], int(m)) }

func ParseMode(s string) (StorageMode, error) {
	for i, name := range modeNames {
		if name != "" && strings.EqualFold(s, name) {
			return StorageMode(i), nil // #nosec G115
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config describes the tracer the CLI asked for.
type Config struct {
	Level  Level
	Mode   StorageMode
	Format Format
	// Output wins over OutputPath. "-" or "" in OutputPath means stderr.
	Output     io.Writer
	OutputPath string
	RingSize   int
}

// New builds the tracer for cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
			format = FormatNDJSON
		}
	}
	ring := func() Tracer { return NewRingTracer(cfg.RingSize, cfg.Level) }
	stream := func() (Tracer, error) {
		w, err := cfg.writer()
		if err != nil {
			return nil, err
		}
		return NewStreamTracer(w, cfg.Level, format), nil
	}

	switch cfg.Mode {
	case ModeRing:
		return ring(), nil
	case ModeStream:
		return stream()
	case ModeBoth:
		s, err := stream()
		if err != nil {
			return nil, err
		}
		return NewMultiTracer(cfg.Level, s, ring()), nil
	}
	return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
}

func (cfg Config) writer() (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, nil
}
