package input

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/opd-ai/go-spacecombat/pkg/config"
)

// TraceVersion is written into every trace. Version 2 embeds the config.
const TraceVersion = 2

// ErrTraceVersion is returned when decoding a trace from another format
var ErrTraceVersion = errors.New("unsupported trace version")

// ErrTraceConfig is returned when a trace carries no usable config
var ErrTraceConfig = errors.New("trace config missing or invalid")

// Trace is everything needed to reproduce a run: the effective config
// after file, env and flag overrides, and one input frame per tick.
// Seed, TestMode and DT mirror the config for quick inspection. Frames
// are stored packed.
type Trace struct {
	Version  int            `msgpack:"v"`
	Seed     uint64         `msgpack:"seed"`
	TestMode bool           `msgpack:"test"`
	DT       float64        `msgpack:"dt"`
	Config   *config.Config `msgpack:"cfg"`
	Frames   []uint8        `msgpack:"frames"`
}

// NewTrace starts an empty trace for a run built from cfg. The config is
// copied so later changes to cfg do not leak into the recording.
func NewTrace(cfg *config.Config) *Trace {
	own := *cfg
	own.Zones = append([]config.ZoneConfig(nil), cfg.Zones...)
	own.Palette.Planets = append([]string(nil), cfg.Palette.Planets...)
	return &Trace{
		Version:  TraceVersion,
		Seed:     own.Seed,
		TestMode: own.TestMode,
		DT:       own.World.DT,
		Config:   &own,
	}
}

// Append records one tick of input
func (t *Trace) Append(f Frame) {
	t.Frames = append(t.Frames, f.Bits())
}

// Len returns the number of recorded ticks
func (t *Trace) Len() int {
	return len(t.Frames)
}

// At returns the input recorded for tick i
func (t *Trace) At(i int) Frame {
	return FrameFromBits(t.Frames[i])
}

// Encode writes the trace as msgpack
func (t *Trace) Encode(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(t); err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}
	return nil
}

// DecodeTrace reads a trace written by Encode
func DecodeTrace(r io.Reader) (*Trace, error) {
	var t Trace
	if err := msgpack.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	if t.Version != TraceVersion {
		return nil, fmt.Errorf("%w: %d", ErrTraceVersion, t.Version)
	}
	if t.Config == nil {
		return nil, ErrTraceConfig
	}
	if err := t.Config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTraceConfig, err)
	}
	return &t, nil
}
