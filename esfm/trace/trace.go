// Package trace buffers timestamped register writes and replays them
// against a chip's register file in lockstep with sample generation,
// the way a real ESFM host would queue writes slightly ahead of the
// audio callback that consumes them.
package trace

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"esfmcore/esfm/regs"
	"esfmcore/internal/clock"
	"esfmcore/internal/debug"
)

// Write is a single timestamped register write.
type Write struct {
	Sample  uint64 `yaml:"sample"`
	Address uint16 `yaml:"address"`
	Data    uint8  `yaml:"data"`
}

// Doc is the YAML document shape a trace file decodes into: a sample
// rate (purely informational, carried through to WAV output) and an
// ordered list of writes.
type Doc struct {
	SampleRate uint32  `yaml:"sample_rate"`
	Writes     []Write `yaml:"writes"`
}

// Decode parses a YAML trace document.
func Decode(r io.Reader) (*Doc, error) {
	var doc Doc
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("trace: decode: %w", err)
	}
	return &doc, nil
}

// Buffer holds pending writes in FIFO order and coalesces same-sample,
// same-address writes down to the last one queued, matching a real
// write-buffer's overwrite-in-place semantics for a repeated address
// within one tick.
type Buffer struct {
	writes []Write
	pos    int
	logger *debug.Logger
}

// NewBuffer builds a replay buffer from an already-decoded, timestamp-sorted
// write list. Writes must already be in non-decreasing Sample order; the
// buffer does not sort them.
func NewBuffer(writes []Write, logger *debug.Logger) *Buffer {
	return &Buffer{writes: coalesce(writes), logger: logger}
}

// coalesce drops any write that is immediately superseded by a later
// write to the same address at the same sample, keeping FIFO order
// between distinct (sample, address) pairs.
func coalesce(writes []Write) []Write {
	out := make([]Write, 0, len(writes))
	for i, w := range writes {
		superseded := false
		for j := i + 1; j < len(writes); j++ {
			if writes[j].Sample != w.Sample {
				break
			}
			if writes[j].Address == w.Address {
				superseded = true
				break
			}
		}
		if !superseded {
			out = append(out, w)
		}
	}
	return out
}

// ApplyDue applies every buffered write whose Sample is <= the given
// sample counter, advancing the buffer's read position.
func (b *Buffer) ApplyDue(rf *regs.RegisterFile, sample uint64) {
	for b.pos < len(b.writes) && b.writes[b.pos].Sample <= sample {
		w := b.writes[b.pos]
		rf.Write(w.Address, w.Data)
		if b.logger != nil {
			b.logger.LogTrace(debug.LogLevelDebug, "applied write", map[string]interface{}{
				"sample": w.Sample, "address": w.Address, "data": w.Data,
			})
		}
		b.pos++
	}
}

// Done reports whether every buffered write has been applied.
func (b *Buffer) Done() bool {
	return b.pos >= len(b.writes)
}

// Render replays every buffered write against rf's chip, generating
// totalSamples stereo frames (interleaved) and invoking emit for each.
// It uses a clock.SampleClock purely to keep the sample-advance /
// write-apply ordering explicit and testable in isolation from audio
// generation itself.
func Render(rf *regs.RegisterFile, buf *Buffer, totalSamples uint64, emit func(sample uint64, left, right int16)) error {
	sched := clock.NewSampleClock(func(sample uint64) error {
		buf.ApplyDue(rf, sample)
		left, right := rf.Chip.GenerateSample()
		emit(sample, left, right)
		return nil
	})
	return sched.AdvanceN(totalSamples)
}
