// Package clock schedules timestamped work against a single free-running
// sample counter. It is adapted from a cycle-accurate multi-domain clock
// scheduler down to the one clock domain this engine has: the audio
// sample clock, which both advances synthesis and releases any register
// writes that were buffered for that sample.
package clock

import "fmt"

// SampleClock advances a monotonic sample counter and invokes a step
// function once per sample. Callers queue per-sample side effects (e.g.
// applying a register write) from outside by inspecting GetSample before
// calling Step.
type SampleClock struct {
	Sample uint64

	// Step runs the actual per-sample work (typically rendering one
	// frame of audio). Optional; nil means Advance only advances the counter.
	Step func(sample uint64) error
}

// NewSampleClock creates a scheduler at sample 0.
func NewSampleClock(step func(sample uint64) error) *SampleClock {
	return &SampleClock{Step: step}
}

// Advance runs Step once, if set, then advances the sample counter.
func (c *SampleClock) Advance() error {
	if c.Step != nil {
		if err := c.Step(c.Sample); err != nil {
			return fmt.Errorf("sample %d: %w", c.Sample, err)
		}
	}
	c.Sample++
	return nil
}

// AdvanceN runs Advance n times, stopping at the first error.
func (c *SampleClock) AdvanceN(n uint64) error {
	for i := uint64(0); i < n; i++ {
		if err := c.Advance(); err != nil {
			return err
		}
	}
	return nil
}

// GetSample returns the current sample counter.
func (c *SampleClock) GetSample() uint64 {
	return c.Sample
}

// Reset returns the scheduler to sample 0.
func (c *SampleClock) Reset() {
	c.Sample = 0
}
