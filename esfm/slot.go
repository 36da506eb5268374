package esfm

// Slot is one of the four FM operators in a channel. Fields above the last
// blank line mirror register-visible state; fields below it are derived,
// per-sample working state that never reaches the register file.
type Slot struct {
	OutEnable   [2]bool
	FNum        uint16
	Block       uint8
	TotalLevel  uint8
	OutputLevel uint8
	ModInLevel  uint8
	Mult        uint8
	Waveform    uint8
	RhyNoise    uint8

	AttackRate  uint8
	DecayRate   uint8
	SustainRate uint8
	ReleaseRate uint8

	TremoloEn     bool
	TremoloDeep   bool
	VibratoEn     bool
	VibratoDeep   bool
	EnvSustaining bool
	KSR           bool
	KSL           uint8
	EnvDelay      uint8

	EGPosition     uint16
	EGKSLOffset    uint16
	EGOutput       uint16
	Keyscale       uint8
	Output         int16
	PrevOutput     int16
	FeedbackBuf    int16
	ModInput       *int16
	PhaseAcc       uint32
	PhaseOut       uint16
	PhaseReset     bool
	KeyOn          *bool
	EGState        uint8
	EGDelayRun     bool
	EGDelayCounter uint16
}

// renderSlot computes one slot's output sample for the current tick. It
// is the direct analogue of the reference's per-operator step inside
// ESFM_generate: advance the phase, run the envelope, add the modulation
// input (slot 0's feedback buffer, or the previous slot's output) to the
// phase, then look up the waveform.
func renderSlot(chip *Chip, channel *Channel, slotIdx int) {
	slot := &channel.Slots[slotIdx]

	advancePhase(chip, channel, slotIdx)
	envelopeCalc(chip, slot)

	atten := uint32(slot.EGOutput)

	phase := uint32(slot.PhaseOut)
	if slot.ModInput != nil {
		modLevel := slot.ModInLevel
		phase += uint32(int32(*slot.ModInput)>>uint(7-modLevel)) & 0x3ff
	}

	if chip.TestBitEGHalt {
		atten = 0
	}

	slot.PrevOutput = slot.Output
	// TestBitDistort is a documented test-register bit with no observable
	// effect on real silicon output; kept as a field for register
	// round-tripping but intentionally not wired into sample generation.
	slot.Output = waveforms[slot.Waveform](phase, atten)
}

// feedbackInput computes slot 0's self-modulation input: the average of
// its previous two output samples, scaled by its modulation level. This
// must run before the channel's four slots are rendered in order, since
// slot 0 reads its own trailing history rather than a sibling's fresh
// output.
func feedbackInput(slot *Slot) int16 {
	if slot.ModInLevel == 0 {
		return 0
	}
	sum := int32(slot.Output) + int32(slot.PrevOutput)
	avg := sum >> 1
	return int16(avg >> uint(7-slot.ModInLevel))
}
