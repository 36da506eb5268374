package esfm

// vibratoTable holds the eight vibrato depth adjustments cycled through by
// the chip's 8-step vibrato LFO position, indexed by VibratoPos. Values are
// fixed F-Number offsets tracing a triangle (0, 1, 2, 1, 0, -1, -2, -1),
// halved when VibratoDeep is off; they do not scale with the F-Number.
var vibratoTable = [8]int32{0, 1, 2, 1, 0, -1, -2, -1}

// updatePhaseGlobals advances the chip-wide counters the phase generator
// depends on: the tremolo and vibrato LFO positions and the dither timer
// used by the envelope generator. The LFSR noise source is clocked per
// slot by advanceLFSR instead. It runs once per output sample, before any
// slot's phase is advanced.
func updatePhaseGlobals(chip *Chip) {
	chip.GlobalTimer++
	if chip.GlobalTimer&0x3ff == 0 {
		chip.VibratoPos = (chip.VibratoPos + 1) & 7
	}
	if chip.GlobalTimer&0xfff == 0 {
		chip.TremoloPos++
		if chip.TremoloPos >= 210 {
			chip.TremoloPos = 0
		}
	}
	if chip.TremoloPos < 105 {
		chip.Tremolo = uint8(chip.TremoloPos / 15)
	} else {
		chip.Tremolo = uint8((210 - chip.TremoloPos) / 15)
	}

	chip.EGClocks++
	chip.EGTimer++
	chip.EGTick = chip.EGTimer&1 == 0
}

// advanceLFSR clocks the chip's shared 23-bit linear feedback shift
// register once. It runs unconditionally for every one of the 72 slot
// ticks in a sample (18 channels x 4 slots), matching a single noise
// source serially shared across every operator slot's time slice.
func advanceLFSR(chip *Chip) {
	bit := ((chip.LFSR >> 22) ^ (chip.LFSR >> 8)) & 1
	chip.LFSR = ((chip.LFSR << 1) | bit) & 0x7fffff
}

// phaseIncrement computes the 19-bit-accumulator phase step for a slot,
// folding in its F-Number, Block, frequency multiplier and (if enabled)
// vibrato.
func phaseIncrement(chip *Chip, slot *Slot) uint32 {
	fnum := int32(slot.FNum)
	if slot.VibratoEn {
		depth := vibratoTable[chip.VibratoPos]
		if !slot.VibratoDeep {
			depth >>= 1
		}
		fnum += depth
	}
	if fnum < 0 {
		fnum = 0
	}
	basefreq := (uint32(fnum) << uint(slot.Block)) >> 1
	step := (basefreq * multTable[slot.Mult]) >> 1
	return step
}

// advancePhase advances one slot's 19-bit phase accumulator by one sample
// and derives its 10-bit output phase, applying the rhythm-mode noise/tone
// overrides whenever a slot 3's rhy_noise field selects a rhythm voice.
func advancePhase(chip *Chip, channel *Channel, slotIdx int) {
	slot := &channel.Slots[slotIdx]

	if chip.TestBitPhaseStopReset && *slot.KeyOn {
		slot.PhaseAcc = 0
	} else {
		step := phaseIncrement(chip, slot)
		slot.PhaseAcc = (slot.PhaseAcc + step) & 0x7ffff
	}

	phaseOut := uint16(slot.PhaseAcc >> 9)

	// Rhythm overrides read this slot's own phase_out from before this
	// tick's advance (not yet overwritten below) and slot 2's phase_out,
	// which slot index 2 already refreshed earlier in this same tick's
	// per-channel slot loop.
	if slotIdx == 3 && slot.RhyNoise != 0 {
		own := slot.PhaseOut
		other := channel.Slots[2].PhaseOut
		switch slot.RhyNoise {
		case 1:
			phaseOut = rhythmSDPhase(chip, own)
		case 2:
			phaseOut = rhythmHHPhase(chip, own, other)
		default:
			phaseOut = rhythmTCPhase(own, other)
		}
	}

	slot.PhaseOut = phaseOut & 0x3ff
	advanceLFSR(chip)
}

// rhythmXor folds the hi-hat/top-cymbal phase-bit taps the rhythm voices
// share: hh2/hh3/hh7 come from a rhythm slot's own phase_out, tc3/tc5
// from the channel's slot 2 phase_out.
func rhythmXor(own, other uint16) bool {
	hh2 := own&0x4 != 0
	hh3 := own&0x8 != 0
	hh7 := own&0x80 != 0
	tc3 := other&0x8 != 0
	tc5 := other&0x20 != 0
	return (hh2 != hh7) || (hh3 != tc5) || (tc3 != tc5)
}

// rhythmHHPhase derives the hi-hat's phase override from the rm_xor phase
// taps mixed with the shared noise source.
func rhythmHHPhase(chip *Chip, own, other uint16) uint16 {
	rmXor := rhythmXor(own, other)
	noiseBit := chip.LFSR&1 != 0
	if rmXor != noiseBit {
		return 0x2d0
	}
	return 0x234
}

// rhythmSDPhase derives the snare drum's phase override: the rhythm slot's
// own phase bit 8 placed in output bit 9, mixed with the noise source in
// output bit 8.
func rhythmSDPhase(chip *Chip, own uint16) uint16 {
	hh8 := own&0x100 != 0
	noiseBit := chip.LFSR&1 != 0
	var out uint16
	if hh8 {
		out |= 0x200
	}
	if hh8 != noiseBit {
		out |= 0x100
	}
	return out
}

// rhythmTCPhase derives the top cymbal's phase override: the rm_xor phase
// taps in output bit 9, with output bit 7 always set.
func rhythmTCPhase(own, other uint16) uint16 {
	if rhythmXor(own, other) {
		return 0x280
	}
	return 0x080
}
