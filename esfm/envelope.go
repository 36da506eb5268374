package esfm

// Envelope generator states, in the order a key-on cycles through them.
const (
	egAttack uint8 = iota
	egDecay
	egSustain
	egRelease
)

// RecomputeKSL exposes updateKSLOffset to the register-file package: it
// must rerun whenever a write changes a slot's F-Num, Block or KSL field.
func RecomputeKSL(slot *Slot) {
	updateKSLOffset(slot)
}

// updateKSLOffset recomputes a slot's cached key-scale-level attenuation
// offset. It only needs to run when F-Num or Block change, so callers
// trigger it from register writes rather than every tick. The KSL
// register field itself is applied fresh every tick in envelopeCalc,
// since it does not change the cached offset's block/F-Num scaling.
func updateKSLOffset(slot *Slot) {
	fnumHigh := (slot.FNum >> 6) & 0xf
	atten := kslROM[fnumHigh]
	slot.EGKSLOffset = uint16(atten << uint(slot.Block))
}

// scaledRate folds a 4-bit register rate with key-scale-rate into the
// 0-63 range the envelope state machine steps through. A register rate of
// 0 means "no rate" and is returned unchanged so callers can special-case
// it (attack rate 0 never leaves ATTACK; decay/release rate 0 never moves).
func scaledRate(regRate uint8, slot *Slot) uint8 {
	if regRate == 0 {
		return 0
	}
	rate := uint32(regRate) * 4
	if slot.KSR {
		rate += uint32(slot.Keyscale)
	} else {
		rate += uint32(slot.Keyscale) >> 2
	}
	if rate > 63 {
		rate = 63
	}
	return uint8(rate)
}

// envelopeCalc advances one slot's envelope generator by one sample. It
// mirrors the chip's shared dither timer (chip.EGTick / chip.EGTimer) so
// that sub-unit rates (rate_hi >= 12) spread their increments evenly
// across four consecutive samples instead of stepping in a jagged line.
func envelopeCalc(chip *Chip, slot *Slot) {
	var regRate uint8
	switch slot.EGState {
	case egAttack:
		regRate = slot.AttackRate
	case egDecay:
		regRate = slot.DecayRate
	case egRelease:
		regRate = slot.ReleaseRate
	}

	rate := scaledRate(regRate, slot)
	rateHi := rate >> 2
	rateLo := rate & 3

	var increment uint32
	if rate != 0 {
		if rateHi < 12 {
			shift := 11 - rateHi
			if chip.EGTick && uint32(chip.EGTimer)&((1<<shift)-1) == 0 {
				increment = uint32(egIncStep[rateLo][(chip.EGTimer>>shift)&3])
			}
		} else {
			clamped := rateHi
			if clamped > 15 {
				clamped = 15
			}
			increment = uint32(egIncStep[rateLo][chip.EGClocks&3]) << (clamped - 12)
		}
	}

	switch slot.EGState {
	case egAttack:
		// eg_position reaching zero (full volume) always falls through to
		// DECAY, regardless of rate; a rate-0 attack just never gets there.
		if slot.EGPosition == 0 {
			slot.EGState = egDecay
			break
		}
		if rate == 0 {
			break
		}
		if slot.EGDelayRun {
			if chip.EGTimer&(1<<slot.EnvDelay) != 0 {
				slot.EGDelayRun = false
			}
			break
		}
		if rateHi == 0xf {
			slot.EGPosition = 0
			break
		}
		if increment == 0 {
			break
		}
		shift := uint8(0)
		if rateHi < 4 {
			shift = 4 - rateHi
		}
		delta := (^uint32(slot.EGPosition) & 0x1ff) >> shift
		dec := delta * increment
		if dec >= uint32(slot.EGPosition) {
			slot.EGPosition = 0
		} else {
			slot.EGPosition -= uint16(dec)
		}
	case egDecay:
		if increment != 0 {
			pos := uint32(slot.EGPosition) + increment
			if pos > 0x1ff {
				pos = 0x1ff
			}
			slot.EGPosition = uint16(pos)
		}
		if uint32(slot.EGPosition)>>4 >= uint32(sustainLevel(slot)) {
			if slot.EnvSustaining {
				slot.EGState = egSustain
			} else {
				slot.EGState = egRelease
			}
		}
	case egSustain:
		if !slot.EnvSustaining {
			slot.EGState = egRelease
		}
	case egRelease:
		if increment != 0 {
			pos := uint32(slot.EGPosition) + increment
			if pos > 0x1ff {
				pos = 0x1ff
			}
			slot.EGPosition = uint16(pos)
		}
	}

	egOut := uint32(slot.EGPosition) + uint32(slot.TotalLevel)<<2 + uint32(slot.EGKSLOffset)>>kslShift[slot.KSL]
	if slot.TremoloEn {
		shift := uint(4)
		if slot.TremoloDeep {
			shift = 2
		}
		egOut += uint32(chip.Tremolo) >> shift
	}
	if chip.TestBitAttenuate {
		egOut += 0x1ff
	}
	if egOut > 0x1ff {
		egOut = 0x1ff
	}
	slot.EGOutput = uint16(egOut)
}

// sustainLevel derives the 5-bit sustain threshold from the register field.
// A value of 15 maps to the maximum attenuation bucket (silence), matching
// how OPL-family sustain-level fields are interpreted.
func sustainLevel(slot *Slot) uint8 {
	level := slot.SustainRate
	if level == 15 {
		return 31
	}
	return level * 2
}

// keyOnEnvelope resets a slot's envelope state machine when its key-on
// edge fires (0 -> 1 transition): the slot restarts from full attenuation
// (0x1ff, the same position NewChip gives every slot) in the attack state,
// with its delay timer armed whenever env_delay is nonzero.
func keyOnEnvelope(slot *Slot) {
	slot.EGState = egAttack
	slot.EGPosition = 0x1ff
	if slot.EnvDelay != 0 {
		slot.EGDelayRun = true
	} else {
		slot.EGDelayRun = false
	}
}

// keyOffEnvelope forces a slot into RELEASE on a key-on 1 -> 0 transition.
func keyOffEnvelope(slot *Slot) {
	if slot.EGState != egRelease {
		slot.EGState = egRelease
	}
}
