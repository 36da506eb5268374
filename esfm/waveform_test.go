package esfm

import "testing"

func TestWaveformSin0SymmetricAboutHalfPeriod(t *testing.T) {
	// sin0 is a full sine built from a one's-complement negation of the
	// first quarter-period, not a true two's-complement negation: the
	// second half is the bitwise complement of the first half.
	for phase := uint32(0); phase < 0x200; phase++ {
		pos := waveformSin0(phase, 0)
		neg := waveformSin0(phase+0x200, 0)
		if uint16(neg) != ^uint16(pos) {
			t.Fatalf("phase %#x: want sin0(p+0x200) == ^sin0(p), got %d and %d", phase, pos, neg)
		}
	}
}

func TestWaveformSin1IsHalfWaveRectified(t *testing.T) {
	// sin1 zeroes the second half of the period (half-sine).
	for phase := uint32(0x200); phase < 0x400; phase++ {
		if v := waveformSin1(phase, 0); v != 0 {
			t.Fatalf("phase %#x: want sin1 silent in second half, got %d", phase, v)
		}
	}
}

func TestWaveformAttenuationMonotonicallyQuietens(t *testing.T) {
	prev := waveformSin2(0x80, 0)
	for env := uint32(64); env <= 0x1c0; env += 64 {
		v := waveformSin2(0x80, env)
		if v > prev {
			t.Fatalf("envelope %d: output should not increase as attenuation grows (prev=%d, got=%d)", env, prev, v)
		}
		prev = v
	}
}

func TestExpCalcClampsLevel(t *testing.T) {
	if got := expCalc(0x1fff); got == 0 && expCalc(0) == 0 {
		t.Fatal("expCalc(0) should not be silent")
	}
	clamped := expCalc(0x2000)
	atMax := expCalc(0x1fff)
	if clamped != atMax {
		t.Fatalf("expCalc should clamp levels above 0x1fff: got %d, want %d", clamped, atMax)
	}
}
