package esfm

// waveformFunc combines a 10-bit phase and a 10-bit envelope attenuation
// into a signed 13-bit sample. Every waveform is a pure function of its
// two inputs; none of them carry state.
type waveformFunc func(phase, envelope uint32) int16

// expCalc linearizes a logarithmic attenuation level (logsin output plus
// scaled envelope) back into a magnitude, clamping the level to 13 bits
// before the table lookup the way the chip's exponentiator does.
func expCalc(level int32) int32 {
	if level > 0x1fff {
		level = 0x1fff
	}
	v := int32(expROM[level&0xff]) << 1
	return v >> uint(level>>8)
}

func waveformSin0(phase, envelope uint32) int16 {
	phase &= 0x3ff
	var neg uint16
	var out uint16
	if phase&0x200 != 0 {
		neg = 0xffff
	}
	if phase&0x100 != 0 {
		out = logsinROM[(phase&0xff)^0xff]
	} else {
		out = logsinROM[phase&0xff]
	}
	v := expCalc(int32(out) + int32(envelope)<<3)
	return int16(uint16(v) ^ neg)
}

func waveformSin1(phase, envelope uint32) int16 {
	phase &= 0x3ff
	var out uint16
	switch {
	case phase&0x200 != 0:
		out = 0x1000
	case phase&0x100 != 0:
		out = logsinROM[(phase&0xff)^0xff]
	default:
		out = logsinROM[phase&0xff]
	}
	return int16(expCalc(int32(out) + int32(envelope)<<3))
}

func waveformSin2(phase, envelope uint32) int16 {
	phase &= 0x3ff
	var out uint16
	if phase&0x100 != 0 {
		out = logsinROM[(phase&0xff)^0xff]
	} else {
		out = logsinROM[phase&0xff]
	}
	return int16(expCalc(int32(out) + int32(envelope)<<3))
}

func waveformSin3(phase, envelope uint32) int16 {
	phase &= 0x3ff
	var out uint16
	if phase&0x100 != 0 {
		out = 0x1000
	} else {
		out = logsinROM[phase&0xff]
	}
	return int16(expCalc(int32(out) + int32(envelope)<<3))
}

func waveformSin4(phase, envelope uint32) int16 {
	phase &= 0x3ff
	var neg uint16
	var out uint16
	if phase&0x300 == 0x100 {
		neg = 0xffff
	}
	switch {
	case phase&0x200 != 0:
		out = 0x1000
	case phase&0x80 != 0:
		out = logsinROM[((phase^0xff)<<1)&0xff]
	default:
		out = logsinROM[(phase<<1)&0xff]
	}
	v := expCalc(int32(out) + int32(envelope)<<3)
	return int16(uint16(v) ^ neg)
}

func waveformSin5(phase, envelope uint32) int16 {
	phase &= 0x3ff
	var out uint16
	switch {
	case phase&0x200 != 0:
		out = 0x1000
	case phase&0x80 != 0:
		out = logsinROM[((phase^0xff)<<1)&0xff]
	default:
		out = logsinROM[(phase<<1)&0xff]
	}
	return int16(expCalc(int32(out) + int32(envelope)<<3))
}

func waveformSin6(phase, envelope uint32) int16 {
	phase &= 0x3ff
	var neg uint16
	if phase&0x200 != 0 {
		neg = 0xffff
	}
	v := expCalc(int32(envelope) << 3)
	return int16(uint16(v) ^ neg)
}

func waveformSin7(phase, envelope uint32) int16 {
	phase &= 0x3ff
	var neg uint16
	if phase&0x200 != 0 {
		neg = 0xffff
		phase = (phase & 0x1ff) ^ 0x1ff
	}
	out := phase << 3
	v := expCalc(int32(out) + int32(envelope)<<3)
	return int16(uint16(v) ^ neg)
}

// waveforms is indexed by a slot's 3-bit waveform register field.
var waveforms = [8]waveformFunc{
	waveformSin0,
	waveformSin1,
	waveformSin2,
	waveformSin3,
	waveformSin4,
	waveformSin5,
	waveformSin6,
	waveformSin7,
}
