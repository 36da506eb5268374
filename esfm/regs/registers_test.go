package regs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"esfmcore/esfm"
)

func TestSlotRegisterRoundTrips(t *testing.T) {
	chip := esfm.NewChip()
	rf := New(chip)

	rf.Write(0, 0x2a)    // total level
	rf.Write(1, 0x34)    // f-num low
	rf.Write(2, 0x81)    // f-num high + block + output level
	rf.Write(3, 0x25)    // mult + waveform
	rf.Write(4, 0xd4)    // ksl/tremolo/vibrato/sustaining/ksr/out-enable
	rf.Write(5, 0x67)    // mod-in-level/rhy-noise/env-delay
	rf.Write(6, 0x5a)    // decay/attack
	rf.Write(7, 0x3c)    // release/sustain

	for addr := uint16(0); addr < 8; addr++ {
		want := uint8(0)
		switch addr {
		case 0:
			want = 0x2a
		case 1:
			want = 0x34
		case 2:
			want = 0x81
		case 3:
			want = 0x25
		case 4:
			want = 0xd4
		case 5:
			want = 0x67
		case 6:
			want = 0x5a
		case 7:
			want = 0x3c
		}
		assert.Equal(t, want, rf.Read(addr), "register %d did not round-trip", addr)
	}
}

func TestKeyOnRegisterDrivesChannelKeyOn(t *testing.T) {
	chip := esfm.NewChip()
	rf := New(chip)

	rf.Write(KeyOnRegsStart+3, 0x01)
	assert.True(t, chip.Channels[3].KeyOn)
	assert.Equal(t, uint8(0x01), rf.Read(KeyOnRegsStart+3))

	rf.Write(KeyOnRegsStart+16, 0x03)
	assert.True(t, chip.Channels[16].KeyOn)
	assert.True(t, chip.Channels[16].KeyOn2)
}

func TestTimerSetupRegisterArmsAndClearsTimers(t *testing.T) {
	chip := esfm.NewChip()
	rf := New(chip)

	rf.Write(Timer1Reg, 250)
	rf.Write(TimerSetupReg, 0x01) // enable timer 1 only
	assert.True(t, chip.Timer1.Enable)
	assert.False(t, chip.Timer2.Enable)

	chip.Timer1.Overflow = true
	chip.IRQBit = true
	rf.Write(TimerSetupReg, 0x81) // reset IRQ, keep timer 1 enabled
	assert.False(t, chip.Timer1.Overflow)
	assert.False(t, chip.IRQBit)
	assert.True(t, chip.Timer1.Enable)
}

func TestConfigRegisterTogglesNativeAndRhythmMode(t *testing.T) {
	chip := esfm.NewChip()
	rf := New(chip)

	rf.Write(ConfigReg, 0x03)
	assert.True(t, chip.NativeMode)
	assert.True(t, chip.RhythmMode)
	assert.Equal(t, uint8(0x03), rf.Read(ConfigReg))
}
