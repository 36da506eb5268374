package regs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"esfmcore/esfm"
)

func TestPortLatchesAddressAndWritesThrough(t *testing.T) {
	chip := esfm.NewChip()
	rf := New(chip)
	port := NewPort(rf)

	port.Write(2, 0x00) // address low byte
	port.Write(3, 0x00) // address high byte -> address 0
	port.Write(1, 0x2a) // data port, writes total level at address 0

	assert.EqualValues(t, 0x2a, rf.Read(0))
	assert.EqualValues(t, 0x2a, port.Read(1))
}

func TestPortStatusByteReflectsTimerAndIRQState(t *testing.T) {
	chip := esfm.NewChip()
	rf := New(chip)
	port := NewPort(rf)

	chip.Timer1.Overflow = true
	chip.IRQBit = true
	status := port.Read(0)
	assert.NotZero(t, status&0x01)
	assert.NotZero(t, status&0x80)
}
