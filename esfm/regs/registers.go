// Package regs implements the native register map of an ESFM chip: the
// per-slot operator registers, key-on registers, and the handful of
// global control registers (timers, mode select, test bits). It operates
// directly on an *esfm.Chip so a caller can drive synthesis either through
// this register interface (mirroring real hardware programming) or
// through the chip's Go API directly.
package regs

import "esfmcore/esfm"

const (
	// SlotRegsPerSlot is the size in bytes of one slot's register group.
	SlotRegsPerSlot = 8
	// KeyOnRegsStart is the native address of the first key-on register,
	// one byte past the last of the 18*4 slot register groups.
	KeyOnRegsStart = 18 * 4 * SlotRegsPerSlot // 576

	Timer1Reg     = 0x402
	Timer2Reg     = 0x403
	TimerSetupReg = 0x404
	ConfigReg     = 0x408
	TestReg       = 0x501
)

// RegisterFile decodes native-mode register writes and reads against a
// live chip. It keeps no state of its own beyond what the chip already
// carries, so readback always reflects the chip's current condition.
type RegisterFile struct {
	Chip *esfm.Chip
}

// New wraps a chip for native-mode register access.
func New(chip *esfm.Chip) *RegisterFile {
	return &RegisterFile{Chip: chip}
}

// Write decodes and applies a single native-mode register write.
func (r *RegisterFile) Write(address uint16, data uint8) {
	switch {
	case address < KeyOnRegsStart:
		r.writeSlotReg(address, data)
	case address >= KeyOnRegsStart && address < KeyOnRegsStart+18:
		r.writeKeyOnReg(address-KeyOnRegsStart, data)
	case address == Timer1Reg:
		r.Chip.Timer1.Reload = data
	case address == Timer2Reg:
		r.Chip.Timer2.Reload = data
	case address == TimerSetupReg:
		r.writeTimerSetup(data)
	case address == ConfigReg:
		r.Chip.NativeMode = data&1 != 0
		r.Chip.RhythmMode = data&2 != 0
	case address == TestReg:
		r.Chip.TestBitEGHalt = data&1 != 0
		r.Chip.TestBitDistort = data&2 != 0
		r.Chip.TestBitAttenuate = data&4 != 0
		r.Chip.TestBitPhaseStopReset = data&8 != 0
	}
}

func (r *RegisterFile) writeTimerSetup(data uint8) {
	r.Chip.Timer1.Enable = data&1 != 0
	r.Chip.Timer2.Enable = data&2 != 0
	r.Chip.Timer1.Mask = data&0x20 != 0
	r.Chip.Timer2.Mask = data&0x40 != 0
	if data&0x80 != 0 {
		r.Chip.Timer1.Overflow = false
		r.Chip.Timer2.Overflow = false
		r.Chip.IRQBit = false
	}
}

func (r *RegisterFile) writeKeyOnReg(channelIdx uint16, data uint8) {
	r.Chip.SetKeyOn(int(channelIdx), data&1 != 0)
	r.Chip.SetKeyOn2(int(channelIdx), data&2 != 0)
}

// slotAt locates the channel and slot addressed by a slot-register
// address, and the byte offset within that slot's 8-byte group.
func (r *RegisterFile) slotAt(address uint16) (*esfm.Slot, uint16) {
	slotNum := address / SlotRegsPerSlot
	byteOffset := address % SlotRegsPerSlot
	channelIdx := slotNum / 4
	slotIdx := slotNum % 4
	return &r.Chip.Channels[channelIdx].Slots[slotIdx], byteOffset
}

func (r *RegisterFile) writeSlotReg(address uint16, data uint8) {
	slot, byteOffset := r.slotAt(address)
	switch byteOffset {
	case 0:
		slot.TotalLevel = data & 0x3f
	case 1:
		slot.FNum = (slot.FNum &^ 0xff) | uint16(data)
		updateKSLForSlot(slot)
	case 2:
		slot.FNum = (slot.FNum &^ 0x300) | (uint16(data&0x3) << 8)
		slot.Block = (data >> 2) & 0x7
		slot.OutputLevel = (data >> 5) & 0x7
		updateKSLForSlot(slot)
	case 3:
		slot.Mult = data & 0xf
		slot.Waveform = (data >> 4) & 0x7
	case 4:
		slot.KSL = data & 0x3
		slot.TremoloEn = data&0x4 != 0
		slot.VibratoEn = data&0x8 != 0
		slot.EnvSustaining = data&0x10 != 0
		slot.KSR = data&0x20 != 0
		slot.OutEnable[0] = data&0x40 != 0
		slot.OutEnable[1] = data&0x80 != 0
		updateKSLForSlot(slot)
	case 5:
		slot.ModInLevel = data & 0x7
		slot.RhyNoise = (data >> 3) & 0x3
		slot.EnvDelay = (data >> 5) & 0x7
	case 6:
		slot.DecayRate = data & 0xf
		slot.AttackRate = (data >> 4) & 0xf
	case 7:
		slot.ReleaseRate = data & 0xf
		slot.SustainRate = (data >> 4) & 0xf
	}
}

// Read reconstructs the byte value of a native-mode register from the
// chip's live state, the inverse of Write.
func (r *RegisterFile) Read(address uint16) uint8 {
	switch {
	case address < KeyOnRegsStart:
		return r.readSlotReg(address)
	case address >= KeyOnRegsStart && address < KeyOnRegsStart+18:
		return r.readKeyOnReg(address - KeyOnRegsStart)
	case address == Timer1Reg:
		return r.Chip.Timer1.Reload
	case address == Timer2Reg:
		return r.Chip.Timer2.Reload
	case address == TimerSetupReg:
		return r.readTimerSetup()
	case address == ConfigReg:
		return boolBit(r.Chip.NativeMode, 0) | boolBit(r.Chip.RhythmMode, 1)
	case address == TestReg:
		return boolBit(r.Chip.TestBitEGHalt, 0) |
			boolBit(r.Chip.TestBitDistort, 1) |
			boolBit(r.Chip.TestBitAttenuate, 2) |
			boolBit(r.Chip.TestBitPhaseStopReset, 3)
	}
	return 0
}

func (r *RegisterFile) readTimerSetup() uint8 {
	return boolBit(r.Chip.Timer1.Enable, 0) |
		boolBit(r.Chip.Timer2.Enable, 1) |
		boolBit(r.Chip.Timer1.Mask, 5) |
		boolBit(r.Chip.Timer2.Mask, 6)
}

func (r *RegisterFile) readKeyOnReg(channelIdx uint16) uint8 {
	ch := &r.Chip.Channels[channelIdx]
	return boolBit(ch.KeyOn, 0) | boolBit(ch.KeyOn2, 1)
}

func (r *RegisterFile) readSlotReg(address uint16) uint8 {
	slot, byteOffset := r.slotAt(address)
	switch byteOffset {
	case 0:
		return slot.TotalLevel & 0x3f
	case 1:
		return uint8(slot.FNum)
	case 2:
		return uint8(slot.FNum>>8) | (slot.Block << 2) | (slot.OutputLevel << 5)
	case 3:
		return slot.Mult | (slot.Waveform << 4)
	case 4:
		return slot.KSL | boolBit(slot.TremoloEn, 2) | boolBit(slot.VibratoEn, 3) |
			boolBit(slot.EnvSustaining, 4) | boolBit(slot.KSR, 5) |
			boolBit(slot.OutEnable[0], 6) | boolBit(slot.OutEnable[1], 7)
	case 5:
		return slot.ModInLevel | (slot.RhyNoise << 3) | (slot.EnvDelay << 5)
	case 6:
		return slot.DecayRate | (slot.AttackRate << 4)
	case 7:
		return slot.ReleaseRate | (slot.SustainRate << 4)
	}
	return 0
}

func boolBit(v bool, bit uint) uint8 {
	if v {
		return 1 << bit
	}
	return 0
}

// updateKSLForSlot is the register-write trigger for recomputing a
// slot's cached key-scale-level offset: it must rerun whenever F-Num,
// Block or the KSL field change (register byte offsets 1, 2 and 4).
func updateKSLForSlot(slot *esfm.Slot) {
	esfm.RecomputeKSL(slot)
}
