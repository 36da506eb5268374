package esfm

// Channel is one of the 18 FM voices, each built from four operator
// slots. Channels 16 and 17 carry a second independent key-on (KeyOn2)
// that gates their slots 2 and 3; the native key-on register drives it
// from bit 1. EmuMode4OpEnable/EmuMode4OpEnable2 are not written by the
// native register file.
type Channel struct {
	Slots [4]Slot

	ChannelIdx uint8
	Output     [2]int16

	KeyOn             bool
	EmuMode4OpEnable  bool
	KeyOn2            bool
	EmuMode4OpEnable2 bool
}

// wireChannel links each slot's modulation input pointer to the slot
// feeding it. Slot 0 is self-feeding (its feedback buffer, recomputed
// each tick from its own trailing output history); slots 1-3 read the
// previous slot's freshly rendered output, matching the reference's
// ESFM_init wiring of mod_input pointers.
func wireChannel(channel *Channel) {
	channel.Slots[0].ModInput = &channel.Slots[0].FeedbackBuf
	channel.Slots[1].ModInput = &channel.Slots[0].Output
	channel.Slots[2].ModInput = &channel.Slots[1].Output
	channel.Slots[3].ModInput = &channel.Slots[2].Output

	channel.Slots[0].KeyOn = &channel.KeyOn
	channel.Slots[1].KeyOn = &channel.KeyOn

	// Channels 16 and 17 carry a second independent key-on for their
	// upper two slots; every other channel's upper two slots simply share
	// the channel's one key-on.
	if channel.ChannelIdx == 16 || channel.ChannelIdx == 17 {
		channel.Slots[2].KeyOn = &channel.KeyOn2
		channel.Slots[3].KeyOn = &channel.KeyOn2
	} else {
		channel.Slots[2].KeyOn = &channel.KeyOn
		channel.Slots[3].KeyOn = &channel.KeyOn
	}
}

// renderChannel renders one channel's four slots for the current sample
// and accumulates any slot whose output-enable bits are set into the
// channel's stereo output pair. Slot 0's feedback buffer must be
// recomputed before any slot renders, since it is built from slot 0's
// outputs of the previous two ticks, which slot 0 overwrites when it
// renders.
func renderChannel(chip *Chip, channel *Channel) {
	channel.Slots[0].FeedbackBuf = feedbackInput(&channel.Slots[0])

	channel.Output[0] = 0
	channel.Output[1] = 0

	for i := 0; i < 4; i++ {
		renderSlot(chip, channel, i)
		slot := &channel.Slots[i]
		scaled := int16(int32(slot.Output) >> uint(7-slot.OutputLevel))
		for ear := 0; ear < 2; ear++ {
			if slot.OutEnable[ear] {
				channel.Output[ear] += scaled
			}
		}
	}
}
