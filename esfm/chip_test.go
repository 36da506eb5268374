package esfm

import "testing"

func TestNewChipWiresModulationPointers(t *testing.T) {
	chip := NewChip()

	for i := range chip.Channels {
		ch := &chip.Channels[i]
		if ch.Slots[0].ModInput != &ch.Slots[0].FeedbackBuf {
			t.Fatalf("channel %d slot 0 should self-feed, got a pointer to a different field", i)
		}
		if ch.Slots[1].ModInput != &ch.Slots[0].Output {
			t.Fatalf("channel %d slot 1 should read slot 0's output", i)
		}
		if ch.Slots[2].ModInput != &ch.Slots[1].Output {
			t.Fatalf("channel %d slot 2 should read slot 1's output", i)
		}
		if ch.Slots[3].ModInput != &ch.Slots[2].Output {
			t.Fatalf("channel %d slot 3 should read slot 2's output", i)
		}
	}
}

func TestGenerateProducesRequestedFrameCount(t *testing.T) {
	chip := NewChip()
	out := make([]int16, 200)
	for i := range out {
		out[i] = 0x7fff
	}
	chip.Generate(out, 100)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d: want it written by Generate (0 on a silent chip), got %d", i, v)
		}
	}
}

func TestGeneratePanicsOnShortBuffer(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on an undersized output buffer")
		}
	}()
	chip := NewChip()
	out := make([]int16, 4)
	chip.Generate(out, 100)
}

func TestSilentChipProducesZeroOutput(t *testing.T) {
	chip := NewChip()
	out := make([]int16, 2000)
	chip.Generate(out, 1000)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d: want 0 with no channel keyed on, got %d", i, v)
		}
	}
}

func TestKeyOnStartsAttackEnvelope(t *testing.T) {
	chip := NewChip()
	chip.Channels[0].Slots[0].AttackRate = 15
	chip.Channels[0].Slots[0].DecayRate = 4
	chip.Channels[0].Slots[0].OutEnable[0] = true
	chip.Channels[0].Slots[0].FNum = 512
	chip.Channels[0].Slots[0].Block = 4
	chip.Channels[0].Slots[0].Mult = 2

	chip.SetKeyOn(0, true)
	if chip.Channels[0].Slots[0].EGState != egAttack {
		t.Fatalf("want attack state right after key-on, got %d", chip.Channels[0].Slots[0].EGState)
	}
	if chip.Channels[0].Slots[0].EGPosition != 0x1ff {
		t.Fatalf("want envelope position reset to full attenuation, got %#x", chip.Channels[0].Slots[0].EGPosition)
	}
}

func TestKeyOn2OnlyAffectsChannels16And17(t *testing.T) {
	chip := NewChip()
	chip.Channels[0].Slots[2].EGState = egSustain
	chip.SetKeyOn2(0, true)
	if chip.Channels[0].KeyOn2 {
		t.Fatal("KeyOn2 should be a no-op on channels other than 16 and 17")
	}

	chip.Channels[16].Slots[0].EGState = egSustain
	chip.Channels[16].Slots[2].AttackRate = 10
	chip.SetKeyOn2(16, true)
	if !chip.Channels[16].KeyOn2 {
		t.Fatal("want KeyOn2 set on channel 16")
	}
	if chip.Channels[16].Slots[2].EGState != egAttack {
		t.Fatal("want slot 2 of channel 16 to enter attack after KeyOn2")
	}
	if chip.Channels[16].Slots[0].EGState != egSustain {
		t.Fatal("KeyOn2 should not affect slots 0-1")
	}
}
