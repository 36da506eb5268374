package trace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esfmcore/esfm"
	"esfmcore/esfm/regs"
)

const sampleDoc = `
sample_rate: 44100
writes:
  - sample: 0
    address: 4
    data: 64
  - sample: 0
    address: 4
    data: 65
  - sample: 10
    address: 6
    data: 255
`

func TestDecodeParsesWritesInOrder(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDoc))
	require.NoError(t, err)
	assert.EqualValues(t, 44100, doc.SampleRate)
	require.Len(t, doc.Writes, 3)
	assert.EqualValues(t, 10, doc.Writes[2].Sample)
}

func TestCoalesceDropsSupersededSameTickWrites(t *testing.T) {
	doc, err := Decode(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	buf := NewBuffer(doc.Writes, nil)
	require.Len(t, buf.writes, 2, "the duplicate write to address 4 at sample 0 should collapse to one")
	assert.EqualValues(t, 65, buf.writes[0].Data, "the later same-tick write should win")
}

func TestApplyDueOnlyAppliesWritesAtOrBeforeSample(t *testing.T) {
	chip := esfm.NewChip()
	rf := regs.New(chip)
	buf := NewBuffer([]Write{
		{Sample: 0, Address: 0, Data: 12},
		{Sample: 5, Address: 0, Data: 34},
	}, nil)

	buf.ApplyDue(rf, 0)
	assert.EqualValues(t, 12, rf.Read(0)&0x3f)
	assert.False(t, buf.Done())

	buf.ApplyDue(rf, 5)
	assert.EqualValues(t, 34, rf.Read(0)&0x3f)
	assert.True(t, buf.Done())
}

func TestRenderGeneratesRequestedSampleCount(t *testing.T) {
	chip := esfm.NewChip()
	rf := regs.New(chip)
	buf := NewBuffer(nil, nil)

	var count int
	err := Render(rf, buf, 50, func(sample uint64, left, right int16) {
		count++
	})
	require.NoError(t, err)
	assert.Equal(t, 50, count)
}
