package wav

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seekBuffer struct {
	bytes.Buffer
	pos int64
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		s.pos = offset
	case 2:
		s.pos = int64(s.Buffer.Len()) + offset
	}
	return s.pos, nil
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	data := s.Buffer.Bytes()
	if int(s.pos)+len(p) > len(data) {
		grown := make([]byte, int(s.pos)+len(p))
		copy(grown, data)
		s.Buffer = *bytes.NewBuffer(grown)
		data = grown
	}
	copy(data[s.pos:], p)
	s.pos += int64(len(p))
	return len(p), nil
}

func TestWriterProducesValidRIFFHeader(t *testing.T) {
	buf := &seekBuffer{}
	w, err := NewWriter(buf, 44100)
	require.NoError(t, err)

	require.NoError(t, w.WriteFrame(100, -100))
	require.NoError(t, w.WriteFrame(200, -200))
	require.NoError(t, w.Close())

	data := buf.Buffer.Bytes()
	require.True(t, len(data) >= headerSize+8)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, "data", string(data[36:40]))

	dataBytes := binary.LittleEndian.Uint32(data[40:44])
	assert.EqualValues(t, 8, dataBytes)

	riffSize := binary.LittleEndian.Uint32(data[4:8])
	assert.EqualValues(t, 36+dataBytes, riffSize)

	firstLeft := int16(binary.LittleEndian.Uint16(data[44:46]))
	assert.Equal(t, int16(100), firstLeft)
}
