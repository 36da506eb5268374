// Package wav writes 16-bit stereo PCM audio to a RIFF/WAVE file. This is
// an ambient output sink for capturing synthesized audio to disk; it is
// deliberately not a real-time host audio backend (opening a sound
// device, handling buffer underruns) since that is out of scope for this
// engine. No library in the retrieval pack offers RIFF/WAV encoding, so
// this is written directly against encoding/binary, the same way the
// teacher writes its own small binary formats by hand.
package wav

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Writer incrementally appends interleaved stereo int16 samples to a
// WAV file and finalizes the RIFF header sizes on Close.
type Writer struct {
	w          io.WriteSeeker
	sampleRate uint32
	frames     uint64
}

const headerSize = 44

// NewWriter writes a placeholder WAV header (sizes filled in by Close)
// and returns a Writer ready to accept samples.
func NewWriter(w io.WriteSeeker, sampleRate uint32) (*Writer, error) {
	wr := &Writer{w: w, sampleRate: sampleRate}
	if err := wr.writeHeader(0); err != nil {
		return nil, fmt.Errorf("wav: write header: %w", err)
	}
	return wr, nil
}

func (w *Writer) writeHeader(dataBytes uint32) error {
	if _, err := w.w.Seek(0, io.SeekStart); err != nil {
		return err
	}
	const (
		channels      = 2
		bitsPerSample = 16
	)
	byteRate := w.sampleRate * channels * bitsPerSample / 8
	blockAlign := uint16(channels * bitsPerSample / 8)

	buf := make([]byte, headerSize)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], 36+dataBytes)
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], channels)
	binary.LittleEndian.PutUint32(buf[24:28], w.sampleRate)
	binary.LittleEndian.PutUint32(buf[28:32], byteRate)
	binary.LittleEndian.PutUint16(buf[32:34], blockAlign)
	binary.LittleEndian.PutUint16(buf[34:36], bitsPerSample)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], dataBytes)

	_, err := w.w.Write(buf)
	return err
}

// WriteFrame appends one stereo sample pair.
func (w *Writer) WriteFrame(left, right int16) error {
	var buf [4]byte
	binary.LittleEndian.PutUint16(buf[0:2], uint16(left))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(right))
	if _, err := w.w.Write(buf[:]); err != nil {
		return fmt.Errorf("wav: write frame: %w", err)
	}
	w.frames++
	return nil
}

// Close rewrites the RIFF header with the final data size. The
// underlying writer is not closed; callers that opened a file are
// responsible for closing it themselves.
func (w *Writer) Close() error {
	dataBytes := uint32(w.frames * 4)
	if err := w.writeHeader(dataBytes); err != nil {
		return fmt.Errorf("wav: finalize header: %w", err)
	}
	_, err := w.w.Seek(0, io.SeekEnd)
	return err
}
