// Package wav reads and writes RIFF/WAVE audio. It covers what the speech
// pipeline needs: decoding PCM for playback, encoding recorded or synthesized
// samples, repairing the bogus chunk sizes streamed synthesis servers emit,
// and prepending inter-sentence silence.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// Format describes the PCM layout of a WAVE file.
type Format struct {
	Channels      int
	SampleRate    int
	BitsPerSample int
}

// BytesPerFrame returns the size of one frame across all channels.
func (f Format) BytesPerFrame() int {
	return f.Channels * f.BitsPerSample / 8
}

// Duration returns the play time of n bytes of PCM data in this format.
func (f Format) Duration(n int) time.Duration {
	bpf := f.BytesPerFrame()
	if bpf == 0 || f.SampleRate == 0 {
		return 0
	}
	frames := n / bpf
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

const (
	riffHeaderSize  = 12
	chunkHeaderSize = 8
	fmtChunkSize    = 16
	pcmFormatTag    = 1
)

var (
	// ErrNotWave indicates the input does not start with a RIFF/WAVE header.
	ErrNotWave = errors.New("not a valid wav file")
	// ErrNoDataChunk indicates a RIFF/WAVE container without a data chunk.
	ErrNoDataChunk = errors.New("wav file has no data chunk")
)

// Decode parses a WAVE file and returns its format and raw PCM data. Only
// uncompressed PCM is supported. Chunks other than fmt and data are skipped.
func Decode(b []byte) (Format, []byte, error) {
	if len(b) < riffHeaderSize || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return Format{}, nil, ErrNotWave
	}

	var format Format
	haveFmt := false

	off := riffHeaderSize
	for off+chunkHeaderSize <= len(b) {
		id := string(b[off : off+4])
		size := int(binary.LittleEndian.Uint32(b[off+4 : off+8]))
		body := off + chunkHeaderSize

		switch id {
		case "fmt ":
			if body+fmtChunkSize > len(b) {
				return Format{}, nil, fmt.Errorf("wav fmt chunk truncated")
			}
			tag := binary.LittleEndian.Uint16(b[body : body+2])
			if tag != pcmFormatTag {
				return Format{}, nil, fmt.Errorf("unsupported wav format tag %d, only PCM is supported", tag)
			}
			format = Format{
				Channels:      int(binary.LittleEndian.Uint16(b[body+2 : body+4])),
				SampleRate:    int(binary.LittleEndian.Uint32(b[body+4 : body+8])),
				BitsPerSample: int(binary.LittleEndian.Uint16(b[body+14 : body+16])),
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return Format{}, nil, fmt.Errorf("wav data chunk before fmt chunk")
			}
			// Streamed files routinely carry a placeholder size; trust the
			// actual byte count instead when the declared size overruns.
			if size > len(b)-body {
				size = len(b) - body
			}
			return format, b[body : body+size], nil
		}

		if size%2 == 1 {
			size++ // chunk bodies are word aligned
		}
		off = body + size
	}

	return Format{}, nil, ErrNoDataChunk
}

// Encode writes PCM data into a canonical 44-byte-header WAVE file.
func Encode(format Format, pcm []byte) []byte {
	var b bytes.Buffer
	b.Grow(riffHeaderSize + chunkHeaderSize*2 + fmtChunkSize + len(pcm))

	byteRate := format.SampleRate * format.BytesPerFrame()

	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(4+chunkHeaderSize+fmtChunkSize+chunkHeaderSize+len(pcm)))
	b.WriteString("WAVE")

	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(fmtChunkSize))
	binary.Write(&b, binary.LittleEndian, uint16(pcmFormatTag))
	binary.Write(&b, binary.LittleEndian, uint16(format.Channels))
	binary.Write(&b, binary.LittleEndian, uint32(format.SampleRate))
	binary.Write(&b, binary.LittleEndian, uint32(byteRate))
	binary.Write(&b, binary.LittleEndian, uint16(format.BytesPerFrame()))
	binary.Write(&b, binary.LittleEndian, uint16(format.BitsPerSample))

	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(len(pcm)))
	b.Write(pcm)

	return b.Bytes()
}

// RepairHeader patches the RIFF and data chunk sizes in place to match the
// actual file length. Synthesis servers that stream WAVE output write
// placeholder sizes up front and never come back to fix them.
func RepairHeader(b []byte) error {
	if len(b) < riffHeaderSize || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return ErrNotWave
	}

	off := riffHeaderSize
	for off+chunkHeaderSize <= len(b) {
		id := string(b[off : off+4])
		size := int(binary.LittleEndian.Uint32(b[off+4 : off+8]))
		if id == "data" {
			binary.LittleEndian.PutUint32(b[4:8], uint32(len(b)-8))
			binary.LittleEndian.PutUint32(b[off+4:off+8], uint32(len(b)-(off+chunkHeaderSize)))
			return nil
		}
		if size%2 == 1 {
			size++
		}
		off += chunkHeaderSize + size
	}

	return ErrNoDataChunk
}

// PrependSilence returns pcm with ms milliseconds of silence in front,
// frame aligned to the format.
func PrependSilence(format Format, pcm []byte, ms int) []byte {
	if ms <= 0 {
		return pcm
	}
	frames := format.SampleRate * ms / 1000
	silence := make([]byte, frames*format.BytesPerFrame())
	out := make([]byte, 0, len(silence)+len(pcm))
	out = append(out, silence...)
	return append(out, pcm...)
}

// DecodeInt16 converts 16-bit little-endian PCM bytes into samples.
func DecodeInt16(pcm []byte) []int16 {
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
	}
	return samples
}

// EncodeInt16 converts samples into 16-bit little-endian PCM bytes.
func EncodeInt16(samples []int16) []byte {
	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:i*2+2], uint16(s))
	}
	return pcm
}
