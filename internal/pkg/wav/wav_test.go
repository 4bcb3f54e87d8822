//go:build unit
// +build unit

package wav

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mono16k = Format{Channels: 1, SampleRate: 16000, BitsPerSample: 16}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pcm := EncodeInt16([]int16{0, 1000, -1000, 32767, -32768})

	encoded := Encode(mono16k, pcm)
	format, data, err := Decode(encoded)
	require.NoError(t, err)

	assert.Equal(t, mono16k, format)
	assert.Equal(t, pcm, data)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, _, err := Decode([]byte("definitely not audio"))
	assert.ErrorIs(t, err, ErrNotWave)
}

func TestDecodeSkipsUnknownChunks(t *testing.T) {
	pcm := EncodeInt16([]int16{1, 2, 3})
	encoded := Encode(mono16k, pcm)

	// Splice a LIST chunk between fmt and data.
	list := append([]byte("LIST"), 0, 0, 0, 0)
	binary.LittleEndian.PutUint32(list[4:], 4)
	list = append(list, 'I', 'N', 'F', 'O')

	spliced := append([]byte{}, encoded[:36]...)
	spliced = append(spliced, list...)
	spliced = append(spliced, encoded[36:]...)
	binary.LittleEndian.PutUint32(spliced[4:8], uint32(len(spliced)-8))

	format, data, err := Decode(spliced)
	require.NoError(t, err)
	assert.Equal(t, mono16k, format)
	assert.Equal(t, pcm, data)
}

func TestDecodeClampsOverstatedDataSize(t *testing.T) {
	pcm := EncodeInt16([]int16{5, 6, 7, 8})
	encoded := Encode(mono16k, pcm)

	// Streamed output: declared data size far beyond the real payload.
	binary.LittleEndian.PutUint32(encoded[40:44], 0xFFFFFFFF)

	_, data, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, pcm, data)
}

func TestRepairHeader(t *testing.T) {
	pcm := EncodeInt16(make([]int16, 100))
	encoded := Encode(mono16k, pcm)

	binary.LittleEndian.PutUint32(encoded[4:8], 0)
	binary.LittleEndian.PutUint32(encoded[40:44], 0xFFFFFFFF)

	require.NoError(t, RepairHeader(encoded))

	assert.Equal(t, uint32(len(encoded)-8), binary.LittleEndian.Uint32(encoded[4:8]))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(encoded[40:44]))

	format, data, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, mono16k, format)
	assert.Len(t, data, len(pcm))
}

func TestRepairHeaderRejectsNonWave(t *testing.T) {
	assert.ErrorIs(t, RepairHeader([]byte("RIFFxxxxJUNK")), ErrNotWave)
}

func TestPrependSilence(t *testing.T) {
	pcm := EncodeInt16([]int16{100, 200})

	out := PrependSilence(mono16k, pcm, 250)

	silenceBytes := 16000 / 4 * 2
	require.Len(t, out, silenceBytes+len(pcm))
	for _, b := range out[:silenceBytes] {
		assert.Zero(t, b)
	}
	assert.Equal(t, pcm, out[silenceBytes:])

	assert.Equal(t, pcm, PrependSilence(mono16k, pcm, 0))
}

func TestFormatDuration(t *testing.T) {
	oneSecond := make([]byte, 16000*2)
	assert.Equal(t, time.Second, mono16k.Duration(len(oneSecond)))

	stereo := Format{Channels: 2, SampleRate: 44100, BitsPerSample: 16}
	assert.Equal(t, time.Second, stereo.Duration(44100*4))

	assert.Equal(t, time.Duration(0), Format{}.Duration(100))
}

func TestInt16RoundTrip(t *testing.T) {
	samples := []int16{-32768, -1, 0, 1, 32767}
	assert.Equal(t, samples, DecodeInt16(EncodeInt16(samples)))
}
