// Package audio provides PortAudio-backed playback and capture. The process
// initializes PortAudio once and releases it on shutdown.
package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/cynsight/assistivox-ai/internal/pkg/logger"
	"github.com/cynsight/assistivox-ai/internal/pkg/wav"

	"github.com/gordonklaus/portaudio"
)

const (
	// CaptureSampleRate matches what the dictation engines consume.
	CaptureSampleRate = 16000
	// captureFrames is the per-read buffer size.
	captureFrames = 4096
	// playbackFrames keeps stop latency under ~50ms at 44.1 kHz.
	playbackFrames = 2048
)

var (
	initOnce sync.Once
	initErr  error
)

// ensureInitialized sets PortAudio up on first use.
func ensureInitialized() error {
	initOnce.Do(func() {
		initErr = portaudio.Initialize()
	})
	if initErr != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", initErr)
	}
	return nil
}

// Terminate releases PortAudio. Call once at process shutdown.
func Terminate() error {
	if initErr != nil {
		return nil
	}
	return portaudio.Terminate()
}

// Player implements speech.Player on the default output device.
type Player struct {
	logger logger.Logger
}

// NewPlayer creates a PortAudio playback device.
func NewPlayer(logger logger.Logger) (*Player, error) {
	if err := ensureInitialized(); err != nil {
		return nil, err
	}
	return &Player{logger: logger}, nil
}

// Play decodes WAV data and writes it to the default output device in
// chunks, checking for cancellation between chunks.
func (p *Player) Play(ctx context.Context, wavData []byte) error {
	format, pcm, err := wav.Decode(wavData)
	if err != nil {
		return fmt.Errorf("failed to decode audio for playback: %w", err)
	}
	if format.BitsPerSample != 16 {
		return fmt.Errorf("unsupported bit depth %d, only 16-bit PCM playback is supported", format.BitsPerSample)
	}

	samples := wav.DecodeInt16(pcm)
	buffer := make([]int16, playbackFrames*format.Channels)

	stream, err := portaudio.OpenDefaultStream(0, format.Channels, float64(format.SampleRate), playbackFrames, &buffer)
	if err != nil {
		return fmt.Errorf("failed to open output stream: %w", err)
	}
	defer func() {
		_ = stream.Close()
	}()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start output stream: %w", err)
	}
	defer func() {
		_ = stream.Stop()
	}()

	for offset := 0; offset < len(samples); offset += len(buffer) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n := copy(buffer, samples[offset:])
		// Zero-fill the tail so the last buffer does not replay stale audio.
		for i := n; i < len(buffer); i++ {
			buffer[i] = 0
		}

		if err := stream.Write(); err != nil {
			return fmt.Errorf("failed to write audio: %w", err)
		}
	}

	return nil
}

// Capturer implements dictation.Capturer on the default input device.
type Capturer struct {
	logger logger.Logger
}

// NewCapturer creates a PortAudio microphone capture device.
func NewCapturer(logger logger.Logger) (*Capturer, error) {
	if err := ensureInitialized(); err != nil {
		return nil, err
	}
	return &Capturer{logger: logger}, nil
}

// Capture reads 16 kHz mono int16 frames from the default input device and
// hands each buffer to consume until ctx is canceled or consume fails.
func (c *Capturer) Capture(ctx context.Context, consume func(chunk []byte) error) error {
	buffer := make([]int16, captureFrames)

	stream, err := portaudio.OpenDefaultStream(1, 0, CaptureSampleRate, captureFrames, &buffer)
	if err != nil {
		return fmt.Errorf("failed to open input stream: %w", err)
	}
	defer func() {
		_ = stream.Close()
	}()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start input stream: %w", err)
	}
	defer func() {
		_ = stream.Stop()
	}()

	c.logger.Info("Microphone capture started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := stream.Read(); err != nil {
			return fmt.Errorf("failed to read audio: %w", err)
		}
		if err := consume(wav.EncodeInt16(buffer)); err != nil {
			return err
		}
	}
}
