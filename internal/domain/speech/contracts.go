package speech

import (
	"context"
)

// Synthesizer defines methods for turning text into audio.
type Synthesizer interface {
	// Synthesize converts the request text into a complete WAV byte stream.
	Synthesize(ctx context.Context, request *SynthesisRequest) ([]byte, error)

	// Name returns the engine identifier ("kokoro" or "piper").
	Name() string
}

// VoiceProvider defines methods for listing available voices.
type VoiceProvider interface {
	// Voices retrieves the voices the engine currently offers.
	Voices(ctx context.Context) ([]*Voice, error)
}

// Player defines methods for audio playback.
type Player interface {
	// Play decodes WAV data and plays it on the default output device,
	// blocking until playback finishes or ctx is canceled.
	Play(ctx context.Context, wavData []byte) error
}

// Reader defines the sentence-paced reading pipeline.
type Reader interface {
	// Read speaks text sentence by sentence starting at the given position.
	// onSentence, when set, is invoked before each sentence is played.
	// It returns where reading stopped and whether it ran to completion.
	Read(ctx context.Context, text string, start Position, onSentence func(Position)) (*ReadResult, error)

	// Stop requests that reading halt after the current sentence. Safe to
	// call when no read is in progress.
	Stop()
}
