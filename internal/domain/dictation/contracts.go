package dictation

import (
	"context"
)

// Recognizer defines methods for streaming speech-to-text.
type Recognizer interface {
	// Start opens a recognition session. It returns an error when the
	// engine's model or backing service is unavailable.
	Start(ctx context.Context) (Session, error)

	// Name returns the engine identifier ("vosk" or "whisper").
	Name() string
}

// Session is one live dictation session.
type Session interface {
	// WritePCM feeds 16 kHz mono s16le audio into the recognizer.
	WritePCM(chunk []byte) error

	// Segments returns the stream of recognition results. The channel is
	// closed when the session ends.
	Segments() <-chan Segment

	// Close flushes any pending final result and ends the session.
	// Closing an already-closed session is a no-op.
	Close() error
}

// Capturer defines methods for microphone capture.
type Capturer interface {
	// Capture streams 16 kHz mono s16le PCM frames to consume until ctx is
	// canceled or consume returns an error.
	Capture(ctx context.Context, consume func(chunk []byte) error) error
}

// DictationService defines methods for managing dictation sessions.
type DictationService interface {
	// Start opens a session with the configured engine after verifying its
	// model is installed.
	Start(ctx context.Context) (Session, error)

	// ModelInstalled reports whether the configured engine's model is
	// present on disk.
	ModelInstalled(ctx context.Context) (bool, error)
}
