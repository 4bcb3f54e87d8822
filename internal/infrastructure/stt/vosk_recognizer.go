// Package stt provides the dictation engine implementations: a streaming
// vosk-server WebSocket client and an utterance-at-a-time whisper HTTP
// client.
package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cynsight/assistivox-ai/internal/domain/dictation"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"

	"github.com/gorilla/websocket"
)

const (
	// SampleRate is the PCM rate every recognizer consumes.
	SampleRate = 16000

	voskCloseTimeout = 5 * time.Second
)

// VoskRecognizer streams audio to a vosk-server over WebSocket.
type VoskRecognizer struct {
	serverURL string
	logger    logger.Logger
}

// NewVoskRecognizer creates a Recognizer for the configured vosk-server.
func NewVoskRecognizer(settings config.VoskSettings, logger logger.Logger) (*VoskRecognizer, error) {
	if settings.ServerURL == "" {
		return nil, fmt.Errorf("vosk server URL is not configured")
	}
	return &VoskRecognizer{
		serverURL: settings.ServerURL,
		logger:    logger,
	}, nil
}

// Name returns the engine identifier.
func (r *VoskRecognizer) Name() string {
	return config.DictationEngineVosk
}

// Start dials the vosk-server and begins a recognition session.
func (r *VoskRecognizer) Start(ctx context.Context) (dictation.Session, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, r.serverURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vosk server: %w", err)
	}

	configMsg := fmt.Sprintf(`{"config": {"sample_rate": %d}}`, SampleRate)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(configMsg)); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to configure vosk session: %w", err)
	}

	session := &voskSession{
		conn:     conn,
		segments: make(chan dictation.Segment, 16),
		done:     make(chan struct{}),
		logger:   r.logger,
	}
	go session.readLoop()

	r.logger.Info("Started vosk dictation session")
	return session, nil
}

type voskSession struct {
	conn     *websocket.Conn
	segments chan dictation.Segment
	done     chan struct{}
	logger   logger.Logger

	writeMu   sync.Mutex
	closing   atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// voskResult is one JSON reply from vosk-server. "partial" arrives while
// speaking, "text" when an utterance ends.
type voskResult struct {
	Partial string `json:"partial"`
	Text    string `json:"text"`
}

func (s *voskSession) readLoop() {
	defer close(s.segments)
	defer close(s.done)

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if !s.closing.Load() && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.segments <- dictation.Segment{
					Kind:      dictation.SegmentFinal,
					Timestamp: time.Now(),
					Err:       fmt.Errorf("vosk connection lost: %w", err),
				}
			}
			return
		}

		var result voskResult
		if err := json.Unmarshal(message, &result); err != nil {
			s.logger.Warn("Skipping malformed vosk reply: ", err)
			continue
		}

		// Blank results are suppressed.
		switch {
		case result.Text != "":
			s.segments <- dictation.Segment{
				Kind:      dictation.SegmentFinal,
				Text:      result.Text + " ",
				Timestamp: time.Now(),
			}
		case result.Partial != "":
			s.segments <- dictation.Segment{
				Kind:      dictation.SegmentPartial,
				Text:      result.Partial,
				Timestamp: time.Now(),
			}
		}
	}
}

func (s *voskSession) WritePCM(chunk []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
		return fmt.Errorf("failed to send audio to vosk: %w", err)
	}
	return nil
}

func (s *voskSession) Segments() <-chan dictation.Segment {
	return s.segments
}

// Close asks the server to flush the final result, waits for the stream to
// drain and tears the connection down.
func (s *voskSession) Close() error {
	s.closeOnce.Do(func() {
		s.closing.Store(true)
		s.writeMu.Lock()
		err := s.conn.WriteMessage(websocket.TextMessage, []byte(`{"eof" : 1}`))
		s.writeMu.Unlock()
		if err != nil {
			s.closeErr = fmt.Errorf("failed to finish vosk session: %w", err)
		}

		select {
		case <-s.done:
		case <-time.After(voskCloseTimeout):
		}
		_ = s.conn.Close()
	})
	return s.closeErr
}
