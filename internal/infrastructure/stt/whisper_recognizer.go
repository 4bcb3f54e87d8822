package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cynsight/assistivox-ai/internal/domain/dictation"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"
	"github.com/cynsight/assistivox-ai/internal/pkg/wav"
)

var sentenceFinalRe = regexp.MustCompile(`[.!?]\s*$`)
var trailingPeriodRe = regexp.MustCompile(`\.\s*$`)

// WhisperRecognizer sends whole utterances to a whisper inference server and
// yields final segments only.
type WhisperRecognizer struct {
	serverURL string
	model     string
	// stripTrailingPeriod removes the period the model appends on its own,
	// so spoken punctuation commands stay in charge of sentence endings.
	stripTrailingPeriod bool
	client              *http.Client
	logger              logger.Logger
}

// NewWhisperRecognizer creates a Recognizer for a whisper transcription
// server. stripTrailingPeriod should follow the substitution-commands
// setting.
func NewWhisperRecognizer(settings config.WhisperSettings, stripTrailingPeriod bool, logger logger.Logger) (*WhisperRecognizer, error) {
	if settings.ServerURL == "" {
		return nil, fmt.Errorf("whisper server URL is not configured")
	}
	return &WhisperRecognizer{
		serverURL:           settings.ServerURL,
		model:               settings.Model,
		stripTrailingPeriod: stripTrailingPeriod,
		client:              &http.Client{Timeout: 2 * time.Minute},
		logger:              logger,
	}, nil
}

// Name returns the engine identifier.
func (r *WhisperRecognizer) Name() string {
	return config.DictationEngineWhisper
}

// Start opens a session that buffers audio until Close, then transcribes the
// whole utterance in one request.
func (r *WhisperRecognizer) Start(ctx context.Context) (dictation.Session, error) {
	r.logger.Info("Started whisper dictation session")
	return &whisperSession{
		recognizer: r,
		ctx:        ctx,
		segments:   make(chan dictation.Segment, 1),
	}, nil
}

type whisperSession struct {
	recognizer *WhisperRecognizer
	ctx        context.Context
	segments   chan dictation.Segment

	mu        sync.Mutex
	buf       bytes.Buffer
	closeOnce sync.Once
	closeErr  error
}

func (s *whisperSession) WritePCM(chunk []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.buf.Write(chunk)
	return err
}

func (s *whisperSession) Segments() <-chan dictation.Segment {
	return s.segments
}

func (s *whisperSession) Close() error {
	s.closeOnce.Do(func() {
		defer close(s.segments)

		s.mu.Lock()
		pcm := s.buf.Bytes()
		s.mu.Unlock()

		if len(pcm) == 0 {
			return
		}

		text, err := s.recognizer.transcribe(s.ctx, pcm)
		if err != nil {
			s.closeErr = err
			s.segments <- dictation.Segment{
				Kind:      dictation.SegmentFinal,
				Timestamp: time.Now(),
				Err:       err,
			}
			return
		}

		if strings.TrimSpace(text) == "" {
			return
		}
		s.segments <- dictation.Segment{
			Kind:      dictation.SegmentFinal,
			Text:      text + " ",
			Timestamp: time.Now(),
		}
	})
	return s.closeErr
}

// transcribe posts the utterance as WAV to the transcription endpoint.
func (r *WhisperRecognizer) transcribe(ctx context.Context, pcm []byte) (string, error) {
	audio := wav.Encode(wav.Format{Channels: 1, SampleRate: SampleRate, BitsPerSample: 16}, pcm)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "utterance.wav")
	if err != nil {
		return "", fmt.Errorf("failed to build transcription form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to attach audio: %w", err)
	}
	if r.model != "" {
		if err := form.WriteField("model", r.model); err != nil {
			return "", fmt.Errorf("failed to attach model field: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to finish transcription form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.serverURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("failed to build transcription request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("whisper request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("whisper server error: %d %s", resp.StatusCode, string(detail))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}

	return r.postProcess(parsed.Text), nil
}

// postProcess strips the trailing period whisper adds to utterances that end
// in sentence-final punctuation, when substitution commands are enabled.
func (r *WhisperRecognizer) postProcess(text string) string {
	text = strings.TrimSpace(text)
	if r.stripTrailingPeriod && sentenceFinalRe.MatchString(text) {
		text = trailingPeriodRe.ReplaceAllString(text, "")
	}
	return text
}
