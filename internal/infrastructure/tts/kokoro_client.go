// Package tts provides the speech synthesis engine implementations: the
// Kokoro HTTP service (optionally Docker-managed) and the local piper
// subprocess.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cynsight/assistivox-ai/internal/domain/speech"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"
	"github.com/cynsight/assistivox-ai/internal/pkg/wav"
)

// KokoroClient implements speech.Synthesizer and speech.VoiceProvider against
// the Kokoro HTTP API.
type KokoroClient struct {
	baseURL      string
	defaultVoice string
	client       *http.Client
	logger       logger.Logger
}

// synthesisPayload is the Kokoro speech request body.
type synthesisPayload struct {
	Model          string  `json:"model"`
	Voice          string  `json:"voice"`
	Input          string  `json:"input"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed,omitempty"`
}

type voicesResponse struct {
	Voices []string `json:"voices"`
}

// NewKokoroClient creates a Synthesizer backed by a Kokoro TTS HTTP service.
func NewKokoroClient(settings config.KokoroSettings, logger logger.Logger) (*KokoroClient, error) {
	if settings.BaseURL == "" {
		return nil, fmt.Errorf("kokoro base URL is not configured")
	}
	return &KokoroClient{
		baseURL:      settings.BaseURL,
		defaultVoice: settings.Voice,
		client:       &http.Client{Timeout: 60 * time.Second},
		logger:       logger,
	}, nil
}

// Name returns the engine identifier.
func (c *KokoroClient) Name() string {
	return config.TTSEngineKokoro
}

// Synthesize posts the request text to the speech endpoint and returns
// repaired WAV audio. The service streams its response and leaves placeholder
// RIFF sizes behind, so the header is patched before use.
func (c *KokoroClient) Synthesize(ctx context.Context, request *speech.SynthesisRequest) ([]byte, error) {
	request.Normalize()
	if request.Voice == "" {
		request.Voice = c.defaultVoice
	}
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("invalid synthesis request: %w", err)
	}

	payload := synthesisPayload{
		Model:          "kokoro",
		Voice:          request.Voice,
		Input:          request.Text,
		ResponseFormat: "wav",
		Speed:          request.Speed,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode synthesis payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kokoro request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("kokoro API error: %d %s", resp.StatusCode, string(detail))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read kokoro response: %w", err)
	}

	if err := wav.RepairHeader(audio); err != nil {
		return nil, fmt.Errorf("kokoro returned invalid audio: %w", err)
	}

	if request.LeadingSilenceMs > 0 {
		audio, err = withLeadingSilence(audio, request.LeadingSilenceMs)
		if err != nil {
			return nil, err
		}
	}

	return audio, nil
}

// Voices fetches the voice list from the Kokoro API.
func (c *KokoroClient) Voices(ctx context.Context) ([]*speech.Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/audio/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build voices request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kokoro voices request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kokoro voices request failed with status %d", resp.StatusCode)
	}

	var parsed voicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode voices response: %w", err)
	}

	voices := make([]*speech.Voice, 0, len(parsed.Voices))
	for _, id := range parsed.Voices {
		voices = append(voices, &speech.Voice{
			ID:     id,
			Name:   id,
			Engine: config.TTSEngineKokoro,
		})
	}
	return voices, nil
}

// withLeadingSilence decodes WAV audio, prepends silence and re-encodes.
func withLeadingSilence(audio []byte, silenceMs int) ([]byte, error) {
	format, pcm, err := wav.Decode(audio)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio for silence padding: %w", err)
	}
	return wav.Encode(format, wav.PrependSilence(format, pcm, silenceMs)), nil
}
