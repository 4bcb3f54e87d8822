//go:build unit
// +build unit

package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cynsight/assistivox-ai/internal/domain/speech"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSpeechTestRouter(synthesizer speech.Synthesizer, voiceProvider speech.VoiceProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handler := NewSpeechHandler(synthesizer, voiceProvider)
	r.POST("/speech", handler.Synthesize)
	r.GET("/speech/voices", handler.ListVoices)
	return r
}

func TestSpeechHandlerSynthesize(t *testing.T) {
	synthesizer := new(MockSynthesizer)
	synthesizer.On("Synthesize", mock.Anything, mock.MatchedBy(func(request *speech.SynthesisRequest) bool {
		return request.Text == "Hello there." && request.Voice == "af_sky"
	})).Return([]byte("RIFFwav"), nil)

	body, _ := json.Marshal(SpeakRequest{Text: "Hello there.", Voice: "af_sky", Speed: 1.2})
	req, _ := http.NewRequest("POST", "/speech", bytes.NewReader(body))
	w := httptest.NewRecorder()
	newSpeechTestRouter(synthesizer, new(MockVoiceProvider)).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/wav", w.Header().Get("Content-Type"))
	assert.Equal(t, "RIFFwav", w.Body.String())
	synthesizer.AssertExpectations(t)
}

func TestSpeechHandlerSynthesizeRequiresText(t *testing.T) {
	synthesizer := new(MockSynthesizer)

	body, _ := json.Marshal(SpeakRequest{Voice: "af_sky"})
	req, _ := http.NewRequest("POST", "/speech", bytes.NewReader(body))
	w := httptest.NewRecorder()
	newSpeechTestRouter(synthesizer, new(MockVoiceProvider)).ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	synthesizer.AssertNotCalled(t, "Synthesize")
}

func TestSpeechHandlerSynthesizeBackendFailure(t *testing.T) {
	synthesizer := new(MockSynthesizer)
	synthesizer.On("Synthesize", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("kokoro unreachable"))

	body, _ := json.Marshal(SpeakRequest{Text: "Hello."})
	req, _ := http.NewRequest("POST", "/speech", bytes.NewReader(body))
	w := httptest.NewRecorder()
	newSpeechTestRouter(synthesizer, new(MockVoiceProvider)).ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response.Message, "kokoro unreachable")
}

func TestSpeechHandlerListVoices(t *testing.T) {
	voiceProvider := new(MockVoiceProvider)
	voiceProvider.On("Voices", mock.Anything).Return([]*speech.Voice{
		{ID: "af_sky", Name: "af_sky", Engine: "kokoro"},
		{ID: "af_heart", Name: "af_heart", Engine: "kokoro"},
	}, nil)

	req, _ := http.NewRequest("GET", "/speech/voices", nil)
	w := httptest.NewRecorder()
	newSpeechTestRouter(new(MockSynthesizer), voiceProvider).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var response []VoiceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 2)
	assert.Equal(t, "af_sky", response[0].ID)
}
