package v1

import (
	"fmt"
	"net/http"

	"github.com/cynsight/assistivox-ai/internal/domain/speech"

	"github.com/gin-gonic/gin"
)

// SpeechHandler defines the interface for handling synthesis operations
type SpeechHandler interface {
	Synthesize(ctx *gin.Context)
	ListVoices(ctx *gin.Context)
}

// speechHandler struct holds the synthesis services
type speechHandler struct {
	synthesizer   speech.Synthesizer
	voiceProvider speech.VoiceProvider
}

// NewSpeechHandler creates a new SpeechHandler
func NewSpeechHandler(synthesizer speech.Synthesizer, voiceProvider speech.VoiceProvider) SpeechHandler {
	return &speechHandler{
		synthesizer:   synthesizer,
		voiceProvider: voiceProvider,
	}
}

// Synthesize renders text to a WAV file
func (handler *speechHandler) Synthesize(ctx *gin.Context) {
	var request SpeakRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	if err := request.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("validation failed: %v", err)})
		return
	}

	wavData, err := handler.synthesizer.Synthesize(ctx, &speech.SynthesisRequest{
		Text:  request.Text,
		Voice: request.Voice,
		Speed: request.Speed,
	})
	if err != nil {
		ctx.JSON(http.StatusBadGateway, ErrorResponse{Message: fmt.Sprintf("synthesis failed: %v", err)})
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename=speech.wav")
	ctx.Data(http.StatusOK, "audio/wav", wavData)
}

// ListVoices fetches the voices the active engine offers
func (handler *speechHandler) ListVoices(ctx *gin.Context) {
	voices, err := handler.voiceProvider.Voices(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, ErrorResponse{Message: fmt.Sprintf("could not list voices: %v", err)})
		return
	}

	listResponse := []VoiceResponse{}
	for _, voice := range voices {
		listResponse = append(listResponse, VoiceResponse{
			ID:     voice.ID,
			Name:   voice.Name,
			Engine: voice.Engine,
		})
	}

	ctx.JSON(http.StatusOK, listResponse)
}
