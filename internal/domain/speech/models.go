package speech

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Voice describes one voice a synthesis engine offers.
type Voice struct {
	ID     string
	Name   string
	Engine string
}

// Position identifies a sentence within segmented text by paragraph block
// index and sentence index within that block.
type Position struct {
	Block    int
	Sentence int
}

// Before reports whether p comes before other in reading order.
func (p Position) Before(other Position) bool {
	if p.Block != other.Block {
		return p.Block < other.Block
	}
	return p.Sentence < other.Sentence
}

// SynthesisRequest entity
type SynthesisRequest struct {
	Text  string  `validate:"required,min=1"`
	Voice string  `validate:"required,min=1"`
	Speed float64 `validate:"gt=0,lte=4"`
	// LeadingSilenceMs is prepended to the synthesized audio as PCM zeros.
	LeadingSilenceMs int `validate:"min=0"`
}

// Normalize resets out-of-range fields to their defaults. A non-positive
// speed becomes 1.0.
func (r *SynthesisRequest) Normalize() {
	if r.Speed <= 0 {
		r.Speed = 1.0
	}
}

// Validate for validating SynthesisRequest struct
func (r *SynthesisRequest) Validate() error {
	validate := validator.New()

	err := validate.Struct(r)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// ReadResult reports where a reading run ended.
type ReadResult struct {
	// StoppedAt is the position of the last sentence that was spoken.
	StoppedAt Position
	// Finished is true when the final sentence completed without a stop
	// request.
	Finished bool
}
