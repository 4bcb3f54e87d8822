package dictation

import "time"

// Segment kinds.
const (
	// SegmentPartial is an in-progress hypothesis that later segments revise.
	SegmentPartial = "partial"
	// SegmentFinal is a committed utterance result.
	SegmentFinal = "final"
)

// Segment is one recognition result from a dictation session.
type Segment struct {
	Kind      string    `json:"kind"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	// Err carries a session-fatal error; the session ends after an error
	// segment.
	Err error `json:"-"`
}
