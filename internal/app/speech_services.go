package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cynsight/assistivox-ai/internal/domain/speech"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"
	"github.com/cynsight/assistivox-ai/internal/pkg/sentence"

	"github.com/golang/snappy"
)

// readAheadCount is how many upcoming sentences the worker keeps synthesized
// ahead of playback.
const readAheadCount = 2

// speechReader implements the Reader interface: sentence-paced reading with
// a synthesis worker running ahead of playback
type speechReader struct {
	synthesizer speech.Synthesizer
	player      speech.Player
	detector    *sentence.Detector
	voice       string
	speed       float64
	pauseMs     int
	logger      logger.Logger

	stopRequested atomic.Bool
}

// NewSpeechReader creates a new instance of Reader
func NewSpeechReader(
	synthesizer speech.Synthesizer,
	player speech.Player,
	detector *sentence.Detector,
	settings config.TTSSettings,
	logger logger.Logger,
) (speech.Reader, error) {
	voice := settings.Kokoro.Voice
	if settings.Engine == config.TTSEnginePiper {
		voice = settings.Piper.Voice
	}

	return &speechReader{
		synthesizer: synthesizer,
		player:      player,
		detector:    detector,
		voice:       voice,
		speed:       settings.Speed,
		pauseMs:     settings.PauseMs,
		logger:      logger,
	}, nil
}

// Stop requests that reading halt after the current sentence
func (s *speechReader) Stop() {
	s.stopRequested.Store(true)
}

// sentenceRef is one sentence scheduled for reading.
type sentenceRef struct {
	pos  speech.Position
	text string
}

// Read speaks text sentence by sentence starting at the given position
func (s *speechReader) Read(ctx context.Context, text string, start speech.Position, onSentence func(speech.Position)) (*speech.ReadResult, error) {
	s.stopRequested.Store(false)

	schedule := s.schedule(text, start)
	if len(schedule) == 0 {
		return &speech.ReadResult{StoppedAt: start, Finished: true}, nil
	}

	buffer := newReadAheadBuffer(readAheadCount)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.synthesizeAhead(workerCtx, schedule, buffer)
	}()
	defer wg.Wait()
	defer buffer.closeOnce()

	result := &speech.ReadResult{StoppedAt: start}
	for i, ref := range schedule {
		if s.stopRequested.Load() {
			s.logger.Info("Reading stopped at block ", result.StoppedAt.Block, " sentence ", result.StoppedAt.Sentence)
			return result, nil
		}

		audio, err := buffer.take(ctx, ref.pos)
		if err != nil {
			return result, fmt.Errorf("failed to synthesize sentence at block %d sentence %d: %w", ref.pos.Block, ref.pos.Sentence, err)
		}
		// Entries behind the playback position are no longer reachable.
		buffer.pruneBefore(ref.pos)

		if onSentence != nil {
			onSentence(ref.pos)
		}

		if err := s.player.Play(ctx, audio); err != nil {
			return result, fmt.Errorf("playback failed: %w", err)
		}
		result.StoppedAt = ref.pos

		if i == len(schedule)-1 && !s.stopRequested.Load() {
			result.Finished = true
		}
	}

	s.logger.Info("Finished reading ", len(schedule), " sentences")
	return result, nil
}

// schedule flattens the text into the sentences at or after start.
func (s *speechReader) schedule(text string, start speech.Position) []sentenceRef {
	blocks := s.detector.SegmentBlocks(text)

	var schedule []sentenceRef
	for blockIdx, spans := range blocks {
		for sentIdx, span := range spans {
			pos := speech.Position{Block: blockIdx, Sentence: sentIdx}
			if pos.Before(start) {
				continue
			}
			schedule = append(schedule, sentenceRef{pos: pos, text: span.Text})
		}
	}
	return schedule
}

// synthesizeAhead runs the synthesis worker, keeping the buffer filled up to
// its capacity ahead of playback.
func (s *speechReader) synthesizeAhead(ctx context.Context, schedule []sentenceRef, buffer *readAheadBuffer) {
	for i, ref := range schedule {
		if ctx.Err() != nil || s.stopRequested.Load() {
			return
		}

		silence := 0
		if i > 0 {
			silence = s.pauseMs
		}
		audio, err := s.synthesizer.Synthesize(ctx, &speech.SynthesisRequest{
			Text:             ref.text,
			Voice:            s.voice,
			Speed:            s.speed,
			LeadingSilenceMs: silence,
		})

		if !buffer.put(ctx, ref.pos, audio, err) {
			return
		}
		if err != nil {
			return
		}
	}
}

// readAheadBuffer holds synthesized sentences keyed by position. Audio is
// stored snappy-compressed; the worker blocks once it is capacity sentences
// ahead of the consumer.
type readAheadBuffer struct {
	mu       sync.Mutex
	cond     *sync.Cond
	entries  map[speech.Position]bufferEntry
	capacity int
	closed   bool
}

type bufferEntry struct {
	compressed []byte
	err        error
}

func newReadAheadBuffer(capacity int) *readAheadBuffer {
	b := &readAheadBuffer{
		entries:  make(map[speech.Position]bufferEntry),
		capacity: capacity,
	}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// put stores a synthesized sentence, blocking while the buffer is full.
// It returns false once the buffer has been closed.
func (b *readAheadBuffer) put(ctx context.Context, pos speech.Position, audio []byte, err error) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for len(b.entries) >= b.capacity && !b.closed && ctx.Err() == nil {
		b.cond.Wait()
	}
	if b.closed || ctx.Err() != nil {
		return false
	}

	entry := bufferEntry{err: err}
	if err == nil {
		entry.compressed = snappy.Encode(nil, audio)
	}
	b.entries[pos] = entry
	b.cond.Broadcast()
	return true
}

// take waits for the sentence at pos and returns its audio.
func (b *readAheadBuffer) take(ctx context.Context, pos speech.Position) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for {
		if entry, ok := b.entries[pos]; ok {
			delete(b.entries, pos)
			b.cond.Broadcast()
			if entry.err != nil {
				return nil, entry.err
			}
			audio, err := snappy.Decode(nil, entry.compressed)
			if err != nil {
				return nil, fmt.Errorf("failed to decompress cached audio: %w", err)
			}
			return audio, nil
		}
		if b.closed {
			return nil, fmt.Errorf("synthesis worker stopped before position was reached")
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.cond.Wait()
	}
}

// pruneBefore drops entries behind the playback position.
func (b *readAheadBuffer) pruneBefore(pos speech.Position) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key := range b.entries {
		if key.Before(pos) {
			delete(b.entries, key)
		}
	}
	b.cond.Broadcast()
}

// closeOnce releases any blocked worker or consumer.
func (b *readAheadBuffer) closeOnce() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		b.cond.Broadcast()
	}
}
