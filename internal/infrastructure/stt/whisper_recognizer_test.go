//go:build unit
// +build unit

package stt

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cynsight/assistivox-ai/internal/domain/dictation"
	"github.com/cynsight/assistivox-ai/internal/pkg/config"
	"github.com/cynsight/assistivox-ai/internal/pkg/testutil"
	"github.com/cynsight/assistivox-ai/internal/pkg/wav"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeWhisperServer(t *testing.T, text string, gotAudio *[]byte) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		if gotAudio != nil {
			*gotAudio = data
		}

		_ = json.NewEncoder(w).Encode(map[string]string{"text": text})
	}))
	t.Cleanup(server.Close)
	return server
}

func newWhisperRecognizer(t *testing.T, serverURL string, stripPeriod bool) *WhisperRecognizer {
	t.Helper()

	recognizer, err := NewWhisperRecognizer(config.WhisperSettings{
		ServerURL: serverURL,
		Model:     "base.en",
	}, stripPeriod, testutil.SetupTestLogger(t))
	require.NoError(t, err)
	return recognizer
}

func TestWhisperRecognizer_TranscribesOnClose(t *testing.T) {
	var gotAudio []byte
	server := fakeWhisperServer(t, "hello world", &gotAudio)

	recognizer := newWhisperRecognizer(t, server.URL, false)
	assert.Equal(t, "whisper", recognizer.Name())

	session, err := recognizer.Start(context.Background())
	require.NoError(t, err)

	pcm := make([]byte, 8192)
	require.NoError(t, session.WritePCM(pcm[:4096]))
	require.NoError(t, session.WritePCM(pcm[4096:]))
	require.NoError(t, session.Close())

	segments := collectSegments(t, session)
	require.Len(t, segments, 1)
	assert.Equal(t, dictation.SegmentFinal, segments[0].Kind)
	assert.Equal(t, "hello world ", segments[0].Text)

	// The upload is a proper 16 kHz mono WAV wrapping the fed PCM.
	format, data, err := wav.Decode(gotAudio)
	require.NoError(t, err)
	assert.Equal(t, SampleRate, format.SampleRate)
	assert.Equal(t, 1, format.Channels)
	assert.Len(t, data, len(pcm))
}

func TestWhisperRecognizer_StripsTrailingPeriod(t *testing.T) {
	server := fakeWhisperServer(t, "stop right there.", nil)

	recognizer := newWhisperRecognizer(t, server.URL, true)
	session, err := recognizer.Start(context.Background())
	require.NoError(t, err)

	require.NoError(t, session.WritePCM(make([]byte, 4096)))
	require.NoError(t, session.Close())

	segments := collectSegments(t, session)
	require.Len(t, segments, 1)
	assert.Equal(t, "stop right there ", segments[0].Text)
}

func TestWhisperRecognizer_KeepsPeriodWhenDisabled(t *testing.T) {
	server := fakeWhisperServer(t, "stop right there.", nil)

	recognizer := newWhisperRecognizer(t, server.URL, false)
	session, err := recognizer.Start(context.Background())
	require.NoError(t, err)

	require.NoError(t, session.WritePCM(make([]byte, 4096)))
	require.NoError(t, session.Close())

	segments := collectSegments(t, session)
	require.Len(t, segments, 1)
	assert.Equal(t, "stop right there. ", segments[0].Text)
}

func TestWhisperRecognizer_EmptySessionYieldsNothing(t *testing.T) {
	server := fakeWhisperServer(t, "never called", nil)

	recognizer := newWhisperRecognizer(t, server.URL, false)
	session, err := recognizer.Start(context.Background())
	require.NoError(t, err)

	require.NoError(t, session.Close())
	assert.Empty(t, collectSegments(t, session))
}

func TestWhisperRecognizer_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	recognizer := newWhisperRecognizer(t, server.URL, false)
	session, err := recognizer.Start(context.Background())
	require.NoError(t, err)

	require.NoError(t, session.WritePCM(make([]byte, 4096)))
	err = session.Close()
	assert.Error(t, err)

	segments := collectSegments(t, session)
	require.Len(t, segments, 1)
	assert.Error(t, segments[0].Err)
}
