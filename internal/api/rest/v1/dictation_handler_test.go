//go:build unit
// +build unit

package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cynsight/assistivox-ai/internal/domain/dictation"
	"github.com/cynsight/assistivox-ai/internal/pkg/testutil"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// echoSession emits one partial per PCM chunk and a final on close.
type echoSession struct {
	segments  chan dictation.Segment
	closeOnce sync.Once
	mu        sync.Mutex
	received  int
}

func newEchoSession() *echoSession {
	return &echoSession{segments: make(chan dictation.Segment, 16)}
}

func (s *echoSession) WritePCM(chunk []byte) error {
	s.mu.Lock()
	s.received++
	count := s.received
	s.mu.Unlock()
	s.segments <- dictation.Segment{
		Kind:      dictation.SegmentPartial,
		Text:      fmt.Sprintf("chunk %d", count),
		Timestamp: time.Now(),
	}
	return nil
}

func (s *echoSession) Segments() <-chan dictation.Segment { return s.segments }

func (s *echoSession) Close() error {
	s.closeOnce.Do(func() {
		s.segments <- dictation.Segment{
			Kind:      dictation.SegmentFinal,
			Text:      "hello world ",
			Timestamp: time.Now(),
		}
		close(s.segments)
	})
	return nil
}

func newDictationTestServer(t *testing.T, service dictation.DictationService) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handler := NewDictationHandler(service, "vosk", testutil.SetupTestLogger(t))
	r.GET("/dictation", handler.Stream)
	r.GET("/dictation/status", handler.Status)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

func readSegment(t *testing.T, conn *websocket.Conn) segmentMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var message segmentMessage
	require.NoError(t, conn.ReadJSON(&message))
	return message
}

func TestDictationHandlerStreamsSegments(t *testing.T) {
	session := newEchoSession()
	service := new(MockDictationService)
	service.On("Start", mock.Anything).Return(session, nil)

	server := newDictationTestServer(t, service)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/dictation"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer func() {
		_ = conn.Close()
	}()

	pcm := make([]byte, 4096)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, pcm))
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, pcm))

	first := readSegment(t, conn)
	assert.Equal(t, dictation.SegmentPartial, first.Kind)
	assert.Equal(t, "chunk 1", first.Text)

	second := readSegment(t, conn)
	assert.Equal(t, "chunk 2", second.Text)

	// Closing the client connection flushes the final segment server-side.
	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	final := readSegment(t, conn)
	assert.Equal(t, dictation.SegmentFinal, final.Kind)
	assert.Equal(t, "hello world ", final.Text)
}

func TestDictationHandlerStreamRefusedWithoutModel(t *testing.T) {
	service := new(MockDictationService)
	service.On("Start", mock.Anything).Return(nil, fmt.Errorf("no vosk model is installed"))

	server := newDictationTestServer(t, service)

	resp, err := http.Get(server.URL + "/dictation")
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDictationHandlerStatus(t *testing.T) {
	service := new(MockDictationService)
	service.On("ModelInstalled", mock.Anything).Return(true, nil)

	server := newDictationTestServer(t, service)

	resp, err := http.Get(server.URL + "/dictation/status")
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status DictationStatusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, "vosk", status.Engine)
	assert.True(t, status.ModelInstalled)
}
