package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cynsight/assistivox-ai/internal/domain/dictation"
	"github.com/cynsight/assistivox-ai/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	dictationWriteWait  = 10 * time.Second
	dictationPongWait   = 60 * time.Second
	dictationPingPeriod = 30 * time.Second
)

// segmentMessage is the JSON frame sent for every recognition result.
type segmentMessage struct {
	Kind      string    `json:"kind"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// DictationHandler defines the interface for handling dictation operations
type DictationHandler interface {
	Stream(ctx *gin.Context)
	Status(ctx *gin.Context)
}

// dictationHandler struct holds the dictation service
type dictationHandler struct {
	dictationService dictation.DictationService
	engineName       string
	upgrader         websocket.Upgrader
	logger           logger.Logger
}

// NewDictationHandler creates a new DictationHandler
func NewDictationHandler(dictationService dictation.DictationService, engineName string, logger logger.Logger) DictationHandler {
	return &dictationHandler{
		dictationService: dictationService,
		engineName:       engineName,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  8192,
			WriteBufferSize: 8192,
			// The desktop client runs on localhost with no fixed origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Status reports whether the configured engine's model is installed
func (handler *dictationHandler) Status(ctx *gin.Context) {
	installed, err := handler.dictationService.ModelInstalled(ctx)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Message: fmt.Sprintf("could not check model state: %v", err)})
		return
	}

	ctx.JSON(http.StatusOK, DictationStatusResponse{
		Engine:         handler.engineName,
		ModelInstalled: installed,
	})
}

// Stream upgrades the connection to a WebSocket dictation session: binary
// frames carry 16 kHz mono s16le PCM in, JSON frames carry recognition
// segments out.
func (handler *dictationHandler) Stream(ctx *gin.Context) {
	session, err := handler.dictationService.Start(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("could not start dictation: %v", err)})
		return
	}

	conn, err := handler.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		_ = session.Close()
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	done := make(chan struct{})
	go handler.writeSegments(conn, session, done)

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(dictationPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(dictationPongWait))
	})

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(dictationPongWait))

		if messageType != websocket.BinaryMessage {
			continue
		}
		if err := session.WritePCM(data); err != nil {
			handler.logger.Warn("Dropping dictation session: ", err)
			break
		}
	}

	// Flush pending finals, then let the writer drain the segment channel.
	_ = session.Close()
	<-done
}

// writeSegments pumps recognition results to the client until the session's
// segment channel closes.
func (handler *dictationHandler) writeSegments(conn *websocket.Conn, session dictation.Session, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(dictationPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case segment, ok := <-session.Segments():
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(dictationWriteWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			_ = conn.SetWriteDeadline(time.Now().Add(dictationWriteWait))
			if segment.Err != nil {
				_ = conn.WriteJSON(segmentMessage{
					Kind:      "error",
					Text:      segment.Err.Error(),
					Timestamp: segment.Timestamp,
				})
				continue
			}
			if err := conn.WriteJSON(segmentMessage{
				Kind:      segment.Kind,
				Text:      segment.Text,
				Timestamp: segment.Timestamp,
			}); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(dictationWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
