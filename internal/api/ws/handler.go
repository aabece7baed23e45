package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/SessionKeeper/internal/api/command"
	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/SessionKeeper/internal/shared/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Dispatcher executes commands
type Dispatcher interface {
	Dispatch(ctx context.Context, req command.Request) command.Response
}

// Handler manages WebSocket connections. Each inbound frame is one command;
// commands on a connection run concurrently and answer in completion order,
// correlated by requestId.
type Handler struct {
	dispatcher Dispatcher
	logger     *zap.Logger
	metrics    *monitoring.Metrics
	upgrader   websocket.Upgrader
}

// NewHandler creates a new WebSocket handler
func NewHandler(dispatcher Dispatcher, logger *zap.Logger, metrics *monitoring.Metrics) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true // loopback service; origins are not restricted
			},
		},
	}
}

// conn serializes writes to one websocket
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(messageType, data)
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	wsConn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.metrics.IncWSConnections()
	defer h.metrics.DecWSConnections()

	cn := &conn{ws: wsConn}
	ctx, cancel := context.WithCancel(context.Background())
	var inflight sync.WaitGroup
	defer func() {
		cancel()
		inflight.Wait()
		_ = wsConn.Close()
	}()

	wsConn.SetReadLimit(utils.MaxCommandSize)
	_ = wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		return wsConn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go h.keepalive(ctx, cn)

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}

		var req command.Request
		if err := sonic.Unmarshal(data, &req); err != nil {
			h.metrics.RecordWSMessage("in", "invalid")
			h.send(cn, command.Response{OK: false, Error: "invalid message"})
			continue
		}
		if req.RequestID == "" {
			req.RequestID = uuid.NewString()
		}
		h.metrics.RecordWSMessage("in", "command")

		inflight.Add(1)
		go func(req command.Request) {
			defer inflight.Done()
			h.send(cn, h.dispatcher.Dispatch(ctx, req))
		}(req)
	}
}

func (h *Handler) keepalive(ctx context.Context, cn *conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := cn.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) send(cn *conn, resp command.Response) {
	data, err := sonic.Marshal(resp)
	if err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
		return
	}
	if err := cn.write(websocket.TextMessage, data); err != nil {
		h.logger.Debug("websocket write failed", zap.Error(err))
		return
	}
	h.metrics.RecordWSMessage("out", "response")
}
