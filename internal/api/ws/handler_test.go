package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/SessionKeeper/internal/api/command"
	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/monitoring"
)

type echoDispatcher struct{}

func (echoDispatcher) Dispatch(_ context.Context, req command.Request) command.Response {
	if req.Type != command.TypeGetSessions {
		return command.Response{RequestID: req.RequestID, Error: "unknown message type"}
	}
	return command.Response{RequestID: req.RequestID, OK: true}
}

func dial(t *testing.T) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/stream", NewHandler(echoDispatcher{}, nil, monitoring.NewMetrics()).HandleConnection)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func TestCommandRoundTrip(t *testing.T) {
	conn := dial(t)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "GET_SESSIONS", "requestId": "r1"}))

	var resp map[string]any
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "r1", resp["requestId"])
	assert.Equal(t, true, resp["ok"])
}

func TestAssignsRequestID(t *testing.T) {
	conn := dial(t)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "BOGUS"}))

	var resp map[string]any
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, false, resp["ok"])
	assert.Equal(t, "unknown message type", resp["error"])
	assert.Len(t, resp["requestId"], 36)
}

func TestInvalidFrame(t *testing.T) {
	conn := dial(t)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	var resp map[string]any
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, false, resp["ok"])
	assert.Equal(t, "invalid message", resp["error"])
}
