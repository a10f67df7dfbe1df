package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"glowbook/services/presence"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startHub(t *testing.T) (*Hub, *presence.MemoryStore, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := presence.NewMemoryStore()
	hub := NewHub(store, zap.NewNop(), nil)

	r := gin.New()
	r.GET("/ws", hub.ServeWS)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, store, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url, userID string) *websocket.Conn {
	t.Helper()
	token, err := utils.GenerateToken(userID, "customer", time.Hour)
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(url+"?token="+token, nil)
	require.NoError(t, err)
	return conn
}

func TestServeWSRejectsMissingToken(t *testing.T) {
	_, _, url := startHub(t)
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestEmitToConnectedUser(t *testing.T) {
	hub, store, url := startHub(t)
	conn := dial(t, url, "u-1")
	defer conn.Close()

	ctx := context.Background()
	assert.Eventually(t, func() bool {
		_, ok, _ := store.Get(ctx, "u-1")
		return ok
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.EmitToUser(ctx, "u-1", "inquiry:message", map[string]string{"inquiryId": "i-1"}))
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Envelope
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "inquiry:message", got.Event)
	assert.Equal(t, map[string]interface{}{"inquiryId": "i-1"}, got.Data)

	assert.ErrorIs(t, hub.EmitToUser(ctx, "u-2", "x", nil), ErrOffline)
}

func TestPingAndDisconnect(t *testing.T) {
	hub, store, url := startHub(t)
	conn := dial(t, url, "u-1")

	require.NoError(t, conn.WriteJSON(Envelope{Event: "ping"}))
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Envelope
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "pong", got.Event)

	require.NoError(t, conn.Close())
	ctx := context.Background()
	assert.Eventually(t, func() bool {
		_, ok, _ := store.Get(ctx, "u-1")
		return !ok && hub.Connections() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
