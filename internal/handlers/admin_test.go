package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noirstore/internal/models"
	"noirstore/internal/realtime"
)

func TestActivityStreamPushesNewActivities(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	t.Cleanup(srv.Close)

	token := s.adminToken(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/api/activities/stream?access_token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return s.hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	s.product(t, models.ProductInput{Name: "Wool Coat", Price: 320, Category: "OUTERWEAR", Stock: 20})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg realtime.Message
	for msg.Data.Type != models.ActivityProduct {
		require.NoError(t, conn.ReadJSON(&msg))
	}
	assert.Equal(t, `Product "Wool Coat" created`, msg.Data.Message)
}

func TestActivityStreamRejectsAnonymous(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/admin/api/activities/stream"
	_, res, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}
