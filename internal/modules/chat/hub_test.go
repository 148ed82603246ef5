package chat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// dialTestConn spins up a real websocket pair and returns the server side
// plus the raw client connection.
func dialTestConn(t *testing.T) (*wsConn, *websocket.Conn) {
	t.Helper()

	up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	serverConns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	select {
	case conn := <-serverConns:
		return newWSConn(conn), client
	case <-time.After(2 * time.Second):
		t.Fatal("server side of the socket never arrived")
		return nil, nil
	}
}

// Chat events and keepalive pings reach the same connection from different
// goroutines; every write has to come out whole.
func TestHubConcurrentWriters(t *testing.T) {
	conn, client := dialTestConn(t)

	hub := NewHub()
	hub.Register(7, conn)
	defer hub.Close()

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := client.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if !hub.SendToUser(7, newMessageEvent(1, map[string]any{"seq": j})) {
					t.Error("send failed while the connection was live")
					return
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			if err := conn.Ping(); err != nil {
				t.Errorf("ping failed: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	hub.Unregister(7)
	select {
	case <-readerDone:
	case <-time.After(2 * time.Second):
		t.Fatal("client reader did not observe the close")
	}
	require.False(t, hub.IsOnline(7))
}

func TestHubReplacesConnection(t *testing.T) {
	first, firstClient := dialTestConn(t)
	second, _ := dialTestConn(t)

	hub := NewHub()
	hub.Register(7, first)
	hub.Register(7, second)
	defer hub.Close()

	// the replaced connection is closed, so its client sees EOF
	firstClient.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := firstClient.ReadMessage()
	require.Error(t, err)

	require.True(t, hub.SendToUser(7, newPongEvent()))
	require.Equal(t, 1, hub.OnlineCount())
}

func TestHubSendToOfflineUser(t *testing.T) {
	hub := NewHub()
	require.False(t, hub.SendToUser(42, newPongEvent()))
	require.False(t, hub.IsOnline(42))
}
