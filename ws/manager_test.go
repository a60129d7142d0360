package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"workhub_backend/internal/services/dto"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestConn поднимает настоящее вебсокет-соединение поверх httptest и
// возвращает серверную сторону.
func newTestConn(t *testing.T) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	conns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conns <- conn
	}))
	t.Cleanup(srv.Close)

	dialed, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { dialed.Close() })

	conn := <-conns
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestReconnectReplacesClientWithoutPanic(t *testing.T) {
	m := NewManager()

	first := newClient(7, newTestConn(t), m, nil)
	second := newClient(7, newTestConn(t), m, nil)

	m.add(first)
	m.add(second)

	// Вытесненное соединение получило сигнал завершения
	select {
	case <-first.done:
	default:
		t.Fatal("displaced client was not signalled to shut down")
	}

	// readPump вытесненного клиента мог как раз класть событие в очередь
	assert.NotPanics(t, func() {
		first.enqueue(Event{Type: "message_sent"})
	})
	assert.Empty(t, first.send)

	// Доставка после вытеснения уходит только новому соединению
	assert.NotPanics(t, func() {
		m.Push(7, dto.MessageResponse{Body: "hello"})
	})
	assert.Len(t, second.send, 1)
	assert.True(t, m.IsConnected(7))
	assert.Equal(t, 1, m.ClientCount())
}

func TestRemoveKeepsCurrentClient(t *testing.T) {
	m := NewManager()

	first := newClient(3, newTestConn(t), m, nil)
	second := newClient(3, newTestConn(t), m, nil)

	m.add(first)
	m.add(second)

	// Запоздалый unregister старого соединения не трогает новое
	m.remove(first)
	assert.True(t, m.IsConnected(3))

	m.remove(second)
	assert.False(t, m.IsConnected(3))

	select {
	case <-second.done:
	default:
		t.Fatal("removed client was not signalled to shut down")
	}

	// Отправка офлайн-пользователю — молчаливый no-op
	assert.NotPanics(t, func() {
		m.Notify(3, "new_message", nil)
	})
}
