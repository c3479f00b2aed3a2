package connectionhub

import (
	wsmodels "flyer-backend/models/ws"
	"testing"

	"github.com/gofiber/contrib/websocket"
	"github.com/stretchr/testify/require"
)

func TestHub(t *testing.T) {
	msg := wsmodels.ServerMessage{ToUserID: "u1", Code: wsmodels.CodeFlyerApproved, FlyerID: "f1"}

	t.Run(`получатель не подключен`, func(t *testing.T) {
		hub := NewHub()
		require.False(t, hub.SendMessage(msg))
		require.False(t, hub.IsConnected("u1"))
	})
	t.Run(`событие ставится в очередь сессии`, func(t *testing.T) {
		hub := NewHub()
		conn := &websocket.Conn{}
		hub.AddClient("u1", conn)
		defer hub.DeleteClient("u1", conn)
		require.True(t, hub.SendMessage(msg))
		// соединение без сокета не считается подключенным
		require.False(t, hub.IsConnected("u1"))
	})
	t.Run(`чужое соединение не удаляет сессию`, func(t *testing.T) {
		hub := NewHub()
		oldConn, newConn := &websocket.Conn{}, &websocket.Conn{}
		hub.AddClient("u1", oldConn)
		hub.AddClient("u1", newConn)
		hub.DeleteClient("u1", oldConn)
		require.True(t, hub.SendMessage(msg))

		hub.DeleteClient("u1", newConn)
		require.False(t, hub.SendMessage(msg))
	})
	t.Run(`остановленная сессия не принимает события`, func(t *testing.T) {
		hub := NewHub().(*impl)
		hub.AddClient("u1", &websocket.Conn{})
		hub.SendClose("u1")
		sess := hub.clients["u1"]
		<-sess.done
		// буфер заполнен, сессия остановлена
		for len(sess.sendCh) < cap(sess.sendCh) {
			sess.sendCh <- msg
		}
		require.False(t, hub.SendMessage(msg))
	})
}
