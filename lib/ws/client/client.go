package wsclient

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

// pongWait больше периода ping сессии, иначе соединение закроется между пингами
const pongWait = 60 * time.Second

func NewClient(userID string, c *websocket.Conn) *WsClient {
	return &WsClient{
		conn:   c,
		userID: userID,
	}
}

// WsClient читающая сторона соединения, писатель живет в connectionhub
type WsClient struct {
	conn   *websocket.Conn
	userID string
}

func (c *WsClient) logger() *log.Entry {
	return log.WithField("user_id", c.userID)
}

func (c *WsClient) extendDeadline() error {
	return c.conn.SetReadDeadline(time.Now().Add(pongWait))
}

// Dispatch читает соединение до его закрытия или потери pong, входящие сообщения клиента не обрабатываются
func (c *WsClient) Dispatch() {
	if c.conn == nil || c.conn.Conn == nil {
		return
	}
	if err := c.extendDeadline(); err != nil {
		c.logger().WithError(err).Warn("не удалось установить таймаут чтения")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.extendDeadline()
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				c.logger().WithError(err).Warn("соединение прервано")
			}
			return
		}
		c.logger().WithField("ws_message", string(data)).Debug("ws-msg")
	}
}
