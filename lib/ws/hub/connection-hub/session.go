package connectionhub

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 45 * time.Second
	sendBuffer = 16
)

// clientSession единственный писатель в соединение пользователя
type clientSession struct {
	conn *websocket.Conn

	sendCh chan any
	done   <-chan struct{}
	stop   func()
}

func newSession(conn *websocket.Conn) clientSession {
	ctx, cancelFn := context.WithCancel(context.Background())
	sess := clientSession{
		conn:   conn,
		sendCh: make(chan any, sendBuffer),
		done:   ctx.Done(),
		stop:   cancelFn,
	}
	go sess.writeLoop(ctx)
	return sess
}

func (s clientSession) connected() bool {
	return s.conn != nil && s.conn.Conn != nil
}

func (s clientSession) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.close()
			return
		case <-ticker.C:
			if !s.connected() {
				continue
			}
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			if err != nil {
				log.WithError(err).Debug("ping не доставлен")
			}
		case msg := <-s.sendCh:
			if err := s.write(msg); err != nil {
				log.WithError(err).Error("ошибка отправки сообщения")
			}
		}
	}
}

func (s clientSession) write(msg any) error {
	if !s.connected() {
		return nil
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := s.conn.WriteJSON(msg); err != nil {
		return err
	}
	log.Debugf("отправлено сообщение: %+v", msg)
	return nil
}

func (s clientSession) close() {
	if !s.connected() {
		return
	}
	err := s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	if err != nil {
		log.WithError(err).Debug("ошибка закрытия соединения")
	}
}
