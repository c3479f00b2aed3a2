package notification

import (
	dbmodels "flyer-backend/models/db"
	wsmodels "flyer-backend/models/ws"
	"testing"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to      []string
	subject string
	body    string
}

type mailMock struct {
	sent []sentMail
	err  error
}

func (m *mailMock) SendEMail(to []string, subject, htmlBody string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return m.err
}

type hubMock struct {
	messages []wsmodels.ServerMessage
}

func (h *hubMock) AddClient(userID string, conn *websocket.Conn)    {}
func (h *hubMock) DeleteClient(userID string, conn *websocket.Conn) {}
func (h *hubMock) SendClose(userID string)                          {}
func (h *hubMock) IsConnected(userID string) bool                   { return true }
func (h *hubMock) SendMessage(msg wsmodels.ServerMessage) bool {
	h.messages = append(h.messages, msg)
	return true
}

func testFlyer() dbmodels.Flyer {
	return dbmodels.Flyer{
		BaseModel: dbmodels.BaseModel{ID: "flyer-1"},
		Name:      "Весенняя акция",
		ValidFrom: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Supplier:  &dbmodels.User{Company: "Acme s.r.o."},
	}
}

func TestNotifications(t *testing.T) {
	supplier := dbmodels.User{BaseModel: dbmodels.BaseModel{ID: "supplier-1"}, Email: "supplier@acme.cz", FirstName: "Jan", LastName: "Novak"}

	t.Run(`отклонение отправляет одно письмо с причиной и одно событие`, func(t *testing.T) {
		mail := &mailMock{}
		hub := &hubMock{}
		i := &impl{mail: mail, hub: hub, publicUrl: "https://letaky.local"}
		i.FlyerRejected(supplier, testFlyer(), "missing logo")
		require.Len(t, mail.sent, 1)
		require.Equal(t, []string{"supplier@acme.cz"}, mail.sent[0].to)
		require.Equal(t, flyerRejectedTitle, mail.sent[0].subject)
		require.Contains(t, mail.sent[0].body, "missing logo")
		require.Contains(t, mail.sent[0].body, "https://letaky.local/flyers/flyer-1")
		require.Len(t, hub.messages, 1)
		require.Equal(t, wsmodels.CodeFlyerRejected, hub.messages[0].Code)
		require.Equal(t, "supplier-1", hub.messages[0].ToUserID)
	})
	t.Run(`одобрение содержит период действия`, func(t *testing.T) {
		mail := &mailMock{}
		i := &impl{mail: mail}
		i.FlyerApproved(supplier, testFlyer())
		require.Len(t, mail.sent, 1)
		require.Contains(t, mail.sent[0].body, "01.03.2026 - 31.03.2026")
	})
	t.Run(`завершение предварительного согласования уходит каждому согласующему`, func(t *testing.T) {
		mail := &mailMock{}
		i := &impl{mail: mail}
		approvers := []dbmodels.User{
			{BaseModel: dbmodels.BaseModel{ID: "a"}, Email: "a@shop.cz"},
			{BaseModel: dbmodels.BaseModel{ID: "b"}, Email: "b@shop.cz"},
		}
		i.PreApprovalCompleted(approvers, testFlyer())
		require.Len(t, mail.sent, 2)
		require.Contains(t, mail.sent[0].body, "Acme s.r.o.")
	})
	t.Run(`ошибка почты не паникует и не мешает событию`, func(t *testing.T) {
		mail := &mailMock{err: errors.New("connection refused")}
		hub := &hubMock{}
		i := &impl{mail: mail, hub: hub}
		require.NotPanics(t, func() {
			i.ApprovalRequested(supplier, testFlyer())
		})
		require.Len(t, hub.messages, 1)
		require.Equal(t, wsmodels.CodeApprovalRequested, hub.messages[0].Code)
	})
}
