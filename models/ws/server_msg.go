package wsmodels

type MessageCode string

const (
	CodeApprovalRequested    MessageCode = "approval_requested"
	CodePreApprovalCompleted MessageCode = "pre_approval_completed"
	CodeFlyerApproved        MessageCode = "flyer_approved"
	CodeFlyerRejected        MessageCode = "flyer_rejected"
)

type ServerMessage struct {
	ToUserID string      `json:"-"`
	Time     string      `json:"time"`     // время события
	Code     MessageCode `json:"code"`     // код события
	Msg      string      `json:"msg"`      // текст события
	FlyerID  string      `json:"flyer_id"` // листовка, к которой относится событие
}
