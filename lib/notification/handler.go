package notification

import (
	"flyer-backend/config"
	"flyer-backend/lib/smtp"
	connectionhub "flyer-backend/lib/ws/hub/connection-hub"
	"flyer-backend/models"
	dbmodels "flyer-backend/models/db"
	wsmodels "flyer-backend/models/ws"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Provider уведомления участников согласования. Ошибки доставки только логируются
type Provider interface {
	ApprovalRequested(approver dbmodels.User, flyer dbmodels.Flyer)
	PreApprovalCompleted(approvers []dbmodels.User, flyer dbmodels.Flyer)
	FlyerApproved(supplier dbmodels.User, flyer dbmodels.Flyer)
	FlyerRejected(supplier dbmodels.User, flyer dbmodels.Flyer, reason string)
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		mail:      smtp.Instance,
		hub:       connectionhub.Instance,
		publicUrl: config.Conf.App.PublicUrl,
		async:     true,
	}
}

type impl struct {
	mail      smtp.Provider
	hub       connectionhub.Provider
	publicUrl string
	async     bool
}

type dispatch struct {
	recipient dbmodels.User
	title     string
	tplPath   string
	code      wsmodels.MessageCode
	data      models.FlyerTemplateData
	flyerID   string
}

func (i *impl) ApprovalRequested(approver dbmodels.User, flyer dbmodels.Flyer) {
	i.run(i.newDispatch(approver, flyer, approvalRequestedTitle, approvalRequestedTpl, wsmodels.CodeApprovalRequested, ""))
}

func (i *impl) PreApprovalCompleted(approvers []dbmodels.User, flyer dbmodels.Flyer) {
	list := make([]dispatch, 0, len(approvers))
	for _, approver := range approvers {
		list = append(list, i.newDispatch(approver, flyer, preApprovalCompletedTitle, preApprovalCompletedTpl, wsmodels.CodePreApprovalCompleted, ""))
	}
	i.run(list...)
}

func (i *impl) FlyerApproved(supplier dbmodels.User, flyer dbmodels.Flyer) {
	i.run(i.newDispatch(supplier, flyer, flyerApprovedTitle, flyerApprovedTpl, wsmodels.CodeFlyerApproved, ""))
}

func (i *impl) FlyerRejected(supplier dbmodels.User, flyer dbmodels.Flyer, reason string) {
	i.run(i.newDispatch(supplier, flyer, flyerRejectedTitle, flyerRejectedTpl, wsmodels.CodeFlyerRejected, reason))
}

func (i *impl) newDispatch(recipient dbmodels.User, flyer dbmodels.Flyer, title, tplPath string, code wsmodels.MessageCode, reason string) dispatch {
	data := models.FlyerTemplateData{
		RecipientName: recipient.GetFullName(),
		FlyerName:     flyer.Name,
		ValidFrom:     flyer.ValidFrom.Format("02.01.2006"),
		ValidTo:       flyer.ValidTo.Format("02.01.2006"),
		Reason:        reason,
		FlyerLink:     fmt.Sprintf("%s/flyers/%s", i.publicUrl, flyer.ID),
	}
	if flyer.Supplier != nil {
		data.SupplierName = flyer.Supplier.Company
		if data.SupplierName == "" {
			data.SupplierName = flyer.Supplier.GetFullName()
		}
	}
	return dispatch{
		recipient: recipient,
		title:     title,
		tplPath:   tplPath,
		code:      code,
		data:      data,
		flyerID:   flyer.ID,
	}
}

func (i *impl) run(list ...dispatch) {
	if !i.async {
		i.send(list)
		return
	}
	go i.send(list)
}

func (i *impl) send(list []dispatch) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("паника при отправке уведомлений: %v", r)
		}
	}()
	for _, item := range list {
		i.sendOne(item)
	}
}

func (i *impl) sendOne(item dispatch) {
	logger := log.
		WithField("flyer_id", item.flyerID).
		WithField("user_id", item.recipient.ID).
		WithField("event", item.code)
	if i.hub != nil {
		msg := wsmodels.ServerMessage{
			ToUserID: item.recipient.ID,
			Time:     time.Now().Format("02.01.2006 15:04:05"),
			Code:     item.code,
			Msg:      fmt.Sprintf("%s: %s", item.title, item.data.FlyerName),
			FlyerID:  item.flyerID,
		}
		i.hub.SendMessage(msg)
	}
	if i.mail == nil || item.recipient.Email == "" {
		return
	}
	body, err := buildMessage(item.tplPath, item.data)
	if err != nil {
		logger.WithError(err).Error("ошибка формирования уведомления")
		return
	}
	err = i.mail.SendEMail([]string{item.recipient.Email}, item.title, body)
	if err != nil {
		logger.WithError(err).Error("ошибка отправки уведомления")
		return
	}
	logger.Info("уведомление отправлено")
}
