package notification

import (
	"bytes"
	"embed"
	"flyer-backend/models"
	"html/template"
	"strings"

	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	approvalRequestedTitle    = "Листовка ожидает согласования"
	preApprovalCompletedTitle = "Предварительное согласование завершено"
	flyerApprovedTitle        = "Листовка одобрена"
	flyerRejectedTitle        = "Листовка отклонена"
)

const (
	approvalRequestedTpl    = "templates/approval_requested.html"
	preApprovalCompletedTpl = "templates/pre_approval_completed.html"
	flyerApprovedTpl        = "templates/flyer_approved.html"
	flyerRejectedTpl        = "templates/flyer_rejected.html"
)

func buildMessage(filePath string, data models.FlyerTemplateData) (string, error) {
	tpl, err := getTemplate(filePath)
	if err != nil {
		return "", err
	}
	buf := new(bytes.Buffer)
	err = tpl.Execute(buf, data)
	if err != nil {
		return "", errors.Wrapf(err, "ошибка заполнения шаблона %v", filePath)
	}
	return buf.String(), nil
}

func getTemplate(filePath string) (*template.Template, error) {
	tmplBody, err := templatesFS.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "ошибка чтения файла шаблона %v", filePath)
	}
	body := strings.Replace(string(tmplBody), "\n", " ", -1)
	tpl, err := template.New("msg_body").Parse(body)
	if err != nil {
		return nil, err
	}
	return tpl, nil
}
