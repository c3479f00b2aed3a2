package smtp

import (
	"bytes"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

var Instance Provider

type Provider interface {
	SendEMail(to []string, subject, htmlBody string) error
}

type sendFunc func(addr string, a sasl.Client, from string, to []string, r *bytes.Reader) error

func Connect(user, password, host, port, from string, tlsEnabled bool) error {
	Instance = &impl{
		user:       user,
		password:   password,
		host:       host,
		port:       port,
		from:       from,
		tlsEnabled: tlsEnabled,
	}
	return nil
}

type impl struct {
	user       string
	password   string
	host       string
	port       string
	from       string
	tlsEnabled bool
	send       sendFunc
}

func (i impl) SendEMail(to []string, subject, htmlBody string) (err error) {
	logger := log.
		WithField("recipients", strings.Join(to, ",")).
		WithField("subject", subject)
	if i.host == "" || i.port == "" {
		logger.Warn("письмо не отправлено, тк не настроен smtp клиент")
		return nil
	}
	if len(to) == 0 {
		return nil
	}
	body, err := buildMessage(i.sender(), to, subject, htmlBody)
	if err != nil {
		return err
	}
	var auth sasl.Client
	if i.user != "" {
		auth = sasl.NewPlainClient("", i.user, i.password)
	}
	send := i.send
	if send == nil {
		send = i.deliver
	}
	err = send(i.host+":"+i.port, auth, i.sender(), to, bytes.NewReader(body))
	if err != nil {
		logger.WithError(err).Error("ошибка отправки письма")
		return err
	}
	logger.Info("письмо отправлено")
	return nil
}

func (i impl) deliver(addr string, a sasl.Client, from string, to []string, r *bytes.Reader) error {
	if i.tlsEnabled {
		return smtp.SendMailTLS(addr, a, from, to, r)
	}
	return smtp.SendMail(addr, a, from, to, r)
}

func (i impl) sender() string {
	if i.from != "" {
		return i.from
	}
	return i.user
}

// buildMessage собирает MIME письмо с html телом и текстовой альтернативой
func buildMessage(from string, to []string, subject, htmlBody string) ([]byte, error) {
	msg := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", "Летаки - "+subject)
	msg.SetBody("text/plain", plainText(htmlBody))
	msg.AddAlternative("text/html", htmlBody)
	buf := new(bytes.Buffer)
	if _, err := msg.WriteTo(buf); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования письма")
	}
	return buf.Bytes(), nil
}

func plainText(htmlBody string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range htmlBody {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			sb.WriteRune(' ')
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
