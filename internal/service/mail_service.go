package service

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"workplace_training_backend/internal/config"
	"workplace_training_backend/pkg/logger"

	"go.uber.org/zap"
)

type Mailer interface {
	Send(to []string, subject, html string) error
}

// SMTPMailer 未配置 SMTP 账号时只记录日志，不实际发送
type SMTPMailer struct {
	Cfg *config.MailConfig
}

func NewSMTPMailer(cfg *config.MailConfig) *SMTPMailer {
	return &SMTPMailer{Cfg: cfg}
}

func (m *SMTPMailer) Send(to []string, subject, html string) error {
	if m.Cfg.Host == "" || m.Cfg.Username == "" {
		logger.Log.Info("Mail not configured, skipping send",
			zap.Strings("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	from := m.Cfg.From
	if from == "" {
		from = m.Cfg.Username
	}

	var msg strings.Builder
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(html)

	auth := smtp.PlainAuth("", m.Cfg.Username, m.Cfg.Password, m.Cfg.Host)
	addr := fmt.Sprintf("%s:%d", m.Cfg.Host, m.Cfg.Port)
	if err := smtp.SendMail(addr, auth, from, to, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

var resetMailTemplate = template.Must(template.New("reset").Parse(`<p>{{.Name}}，您好：</p>
<p>您的密码重置申请已通过审批，请在 {{.Expires}} 前点击以下链接设置新密码：</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>如果这不是您本人的操作，请忽略此邮件。</p>`))

type resetMailData struct {
	Name    string
	Link    string
	Expires string
}

func renderResetMail(data resetMailData) (string, error) {
	var buf bytes.Buffer
	if err := resetMailTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
