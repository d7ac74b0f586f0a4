package mail

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"
)

var ErrNoRecipients = errors.New("mail: no recipients")

// Config holds SMTP settings.
type Config struct {
	Enable  bool
	Host    string
	Port    int
	User    string
	Pass    string
	From    string
	ReplyTo string
}

// Message is a single email to send.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Sender sends emails via SMTP.
type Sender struct {
	cfg  Config
	send sendFunc
}

func New(cfg Config) *Sender {
	return &Sender{cfg: cfg, send: smtp.SendMail}
}

// Enabled reports whether Send actually delivers mail.
func (s *Sender) Enabled() bool { return s.cfg.Enable }

// Send dispatches an email. A disabled sender drops the message silently.
func (s *Sender) Send(msg Message) error {
	if !s.cfg.Enable {
		return nil
	}
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, port)

	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}
	return s.send(addr, auth, from, msg.To, buildBody(from, s.cfg.ReplyTo, msg))
}

func buildBody(from, replyTo string, msg Message) []byte {
	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString(fmt.Sprintf("From: %s\r\n", from))
	body.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	if replyTo != "" {
		body.WriteString(fmt.Sprintf("Reply-To: %s\r\n", replyTo))
	}
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)
	return body.Bytes()
}

const leadTargetingTpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="background-color:#fff;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;padding:.5rem">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:100%;border:1px solid rgb(79,70,229);border-radius:.25rem;margin:40px auto;padding:20px;width:550px">
    <tbody>
      <tr><td>
        <h1 style="color:#000;font-size:18px;font-weight:400;text-align:center;margin:30px 0">New lead targeting request</h1>
        <p style="font-size:14px;line-height:24px;margin:16px 0;color:#000">Submitted by <strong>{{.UserID}}</strong> at {{.SubmittedAt}}</p>
        {{range .Sections}}
        <p style="font-size:14px;line-height:24px;margin:16px 0 4px;color:#000"><strong>{{.Title}}</strong></p>
        <table align="center" width="100%" role="presentation" border="0" cellpadding="0" cellspacing="0" style="background-color:rgb(243,244,246);border-radius:.75rem;padding:0 1rem">
          <tbody><tr><td><p style="font-size:12px;line-height:24px;margin:16px 0;color:rgb(51,51,51)">{{range .URLs}}{{.}}<br />{{end}}</p></td></tr></tbody>
        </table>
        {{end}}
        <hr style="width:100%;border:none;border-top:1px solid #eaeaea;margin:26px 0" />
        <p style="font-size:10px;line-height:24px;margin:16px 0;text-align:center;color:rgb(156,163,175)">Sent automatically by Intentified.<br />&copy;{{year}} Intentified</p>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

// LeadSection is one intent category with its submitted URLs.
type LeadSection struct {
	Title string
	URLs  []string
}

// LeadTargetingData is the data for lead targeting notification emails.
type LeadTargetingData struct {
	UserID      string
	SubmittedAt time.Time
	Sections    []LeadSection
}

func renderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
	}).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendLeadTargeting notifies the sales recipients of a new targeting request.
func (s *Sender) SendLeadTargeting(to []string, data LeadTargetingData) error {
	if strings.TrimSpace(data.UserID) == "" {
		data.UserID = "unknown user"
	}
	if data.SubmittedAt.IsZero() {
		data.SubmittedAt = time.Now()
	}
	html, err := renderTemplate(leadTargetingTpl, data)
	if err != nil {
		return err
	}
	return s.Send(Message{
		To:      to,
		Subject: "[Intentified] New lead targeting request",
		HTML:    html,
	})
}
