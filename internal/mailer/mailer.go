package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

// Mailer はSMTPでプレーンテキストを送る。
// SMTP_HOST未設定ならNewはnilを返し、全メソッドはnilレシーバで何もしない。
// メール送信の失敗で業務処理は止めない。
type Mailer struct {
	host string
	port string
	user string
	pass string
	from string
	log  zerolog.Logger
}

func New(host, port, user, pass, from string, log zerolog.Logger) *Mailer {
	if host == "" {
		return nil
	}
	return &Mailer{
		host: host,
		port: port,
		user: user,
		pass: pass,
		from: from,
		log:  log.With().Str("component", "mailer").Logger(),
	}
}

func (m *Mailer) send(to, subject, body string) {
	if m == nil {
		return
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.from, to, subject, body)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, []byte(msg)); err != nil {
		m.log.Warn().Err(err).Str("to", to).Str("subject", subject).Msg("mail send failed")
	}
}

func (m *Mailer) SendWelcome(to, name string) {
	m.send(to, "Welcome to our shop",
		fmt.Sprintf("Hello %s,\n\nyour account has been created. Happy shopping!\n", name))
}

func (m *Mailer) SendOrderConfirmation(to string, orderID int64, total float64) {
	m.send(to, fmt.Sprintf("Order #%d confirmed", orderID),
		fmt.Sprintf("Thank you for your order #%d.\nTotal: %.2f EUR\n\nWe will notify you when it ships.\n", orderID, total))
}
