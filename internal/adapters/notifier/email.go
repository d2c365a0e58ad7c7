package notifier

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/qiaoxuchen/auto-report-agent/internal/ports"
)

// Config holds the SMTP delivery settings.
type Config struct {
	Enabled   bool   `yaml:"enabled"`
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Sender    string `yaml:"sender"`
	Password  string `yaml:"password"`
	Recipient string `yaml:"recipient"`
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Host == "" || c.Port == 0 || c.Sender == "" || c.Password == "" || c.Recipient == "" {
		return errors.New("email notifier enabled but host, port, sender, password and recipient are all required")
	}
	return nil
}

type sendFunc func(m *gomail.Message) error

// EmailNotifier delivers reports over SMTP. When disabled, Send is a no-op
// success so the pipeline treats "delivery off" and "delivered" the same way.
type EmailNotifier struct {
	cfg  Config
	send sendFunc
}

func New(cfg Config) (*EmailNotifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := &EmailNotifier{cfg: cfg}
	n.send = func(m *gomail.Message) error {
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Sender, cfg.Password)
		return d.DialAndSend(m)
	}
	return n, nil
}

func (n *EmailNotifier) Send(subject, body string) error {
	if !n.cfg.Enabled {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.Sender)
	m.SetHeader("To", n.cfg.Recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.send(m); err != nil {
		return fmt.Errorf("send to %s: %w", n.cfg.Recipient, err)
	}
	return nil
}

var _ ports.Notifier = (*EmailNotifier)(nil)
