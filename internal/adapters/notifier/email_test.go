package notifier

import (
	"errors"
	"testing"

	"gopkg.in/gomail.v2"
)

func TestDisabledNotifierIsNoOpSuccess(t *testing.T) {
	n, err := New(Config{Enabled: false})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	dialed := false
	n.send = func(m *gomail.Message) error {
		dialed = true
		return nil
	}

	if err := n.Send("subject", "body"); err != nil {
		t.Fatalf("disabled notifier must succeed, got %v", err)
	}
	if dialed {
		t.Fatalf("disabled notifier must not dial")
	}
}

func TestEnabledNotifierRequiresFullConfig(t *testing.T) {
	_, err := New(Config{Enabled: true, Host: "smtp.example.com"})
	if err == nil {
		t.Fatalf("expected validation error for incomplete config")
	}
}

func TestSendBuildsMessage(t *testing.T) {
	n, err := New(Config{
		Enabled:   true,
		Host:      "smtp.example.com",
		Port:      587,
		Sender:    "agent@example.com",
		Password:  "secret",
		Recipient: "me@example.com",
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var got *gomail.Message
	n.send = func(m *gomail.Message) error {
		got = m
		return nil
	}

	if err := n.Send("daily report", "the body"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got == nil {
		t.Fatalf("expected a message to be sent")
	}
	if from := got.GetHeader("From"); len(from) != 1 || from[0] != "agent@example.com" {
		t.Fatalf("unexpected From header %v", from)
	}
	if to := got.GetHeader("To"); len(to) != 1 || to[0] != "me@example.com" {
		t.Fatalf("unexpected To header %v", to)
	}
	if subject := got.GetHeader("Subject"); len(subject) != 1 || subject[0] != "daily report" {
		t.Fatalf("unexpected Subject header %v", subject)
	}
}

func TestSendWrapsTransportError(t *testing.T) {
	n, err := New(Config{
		Enabled:   true,
		Host:      "smtp.example.com",
		Port:      587,
		Sender:    "agent@example.com",
		Password:  "secret",
		Recipient: "me@example.com",
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	n.send = func(m *gomail.Message) error { return errors.New("dial tcp: refused") }

	if err := n.Send("s", "b"); err == nil {
		t.Fatalf("expected transport error to surface")
	}
}
