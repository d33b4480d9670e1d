package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"

	"resort/internal/config"
)

func TestNewPicksLogNotifierWithoutSMTP(t *testing.T) {
	if _, ok := New(config.Env{}).(LogNotifier); !ok {
		t.Fatalf("expected LogNotifier when SMTP is not configured")
	}
	env := config.Env{SMTP: config.SMTPConfig{Host: "smtp.test", Port: 587, User: "u", Password: "p"}}
	if _, ok := New(env).(*MailNotifier); !ok {
		t.Fatalf("expected MailNotifier when SMTP is configured")
	}
}

func TestMailNotifierSendsToGuest(t *testing.T) {
	var sent *gomail.Message
	n := NewMailNotifier(config.SMTPConfig{User: "resort@example.com"}, "staff@example.com")
	n.Send = func(m *gomail.Message) error {
		sent = m
		return nil
	}

	err := n.BookingCreated(context.Background(), BookingNotice{Code: "BKP00012", GuestName: "Ana", GuestEmail: "ana@example.com", Total: 600})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent == nil {
		t.Fatalf("expected a message to be sent")
	}
	if to := sent.GetHeader("To"); len(to) != 1 || to[0] != "ana@example.com" {
		t.Fatalf("unexpected recipients: %v", to)
	}
	if subj := sent.GetHeader("Subject"); len(subj) != 1 || !strings.Contains(subj[0], "BKP00012") {
		t.Fatalf("unexpected subject: %v", subj)
	}
}

func TestMailNotifierBreakerOpensAfterFailures(t *testing.T) {
	calls := 0
	n := NewMailNotifier(config.SMTPConfig{User: "resort@example.com"}, "")
	n.Send = func(*gomail.Message) error {
		calls++
		return errors.New("smtp down")
	}

	notice := BookingNotice{GuestEmail: "ana@example.com"}
	for i := 0; i < 3; i++ {
		_ = n.BookingCreated(context.Background(), notice)
	}
	err := n.BookingCreated(context.Background(), notice)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 send attempts, got %d", calls)
	}
}
