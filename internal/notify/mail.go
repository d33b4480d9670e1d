package notify

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"

	"resort/internal/config"
	"resort/internal/utils"
)

// MailNotifier sends booking mail over SMTP behind a circuit breaker so a dead
// mail server is skipped quickly instead of timing out on every booking.
type MailNotifier struct {
	From  string
	Staff string
	Send  func(m *gomail.Message) error

	cb *gobreaker.CircuitBreaker
}

func NewMailNotifier(cfg config.SMTPConfig, staff string) *MailNotifier {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	return &MailNotifier{
		From:  from,
		Staff: staff,
		Send:  func(m *gomail.Message) error { return dialer.DialAndSend(m) },
		cb:    newBreaker("smtp"),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			utils.Logger.WithField("breaker", name).Warnf("circuit breaker changed from %s to %s", from, to)
		},
	})
}

func (m *MailNotifier) BookingCreated(ctx context.Context, n BookingNotice) error {
	if n.GuestEmail == "" {
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", n.GuestEmail)
	if m.Staff != "" {
		msg.SetHeader("Bcc", m.Staff)
	}
	msg.SetHeader("Subject", subject(n))
	msg.SetBody("text/plain", body(n))

	if m.cb == nil {
		m.cb = newBreaker("smtp")
	}
	_, err := m.cb.Execute(func() (interface{}, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, m.Send(msg)
	})
	return err
}
