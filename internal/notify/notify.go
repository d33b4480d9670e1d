package notify

import (
	"context"
	"fmt"

	"resort/internal/config"
	"resort/internal/utils"
)

// BookingNotice is what guests and staff are told about a new booking.
type BookingNotice struct {
	BookingID    int64
	Code         string
	GuestName    string
	GuestEmail   string
	FacilityName string
	CheckIn      string
	CheckOut     string
	Guests       int
	Total        float64
}

// Notifier delivers booking side effects. Callers treat every error as
// non-fatal.
type Notifier interface {
	BookingCreated(ctx context.Context, n BookingNotice) error
}

// LogNotifier only writes the notice to the process log.
type LogNotifier struct{}

func (LogNotifier) BookingCreated(_ context.Context, n BookingNotice) error {
	utils.Logger.WithFields(map[string]any{
		"module":     "notify",
		"booking_id": n.BookingID,
		"facility":   n.FacilityName,
		"guest":      n.GuestEmail,
	}).Info("booking created")
	return nil
}

// New picks the mail notifier when SMTP credentials are configured.
func New(env config.Env) Notifier {
	if !env.SMTP.Enabled() {
		return LogNotifier{}
	}
	return NewMailNotifier(env.SMTP, env.AdminEmail)
}

func subject(n BookingNotice) string {
	return fmt.Sprintf("Booking %s received", n.Code)
}

func body(n BookingNotice) string {
	return fmt.Sprintf(
		"Hi %s,\n\nWe received your booking %s for %s.\nCheck-in: %s\nCheck-out: %s\nGuests: %d\nTotal: %s\n\nStatus: Pending confirmation.\n",
		n.GuestName, n.Code, n.FacilityName, n.CheckIn, n.CheckOut, n.Guests, utils.FormatPeso(n.Total),
	)
}
