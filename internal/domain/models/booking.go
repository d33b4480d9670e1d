package models

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// ActiveStatuses are the states whose guests count against facility capacity.
var ActiveStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted}

var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: nil,
	StatusCancelled: nil,
}

// ParseBookingStatus accepts the persisted enum spelling, case-insensitively.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	st := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := transitions[st]; !ok {
		return "", false
	}
	return st, true
}

// CanTransition reports whether from -> to is an edge of the lifecycle.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

func (s BookingStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Progress is the percentage shown on the guest's booking tracker.
func (s BookingStatus) Progress() int {
	switch s {
	case StatusPending:
		return 25
	case StatusConfirmed:
		return 65
	case StatusCompleted:
		return 100
	default:
		return 0
	}
}

// StatusClass maps a status to the badge style of the admin views.
func (s BookingStatus) StatusClass() string {
	switch s {
	case StatusConfirmed, StatusCompleted:
		return "success"
	case StatusCancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// Booking mirrors the bookings table. Dates are YYYY-MM-DD.
type Booking struct {
	ID           int64         `json:"id"`
	UserID       int64         `json:"userId"`
	FacilityID   int64         `json:"facilityId"`
	CheckIn      string        `json:"check_in"`
	CheckOut     string        `json:"check_out"`
	Guests       int           `json:"guests"`
	ContactPhone string        `json:"contact_phone,omitempty"`
	Notes        string        `json:"notes,omitempty"`
	Total        float64       `json:"total"`
	Status       BookingStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`

	User     *UserSummary     `json:"User,omitempty"`
	Facility *FacilitySummary `json:"Facility,omitempty"`
}

// BookingView adds the tracker fields shown to guests.
type BookingView struct {
	Booking
	StatusLabel string `json:"statusLabel"`
	Progress    int    `json:"progress"`
}

func (b Booking) View() BookingView {
	return BookingView{
		Booking:     b,
		StatusLabel: b.Status.Label(),
		Progress:    b.Status.Progress(),
	}
}
