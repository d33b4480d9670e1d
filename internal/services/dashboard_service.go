package services

import (
	"context"
	"math"
	"strings"
	"time"

	"resort/internal/domain"
	"resort/internal/domain/models"
	"resort/internal/repositories"
	"resort/internal/utils"
)

type RecentBooking struct {
	ID           string `json:"id"`
	BookingID    int64  `json:"bookingId"`
	GuestName    string `json:"guestName"`
	FacilityName string `json:"facilityName"`
	CheckIn      string `json:"checkIn"`
	Status       string `json:"status"`
	StatusLabel  string `json:"statusLabel"`
	StatusClass  string `json:"statusClass"`
	Amount       string `json:"amount"`
}

type Dashboard struct {
	Revenue        float64         `json:"revenue"`
	RevenueLabel   string          `json:"revenueLabel"`
	BookingsToday  int             `json:"bookingsToday"`
	OccupancyRate  int             `json:"occupancyRate"`
	PendingCount   int             `json:"pendingCount"`
	RecentBookings []RecentBooking `json:"recentBookings"`
}

// DashboardService recomputes the admin dashboard on every call.
type DashboardService struct {
	Stats     repositories.DashboardRepository
	Bookings  repositories.BookingRepository
	Now       func() time.Time
	RequestID string
}

// OccupancyRate is today's confirmed guests over total capacity, as a rounded
// percentage. Zero capacity counts as one.
func OccupancyRate(guests, capacity int) int {
	if capacity <= 0 {
		capacity = 1
	}
	return int(math.Round(float64(guests) * 100 / float64(capacity)))
}

func (s DashboardService) Build(ctx context.Context, actor domain.Actor) (Dashboard, error) {
	if err := domain.RequireRole(actor, domain.RoleAdmin); err != nil {
		return Dashboard{}, err
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	today := utils.StartOfDay(now)
	monthStart, monthEnd := utils.MonthBounds(now)

	var (
		d   Dashboard
		err error
	)
	if d.Revenue, err = s.Stats.Revenue(ctx, monthStart, monthEnd); err != nil {
		return Dashboard{}, domain.InternalError{Msg: "dashboard revenue", Err: err}
	}
	d.Revenue = utils.RoundMoney(d.Revenue)
	d.RevenueLabel = utils.FormatPeso(d.Revenue)

	if d.BookingsToday, err = s.Stats.CountCheckIns(ctx, today); err != nil {
		return Dashboard{}, domain.InternalError{Msg: "dashboard check-ins", Err: err}
	}
	guests, err := s.Stats.GuestsConfirmedOn(ctx, today)
	if err != nil {
		return Dashboard{}, domain.InternalError{Msg: "dashboard guests", Err: err}
	}
	capacity, err := s.Stats.TotalCapacity(ctx)
	if err != nil {
		return Dashboard{}, domain.InternalError{Msg: "dashboard capacity", Err: err}
	}
	d.OccupancyRate = OccupancyRate(guests, capacity)

	if d.PendingCount, err = s.Stats.CountByStatus(ctx, models.StatusPending); err != nil {
		return Dashboard{}, domain.InternalError{Msg: "dashboard pending", Err: err}
	}

	recent, err := s.Bookings.Recent(ctx, 5)
	if err != nil {
		return Dashboard{}, domain.InternalError{Msg: "dashboard recent bookings", Err: err}
	}
	d.RecentBookings = make([]RecentBooking, 0, len(recent))
	for _, b := range recent {
		d.RecentBookings = append(d.RecentBookings, recentRow(b))
	}
	return d, nil
}

func recentRow(b models.Booking) RecentBooking {
	row := RecentBooking{
		ID:           utils.BookingCode(b.ID),
		BookingID:    b.ID,
		GuestName:    "Unknown",
		FacilityName: "Unknown",
		CheckIn:      b.CheckIn,
		Status:       string(b.Status),
		StatusLabel:  b.Status.Label(),
		StatusClass:  b.Status.StatusClass(),
		Amount:       utils.FormatPeso(b.Total),
	}
	if b.User != nil {
		if name := strings.TrimSpace(b.User.FirstName + " " + b.User.LastName); name != "" {
			row.GuestName = name
		}
	}
	if b.Facility != nil && b.Facility.Name != "" {
		row.FacilityName = b.Facility.Name
	}
	return row
}
