package services

import (
	"context"

	"resort/internal/domain"
	"resort/internal/domain/models"
	"resort/internal/repositories"
	"resort/internal/utils"
)

type ProfileBooking struct {
	ID           int64  `json:"id"`
	FacilityName string `json:"facilityName"`
	CheckIn      string `json:"check_in"`
	CheckOut     string `json:"check_out"`
	Amount       string `json:"amount"`
	Status       string `json:"status"`
	StatusLabel  string `json:"statusLabel"`
	Progress     int    `json:"progress"`
}

type ProfileOverview struct {
	User     models.User      `json:"user"`
	QRCode   string           `json:"qrCode"`
	Bookings []ProfileBooking `json:"bookings"`
}

// ProfileService builds the profile pages of guests and the admin guest views.
type ProfileService struct {
	Users     repositories.UserRepository
	Bookings  repositories.BookingRepository
	Docs      DocsService
	RequestID string
}

func (s ProfileService) Overview(ctx context.Context, actor domain.Actor) (ProfileOverview, error) {
	if err := domain.RequireActor(actor); err != nil {
		return ProfileOverview{}, err
	}
	return s.overview(ctx, actor.UserID)
}

func (s ProfileService) Guests(ctx context.Context, actor domain.Actor) ([]models.User, error) {
	if err := domain.RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	guests, err := s.Users.ListByRole(ctx, domain.RoleGuest)
	if err != nil {
		return nil, domain.InternalError{Msg: "list guests", Err: err}
	}
	return guests, nil
}

func (s ProfileService) GuestProfile(ctx context.Context, actor domain.Actor, userID int64) (ProfileOverview, error) {
	if err := domain.RequireRole(actor, domain.RoleAdmin); err != nil {
		return ProfileOverview{}, err
	}
	return s.overview(ctx, userID)
}

func (s ProfileService) overview(ctx context.Context, userID int64) (ProfileOverview, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if domain.IsNotFound(err) {
			return ProfileOverview{}, err
		}
		return ProfileOverview{}, domain.InternalError{Msg: "load user", Err: err}
	}
	qr, err := s.Docs.ProfileQR(u)
	if err != nil {
		return ProfileOverview{}, domain.InternalError{Msg: "profile qr", Err: err}
	}
	list, err := s.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return ProfileOverview{}, domain.InternalError{Msg: "list bookings", Err: err}
	}

	out := ProfileOverview{User: u, QRCode: qr, Bookings: make([]ProfileBooking, 0, len(list))}
	for _, b := range list {
		name := "Unknown"
		if b.Facility != nil && b.Facility.Name != "" {
			name = b.Facility.Name
		}
		out.Bookings = append(out.Bookings, ProfileBooking{
			ID:           b.ID,
			FacilityName: name,
			CheckIn:      b.CheckIn,
			CheckOut:     b.CheckOut,
			Amount:       utils.FormatPeso(b.Total),
			Status:       string(b.Status),
			StatusLabel:  b.Status.Label(),
			Progress:     b.Status.Progress(),
		})
	}
	return out, nil
}
