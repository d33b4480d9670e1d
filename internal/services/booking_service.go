package services

import (
	"context"
	"database/sql"
	"fmt"
	"net/mail"
	"strings"
	"time"

	intconfig "resort/internal/config"
	intdb "resort/internal/db"
	"resort/internal/domain"
	"resort/internal/domain/models"
	"resort/internal/notify"
	"resort/internal/repositories"
	"resort/internal/utils"
)

// GuestInput identifies the guest an admin books for.
type GuestInput struct {
	Name  string
	Email string
	Phone string
}

type CreateBookingInput struct {
	FacilityID   int64
	CheckIn      string
	CheckOut     string
	Guests       int
	ContactPhone string
	Notes        string
	OnBehalfOf   *GuestInput
}

type BookingService struct {
	Bookings   repositories.BookingRepository
	Facilities repositories.FacilityRepository
	Users      repositories.UserRepository
	Notifier   notify.Notifier
	Policy     domain.CapacityPolicy
	Now        func() time.Time
	DB         *sql.DB
	RequestID  string
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	if s.Bookings.DB != nil {
		return s.Bookings.DB
	}
	return intconfig.DB
}

func (s BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s BookingService) policy() domain.CapacityPolicy {
	if s.Policy == "" {
		return domain.PolicyStay
	}
	return s.Policy
}

type bookingOwner struct {
	ID      int64
	Summary models.UserSummary
}

// Create books a facility. The capacity check and the insert run in one
// transaction holding the facility row lock, so concurrent requests for the
// same facility are serialized by the database.
func (s BookingService) Create(ctx context.Context, actor domain.Actor, in CreateBookingInput) (models.Booking, error) {
	if err := domain.RequireActor(actor); err != nil {
		return models.Booking{}, err
	}
	if in.FacilityID <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "facilityId", Msg: "facility is required"}
	}
	checkIn, err := utils.ParseDate(in.CheckIn)
	if err != nil {
		return models.Booking{}, domain.ValidationError{Field: "check_in", Msg: "check_in must be YYYY-MM-DD", Err: err}
	}
	checkOut, err := utils.ParseDate(in.CheckOut)
	if err != nil {
		return models.Booking{}, domain.ValidationError{Field: "check_out", Msg: "check_out must be YYYY-MM-DD", Err: err}
	}
	if checkOut.Before(checkIn) {
		return models.Booking{}, domain.ValidationError{Field: "check_out", Msg: "check_out must not be before check_in"}
	}
	if domain.Nights(checkIn, checkOut) > domain.MaxStayNights {
		return models.Booking{}, domain.ValidationError{Field: "check_out", Msg: fmt.Sprintf("stay must be at most %d nights", domain.MaxStayNights)}
	}
	guests := in.Guests
	if guests == 0 {
		guests = 1
	}
	if guests < 1 {
		return models.Booking{}, domain.ValidationError{Field: "guests", Msg: "guests must be at least 1"}
	}
	contact := strings.TrimSpace(in.ContactPhone)

	owner := bookingOwner{
		ID:      actor.UserID,
		Summary: models.UserSummary{FirstName: actor.FirstName, LastName: actor.LastName, Email: actor.Email},
	}
	if in.OnBehalfOf != nil {
		if !actor.IsAdmin() {
			return models.Booking{}, domain.AuthorizationError{Msg: "only admins can book for another guest"}
		}
		owner, err = s.resolveGuest(ctx, *in.OnBehalfOf)
		if err != nil {
			return models.Booking{}, err
		}
		if p := strings.TrimSpace(in.OnBehalfOf.Phone); p != "" {
			contact = p
		}
	}

	b := models.Booking{
		UserID:       owner.ID,
		FacilityID:   in.FacilityID,
		CheckIn:      utils.FormatDate(checkIn),
		CheckOut:     utils.FormatDate(checkOut),
		Guests:       guests,
		ContactPhone: contact,
		Notes:        strings.TrimSpace(in.Notes),
		Status:       models.StatusPending,
	}
	var facility models.Facility

	err = intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		f, err := s.Facilities.LockByIDTx(ctx, tx, in.FacilityID)
		if err != nil {
			return err
		}
		facility = f

		stays, err := s.Bookings.ActiveStaysTx(ctx, tx, f.ID, checkIn, domain.StayEnd(checkIn, checkOut))
		if err != nil {
			return err
		}
		existing := s.policy().Load(stays, checkIn, checkOut)
		if guests > f.Capacity || guests > f.Capacity-existing {
			return domain.CapacityExceededError{
				FacilityID: f.ID,
				Capacity:   f.Capacity,
				Existing:   existing,
				Requested:  guests,
			}
		}

		b.Total = domain.BookingTotal(domain.Nights(checkIn, checkOut), f.Price)
		id, err := s.Bookings.InsertTx(ctx, tx, b)
		if err != nil {
			return err
		}
		b.ID = id
		return nil
	})
	if err != nil {
		if domain.IsNotFound(err) || domain.IsCapacityExceeded(err) {
			utils.LogEvent(s.RequestID, "booking", "create_rejected", err.Error())
			return models.Booking{}, err
		}
		return models.Booking{}, domain.InternalError{Msg: "create booking", Err: err}
	}

	now := s.now()
	b.CreatedAt, b.UpdatedAt = now, now
	b.User = &owner.Summary
	b.Facility = facility.Summary()
	utils.LogEvent(s.RequestID, "booking", "create",
		fmt.Sprintf("booking_id=%d facility_id=%d user_id=%d guests=%d total=%.2f", b.ID, b.FacilityID, b.UserID, b.Guests, b.Total))

	s.notifyCreated(ctx, b)
	return b, nil
}

// resolveGuest finds the guest by email or creates one with an unusable
// password.
func (s BookingService) resolveGuest(ctx context.Context, g GuestInput) (bookingOwner, error) {
	name := utils.NormalizeSpace(g.Name)
	email := strings.ToLower(strings.TrimSpace(g.Email))
	if name == "" {
		return bookingOwner{}, domain.ValidationError{Field: "guest_name", Msg: "guest name is required"}
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return bookingOwner{}, domain.ValidationError{Field: "email", Msg: "guest email is not valid"}
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if err == nil {
		return bookingOwner{ID: u.ID, Summary: *u.Summary()}, nil
	}
	if !domain.IsNotFound(err) {
		return bookingOwner{}, domain.InternalError{Msg: "load guest", Err: err}
	}

	hash, err := HashPassword(randomSecret())
	if err != nil {
		return bookingOwner{}, domain.InternalError{Msg: "hash password", Err: err}
	}
	first, last := utils.SplitFullName(name)
	u = models.User{
		FirstName:    first,
		LastName:     last,
		Email:        email,
		Mobile:       strings.TrimSpace(g.Phone),
		PasswordHash: hash,
		Role:         domain.RoleGuest,
	}
	id, err := s.Users.Create(ctx, u)
	if err != nil {
		if domain.IsConflict(err) {
			// created concurrently by another request
			existing, gerr := s.Users.GetByEmail(ctx, email)
			if gerr == nil {
				return bookingOwner{ID: existing.ID, Summary: *existing.Summary()}, nil
			}
		}
		return bookingOwner{}, domain.InternalError{Msg: "create guest", Err: err}
	}
	u.ID = id
	utils.LogEvent(s.RequestID, "booking", "create_guest", "user_id="+itoa(id))
	return bookingOwner{ID: id, Summary: *u.Summary()}, nil
}

func (s BookingService) notifyCreated(ctx context.Context, b models.Booking) {
	if s.Notifier == nil {
		return
	}
	n := notify.BookingNotice{
		BookingID: b.ID,
		Code:      utils.BookingCode(b.ID),
		CheckIn:   b.CheckIn,
		CheckOut:  b.CheckOut,
		Guests:    b.Guests,
		Total:     b.Total,
	}
	if b.User != nil {
		n.GuestName = strings.TrimSpace(b.User.FirstName + " " + b.User.LastName)
		n.GuestEmail = b.User.Email
	}
	if b.Facility != nil {
		n.FacilityName = b.Facility.Name
	}
	defer func() {
		if r := recover(); r != nil {
			utils.LogError(s.RequestID, "booking", "notify", fmt.Errorf("panic: %v", r))
		}
	}()
	if err := s.Notifier.BookingCreated(ctx, n); err != nil {
		utils.LogError(s.RequestID, "booking", "notify", err)
	}
}

// UpdateStatus moves a booking along its lifecycle under a row lock.
func (s BookingService) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, status string) (models.Booking, error) {
	if err := domain.RequireRole(actor, domain.RoleAdmin); err != nil {
		return models.Booking{}, err
	}
	to, ok := models.ParseBookingStatus(status)
	if !ok {
		return models.Booking{}, domain.ValidationError{Field: "status", Msg: "status must be one of pending, confirmed, completed, cancelled"}
	}

	var from models.BookingStatus
	err := intdb.WithTx(ctx, s.db(), func(tx *sql.Tx) error {
		cur, err := s.Bookings.LockStatusTx(ctx, tx, id)
		if err != nil {
			return err
		}
		from = cur
		if !models.CanTransition(cur, to) {
			return domain.InvalidTransitionError{From: string(cur), To: string(to)}
		}
		return s.Bookings.UpdateStatusTx(ctx, tx, id, cur, to)
	})
	if err != nil {
		if domain.IsNotFound(err) || domain.IsInvalidTransition(err) || domain.IsConflict(err) {
			return models.Booking{}, err
		}
		return models.Booking{}, domain.InternalError{Msg: "update booking status", Err: err}
	}
	utils.LogEvent(s.RequestID, "booking", "update_status", fmt.Sprintf("booking_id=%d from=%s to=%s", id, from, to))
	return s.Get(ctx, actor, id)
}

func (s BookingService) ListMine(ctx context.Context, actor domain.Actor) ([]models.BookingView, error) {
	if err := domain.RequireActor(actor); err != nil {
		return nil, err
	}
	list, err := s.Bookings.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, domain.InternalError{Msg: "list bookings", Err: err}
	}
	return views(list), nil
}

func (s BookingService) ListAll(ctx context.Context, actor domain.Actor) ([]models.BookingView, error) {
	if err := domain.RequireRole(actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	list, err := s.Bookings.ListAll(ctx)
	if err != nil {
		return nil, domain.InternalError{Msg: "list bookings", Err: err}
	}
	return views(list), nil
}

// Get returns a booking to its owner or to an admin.
func (s BookingService) Get(ctx context.Context, actor domain.Actor, id int64) (models.Booking, error) {
	if err := domain.RequireActor(actor); err != nil {
		return models.Booking{}, err
	}
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Booking{}, err
		}
		return models.Booking{}, domain.InternalError{Msg: "load booking", Err: err}
	}
	if b.UserID != actor.UserID && !actor.IsAdmin() {
		return models.Booking{}, domain.AuthorizationError{Msg: "booking belongs to another guest"}
	}
	return b, nil
}

func views(list []models.Booking) []models.BookingView {
	out := make([]models.BookingView, 0, len(list))
	for _, b := range list {
		out = append(out, b.View())
	}
	return out
}
