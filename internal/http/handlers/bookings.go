package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"resort/internal/domain"
	"resort/internal/http/middleware"
	"resort/internal/services"
)

// bookingPayload accepts both the snake_case and camelCase field names the
// booking forms send.
type bookingPayload struct {
	FacilityID      Stringish `json:"facility_id"`
	FacilityIDCamel Stringish `json:"facilityId"`
	CheckIn         Stringish `json:"check_in"`
	CheckInCamel    Stringish `json:"checkIn"`
	CheckOut        Stringish `json:"check_out"`
	CheckOutCamel   Stringish `json:"checkOut"`
	Guests          Stringish `json:"guests"`
	ContactPhone    Stringish `json:"contact_phone"`
	ContactCamel    Stringish `json:"contactPhone"`
	Notes           Stringish `json:"notes"`

	// Admin walk-in bookings name the guest instead of using the session user.
	GuestName  Stringish `json:"guest_name"`
	GuestCamel Stringish `json:"guestName"`
	Email      Stringish `json:"email"`
	Phone      Stringish `json:"phone"`
}

func (p bookingPayload) input() (services.CreateBookingInput, error) {
	var in services.CreateBookingInput

	raw := firstNonEmpty(p.FacilityID, p.FacilityIDCamel)
	if raw == "" {
		return in, domain.ValidationError{Field: "facility_id", Msg: "facility is required"}
	}
	id, err := parseInt("facility_id", raw)
	if err != nil {
		return in, err
	}
	in.FacilityID = int64(id)

	if g := p.Guests.String(); g != "" {
		n, err := parseInt("guests", g)
		if err != nil {
			return in, err
		}
		in.Guests = n
	}

	in.CheckIn = firstNonEmpty(p.CheckIn, p.CheckInCamel)
	in.CheckOut = firstNonEmpty(p.CheckOut, p.CheckOutCamel)
	in.ContactPhone = firstNonEmpty(p.ContactPhone, p.ContactCamel, p.Phone)
	in.Notes = p.Notes.String()

	if name := firstNonEmpty(p.GuestName, p.GuestCamel); name != "" || p.Email.String() != "" {
		in.OnBehalfOf = &services.GuestInput{
			Name:  name,
			Email: p.Email.String(),
			Phone: p.Phone.String(),
		}
	}
	return in, nil
}

type statusRequest struct {
	Status string `json:"status"`
}

type verifyPassRequest struct {
	Token string `json:"token"`
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var p bookingPayload
	if !BindJSONOrError(c, &p) {
		return
	}
	in, err := p.input()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	b, err := h.bookingService(c).Create(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	created(c, b)
}

func (h *Handler) MyBookings(c *gin.Context) {
	list, err := h.bookingService(c).ListMine(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) ListBookings(c *gin.Context) {
	list, err := h.bookingService(c).ListAll(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	b, err := h.bookingService(c).Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := h.bookingService(c).UpdateStatus(c.Request.Context(), middleware.Actor(c), id, req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) BookingPass(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	png, err := h.docsService(c).BookingPassQR(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) BookingConfirmation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pdf, filename, err := h.docsService(c).ConfirmationPDF(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) VerifyPass(c *gin.Context) {
	var req verifyPassRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := h.docsService(c).VerifyPass(c.Request.Context(), middleware.Actor(c), req.Token)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "booking": b})
}
