package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"resort/internal/domain"
	"resort/internal/domain/models"
	"resort/internal/repositories"
	"resort/internal/utils"
)

const qrSize = 256

// DocsService renders QR codes, booking passes and confirmation PDFs.
type DocsService struct {
	Bookings  repositories.BookingRepository
	Secret    []byte
	Now       func() time.Time
	RequestID string
	Loader    func(ctx context.Context, id int64) (models.Booking, error)
}

func (s DocsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ProfileQR encodes the guest's contact card as a PNG data URL.
func (s DocsService) ProfileQR(u models.User) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"name":    u.FullName(),
		"email":   u.Email,
		"mobile":  u.Mobile,
		"address": u.Address(),
	})
	if err != nil {
		return "", err
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, qrSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

func (s DocsService) loadBooking(ctx context.Context, actor domain.Actor, id int64) (models.Booking, error) {
	if err := domain.RequireActor(actor); err != nil {
		return models.Booking{}, err
	}
	var (
		b   models.Booking
		err error
	)
	if s.Loader != nil {
		b, err = s.Loader(ctx, id)
	} else {
		b, err = s.Bookings.GetByID(ctx, id)
	}
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

// PassToken signs a check-in pass valid until a day after check-out.
func (s DocsService) PassToken(b models.Booking) (string, error) {
	if len(s.Secret) == 0 {
		return "", domain.InternalError{Msg: "pass signing key not configured"}
	}
	if b.Status == models.StatusCancelled {
		return "", domain.ValidationError{Field: "status", Msg: "cancelled bookings have no pass"}
	}
	checkOut, err := utils.ParseDate(b.CheckOut)
	if err != nil {
		return "", domain.InternalError{Msg: "booking check_out", Err: err}
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"booking_id": b.ID,
		"user_id":    b.UserID,
		"iat":        s.now().Unix(),
		"exp":        checkOut.Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(s.Secret)
}

// BookingPassQR returns the pass token of a booking as a PNG QR code.
func (s DocsService) BookingPassQR(ctx context.Context, actor domain.Actor, id int64) ([]byte, error) {
	b, err := s.loadBooking(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	token, err := s.PassToken(b)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(token, qrcode.Medium, qrSize)
	if err != nil {
		return nil, domain.InternalError{Msg: "encode qr", Err: err}
	}
	utils.LogEvent(s.RequestID, "docs", "booking_pass", fmt.Sprintf("booking_id=%d", id))
	return png, nil
}

// VerifyPass checks a scanned pass at the front desk.
func (s DocsService) VerifyPass(ctx context.Context, actor domain.Actor, raw string) (models.Booking, error) {
	if err := domain.RequireRole(actor, domain.RoleAdmin); err != nil {
		return models.Booking{}, err
	}
	if len(s.Secret) == 0 {
		return models.Booking{}, domain.InternalError{Msg: "pass signing key not configured"}
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.Booking{}, domain.ValidationError{Field: "token", Msg: "token is required"}
	}

	token, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return s.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return models.Booking{}, domain.ValidationError{Field: "token", Msg: "pass is invalid or expired", Err: err}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Booking{}, domain.ValidationError{Field: "token", Msg: "pass is invalid"}
	}
	idf, ok := claims["booking_id"].(float64)
	if !ok || idf <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "token", Msg: "pass has no booking"}
	}

	b, err := s.loadBooking(ctx, actor, int64(idf))
	if err != nil {
		return models.Booking{}, err
	}
	if b.Status == models.StatusCancelled {
		return models.Booking{}, domain.ValidationError{Field: "token", Msg: "booking was cancelled"}
	}
	utils.LogEvent(s.RequestID, "docs", "verify_pass", fmt.Sprintf("booking_id=%d", b.ID))
	return b, nil
}

// ConfirmationPDF renders the booking confirmation and returns it with a
// download filename.
func (s DocsService) ConfirmationPDF(ctx context.Context, actor domain.Actor, id int64) ([]byte, string, error) {
	b, err := s.loadBooking(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	pdf, name, err := buildConfirmationPDF(b, s.now())
	if err != nil {
		return nil, "", domain.InternalError{Msg: "render confirmation", Err: err}
	}
	utils.LogEvent(s.RequestID, "docs", "confirmation_pdf", fmt.Sprintf("booking_id=%d", id))
	return pdf, name, nil
}

func buildConfirmationPDF(b models.Booking, issued time.Time) ([]byte, string, error) {
	code := utils.BookingCode(b.ID)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Confirmation "+code, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING CONFIRMATION")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Reference : "+code)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Issued    : "+issued.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	guest, email, mobile := "-", "-", "-"
	if b.User != nil {
		guest = safe(strings.TrimSpace(b.User.FirstName+" "+b.User.LastName), "-")
		email = safe(b.User.Email, "-")
		mobile = safe(b.User.Mobile, "-")
	}
	facility, ftype := "-", "-"
	if b.Facility != nil {
		facility = safe(b.Facility.Name, "-")
		ftype = safe(string(b.Facility.Type), "-")
	}
	nights := 1
	if in, err := utils.ParseDate(b.CheckIn); err == nil {
		if out, err := utils.ParseDate(b.CheckOut); err == nil {
			nights = domain.Nights(in, out)
		}
	}

	lines := []string{
		fmt.Sprintf("Guest      : %s", guest),
		fmt.Sprintf("Email      : %s", email),
		fmt.Sprintf("Contact    : %s", safe(b.ContactPhone, mobile)),
		fmt.Sprintf("Facility   : %s (%s)", facility, ftype),
		fmt.Sprintf("Check-in   : %s", safe(b.CheckIn, "-")),
		fmt.Sprintf("Check-out  : %s", safe(b.CheckOut, "-")),
		fmt.Sprintf("Nights     : %d", nights),
		fmt.Sprintf("Guests     : %d", b.Guests),
		fmt.Sprintf("Status     : %s", b.Status.Label()),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	// core fonts are cp1252, which has no peso sign
	pdf.Cell(0, 8, "Total: PHP "+utils.FormatMoney(b.Total))
	pdf.Ln(8)

	if strings.TrimSpace(b.Notes) != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, "Notes: "+b.Notes, "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("CONFIRMATION_%s.pdf", code), nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
