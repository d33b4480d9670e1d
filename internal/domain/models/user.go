package models

import (
	"strings"
	"time"

	"resort/internal/domain"
)

type User struct {
	ID             int64       `json:"id"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	Email          string      `json:"email"`
	Mobile         string      `json:"mobile"`
	Province       string      `json:"province"`
	City           string      `json:"city"`
	Barangay       string      `json:"barangay"`
	Street         string      `json:"street"`
	PasswordHash   string      `json:"-"`
	ProfilePicture string      `json:"profile_picture,omitempty"`
	SecQuestion1   string      `json:"-"`
	SecAnswer1     string      `json:"-"`
	SecQuestion2   string      `json:"-"`
	SecAnswer2     string      `json:"-"`
	Role           domain.Role `json:"role"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Address joins the address parts the way the QR payload shows them.
func (u User) Address() string {
	parts := []string{}
	for _, p := range []string{u.Street, u.Barangay, u.City, u.Province} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, "Philippines")
	return strings.Join(parts, ", ")
}

func (u User) Actor() domain.Actor {
	return domain.Actor{
		UserID:    u.ID,
		Role:      u.Role,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// UserSummary is the owner projection attached to booking listings.
type UserSummary struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Mobile    string `json:"mobile"`
}

func (u User) Summary() *UserSummary {
	return &UserSummary{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Mobile: u.Mobile}
}

// ProfileUpdate carries self-service profile fields.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Email     string
	Mobile    string
	Province  string
	City      string
	Barangay  string
	Street    string
}
