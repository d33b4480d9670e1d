package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"resort/internal/domain"
	"resort/internal/domain/models"
	"resort/internal/repositories"
	"resort/internal/session"
	"resort/internal/utils"
)

const bcryptCost = 10

var errInvalidCredentials = domain.AuthenticationError{Msg: "invalid credentials"}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// unknownEmailHash is compared against when the email does not exist, so both
// failure paths spend a bcrypt comparison.
func unknownEmailHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("resort-placeholder-password"), bcryptCost)
	})
	return dummyHash
}

func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// randomSecret is the unusable password of guests created on their behalf.
func randomSecret() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

type RegisterInput struct {
	FirstName    string `json:"first_name" validate:"required,max=100"`
	LastName     string `json:"last_name" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email,max=255"`
	Mobile       string `json:"mobile" validate:"required,max=50"`
	Province     string `json:"province" validate:"required,max=100"`
	City         string `json:"city" validate:"required,max=100"`
	Barangay     string `json:"barangay" validate:"required,max=100"`
	Street       string `json:"street" validate:"max=255"`
	Password     string `json:"password" validate:"required,min=6,max=72"`
	SecQuestion1 string `json:"sec_question_1" validate:"required"`
	SecAnswer1   string `json:"sec_answer_1" validate:"required"`
	SecQuestion2 string `json:"sec_question_2" validate:"required"`
	SecAnswer2   string `json:"sec_answer_2" validate:"required"`
}

type ProfileInput struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Mobile    string `json:"mobile" validate:"max=50"`
	Province  string `json:"province" validate:"max=100"`
	City      string `json:"city" validate:"max=100"`
	Barangay  string `json:"barangay" validate:"max=100"`
	Street    string `json:"street" validate:"max=255"`
}

type AuthService struct {
	Users     repositories.UserRepository
	Sessions  session.Store
	RequestID string
}

func (s AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	in.FirstName = utils.NormalizeSpace(in.FirstName)
	in.LastName = utils.NormalizeSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Mobile = strings.TrimSpace(in.Mobile)
	if err := validateStruct(in); err != nil {
		return models.User{}, err
	}

	taken, err := s.Users.EmailTaken(ctx, in.Email, 0)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "check email", Err: err}
	}
	if taken {
		return models.User{}, domain.ConflictError{Resource: "user", Msg: "email already registered"}
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "hash password", Err: err}
	}
	u := models.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Mobile:       in.Mobile,
		Province:     strings.TrimSpace(in.Province),
		City:         strings.TrimSpace(in.City),
		Barangay:     strings.TrimSpace(in.Barangay),
		Street:       strings.TrimSpace(in.Street),
		PasswordHash: hash,
		SecQuestion1: in.SecQuestion1,
		SecAnswer1:   in.SecAnswer1,
		SecQuestion2: in.SecQuestion2,
		SecAnswer2:   in.SecAnswer2,
		Role:         domain.RoleGuest,
	}
	id, err := s.Users.Create(ctx, u)
	if err != nil {
		if domain.IsConflict(err) {
			return models.User{}, err
		}
		return models.User{}, domain.InternalError{Msg: "create user", Err: err}
	}
	u.ID = id
	utils.LogEvent(s.RequestID, "auth", "register", "user_id="+itoa(id))
	return u, nil
}

// Authenticate checks credentials. Unknown email and wrong password fail
// identically.
func (s AuthService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.User{}, errInvalidCredentials
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			_ = bcrypt.CompareHashAndPassword(unknownEmailHash(), []byte(password))
			return models.User{}, errInvalidCredentials
		}
		return models.User{}, domain.InternalError{Msg: "load user", Err: err}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return models.User{}, errInvalidCredentials
	}
	return u, nil
}

// Login authenticates and opens a session, returning its token.
func (s AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		utils.LogEvent(s.RequestID, "auth", "login_failed", "email="+strings.ToLower(strings.TrimSpace(email)))
		return "", models.User{}, err
	}
	token := session.NewToken()
	data := session.Data{UserID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
	if err := s.Sessions.Save(ctx, token, data); err != nil {
		return "", models.User{}, domain.InternalError{Msg: "save session", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "login", "user_id="+itoa(u.ID))
	return token, u, nil
}

// Logout never fails for missing or expired sessions.
func (s AuthService) Logout(ctx context.Context, token string) error {
	if token == "" || s.Sessions == nil {
		return nil
	}
	if err := s.Sessions.Delete(ctx, token); err != nil && !errors.Is(err, session.ErrNotFound) {
		utils.LogError(s.RequestID, "auth", "logout", err)
	}
	return nil
}

// CurrentActor resolves a session token into an Actor. The role is read from
// the users table on every call.
func (s AuthService) CurrentActor(ctx context.Context, token string) (domain.Actor, error) {
	if token == "" {
		return domain.Actor{}, domain.AuthenticationError{}
	}
	data, err := s.Sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return domain.Actor{}, domain.AuthenticationError{Msg: "session expired"}
		}
		return domain.Actor{}, domain.InternalError{Msg: "load session", Err: err}
	}
	u, err := s.Users.GetByID(ctx, data.UserID)
	if err != nil {
		if domain.IsNotFound(err) {
			_ = s.Sessions.Delete(ctx, token)
			return domain.Actor{}, domain.AuthenticationError{Msg: "session expired"}
		}
		return domain.Actor{}, domain.InternalError{Msg: "load user", Err: err}
	}
	return u.Actor(), nil
}

func (s AuthService) Profile(ctx context.Context, actor domain.Actor) (models.User, error) {
	if err := domain.RequireActor(actor); err != nil {
		return models.User{}, err
	}
	return s.Users.GetByID(ctx, actor.UserID)
}

func (s AuthService) UpdateProfile(ctx context.Context, actor domain.Actor, in ProfileInput) (models.User, error) {
	if err := domain.RequireActor(actor); err != nil {
		return models.User{}, err
	}
	in.FirstName = utils.NormalizeSpace(in.FirstName)
	in.LastName = utils.NormalizeSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return models.User{}, err
	}

	taken, err := s.Users.EmailTaken(ctx, in.Email, actor.UserID)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "check email", Err: err}
	}
	if taken {
		return models.User{}, domain.ConflictError{Resource: "user", Msg: "email already registered"}
	}

	if err := s.Users.UpdateProfile(ctx, actor.UserID, models.ProfileUpdate{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Mobile:    strings.TrimSpace(in.Mobile),
		Province:  strings.TrimSpace(in.Province),
		City:      strings.TrimSpace(in.City),
		Barangay:  strings.TrimSpace(in.Barangay),
		Street:    strings.TrimSpace(in.Street),
	}); err != nil {
		if domain.IsConflict(err) {
			return models.User{}, err
		}
		return models.User{}, domain.InternalError{Msg: "update profile", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "update_profile", "user_id="+itoa(actor.UserID))
	return s.Users.GetByID(ctx, actor.UserID)
}

// SetProfilePicture records an already stored image URL on the user.
func (s AuthService) SetProfilePicture(ctx context.Context, actor domain.Actor, url string) (models.User, error) {
	if err := domain.RequireActor(actor); err != nil {
		return models.User{}, err
	}
	if strings.TrimSpace(url) == "" {
		return models.User{}, domain.ValidationError{Field: "image", Msg: "image is required"}
	}
	if err := s.Users.UpdatePicture(ctx, actor.UserID, url); err != nil {
		return models.User{}, domain.InternalError{Msg: "update picture", Err: err}
	}
	return s.Users.GetByID(ctx, actor.UserID)
}
