package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"resort/internal/domain"
	"resort/internal/domain/models"
	"resort/internal/repositories"
	"resort/internal/utils"
)

// MaxMessageLength is counted in characters, not bytes.
const MaxMessageLength = 10000

type Contact struct {
	ID             int64       `json:"id"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	Email          string      `json:"email"`
	Role           domain.Role `json:"role"`
	ProfilePicture string      `json:"profile_picture,omitempty"`
}

func contactOf(u models.User) Contact {
	return Contact{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Role:           u.Role,
		ProfilePicture: u.ProfilePicture,
	}
}

type Conversation struct {
	User        Contact         `json:"user"`
	LastMessage *models.Message `json:"lastMessage"`
	Unread      int             `json:"unread"`
}

type Thread struct {
	With     Contact          `json:"with"`
	Messages []models.Message `json:"messages"`
	Marked   int64            `json:"marked"`
}

type MessageService struct {
	Messages  repositories.MessageRepository
	Users     repositories.UserRepository
	RequestID string
}

// counterpart loads the other user and checks the actor may talk to them:
// guests only converse with admins.
func (s MessageService) counterpart(ctx context.Context, actor domain.Actor, otherID int64) (models.User, error) {
	if otherID == actor.UserID {
		return models.User{}, domain.ValidationError{Field: "recipientId", Msg: "cannot message yourself"}
	}
	other, err := s.Users.GetByID(ctx, otherID)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.User{}, domain.NotFoundError{Resource: "recipient", Err: err}
		}
		return models.User{}, domain.InternalError{Msg: "load recipient", Err: err}
	}
	if !actor.IsAdmin() && other.Role != domain.RoleAdmin {
		return models.User{}, domain.AuthorizationError{Msg: "guests can only message staff"}
	}
	return other, nil
}

func (s MessageService) Send(ctx context.Context, actor domain.Actor, recipientID int64, content string) (models.Message, error) {
	if err := domain.RequireActor(actor); err != nil {
		return models.Message{}, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, domain.ValidationError{Field: "content", Msg: "message must not be empty"}
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return models.Message{}, domain.ValidationError{Field: "content", Msg: fmt.Sprintf("message must be at most %d characters", MaxMessageLength)}
	}
	if recipientID <= 0 {
		return models.Message{}, domain.ValidationError{Field: "recipientId", Msg: "recipient is required"}
	}
	if _, err := s.counterpart(ctx, actor, recipientID); err != nil {
		return models.Message{}, err
	}

	m := models.Message{SenderID: actor.UserID, RecipientID: recipientID, Content: content}
	id, err := s.Messages.Create(ctx, m)
	if err != nil {
		return models.Message{}, domain.InternalError{Msg: "send message", Err: err}
	}
	m.ID = id
	m.CreatedAt = utils.NowUTC()
	utils.LogEvent(s.RequestID, "message", "send", fmt.Sprintf("message_id=%d from=%d to=%d", id, actor.UserID, recipientID))
	return m, nil
}

// Conversations lists every guest for an admin, and the staff account for a
// guest, each with the latest message and unread count.
func (s MessageService) Conversations(ctx context.Context, actor domain.Actor) ([]Conversation, error) {
	if err := domain.RequireActor(actor); err != nil {
		return nil, err
	}
	var people []models.User
	if actor.IsAdmin() {
		guests, err := s.Users.ListByRole(ctx, domain.RoleGuest)
		if err != nil {
			return nil, domain.InternalError{Msg: "list guests", Err: err}
		}
		people = guests
	} else {
		admin, err := s.Users.FirstAdmin(ctx)
		if err != nil {
			if domain.IsNotFound(err) {
				return []Conversation{}, nil
			}
			return nil, domain.InternalError{Msg: "load admin", Err: err}
		}
		people = []models.User{admin}
	}

	out := make([]Conversation, 0, len(people))
	for _, p := range people {
		c := Conversation{User: contactOf(p)}
		last, ok, err := s.Messages.LastBetween(ctx, actor.UserID, p.ID)
		if err != nil {
			return nil, domain.InternalError{Msg: "load last message", Err: err}
		}
		if ok {
			c.LastMessage = &last
		}
		if c.Unread, err = s.Messages.UnreadFrom(ctx, p.ID, actor.UserID); err != nil {
			return nil, domain.InternalError{Msg: "count unread", Err: err}
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].LastMessage, out[j].LastMessage
		if a == nil || b == nil {
			return a != nil
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out, nil
}

// MarkConversationRead flags messages from otherID to the actor as read and
// returns how many changed.
func (s MessageService) MarkConversationRead(ctx context.Context, actor domain.Actor, otherID int64) (int64, error) {
	if err := domain.RequireActor(actor); err != nil {
		return 0, err
	}
	n, err := s.Messages.MarkRead(ctx, otherID, actor.UserID)
	if err != nil {
		return 0, domain.InternalError{Msg: "mark read", Err: err}
	}
	return n, nil
}

// ConversationWith marks the thread read first and then lists it, so calling
// it twice returns the same messages.
func (s MessageService) ConversationWith(ctx context.Context, actor domain.Actor, otherID int64) (Thread, error) {
	if err := domain.RequireActor(actor); err != nil {
		return Thread{}, err
	}
	other, err := s.counterpart(ctx, actor, otherID)
	if err != nil {
		return Thread{}, err
	}
	marked, err := s.MarkConversationRead(ctx, actor, otherID)
	if err != nil {
		return Thread{}, err
	}
	msgs, err := s.Messages.Thread(ctx, actor.UserID, otherID)
	if err != nil {
		return Thread{}, domain.InternalError{Msg: "load thread", Err: err}
	}
	return Thread{With: contactOf(other), Messages: msgs, Marked: marked}, nil
}

func (s MessageService) UnreadCount(ctx context.Context, actor domain.Actor) (int, error) {
	if err := domain.RequireActor(actor); err != nil {
		return 0, err
	}
	n, err := s.Messages.UnreadCount(ctx, actor.UserID)
	if err != nil {
		return 0, domain.InternalError{Msg: "count unread", Err: err}
	}
	return n, nil
}
