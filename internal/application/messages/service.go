// Package messages is direct messaging between users. A conversation is the set
// of messages between two users about one listing (or about no listing).
package messages

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"auraestate-backend/internal/application/notifications"
	"auraestate-backend/internal/domain"
	"auraestate-backend/internal/pkg/listquery"
	"auraestate-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"gorm.io/gorm"
)

const (
	DefaultThreadLimit = 50
	MaxThreadLimit     = 100
)

type Service struct {
	DB *gorm.DB
}

// Participant is the other side of a conversation.
type Participant struct {
	ID         uuid.UUID   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FirstName  string      `gorm:"column:first_name" json:"firstName"`
	LastName   string      `gorm:"column:last_name" json:"lastName"`
	Avatar     *string     `gorm:"column:avatar" json:"avatar"`
	Role       domain.Role `gorm:"column:role" json:"role"`
	IsVerified bool        `gorm:"-" json:"isVerified"`
}

func (Participant) TableName() string {
	return "users"
}

type Conversation struct {
	OtherUser   *Participant            `json:"otherUser"`
	Property    *domain.PropertySummary `json:"property"`
	LastMessage domain.Message          `json:"lastMessage"`
	UnreadCount int                     `json:"unreadCount"`

	otherID uuid.UUID
}

type SendInput struct {
	ReceiverID uuid.UUID  `json:"receiverId" validate:"required"`
	Content    string     `json:"content" validate:"required,max=5000"`
	PropertyID *uuid.UUID `json:"propertyId"`
}

// ThreadQuery selects a page of one conversation. Zero values use the defaults.
type ThreadQuery struct {
	PropertyID *uuid.UUID
	Page       int
	Limit      int
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type Thread struct {
	Messages   []domain.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

func (q ThreadQuery) page() listquery.Query {
	out := listquery.Query{Page: q.Page, Limit: q.Limit}
	if out.Page < 1 {
		out.Page = 1
	}
	out.Page = min(out.Page, listquery.MaxPage)
	if out.Limit < 1 {
		out.Limit = DefaultThreadLimit
	}
	out.Limit = min(out.Limit, MaxThreadLimit)
	return out
}

// Conversations lists the user's conversations, most recently active first.
func (s *Service) Conversations(ctx context.Context, me uuid.UUID) ([]Conversation, error) {
	var all []domain.Message
	if err := s.DB.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", me, me).
		Order("created_at DESC, id DESC").
		Find(&all).Error; err != nil {
		return nil, fmt.Errorf("Failed to get conversations: %w", err)
	}

	type key struct {
		other    uuid.UUID
		property uuid.UUID
	}
	index := map[key]int{}
	convs := []Conversation{}
	for _, m := range all {
		k := key{other: m.SenderID}
		if k.other == me {
			k.other = m.ReceiverID
		}
		if m.PropertyID != nil {
			k.property = *m.PropertyID
		}
		i, ok := index[k]
		if !ok {
			i = len(convs)
			index[k] = i
			convs = append(convs, Conversation{LastMessage: m, otherID: k.other})
		}
		if m.ReceiverID == me && !m.IsRead {
			convs[i].UnreadCount++
		}
	}
	if len(convs) == 0 {
		return convs, nil
	}

	var userIDs, propertyIDs []uuid.UUID
	for _, c := range convs {
		if !slices.Contains(userIDs, c.otherID) {
			userIDs = append(userIDs, c.otherID)
		}
		if pid := c.LastMessage.PropertyID; pid != nil && !slices.Contains(propertyIDs, *pid) {
			propertyIDs = append(propertyIDs, *pid)
		}
	}

	var (
		people   []Participant
		verified []uuid.UUID
		props    []domain.PropertySummary
	)
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		return s.DB.WithContext(ctx).Where("id IN ?", userIDs).Find(&people).Error
	})
	p.Go(func(ctx context.Context) error {
		return s.DB.WithContext(ctx).Model(&domain.LandlordProfile{}).
			Where("user_id IN ? AND is_verified = ?", userIDs, true).
			Pluck("user_id", &verified).Error
	})
	if len(propertyIDs) > 0 {
		p.Go(func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Where("id IN ?", propertyIDs).Find(&props).Error
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("Failed to get conversations: %w", err)
	}

	byUser := make(map[uuid.UUID]*Participant, len(people))
	for i := range people {
		people[i].IsVerified = slices.Contains(verified, people[i].ID)
		byUser[people[i].ID] = &people[i]
	}
	byProperty := make(map[uuid.UUID]*domain.PropertySummary, len(props))
	for i := range props {
		byProperty[props[i].ID] = &props[i]
	}
	for i := range convs {
		convs[i].OtherUser = byUser[convs[i].otherID]
		if pid := convs[i].LastMessage.PropertyID; pid != nil {
			convs[i].Property = byProperty[*pid]
		}
	}
	return convs, nil
}

func between(db *gorm.DB, me, other uuid.UUID) *gorm.DB {
	return db.Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))", me, other, other, me)
}

// Thread returns one page of the conversation with other in chronological
// order, then marks other's messages to me as read.
func (s *Service) Thread(ctx context.Context, me, other uuid.UUID, q ThreadQuery) (*Thread, error) {
	pq := q.page()
	scope := func(db *gorm.DB) *gorm.DB {
		db = between(db, me, other)
		if q.PropertyID != nil {
			db = db.Where("property_id = ?", *q.PropertyID)
		}
		return db
	}

	out := &Thread{Messages: []domain.Message{}}
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		return scope(s.DB.WithContext(ctx)).
			Preload("Sender").
			Preload("Property").
			Order("created_at DESC, id DESC").
			Offset(pq.Offset()).Limit(pq.Limit).
			Find(&out.Messages).Error
	})
	p.Go(func(ctx context.Context) error {
		return scope(s.DB.WithContext(ctx).Model(&domain.Message{})).Count(&out.Pagination.Total).Error
	})
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("Failed to get messages: %w", err)
	}
	slices.Reverse(out.Messages)
	out.Pagination.Page = pq.Page
	out.Pagination.Limit = pq.Limit
	out.Pagination.Pages = pq.Pages(out.Pagination.Total)

	mark := s.DB.WithContext(ctx).Model(&domain.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", other, me, false)
	if q.PropertyID != nil {
		mark = mark.Where("property_id = ?", *q.PropertyID)
	}
	if err := mark.Updates(map[string]interface{}{"is_read": true, "read_at": time.Now()}).Error; err != nil {
		return nil, fmt.Errorf("Failed to mark messages read: %w", err)
	}
	return out, nil
}

// Send stores a message and notifies the receiver.
func (s *Service) Send(ctx context.Context, sender uuid.UUID, in SendInput) (*domain.Message, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)

	var n int64
	if err := db.Model(&domain.User{}).Where("id = ?", in.ReceiverID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrRecipientNotFound
	}
	if in.ReceiverID == sender {
		return nil, ErrSelfMessage
	}
	if in.PropertyID != nil {
		if err := db.Model(&domain.Property{}).Where("id = ?", *in.PropertyID).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrPropertyNotFound
		}
	}
	var from domain.User
	if err := db.Where("id = ?", sender).First(&from).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	msg := &domain.Message{
		SenderID:   sender,
		ReceiverID: in.ReceiverID,
		PropertyID: in.PropertyID,
		Content:    in.Content,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return fmt.Errorf("Failed to send message: %w", err)
		}
		return notifications.Notify(tx, in.ReceiverID, domain.NotificationMessage,
			"New Message",
			fmt.Sprintf("%s %s sent you a message", from.FirstName, from.LastName),
			"/messages")
	})
	if err != nil {
		return nil, err
	}

	var saved domain.Message
	if err := db.Preload("Sender").Preload("Property").Where("id = ?", msg.ID).First(&saved).Error; err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Str("message_id", saved.ID.String()).Str("receiver_id", in.ReceiverID.String()).Msg("message sent")
	return &saved, nil
}

// UnreadCount is the number of unread messages addressed to the user.
func (s *Service) UnreadCount(ctx context.Context, me uuid.UUID) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&domain.Message{}).
		Where("receiver_id = ? AND is_read = ?", me, false).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("Failed to get unread count: %w", err)
	}
	return n, nil
}

// MarkRead marks one message as read. Only its receiver may do so.
func (s *Service) MarkRead(ctx context.Context, me, id uuid.UUID) (*domain.Message, error) {
	var m domain.Message
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if m.ReceiverID != me {
		return nil, ErrNotAuthorized
	}
	now := time.Now()
	if err := s.DB.WithContext(ctx).Model(&m).Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
		return nil, fmt.Errorf("Failed to mark as read: %w", err)
	}
	m.IsRead = true
	m.ReadAt = &now
	return &m, nil
}
