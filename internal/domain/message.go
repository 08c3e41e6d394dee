package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PropertySummary is the listing reference carried by messages.
type PropertySummary struct {
	ID    uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title string    `gorm:"column:title" json:"title"`
}

func (PropertySummary) TableName() string {
	return "properties"
}

// Message is a direct message between two users, optionally about a listing.
type Message struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SenderID   uuid.UUID  `gorm:"column:sender_id;type:uuid;not null;index" json:"senderId"`
	ReceiverID uuid.UUID  `gorm:"column:receiver_id;type:uuid;not null;index" json:"receiverId"`
	PropertyID *uuid.UUID `gorm:"column:property_id;type:uuid;index" json:"propertyId"`
	Content    string     `gorm:"column:content;type:text;not null" json:"content"`
	IsRead     bool       `gorm:"column:is_read;not null;default:false" json:"isRead"`
	ReadAt     *time.Time `gorm:"column:read_at" json:"readAt"`
	CreatedAt  time.Time  `gorm:"column:created_at;index" json:"createdAt"`

	Sender   *UserSummary     `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Property *PropertySummary `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
