package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationApplicationUpdate = "APPLICATION_UPDATE"
	NotificationMessage           = "MESSAGE"
	NotificationViewingReminder   = "VIEWING_REMINDER"
	NotificationSystem            = "SYSTEM"
)

type Notification struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	Type      string    `gorm:"column:type;type:varchar(30);not null" json:"type"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	Message   string    `gorm:"column:message;type:text;not null" json:"message"`
	Link      *string   `gorm:"column:link" json:"link"`
	IsRead    bool      `gorm:"column:is_read;not null;default:false" json:"isRead"`
	CreatedAt time.Time `gorm:"column:created_at;index" json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
