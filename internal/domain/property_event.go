package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EventCreated       = "CREATED"
	EventUpdated       = "UPDATED"
	EventStatusChanged = "STATUS_CHANGED"
)

// PropertyEvent is an append-only audit record of listing changes.
type PropertyEvent struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PropertyID uuid.UUID      `gorm:"column:property_id;type:uuid;not null;index" json:"propertyId"`
	EventType  string         `gorm:"column:event_type;type:varchar(30);not null" json:"eventType"`
	EventData  datatypes.JSON `gorm:"column:event_data;type:jsonb;not null" json:"eventData"`
	ActorID    *uuid.UUID     `gorm:"column:actor_id;type:uuid" json:"actorId"`
	CreatedAt  time.Time      `gorm:"column:created_at" json:"createdAt"`
}

func (PropertyEvent) TableName() string {
	return "property_events"
}

func (e *PropertyEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
