package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ViewingType string

const (
	ViewingInPerson   ViewingType = "IN_PERSON"
	ViewingVideoCall  ViewingType = "VIDEO_CALL"
	ViewingSelfGuided ViewingType = "SELF_GUIDED"
)

type ViewingStatus string

const (
	ViewingScheduled ViewingStatus = "SCHEDULED"
	ViewingCompleted ViewingStatus = "COMPLETED"
	ViewingCancelled ViewingStatus = "CANCELLED"
)

// Viewing is a requested tour of a listing.
type Viewing struct {
	ID          uuid.UUID     `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID     `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	PropertyID  uuid.UUID     `gorm:"column:property_id;type:uuid;not null;index" json:"propertyId"`
	ScheduledAt time.Time     `gorm:"column:scheduled_at;not null" json:"scheduledAt"`
	Type        ViewingType   `gorm:"column:type;type:varchar(20);not null;default:'IN_PERSON'" json:"type"`
	Status      ViewingStatus `gorm:"column:status;type:varchar(20);not null;default:'SCHEDULED'" json:"status"`
	Notes       *string       `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt   time.Time     `gorm:"column:created_at" json:"createdAt"`
}

func (Viewing) TableName() string {
	return "viewing_schedules"
}

func (v *Viewing) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
