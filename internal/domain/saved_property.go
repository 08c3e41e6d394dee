package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedProperty links a user to a property they bookmarked. (user_id, property_id) is unique.
type SavedProperty struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_saved_user_property" json:"userId"`
	PropertyID uuid.UUID `gorm:"column:property_id;type:uuid;not null;uniqueIndex:idx_saved_user_property" json:"propertyId"`
	Notes      *string   `gorm:"column:notes" json:"notes"`
	SavedAt    time.Time `gorm:"column:saved_at;autoCreateTime" json:"savedAt"`
	Property   *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

func (SavedProperty) TableName() string {
	return "saved_properties"
}

func (s *SavedProperty) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
