package saved

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"auraestate-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service manages a user's saved listings and keeps properties.save_count in step.
type Service struct {
	DB *gorm.DB
	// OnChange runs after a successful save or unsave (listing cache invalidation).
	OnChange func(ctx context.Context)
}

// List returns the user's saved listings, most recently saved first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]domain.SavedProperty, error) {
	var saved []domain.SavedProperty
	err := s.DB.WithContext(ctx).
		Preload("Property").
		Preload("Property.Images", func(db *gorm.DB) *gorm.DB { return db.Order("display_order ASC") }).
		Preload("Property.Features").
		Where("user_id = ?", userID).
		Order("saved_at DESC, id ASC").
		Find(&saved).Error
	if err != nil {
		return nil, fmt.Errorf("Failed to get saved properties: %w", err)
	}
	for i := range saved {
		if saved[i].Property != nil {
			saved[i].Property.IsSaved = true
		}
	}
	return saved, nil
}

// Save records the bookmark and increments save_count in one transaction.
// A second save of the same listing is rejected and leaves the counter alone.
func (s *Service) Save(ctx context.Context, userID, propertyID uuid.UUID, notes *string) (*domain.SavedProperty, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.Property{}).Where("id = ?", propertyID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrPropertyNotFound
	}

	sp := &domain.SavedProperty{UserID: userID, PropertyID: propertyID, Notes: notes}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&domain.SavedProperty{}).
			Where("user_id = ? AND property_id = ?", userID, propertyID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadySaved
		}
		if err := tx.Create(sp).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadySaved
			}
			return fmt.Errorf("Failed to save property: %w", err)
		}
		return tx.Model(&domain.Property{}).Where("id = ?", propertyID).
			UpdateColumn("save_count", gorm.Expr("save_count + ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	log.Ctx(ctx).Info().Str("user_id", userID.String()).Str("property_id", propertyID.String()).Msg("property saved")
	return sp, nil
}

// Unsave removes the bookmark and decrements save_count, never below zero.
func (s *Service) Unsave(ctx context.Context, userID, propertyID uuid.UUID) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND property_id = ?", userID, propertyID).Delete(&domain.SavedProperty{})
		if res.Error != nil {
			return fmt.Errorf("Failed to unsave property: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrSavedNotFound
		}
		return tx.Model(&domain.Property{}).Where("id = ? AND save_count > 0", propertyID).
			UpdateColumn("save_count", gorm.Expr("save_count - ?", 1)).Error
	})
	if err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *Service) changed(ctx context.Context) {
	if s.OnChange != nil {
		s.OnChange(ctx)
	}
}

// isUniqueViolation catches the race where two saves pass the existence check together.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
