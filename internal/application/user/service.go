package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"auraestate-backend/internal/domain"
	"auraestate-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("User not found")

const recentSavedLimit = 10

type Service struct {
	DB *gorm.DB
}

type Counts struct {
	SavedProperties int64 `json:"savedProperties"`
	Applications    int64 `json:"applications"`
	Properties      int64 `json:"properties"`
}

// Profile is the signed-in user's account with activity counts and latest saves.
type Profile struct {
	domain.User
	SavedProperties []domain.SavedProperty  `json:"savedProperties"`
	TenantProfile   *domain.TenantProfile   `json:"tenantProfile"`
	LandlordProfile *domain.LandlordProfile `json:"landlordProfile"`
	Count           Counts                  `json:"_count"`
}

// UpdateProfileInput is a partial update. Nil fields are left unchanged.
type UpdateProfileInput struct {
	FirstName *string `json:"firstName" validate:"omitnil,min=1,max=100"`
	LastName  *string `json:"lastName" validate:"omitnil,min=1,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Avatar    *string `json:"avatar" validate:"omitempty,url"`
}

// Profile loads the user with counts, role profiles and the ten most recent saves.
func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("Failed to get profile: %w", err)
	}

	out := &Profile{User: u}
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		return s.DB.WithContext(ctx).
			Preload("Property").
			Preload("Property.Images", func(db *gorm.DB) *gorm.DB { return db.Where("is_primary = ?", true) }).
			Where("user_id = ?", id).
			Order("saved_at DESC, id ASC").
			Limit(recentSavedLimit).
			Find(&out.SavedProperties).Error
	})
	p.Go(func(ctx context.Context) error {
		return s.roleProfiles(ctx, id, out)
	})
	p.Go(func(ctx context.Context) error {
		return s.DB.WithContext(ctx).Model(&domain.SavedProperty{}).Where("user_id = ?", id).Count(&out.Count.SavedProperties).Error
	})
	p.Go(func(ctx context.Context) error {
		return s.DB.WithContext(ctx).Model(&domain.Application{}).Where("user_id = ?", id).Count(&out.Count.Applications).Error
	})
	p.Go(func(ctx context.Context) error {
		return s.DB.WithContext(ctx).Model(&domain.Property{}).Where("owner_id = ?", id).Count(&out.Count.Properties).Error
	})
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("Failed to get profile: %w", err)
	}
	if out.SavedProperties == nil {
		out.SavedProperties = []domain.SavedProperty{}
	}
	return out, nil
}

// UpdateProfile trims and validates the provided fields and stores them.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*domain.User, error) {
	for _, f := range []*string{in.FirstName, in.LastName, in.Phone, in.Avatar} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Avatar != nil {
		updates["avatar"] = *in.Avatar
	}

	var u domain.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			res := tx.Model(&domain.User{}).Where("id = ?", id).Updates(updates)
			if res.Error != nil {
				return fmt.Errorf("Failed to update profile: %w", res.Error)
			}
		}
		if err := tx.Where("id = ?", id).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}
