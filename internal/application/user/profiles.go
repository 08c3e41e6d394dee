package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auraestate-backend/internal/domain"
	"auraestate-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TenantProfileInput replaces the renter profile; omitted fields are cleared.
type TenantProfileInput struct {
	Occupation         *string    `json:"occupation" validate:"omitempty,max=100"`
	Employer           *string    `json:"employer" validate:"omitempty,max=100"`
	AnnualIncome       *float64   `json:"annualIncome" validate:"omitnil,gte=0"`
	CreditScore        *int       `json:"creditScore" validate:"omitnil,gte=300,lte=850"`
	HasPets            bool       `json:"hasPets"`
	PetDetails         *string    `json:"petDetails" validate:"omitempty,max=500"`
	MoveInDate         *time.Time `json:"moveInDate"`
	PreferredLeaseTerm *int       `json:"preferredLeaseTerm" validate:"omitnil,gte=0"`
}

// LandlordProfileInput replaces the landlord profile; omitted fields are cleared.
type LandlordProfileInput struct {
	CompanyName     *string `json:"companyName" validate:"omitempty,max=150"`
	BusinessLicense *string `json:"businessLicense" validate:"omitempty,max=100"`
	YearsExperience *int    `json:"yearsExperience" validate:"omitnil,gte=0"`
	Bio             *string `json:"bio" validate:"omitempty,max=2000"`
}

func (s *Service) requireUser(ctx context.Context, id uuid.UUID) error {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// upsert inserts row or overwrites columns of the user's existing row, then
// reloads it into out.
func (s *Service) upsert(ctx context.Context, userID uuid.UUID, row, out interface{}, columns []string) error {
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(append(columns, "updated_at")),
	}).Create(row).Error
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Where("user_id = ?", userID).First(out).Error
}

// UpdateTenantProfile creates or replaces the user's renter profile.
func (s *Service) UpdateTenantProfile(ctx context.Context, userID uuid.UUID, in TenantProfileInput) (*domain.TenantProfile, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	row := &domain.TenantProfile{
		UserID:             userID,
		Occupation:         in.Occupation,
		Employer:           in.Employer,
		AnnualIncome:       in.AnnualIncome,
		CreditScore:        in.CreditScore,
		HasPets:            in.HasPets,
		PetDetails:         in.PetDetails,
		MoveInDate:         in.MoveInDate,
		PreferredLeaseTerm: in.PreferredLeaseTerm,
	}
	var out domain.TenantProfile
	if err := s.upsert(ctx, userID, row, &out, []string{
		"occupation", "employer", "annual_income", "credit_score", "has_pets",
		"pet_details", "move_in_date", "preferred_lease_term",
	}); err != nil {
		return nil, fmt.Errorf("Failed to update tenant profile: %w", err)
	}
	return &out, nil
}

// UpdateLandlordProfile creates or replaces the user's landlord profile.
// Verification flags are never set from here.
func (s *Service) UpdateLandlordProfile(ctx context.Context, userID uuid.UUID, in LandlordProfileInput) (*domain.LandlordProfile, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	row := &domain.LandlordProfile{
		UserID:          userID,
		CompanyName:     in.CompanyName,
		BusinessLicense: in.BusinessLicense,
		YearsExperience: in.YearsExperience,
		Bio:             in.Bio,
	}
	var out domain.LandlordProfile
	if err := s.upsert(ctx, userID, row, &out, []string{
		"company_name", "business_license", "years_experience", "bio",
	}); err != nil {
		return nil, fmt.Errorf("Failed to update landlord profile: %w", err)
	}
	return &out, nil
}

// roleProfiles loads whichever of the two profiles exist.
func (s *Service) roleProfiles(ctx context.Context, userID uuid.UUID, p *Profile) error {
	var tenant domain.TenantProfile
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&tenant).Error
	switch {
	case err == nil:
		p.TenantProfile = &tenant
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}
	var landlord domain.LandlordProfile
	err = s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&landlord).Error
	switch {
	case err == nil:
		p.LandlordProfile = &landlord
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}
	return nil
}
