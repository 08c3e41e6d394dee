package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auraestate-backend/internal/application/notifications"
	"auraestate-backend/internal/domain"
	"auraestate-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
	// OnChange runs after a submission changes a listing's inquiry count.
	OnChange func(ctx context.Context)
}

type SubmitInput struct {
	PropertyID    uuid.UUID  `json:"propertyId" validate:"required"`
	Message       *string    `json:"message" validate:"omitempty,max=5000"`
	MoveInDate    *time.Time `json:"moveInDate"`
	LeaseTerm     *int       `json:"leaseTerm" validate:"omitempty,gte=0"`
	OfferedPrice  *float64   `json:"offeredPrice" validate:"omitempty,gte=0"`
	IsPreApproved bool       `json:"isPreApproved"`
	FinancingType *string    `json:"financingType"`
}

// Filter narrows application lists. Zero values mean "any".
type Filter struct {
	Status     domain.ApplicationStatus
	PropertyID uuid.UUID
}

func withProperty(db *gorm.DB) *gorm.DB {
	return db.Preload("Property").
		Preload("Property.Images", func(db *gorm.DB) *gorm.DB { return db.Where("is_primary = ?", true) })
}

// ListMine returns the applications the user has submitted, newest first.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, f Filter) ([]domain.Application, error) {
	db := withProperty(s.DB.WithContext(ctx)).Where("user_id = ?", userID)
	if f.Status != "" {
		db = db.Where("status = ?", string(f.Status))
	}
	var out []domain.Application
	if err := db.Order("submitted_at DESC, id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("Failed to get applications: %w", err)
	}
	return out, nil
}

// ListReceived returns applications to listings the user owns.
func (s *Service) ListReceived(ctx context.Context, ownerID uuid.UUID, f Filter) ([]domain.Application, error) {
	owned := s.DB.WithContext(ctx).Model(&domain.Property{}).Select("id").Where("owner_id = ?", ownerID)
	db := withProperty(s.DB.WithContext(ctx)).Preload("Applicant").Where("property_id IN (?)", owned)
	if f.Status != "" {
		db = db.Where("status = ?", string(f.Status))
	}
	if f.PropertyID != uuid.Nil {
		db = db.Where("property_id = ?", f.PropertyID)
	}
	var out []domain.Application
	if err := db.Order("submitted_at DESC, id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("Failed to get received applications: %w", err)
	}
	return out, nil
}

// Submit files an application, bumps the listing's inquiry counter and notifies the owner.
func (s *Service) Submit(ctx context.Context, applicant domain.Actor, in SubmitInput) (*domain.Application, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var property domain.Property
	if err := s.DB.WithContext(ctx).Where("id = ?", in.PropertyID).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if property.Status != domain.StatusActive {
		return nil, ErrPropertyUnavailable
	}
	if property.OwnerID == applicant.ID {
		return nil, ErrOwnProperty
	}
	var user domain.User
	if err := s.DB.WithContext(ctx).Where("id = ?", applicant.ID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("Failed to load applicant: %w", err)
	}

	app := &domain.Application{
		UserID:        applicant.ID,
		PropertyID:    property.ID,
		Status:        domain.ApplicationPending,
		Message:       in.Message,
		MoveInDate:    in.MoveInDate,
		LeaseTerm:     in.LeaseTerm,
		OfferedPrice:  in.OfferedPrice,
		IsPreApproved: in.IsPreApproved,
		FinancingType: in.FinancingType,
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	var existing int64
	if err := tx.Model(&domain.Application{}).Where("user_id = ? AND property_id = ?", applicant.ID, property.ID).Count(&existing).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if existing > 0 {
		tx.Rollback()
		return nil, ErrDuplicateApplication
	}
	if err := tx.Create(app).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			return nil, ErrDuplicateApplication
		}
		return nil, fmt.Errorf("Failed to submit application: %w", err)
	}
	if err := tx.Model(&domain.Property{}).Where("id = ?", property.ID).
		UpdateColumn("inquiry_count", gorm.Expr("inquiry_count + ?", 1)).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := notifications.Notify(tx, property.OwnerID, domain.NotificationApplicationUpdate,
		"New Application Received",
		fmt.Sprintf("%s %s applied for \"%s\"", user.FirstName, user.LastName, property.Title),
		"/applications?propertyId="+property.ID.String()); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("Failed to submit application: %w", err)
	}
	if s.OnChange != nil {
		s.OnChange(ctx)
	}
	log.Ctx(ctx).Info().Str("application_id", app.ID.String()).Str("property_id", property.ID.String()).Msg("application submitted")
	app.Property = &property
	return app, nil
}

// UpdateStatus lets the listing owner (or an admin) review an application.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, status domain.ApplicationStatus) (*domain.Application, error) {
	switch status {
	case domain.ApplicationReviewing, domain.ApplicationApproved, domain.ApplicationRejected:
	default:
		return nil, ErrInvalidStatus
	}
	var app domain.Application
	if err := s.DB.WithContext(ctx).Preload("Property").Where("id = ?", id).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if app.Property == nil || !actor.CanManage(app.Property.OwnerID) {
		return nil, ErrNotAuthorized
	}

	now := time.Now()
	updates := map[string]interface{}{"status": string(status)}
	if status == domain.ApplicationReviewing {
		updates["reviewed_at"] = now
	} else {
		updates["responded_at"] = now
	}
	word := strings.ToLower(string(status))
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&app).Updates(updates).Error; err != nil {
			return fmt.Errorf("Failed to update application: %w", err)
		}
		return notifications.Notify(tx, app.UserID, domain.NotificationApplicationUpdate,
			"Application "+word,
			fmt.Sprintf("Your application for \"%s\" has been %s.", app.Property.Title, word),
			"/applications")
	})
	if err != nil {
		return nil, err
	}
	app.Status = status
	return &app, nil
}

// Withdraw lets the applicant pull a pending or in-review application.
func (s *Service) Withdraw(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	var app domain.Application
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApplicationNotFound
		}
		return err
	}
	if app.UserID != actor.ID {
		return ErrNotAuthorized
	}
	if app.Status != domain.ApplicationPending && app.Status != domain.ApplicationReviewing {
		return ErrCannotWithdraw
	}
	return s.DB.WithContext(ctx).Model(&app).Update("status", string(domain.ApplicationWithdrawn)).Error
}

type ViewingInput struct {
	ScheduledAt *time.Time         `json:"scheduledAt" validate:"required"`
	Type        domain.ViewingType `json:"type" validate:"omitempty,oneof=IN_PERSON VIDEO_CALL SELF_GUIDED"`
	Notes       *string            `json:"notes" validate:"omitempty,max=2000"`
}

// ScheduleViewing books a tour of a listing and tells the owner about it.
func (s *Service) ScheduleViewing(ctx context.Context, actor domain.Actor, propertyID uuid.UUID, in ViewingInput) (*domain.Viewing, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var property domain.Property
	if err := s.DB.WithContext(ctx).Where("id = ?", propertyID).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	var user domain.User
	if err := s.DB.WithContext(ctx).Where("id = ?", actor.ID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	v := &domain.Viewing{
		UserID:      actor.ID,
		PropertyID:  property.ID,
		ScheduledAt: in.ScheduledAt.UTC(),
		Type:        in.Type,
		Status:      domain.ViewingScheduled,
		Notes:       in.Notes,
	}
	if v.Type == "" {
		v.Type = domain.ViewingInPerson
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(v).Error; err != nil {
			return fmt.Errorf("Failed to schedule viewing: %w", err)
		}
		return notifications.Notify(tx, property.OwnerID, domain.NotificationViewingReminder,
			"Viewing Requested",
			fmt.Sprintf("%s wants to view \"%s\"", user.FirstName, property.Title),
			"/property/"+property.ID.String())
	})
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Info().Str("viewing_id", v.ID.String()).Str("property_id", property.ID.String()).Msg("viewing scheduled")
	return v, nil
}
