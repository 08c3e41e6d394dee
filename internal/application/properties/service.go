package properties

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"auraestate-backend/internal/domain"
	"auraestate-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service owns listings. Cache is optional; without it every page hits the database.
type Service struct {
	DB    *gorm.DB
	Cache *ListCache
}

type ImageInput struct {
	URL     string  `json:"url" validate:"required"`
	Caption *string `json:"caption"`
}

type FeatureInput struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category"`
}

type CreateInput struct {
	Title       string             `json:"title" validate:"required"`
	Description string             `json:"description" validate:"required"`
	Type        domain.PropertyType `json:"type" validate:"required,oneof=APARTMENT HOUSE CONDO TOWNHOUSE STUDIO LOFT PENTHOUSE VILLA DUPLEX OTHER"`
	ListingType domain.ListingType  `json:"listingType" validate:"required,oneof=RENT SALE BOTH"`
	Price       *float64           `json:"price" validate:"required,gte=0"`
	PriceType   domain.PriceType   `json:"priceType" validate:"omitempty,oneof=MONTHLY TOTAL"`
	Deposit     *float64           `json:"deposit" validate:"omitempty,gte=0"`
	PetDeposit  *float64           `json:"petDeposit" validate:"omitempty,gte=0"`

	Address   string   `json:"address" validate:"required"`
	Unit      *string  `json:"unit"`
	City      string   `json:"city" validate:"required"`
	State     string   `json:"state" validate:"required"`
	ZipCode   string   `json:"zipCode" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`

	Bedrooms  *int     `json:"bedrooms" validate:"required,gte=0"`
	Bathrooms *float64 `json:"bathrooms" validate:"required,gte=0"`
	Sqft      *int     `json:"sqft" validate:"required,gte=0"`
	YearBuilt *int     `json:"yearBuilt" validate:"omitempty,gte=1600"`
	LotSize   *float64 `json:"lotSize" validate:"omitempty,gte=0"`
	Parking   *string  `json:"parking"`

	AuraScoreOverall      int `json:"auraScoreOverall" validate:"gte=0,lte=100"`
	AuraScoreLifestyle    int `json:"auraScoreLifestyle" validate:"gte=0,lte=100"`
	AuraScoreConnectivity int `json:"auraScoreConnectivity" validate:"gte=0,lte=100"`
	AuraScoreEnvironment  int `json:"auraScoreEnvironment" validate:"gte=0,lte=100"`

	AvailableFrom  *time.Time `json:"availableFrom"`
	LeaseTerm      *int       `json:"leaseTerm" validate:"omitempty,gte=0"`
	PetFriendly    bool       `json:"petFriendly"`
	SmokingAllowed bool       `json:"smokingAllowed"`

	Features []FeatureInput `json:"features" validate:"dive"`
	Images   []ImageInput   `json:"images" validate:"dive"`
}

// UpdateInput is a partial update. Nil fields are left unchanged; Features and
// Images, when present, replace the existing sets.
type UpdateInput struct {
	Title       *string                `json:"title" validate:"omitnil,min=1"`
	Description *string                `json:"description" validate:"omitnil,min=1"`
	Type        *domain.PropertyType   `json:"type" validate:"omitempty,oneof=APARTMENT HOUSE CONDO TOWNHOUSE STUDIO LOFT PENTHOUSE VILLA DUPLEX OTHER"`
	ListingType *domain.ListingType    `json:"listingType" validate:"omitempty,oneof=RENT SALE BOTH"`
	Status      *domain.PropertyStatus `json:"status" validate:"omitempty,oneof=ACTIVE PENDING RENTED SOLD INACTIVE"`
	Price       *float64               `json:"price" validate:"omitempty,gte=0"`
	PriceType   *domain.PriceType      `json:"priceType" validate:"omitempty,oneof=MONTHLY TOTAL"`
	Deposit     *float64               `json:"deposit" validate:"omitempty,gte=0"`
	PetDeposit  *float64               `json:"petDeposit" validate:"omitempty,gte=0"`

	Address *string `json:"address" validate:"omitnil,min=1"`
	Unit    *string `json:"unit"`
	City    *string `json:"city" validate:"omitnil,min=1"`
	State   *string `json:"state" validate:"omitnil,min=1"`
	ZipCode *string `json:"zipCode" validate:"omitnil,min=1"`

	Bedrooms  *int     `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms *float64 `json:"bathrooms" validate:"omitempty,gte=0"`
	Sqft      *int     `json:"sqft" validate:"omitempty,gte=0"`
	YearBuilt *int     `json:"yearBuilt" validate:"omitempty,gte=1600"`
	LotSize   *float64 `json:"lotSize" validate:"omitempty,gte=0"`
	Parking   *string  `json:"parking"`

	AuraScoreOverall      *int `json:"auraScoreOverall" validate:"omitempty,gte=0,lte=100"`
	AuraScoreLifestyle    *int `json:"auraScoreLifestyle" validate:"omitempty,gte=0,lte=100"`
	AuraScoreConnectivity *int `json:"auraScoreConnectivity" validate:"omitempty,gte=0,lte=100"`
	AuraScoreEnvironment  *int `json:"auraScoreEnvironment" validate:"omitempty,gte=0,lte=100"`

	AvailableFrom  *time.Time `json:"availableFrom"`
	LeaseTerm      *int       `json:"leaseTerm" validate:"omitempty,gte=0"`
	PetFriendly    *bool      `json:"petFriendly"`
	SmokingAllowed *bool      `json:"smokingAllowed"`

	Features *[]FeatureInput `json:"features" validate:"omitempty,dive"`
	Images   *[]ImageInput   `json:"images" validate:"omitempty,dive"`
}

// Get returns a listing regardless of status and counts the view.
func (s *Service) Get(ctx context.Context, id uuid.UUID, viewer *uuid.UUID) (*domain.Property, error) {
	res := s.DB.WithContext(ctx).Model(&domain.Property{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("Failed to record view: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrPropertyNotFound
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewer != nil {
		props := []domain.Property{*p}
		if err := s.markSaved(ctx, *viewer, props); err != nil {
			return nil, err
		}
		p.IsSaved = props[0].IsSaved
	}
	return p, nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	var p domain.Property
	if err := withDetail(s.DB.WithContext(ctx)).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &p, nil
}

// authorize loads the listing and checks the actor owns it or is an admin.
func (s *Service) authorize(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Property, error) {
	var p domain.Property
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	if !actor.CanManage(p.OwnerID) {
		return nil, ErrNotAuthorized
	}
	return &p, nil
}

func (s *Service) Create(ctx context.Context, actor domain.Actor, in CreateInput) (*domain.Property, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	priceType := in.PriceType
	if priceType == "" {
		priceType = domain.DefaultPriceType(in.ListingType)
	}
	p := &domain.Property{
		OwnerID:               actor.ID,
		Title:                 in.Title,
		Description:           in.Description,
		Type:                  in.Type,
		ListingType:           in.ListingType,
		Status:                domain.StatusActive,
		Price:                 *in.Price,
		PriceType:             priceType,
		Deposit:               in.Deposit,
		PetDeposit:            in.PetDeposit,
		Address:               in.Address,
		Unit:                  in.Unit,
		City:                  in.City,
		State:                 in.State,
		ZipCode:               in.ZipCode,
		Latitude:              in.Latitude,
		Longitude:             in.Longitude,
		Bedrooms:              *in.Bedrooms,
		Bathrooms:             *in.Bathrooms,
		Sqft:                  *in.Sqft,
		YearBuilt:             in.YearBuilt,
		LotSize:               in.LotSize,
		Parking:               in.Parking,
		AuraScoreOverall:      in.AuraScoreOverall,
		AuraScoreLifestyle:    in.AuraScoreLifestyle,
		AuraScoreConnectivity: in.AuraScoreConnectivity,
		AuraScoreEnvironment:  in.AuraScoreEnvironment,
		AvailableFrom:         in.AvailableFrom,
		LeaseTerm:             in.LeaseTerm,
		PetFriendly:           in.PetFriendly,
		SmokingAllowed:        in.SmokingAllowed,
		Images:                buildImages(in.Images),
		Features:              buildFeatures(in.Features),
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("Failed to create property: %w", err)
		}
		return recordEvent(tx, p.ID, domain.EventCreated, actor.ID, map[string]interface{}{
			"title":       p.Title,
			"listingType": p.ListingType,
			"price":       p.Price,
		})
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	log.Ctx(ctx).Info().Str("property_id", p.ID.String()).Str("owner_id", actor.ID.String()).Msg("property created")
	return s.load(ctx, p.ID)
}

func (s *Service) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, in UpdateInput) (*domain.Property, error) {
	current, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	updates := in.columns()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(current).Updates(updates).Error; err != nil {
				return fmt.Errorf("Failed to update property: %w", err)
			}
		}
		if in.Images != nil {
			if err := tx.Where("property_id = ?", id).Delete(&domain.PropertyImage{}).Error; err != nil {
				return err
			}
			if imgs := buildImages(*in.Images); len(imgs) > 0 {
				for i := range imgs {
					imgs[i].PropertyID = id
				}
				if err := tx.Create(&imgs).Error; err != nil {
					return err
				}
			}
		}
		if in.Features != nil {
			if err := tx.Where("property_id = ?", id).Delete(&domain.PropertyFeature{}).Error; err != nil {
				return err
			}
			if feats := buildFeatures(*in.Features); len(feats) > 0 {
				for i := range feats {
					feats[i].PropertyID = id
				}
				if err := tx.Create(&feats).Error; err != nil {
					return err
				}
			}
		}
		if in.Status != nil && *in.Status != current.Status {
			return recordEvent(tx, id, domain.EventStatusChanged, actor.ID, map[string]interface{}{
				"from": current.Status,
				"to":   *in.Status,
			})
		}
		return recordEvent(tx, id, domain.EventUpdated, actor.ID, map[string]interface{}{
			"fields": updatedFields(updates, in),
		})
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.load(ctx, id)
}

// Delete removes a listing and everything hanging off it in one transaction.
func (s *Service) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&domain.PropertyImage{},
			&domain.PropertyFeature{},
			&domain.SavedProperty{},
			&domain.Application{},
			&domain.Viewing{},
			&domain.PropertyEvent{},
		} {
			if err := tx.Where("property_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("Failed to delete property: %w", err)
			}
		}
		// conversations outlive the listing they started on
		if err := tx.Model(&domain.Message{}).Where("property_id = ?", id).
			UpdateColumn("property_id", nil).Error; err != nil {
			return fmt.Errorf("Failed to delete property: %w", err)
		}
		return tx.Where("id = ?", id).Delete(&domain.Property{}).Error
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	log.Ctx(ctx).Info().Str("property_id", id.String()).Str("actor_id", actor.ID.String()).Msg("property deleted")
	return nil
}

// Events returns the audit trail of a listing, oldest first.
func (s *Service) Events(ctx context.Context, actor domain.Actor, id uuid.UUID) ([]domain.PropertyEvent, error) {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return nil, err
	}
	var events []domain.PropertyEvent
	if err := s.DB.WithContext(ctx).Where("property_id = ?", id).Order("created_at ASC, id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("listing cache invalidation failed")
	}
}

func recordEvent(tx *gorm.DB, propertyID uuid.UUID, eventType string, actorID uuid.UUID, data map[string]interface{}) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	actor := actorID
	if err := tx.Create(&domain.PropertyEvent{
		PropertyID: propertyID,
		EventType:  eventType,
		EventData:  datatypes.JSON(b),
		ActorID:    &actor,
	}).Error; err != nil {
		return fmt.Errorf("Failed to create property event: %w", err)
	}
	return nil
}

// buildImages keeps request order; the first image is the primary one.
func buildImages(in []ImageInput) []domain.PropertyImage {
	out := make([]domain.PropertyImage, 0, len(in))
	for i, img := range in {
		out = append(out, domain.PropertyImage{
			URL:          img.URL,
			Caption:      img.Caption,
			IsPrimary:    i == 0,
			DisplayOrder: i,
		})
	}
	return out
}

func buildFeatures(in []FeatureInput) []domain.PropertyFeature {
	out := make([]domain.PropertyFeature, 0, len(in))
	for _, f := range in {
		category := f.Category
		if category == "" {
			category = domain.DefaultFeatureCategory
		}
		out = append(out, domain.PropertyFeature{Name: f.Name, Category: category})
	}
	return out
}

// columns maps the present fields of an update to their column names.
func (in UpdateInput) columns() map[string]interface{} {
	m := map[string]interface{}{}
	if in.Title != nil {
		m["title"] = *in.Title
	}
	if in.Description != nil {
		m["description"] = *in.Description
	}
	if in.Type != nil {
		m["type"] = string(*in.Type)
	}
	if in.ListingType != nil {
		m["listing_type"] = string(*in.ListingType)
	}
	if in.Status != nil {
		m["status"] = string(*in.Status)
	}
	if in.Price != nil {
		m["price"] = *in.Price
	}
	if in.PriceType != nil {
		m["price_type"] = string(*in.PriceType)
	}
	if in.Deposit != nil {
		m["deposit"] = *in.Deposit
	}
	if in.PetDeposit != nil {
		m["pet_deposit"] = *in.PetDeposit
	}
	if in.Address != nil {
		m["address"] = *in.Address
	}
	if in.Unit != nil {
		m["unit"] = *in.Unit
	}
	if in.City != nil {
		m["city"] = *in.City
	}
	if in.State != nil {
		m["state"] = *in.State
	}
	if in.ZipCode != nil {
		m["zip_code"] = *in.ZipCode
	}
	if in.Bedrooms != nil {
		m["bedrooms"] = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		m["bathrooms"] = *in.Bathrooms
	}
	if in.Sqft != nil {
		m["sqft"] = *in.Sqft
	}
	if in.YearBuilt != nil {
		m["year_built"] = *in.YearBuilt
	}
	if in.LotSize != nil {
		m["lot_size"] = *in.LotSize
	}
	if in.Parking != nil {
		m["parking"] = *in.Parking
	}
	if in.AuraScoreOverall != nil {
		m["aura_score_overall"] = *in.AuraScoreOverall
	}
	if in.AuraScoreLifestyle != nil {
		m["aura_score_lifestyle"] = *in.AuraScoreLifestyle
	}
	if in.AuraScoreConnectivity != nil {
		m["aura_score_connectivity"] = *in.AuraScoreConnectivity
	}
	if in.AuraScoreEnvironment != nil {
		m["aura_score_environment"] = *in.AuraScoreEnvironment
	}
	if in.AvailableFrom != nil {
		m["available_from"] = *in.AvailableFrom
	}
	if in.LeaseTerm != nil {
		m["lease_term"] = *in.LeaseTerm
	}
	if in.PetFriendly != nil {
		m["pet_friendly"] = *in.PetFriendly
	}
	if in.SmokingAllowed != nil {
		m["smoking_allowed"] = *in.SmokingAllowed
	}
	return m
}

func updatedFields(cols map[string]interface{}, in UpdateInput) []string {
	fields := make([]string, 0, len(cols)+2)
	for col := range cols {
		fields = append(fields, col)
	}
	if in.Images != nil {
		fields = append(fields, "images")
	}
	if in.Features != nil {
		fields = append(fields, "features")
	}
	sort.Strings(fields)
	return fields
}
