package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PropertyType string

const (
	PropertyApartment PropertyType = "APARTMENT"
	PropertyHouse     PropertyType = "HOUSE"
	PropertyCondo     PropertyType = "CONDO"
	PropertyTownhouse PropertyType = "TOWNHOUSE"
	PropertyStudio    PropertyType = "STUDIO"
	PropertyLoft      PropertyType = "LOFT"
	PropertyPenthouse PropertyType = "PENTHOUSE"
	PropertyVilla     PropertyType = "VILLA"
	PropertyDuplex    PropertyType = "DUPLEX"
	PropertyOther     PropertyType = "OTHER"
)

// Valid reports whether t is one of the known property categories.
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyApartment, PropertyHouse, PropertyCondo, PropertyTownhouse, PropertyStudio,
		PropertyLoft, PropertyPenthouse, PropertyVilla, PropertyDuplex, PropertyOther:
		return true
	}
	return false
}

type ListingType string

const (
	ListingRent ListingType = "RENT"
	ListingSale ListingType = "SALE"
	ListingBoth ListingType = "BOTH"
)

func (t ListingType) Valid() bool {
	return t == ListingRent || t == ListingSale || t == ListingBoth
}

type PropertyStatus string

const (
	StatusActive   PropertyStatus = "ACTIVE"
	StatusPending  PropertyStatus = "PENDING"
	StatusRented   PropertyStatus = "RENTED"
	StatusSold     PropertyStatus = "SOLD"
	StatusInactive PropertyStatus = "INACTIVE"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPending, StatusRented, StatusSold, StatusInactive:
		return true
	}
	return false
}

// PriceType tells a monthly rent apart from a total sale price.
type PriceType string

const (
	PriceMonthly PriceType = "MONTHLY"
	PriceTotal   PriceType = "TOTAL"
)

func (t PriceType) Valid() bool {
	return t == PriceMonthly || t == PriceTotal
}

// DefaultPriceType is MONTHLY for rentals and TOTAL for everything else.
func DefaultPriceType(lt ListingType) PriceType {
	if lt == ListingRent {
		return PriceMonthly
	}
	return PriceTotal
}

// UserSummary is the public projection of a user embedded in listings and applications.
type UserSummary struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FirstName string    `gorm:"column:first_name" json:"firstName"`
	LastName  string    `gorm:"column:last_name" json:"lastName"`
}

func (UserSummary) TableName() string {
	return "users"
}

// Property is a listing. IsSaved is computed per viewer and never stored.
type Property struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index" json:"ownerId"`
	Owner       *UserSummary   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Description string         `gorm:"column:description;type:text;not null" json:"description"`
	Type        PropertyType   `gorm:"column:type;type:varchar(20);not null;index" json:"type"`
	ListingType ListingType    `gorm:"column:listing_type;type:varchar(10);not null;index" json:"listingType"`
	Status      PropertyStatus `gorm:"column:status;type:varchar(20);not null;default:'ACTIVE';index" json:"status"`

	Price      float64   `gorm:"column:price;not null;index" json:"price"`
	PriceType  PriceType `gorm:"column:price_type;type:varchar(10);not null" json:"priceType"`
	Deposit    *float64  `gorm:"column:deposit" json:"deposit"`
	PetDeposit *float64  `gorm:"column:pet_deposit" json:"petDeposit"`

	Address   string   `gorm:"column:address;not null" json:"address"`
	Unit      *string  `gorm:"column:unit" json:"unit"`
	City      string   `gorm:"column:city;not null;index" json:"city"`
	State     string   `gorm:"column:state;not null" json:"state"`
	ZipCode   string   `gorm:"column:zip_code;not null" json:"zipCode"`
	Latitude  *float64 `gorm:"column:latitude" json:"latitude"`
	Longitude *float64 `gorm:"column:longitude" json:"longitude"`

	Bedrooms  int      `gorm:"column:bedrooms;not null;index" json:"bedrooms"`
	Bathrooms float64  `gorm:"column:bathrooms;not null" json:"bathrooms"`
	Sqft      int      `gorm:"column:sqft;not null" json:"sqft"`
	YearBuilt *int     `gorm:"column:year_built" json:"yearBuilt"`
	LotSize   *float64 `gorm:"column:lot_size" json:"lotSize"`
	Parking   *string  `gorm:"column:parking" json:"parking"`

	AuraScoreOverall      int `gorm:"column:aura_score_overall;not null;default:0" json:"auraScoreOverall"`
	AuraScoreLifestyle    int `gorm:"column:aura_score_lifestyle;not null;default:0" json:"auraScoreLifestyle"`
	AuraScoreConnectivity int `gorm:"column:aura_score_connectivity;not null;default:0" json:"auraScoreConnectivity"`
	AuraScoreEnvironment  int `gorm:"column:aura_score_environment;not null;default:0" json:"auraScoreEnvironment"`

	AvailableFrom *time.Time `gorm:"column:available_from" json:"availableFrom"`
	LeaseTerm     *int       `gorm:"column:lease_term" json:"leaseTerm"`

	ViewCount    int `gorm:"column:view_count;not null;default:0" json:"viewCount"`
	SaveCount    int `gorm:"column:save_count;not null;default:0" json:"saveCount"`
	InquiryCount int `gorm:"column:inquiry_count;not null;default:0" json:"inquiryCount"`

	PetFriendly    bool `gorm:"column:pet_friendly;not null;default:false" json:"petFriendly"`
	SmokingAllowed bool `gorm:"column:smoking_allowed;not null;default:false" json:"smokingAllowed"`

	Images   []PropertyImage   `gorm:"foreignKey:PropertyID" json:"images"`
	Features []PropertyFeature `gorm:"foreignKey:PropertyID" json:"features"`

	CreatedAt time.Time `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`

	IsSaved bool `gorm:"-" json:"isSaved"`
}

func (Property) TableName() string {
	return "properties"
}

// BeforeCreate sets id if not already set (DBs without default uuid).
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type PropertyImage struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PropertyID   uuid.UUID `gorm:"column:property_id;type:uuid;not null;index" json:"propertyId"`
	URL          string    `gorm:"column:url;not null" json:"url"`
	Caption      *string   `gorm:"column:caption" json:"caption"`
	IsPrimary    bool      `gorm:"column:is_primary;not null;default:false" json:"isPrimary"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0" json:"order"`
}

func (PropertyImage) TableName() string {
	return "property_images"
}

func (i *PropertyImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// DefaultFeatureCategory is applied when a feature is created without a category.
const DefaultFeatureCategory = "AMENITY"

type PropertyFeature struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	PropertyID uuid.UUID `gorm:"column:property_id;type:uuid;not null;index" json:"propertyId"`
	Name       string    `gorm:"column:name;not null;index" json:"name"`
	Category   string    `gorm:"column:category;not null;default:'AMENITY'" json:"category"`
}

func (PropertyFeature) TableName() string {
	return "property_features"
}

func (f *PropertyFeature) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
