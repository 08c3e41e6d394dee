package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantProfile is the renter's background shown to landlords with applications.
type TenantProfile struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"userId"`
	Occupation         *string    `gorm:"column:occupation" json:"occupation"`
	Employer           *string    `gorm:"column:employer" json:"employer"`
	AnnualIncome       *float64   `gorm:"column:annual_income" json:"annualIncome"`
	CreditScore        *int       `gorm:"column:credit_score" json:"creditScore"`
	HasPets            bool       `gorm:"column:has_pets;not null;default:false" json:"hasPets"`
	PetDetails         *string    `gorm:"column:pet_details" json:"petDetails"`
	MoveInDate         *time.Time `gorm:"column:move_in_date" json:"moveInDate"`
	PreferredLeaseTerm *int       `gorm:"column:preferred_lease_term" json:"preferredLeaseTerm"`
	IsVerified         bool       `gorm:"column:is_verified;not null;default:false" json:"isVerified"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt          time.Time  `gorm:"column:updated_at" json:"updatedAt"`
}

func (TenantProfile) TableName() string {
	return "tenant_profiles"
}

func (p *TenantProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type LandlordProfile struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"userId"`
	CompanyName     *string   `gorm:"column:company_name" json:"companyName"`
	BusinessLicense *string   `gorm:"column:business_license" json:"businessLicense"`
	YearsExperience *int      `gorm:"column:years_experience" json:"yearsExperience"`
	Bio             *string   `gorm:"column:bio;type:text" json:"bio"`
	IsVerified      bool      `gorm:"column:is_verified;not null;default:false" json:"isVerified"`
	IsSuperhost     bool      `gorm:"column:is_superhost;not null;default:false" json:"isSuperhost"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (LandlordProfile) TableName() string {
	return "landlord_profiles"
}

func (p *LandlordProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
