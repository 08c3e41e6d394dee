package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "PENDING"
	ApplicationReviewing ApplicationStatus = "REVIEWING"
	ApplicationApproved  ApplicationStatus = "APPROVED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
	ApplicationWithdrawn ApplicationStatus = "WITHDRAWN"
)

// Application is a rental application or purchase inquiry. One per (user, property).
type Application struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID         `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_application_user_property" json:"userId"`
	PropertyID    uuid.UUID         `gorm:"column:property_id;type:uuid;not null;uniqueIndex:idx_application_user_property;index" json:"propertyId"`
	Status        ApplicationStatus `gorm:"column:status;type:varchar(20);not null;default:'PENDING'" json:"status"`
	Message       *string           `gorm:"column:message;type:text" json:"message"`
	MoveInDate    *time.Time        `gorm:"column:move_in_date" json:"moveInDate"`
	LeaseTerm     *int              `gorm:"column:lease_term" json:"leaseTerm"`
	OfferedPrice  *float64          `gorm:"column:offered_price" json:"offeredPrice"`
	IsPreApproved bool              `gorm:"column:is_pre_approved;not null;default:false" json:"isPreApproved"`
	FinancingType *string           `gorm:"column:financing_type" json:"financingType"`
	SubmittedAt   time.Time         `gorm:"column:submitted_at;autoCreateTime" json:"submittedAt"`
	ReviewedAt    *time.Time        `gorm:"column:reviewed_at" json:"reviewedAt"`
	RespondedAt   *time.Time        `gorm:"column:responded_at" json:"respondedAt"`
	UpdatedAt     time.Time         `gorm:"column:updated_at" json:"updatedAt"`

	Property  *Property    `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Applicant *UserSummary `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Application) TableName() string {
	return "applications"
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
