package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleRenter   Role = "RENTER"
	RoleBuyer    Role = "BUYER"
	RoleLandlord Role = "LANDLORD"
	RoleSeller   Role = "SELLER"
	RoleAgent    Role = "AGENT"
	RoleAdmin    Role = "ADMIN"
)

// User is an account. Credentials are issued elsewhere; this service only reads users.
type User struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	FirstName    string    `gorm:"column:first_name;not null" json:"firstName"`
	LastName     string    `gorm:"column:last_name;not null" json:"lastName"`
	Phone        *string   `gorm:"column:phone" json:"phone"`
	Avatar       *string   `gorm:"column:avatar" json:"avatar"`
	Role         Role      `gorm:"column:role;type:varchar(20);not null;default:'RENTER'" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
