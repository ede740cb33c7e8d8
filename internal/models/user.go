package models

import "time"

type UserRole string

const (
	RoleTourist       UserRole = "tourist"
	RoleTravelCompany UserRole = "travel_company"
	RoleAdmin         UserRole = "admin"
)

type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	FullName       string    `gorm:"not null" json:"full_name"`
	PhoneNumber    string    `json:"phone_number"`
	Role           UserRole  `gorm:"type:varchar(20);not null" json:"role"`
	HashedPassword string    `gorm:"not null" json:"-"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
