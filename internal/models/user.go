package models

import "time"

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`

	// Role guarda o nome do papel (guest, customer, employee, manager, admin).
	// Permissions são concessões individuais, somadas às do papel.
	Role        string   `gorm:"size:20;default:'guest'" json:"role"`
	Permissions []string `gorm:"serializer:json" json:"permissions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
