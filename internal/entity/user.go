package entity

import (
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email        string    `json:"email" gorm:"size:128;not null;uniqueIndex"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"`
	Role         string    `json:"role" gorm:"size:20;not null;default:staff"`
	Status       string    `json:"status" gorm:"size:20;not null;default:ACTIVE"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
