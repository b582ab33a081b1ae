package models

import (
	"time"
)

// RoleAdmin may modify any article
const RoleAdmin = "admin"

// User represents an account; credentials live outside this service
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Role         string    `json:"role" db:"role"`
	ProfileImage *string   `json:"profile_image,omitempty" db:"profile_image"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
