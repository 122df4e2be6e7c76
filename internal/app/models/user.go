package models

import (
	"time"
)

// SocialLinks holds optional profile links.
type SocialLinks struct {
	Github   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Website  string `json:"website,omitempty"`
}

// User defines the user model based on the 'users' table
type User struct {
	ID          int64       `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Email       string      `json:"email" db:"email"`
	Password    string      `json:"-" db:"password"`
	Role        RoleType    `json:"role" db:"role"`
	Chapter     string      `json:"chapter,omitempty" db:"chapter"`
	Bio         string      `json:"bio,omitempty" db:"bio"`
	Skills      []string    `json:"skills" db:"skills"`
	SocialLinks SocialLinks `json:"socialLinks"`
	Avatar      string      `json:"avatar,omitempty" db:"avatar"`
	IsActive    bool        `json:"isActive" db:"is_active"`
	LastLoginAt *time.Time  `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
}
