package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID            int64     `json:"id" db:"id" example:"1"`
	FirstName     string    `json:"firstName" db:"first_name" example:"Sam"`
	LastName      string    `json:"lastName" db:"last_name" example:"Nguyen"`
	Username      string    `json:"username" db:"username" example:"sam"`
	Email         string    `json:"email" db:"email" example:"sam@student.rmit.edu.au"`
	Password      string    `json:"-" db:"password"` // bcrypt hash, never serialized
	IsBlocked     bool      `json:"isBlocked" db:"is_blocked"`
	DateOfJoining time.Time `json:"dateOfJoining" db:"date_of_joining"`
}

// FullName joins first and last name with a single space
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Role returns the role implied by the user's email domain
func (u *User) Role() RoleType {
	return RoleForEmail(u.Email)
}
