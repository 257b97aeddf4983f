package domain

import "time"

type Role string

const (
	// RoleAdmin is the single principal administrator account.
	RoleAdmin Role = "admin"
	// RoleStaff covers secondary administrators created by the admin.
	RoleStaff Role = "staff"
	// RoleIntern covers museum guides; they authenticate externally and
	// are managed as records by admin/staff accounts.
	RoleIntern Role = "intern"
)

type StaffKind string

const (
	StaffAdministrative StaffKind = "administrative"
	StaffStudent        StaffKind = "student"
)

// Account is a back-office user (principal admin or staff).
type Account struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name" validate:"required,min=3,max=100"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`

	// Staff of kind "student" additionally track their internship.
	Kind            StaffKind `json:"kind,omitempty"`
	Faculty         string    `json:"faculty,omitempty"`
	InternshipHours int       `json:"internship_hours,omitempty"`

	ConfirmToken   string    `json:"-"`
	EmailConfirmed bool      `json:"email_confirmed"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Intern is a guide record; no password, login happens via Google and is
// outside this service.
type Intern struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name" validate:"required,min=3,max=100"`
	Email           string    `json:"email" validate:"required,email"`
	Faculty         string    `json:"faculty"`
	InternshipHours int       `json:"internship_hours"`
	Phone           string    `json:"phone"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	GoogleID        string    `json:"-"`
	ConfirmToken    string    `json:"-"`
	EmailConfirmed  bool      `json:"email_confirmed"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
