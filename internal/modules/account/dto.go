package account

import "museo/internal/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string          `json:"token"`
	Account *domain.Account `json:"account"`
}

type CreateStaffRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`

	// Kind "student" additionally requires Faculty and InternshipHours.
	Kind            string `json:"kind" binding:"required"`
	Faculty         string `json:"faculty"`
	InternshipHours int    `json:"internship_hours"`
}

type UpdateStaffRequest struct {
	Name            *string `json:"name"`
	Phone           *string `json:"phone"`
	AvatarURL       *string `json:"avatar_url"`
	Faculty         *string `json:"faculty"`
	InternshipHours *int    `json:"internship_hours"`
	Active          *bool   `json:"active"`
}

// UpdateProfileRequest covers the fields an account may change on itself.
type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type RecoverPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type CreateInternRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Faculty         string `json:"faculty" binding:"required"`
	InternshipHours int    `json:"internship_hours"`
	Phone           string `json:"phone"`
}

type UpdateInternRequest struct {
	Name            *string `json:"name"`
	Faculty         *string `json:"faculty"`
	InternshipHours *int    `json:"internship_hours"`
	Phone           *string `json:"phone"`
	AvatarURL       *string `json:"avatar_url"`
	Active          *bool   `json:"active"`
}
