package authValidator

import (
	"strings"

	"examprep/validators"

	"github.com/gofiber/fiber/v2"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"omitempty,numeric,len=10"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (r *SignupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Mobile = strings.TrimSpace(r.Mobile)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// Signup validator middleware
func Signup() fiber.Handler {
	return validators.Body("validatedUser", func() interface{} { return new(SignupRequest) })
}

// Login validator middleware
func Login() fiber.Handler {
	return validators.Body("validatedLogin", func() interface{} { return new(LoginRequest) })
}

// LoginHistoryList validates the pagination query
func LoginHistoryList() fiber.Handler {
	return validators.Query("validatedLoginHistory", func() interface{} { return new(validators.Page) })
}
