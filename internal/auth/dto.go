package auth

import (
	"strings"

	"github.com/angelmondragon/delivery-admin/internal/session"
	"github.com/angelmondragon/delivery-admin/pkg/types"
)

// LoginRequest is sent with either email or phone set.
type LoginRequest struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// NewLoginRequest treats an identifier containing "@" as an email and
// anything else as a phone number.
func NewLoginRequest(identifier, password string) LoginRequest {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return LoginRequest{Email: identifier, Password: password}
	}
	return LoginRequest{Phone: identifier, Password: password}
}

type LoginResponse = types.LoginEnvelope[*session.User]

type RegisterRequest struct {
	Name       string `json:"name" validate:"required,min=2"`
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required,min=6"`
}

type RegisterResponse = types.UserEnvelope[*session.User]
