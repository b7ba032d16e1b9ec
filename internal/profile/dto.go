package profile

import (
	"github.com/angelmondragon/delivery-admin/internal/session"
	"github.com/angelmondragon/delivery-admin/pkg/types"
	"github.com/angelmondragon/delivery-admin/pkg/upload"
)

// Profile is the signed-in operator's account.
type Profile struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Phone  string          `json:"phone"`
	Avatar string          `json:"avatar,omitempty"`
	Role   *types.RoleRef  `json:"role,omitempty"`
	Store  *types.StoreRef `json:"store,omitempty"`
}

// SessionUser is the subset mirrored into the session.
func (p Profile) SessionUser() *session.User {
	return &session.User{
		ID:     p.ID,
		Name:   p.Name,
		Email:  p.Email,
		Phone:  p.Phone,
		Avatar: p.Avatar,
		Role:   p.Role,
	}
}

// Input is the update payload. Blank fields are not sent.
type Input struct {
	Name   string
	Email  string
	Phone  string
	Avatar *upload.File
}
