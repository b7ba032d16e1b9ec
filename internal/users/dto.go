package users

import "github.com/angelmondragon/delivery-admin/pkg/types"

// User is a marketplace account as listed for admins.
type User struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name,omitempty"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Avatar        string          `json:"avatar,omitempty"`
	EmailVerified bool            `json:"email_verified"`
	PhoneVerified bool            `json:"phone_verified"`
	RoleID        int64           `json:"role_id"`
	Role          *types.RoleRef  `json:"role,omitempty"`
	Store         *types.StoreRef `json:"store,omitempty"`
	CreatedAt     string          `json:"createdAt,omitempty"`
	UpdatedAt     string          `json:"updatedAt,omitempty"`
}

// RoleName returns the role name or "" when no role object was sent.
func (u User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Role
}

// Statistics backs the counters above the users table.
type Statistics struct {
	TotalUsers     int64            `json:"total_users"`
	UsersByRole    map[string]int64 `json:"users_by_role"`
	UsersWithStore int64            `json:"users_with_store"`
}

// Filter narrows the users list. Zero values mean no filter.
type Filter struct {
	RoleID int64
	Search string
}
