package users

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Role identifies the capability tier of an account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleMember Role = "member"
)

// NormalizeRole lowercases and trims a raw role value. Unknown values pass
// through so storage round-trips never silently rewrite data.
func NormalizeRole(value string) Role {
	return Role(strings.ToLower(strings.TrimSpace(value)))
}

// Known reports whether the role is one of the defined tiers.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleMember:
		return true
	}
	return false
}

// User is an account in the publishing backend. Policy checks operate on the
// ID and Role fields only.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	FullName  string    `bun:"full_name" json:"full_name"`
	Role      Role      `bun:"role,notnull,default:'member'" json:"role"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
