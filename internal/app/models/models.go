package models

// RoleType defines the user role type
type RoleType string

const (
	RoleMember        RoleType = "member"
	RoleChapterLeader RoleType = "chapter_leader"
	// RoleAdmin is never self-assigned at signup; the seed creates it.
	RoleAdmin RoleType = "admin"
)

// Valid reports whether r is a known role.
func (r RoleType) Valid() bool {
	switch r {
	case RoleMember, RoleChapterLeader, RoleAdmin:
		return true
	}
	return false
}

// CanOrganize reports whether users holding r may create events.
func (r RoleType) CanOrganize() bool {
	return r == RoleChapterLeader || r == RoleAdmin
}
