package models

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
)

var Roles = []Role{RoleAdmin, RoleManager, RoleMember}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

// Member is created outside the dashboard and referenced by id everywhere else.
type Member struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
	Role   Role   `json:"role"`
}

func (m *Member) Validate() error {
	if m.Name == "" {
		return &ValidationError{Entity: "member", ID: m.ID, Field: "name", Err: ErrMissingField}
	}
	if !m.Role.Valid() {
		return &ValidationError{Entity: "member", ID: m.ID, Field: "role", Value: string(m.Role), Err: ErrInvalidRole}
	}
	return nil
}

func (m *Member) Clone() *Member {
	c := *m
	return &c
}
