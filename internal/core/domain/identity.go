package domain

import "time"

// Role is the access level assigned to an identity by the identity service.
type Role string

const (
	RoleNone          Role = "None"
	RoleAdministrator Role = "Administrator"
	RoleCustomer      Role = "Customer"
	RoleEmployee      Role = "Employee"
)

// Authorized reports whether the role may use the console at all.
// Only staff roles pass; everything else (including an absent identity,
// which decodes to RoleNone) is turned away at the gate.
func (r Role) Authorized() bool {
	return r == RoleAdministrator || r == RoleEmployee
}

// Status is the lifecycle state of an identity.
type Status string

const (
	StatusNone    Status = "None"
	StatusActive  Status = "Active"
	StatusDeleted Status = "Deleted"
)

// Identity is the authenticated actor resolved from the identity service.
// It is created once per session by the session gate and discarded on
// sign-out; it is never mutated after resolution.
type Identity struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl"`
	Status    Status    `json:"status"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Credentials carries the browser's ambient session credentials (the raw
// Cookie header of the inbound request). The gateway never holds a token of
// its own; every upstream call forwards these credentials verbatim.
type Credentials string
