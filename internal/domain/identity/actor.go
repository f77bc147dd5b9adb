package identity

import (
	"github.com/google/uuid"
)

// Role represents a functional role carried by an actor
type Role string

const (
	// RoleSales creates sales orders and deliveries
	RoleSales Role = "SALES"
	// RoleWarehouse picks, ships and issues stock
	RoleWarehouse Role = "WAREHOUSE"
	// RoleManager retains edit and override rights after a document has
	// advanced past its initial status
	RoleManager Role = "MANAGER"
)

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	switch r {
	case RoleSales, RoleWarehouse, RoleManager:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Actor identifies the user performing an operation together with the role
// set granted to them. An Actor value is passed explicitly into every
// permission check and mutating call; the engine never reads ambient
// session state.
type Actor struct {
	UserID uuid.UUID
	Name   string
	Roles  []Role
}

// NewActor creates an actor with the given roles
func NewActor(userID uuid.UUID, name string, roles ...Role) Actor {
	return Actor{UserID: userID, Name: name, Roles: roles}
}

// HasRole reports whether the actor carries the given role
func (a Actor) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsManager reports whether the actor carries the elevated manager role
func (a Actor) IsManager() bool {
	return a.HasRole(RoleManager)
}

// PrimaryRole returns the first role for error reporting, or an empty role
func (a Actor) PrimaryRole() Role {
	if len(a.Roles) == 0 {
		return Role("")
	}
	return a.Roles[0]
}
