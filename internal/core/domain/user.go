package domain

import "time"

// Role is the closed set of roles a user can hold. The labels match the
// values persisted in the users collection.
type Role string

const (
	RoleSuperAdmin Role = "Super Admin"
	RoleAdmin      Role = "Admin"
	RoleClinician  Role = "Clinician"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleClinician:
		return true
	}
	return false
}

// IsAdministrative reports whether r is Admin or Super Admin.
func (r Role) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// User models an actor in the system.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	Name         string    `json:"name" bson:"name"`
	Role         Role      `json:"role" bson:"role"`
	Vocation     string    `json:"vocation,omitempty" bson:"vocation,omitempty"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Ref is the lightweight {id, name} pair embedded wherever a task or thread
// records who did something.
type Ref struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// SystemRef identifies tasks created by the scheduler rather than a person.
var SystemRef = Ref{ID: "system", Name: "System"}
