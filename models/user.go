package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin           Role = "ADMIN"
	RoleCallCenter      Role = "CALL_CENTER"
	RoleCallCenterAdmin Role = "CALL_CENTER_ADMIN"
	RoleInspector       Role = "INSPECTOR"
	RoleUser            Role = "USER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCallCenter, RoleCallCenterAdmin, RoleInspector, RoleUser:
		return true
	}
	return false
}

// User is a record in the user directory. The directory itself is owned by
// the identity service; this backend reads it for inspector/agent/client
// lookups and only writes through the client provisioning path.
type User struct {
	ID        string  `json:"id" db:"id"`
	Username  string  `json:"username" db:"username"`
	Email     *string `json:"email,omitempty" db:"email"`
	FirstName string  `json:"first_name" db:"first_name"`
	LastName  string  `json:"last_name" db:"last_name"`
	DNI       *string `json:"dni,omitempty" db:"dni"`
	Phone     *string `json:"phone_number,omitempty" db:"phone_number"`
	Address   *string `json:"address,omitempty" db:"address"`
	Role      Role    `json:"role" db:"role"`
	IsActive  bool    `json:"is_active" db:"is_active"`

	// Inspector fields
	LicenseNumber *string `json:"license_number,omitempty" db:"license_number"`

	// Client fields
	LastInspectionDate *string `json:"last_inspection_date,omitempty" db:"last_inspection_date"`
	NextInspectionDue  *string `json:"next_inspection_due,omitempty" db:"next_inspection_due"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Actor is the authenticated identity performing an operation. Handlers
// build it from the JWT claims and pass it explicitly into every service
// call, so authorization never depends on ambient request state.
type Actor struct {
	ID       string
	Role     Role
	Email    string
	FullName string
}

// InspectorInfo is the payload for the available-inspectors endpoint.
type InspectorInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	LicenseNumber string `json:"license_number,omitempty"`
}

// AgentInfo is the payload for the call-center agent listing.
type AgentInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
}
