package model

type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleProvider
}

// Actor is the caller on whose behalf an operation runs. For providers,
// UserID is the barber id.
type Actor struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}
