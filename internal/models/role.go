package models

import "fmt"

type Role string

const AdminRole Role = "ADMIN"
const CustomerRole Role = "CUSTOMER"

// HomePath is the portal landing page for users with this role.
func (r Role) HomePath() string {
	switch r {
	case AdminRole:
		return "/admin"
	case CustomerRole:
		return "/customer"
	default:
		return "/login"
	}
}

func (r Role) Validate() error {
	switch r {
	case AdminRole, CustomerRole:
		return nil
	default:
		return fmt.Errorf("unknown role %q", string(r))
	}
}

func (r Role) MarshalText() (data []byte, err error) {
	return []byte(r), nil
}

func (r *Role) UnmarshalText(data []byte) error {
	*r = Role(string(data))
	return nil
}
