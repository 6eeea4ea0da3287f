package models

import "encoding/json"

// User is the authenticated console operator.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// HasRole reports whether the user holds role. super_admin holds every role.
func (u User) HasRole(role string) bool {
	return u.Role == role || u.Role == RoleSuperAdmin
}

func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    json.RawMessage `json:"id"`
		Email string          `json:"email"`
		Name  string          `json:"name"`
		Role  string          `json:"role"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = User{Email: raw.Email, Name: raw.Name, Role: raw.Role}
	if len(raw.ID) > 0 && string(raw.ID) != "null" {
		var s string
		if err := json.Unmarshal(raw.ID, &s); err == nil {
			u.ID = s
		} else {
			u.ID = string(raw.ID)
		}
	}
	return nil
}
