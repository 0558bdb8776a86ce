// Package session owns the persisted client identity: the bearer token, the
// user it belongs to and the guest cart id. Every reader goes through a
// role-scoped projection of the single slot.
package session

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// BackOffice reports whether the role may use the admin area.
func (r Role) BackOffice() bool {
	return r == RoleAdmin || r == RoleManager
}

// UserID accepts both string and numeric ids and always renders as a string.
type UserID string

func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = UserID(n.String())
	return nil
}

type User struct {
	ID        UserID `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

// StoredSession is the slot content written on login or registration.
type StoredSession struct {
	Token string
	User  *User
}

// AdminUser is the normalized view handed to the admin area.
type AdminUser struct {
	ID          string
	Email       string
	DisplayName string
	Role        Role
}

func newAdminUser(u User) AdminUser {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Email
	}
	return AdminUser{
		ID:          string(u.ID),
		Email:       u.Email,
		DisplayName: name,
		Role:        u.Role,
	}
}

// Invalidation is published when the server rejected the stored token.
type Invalidation struct {
	Path       string
	Status     int
	Background bool
}

func (i Invalidation) String() string {
	return strconv.Itoa(i.Status) + " " + i.Path
}
