package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// UserID is stored as an integer key but travels as a JSON string.
type UserID uint

func (id UserID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

func (id UserID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON accepts both "3" and 3.
func (id *UserID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n uint64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("invalid user id %s", data)
		}
		*id = UserID(n)
		return nil
	}
	if s == "" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", s, err)
	}
	*id = UserID(n)
	return nil
}

// ParseUserID parses a path parameter into a UserID.
func ParseUserID(s string) (UserID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return UserID(n), nil
}

type Role string

const (
	RoleDiner      Role = "diner"
	RoleFranchisee Role = "franchisee"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDiner, RoleFranchisee, RoleAdmin:
		return true
	}
	return false
}

// RoleAssignment grants a role, optionally scoped to a franchise through ObjectID.
type RoleAssignment struct {
	ID       uint   `json:"-" gorm:"primaryKey"`
	UserID   UserID `json:"-" gorm:"index;not null"`
	Role     Role   `json:"role" gorm:"size:20;not null"`
	ObjectID *uint  `json:"objectId,omitempty" gorm:"index"`
}

func (RoleAssignment) TableName() string { return "user_roles" }

type User struct {
	ID        UserID           `json:"id" gorm:"primaryKey"`
	Name      string           `json:"name" gorm:"size:100;not null"`
	Email     string           `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password  string           `json:"-" gorm:"size:255;not null"`
	Roles     []RoleAssignment `json:"roles" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `json:"-"`
	UpdatedAt time.Time        `json:"-"`
}

// HasRole reports whether the user holds role in any scope.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate it freely.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = make([]RoleAssignment, len(u.Roles))
	for i, r := range u.Roles {
		c.Roles[i] = r
		if r.ObjectID != nil {
			id := *r.ObjectID
			c.Roles[i].ObjectID = &id
		}
	}
	return &c
}

type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest carries the profile fields to change. Blank fields are left alone.
type UpdateUserRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type UserPage struct {
	Users []User `json:"users"`
	More  bool   `json:"more"`
}
