package auth

import "jwtpizza/model"

// Identity is the acting user of a request. The zero value is an anonymous caller.
type Identity struct {
	UserID  model.UserID
	Name    string
	Email   string
	Roles   []model.RoleAssignment
	TokenID string
}

// Anonymous is the identity of a caller without a session.
var Anonymous = Identity{}

// FromUser builds the identity of an authenticated user.
func FromUser(u *model.User, tokenID string) Identity {
	if u == nil {
		return Anonymous
	}
	roles := make([]model.RoleAssignment, len(u.Roles))
	copy(roles, u.Roles)
	return Identity{
		UserID:  u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Roles:   roles,
		TokenID: tokenID,
	}
}

func (i Identity) Authenticated() bool {
	return i.UserID != 0
}

func (i Identity) IsAdmin() bool {
	for _, r := range i.Roles {
		if r.Role == model.RoleAdmin {
			return true
		}
	}
	return false
}
