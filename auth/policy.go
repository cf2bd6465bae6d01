package auth

import (
	"fmt"

	"jwtpizza/apperror"
	"jwtpizza/model"
)

// Action is a privileged operation.
type Action int

const (
	CreateFranchise Action = iota + 1
	DeleteFranchise
	CreateStore
	DeleteStore
	ViewUserFranchises
	UpdateUser
	DeleteUser
	ListUsers
	ManageMenu
	ViewOrders
)

func (a Action) String() string {
	switch a {
	case CreateFranchise:
		return "create franchise"
	case DeleteFranchise:
		return "delete franchise"
	case CreateStore:
		return "create store"
	case DeleteStore:
		return "delete store"
	case ViewUserFranchises:
		return "view user franchises"
	case UpdateUser:
		return "update user"
	case DeleteUser:
		return "delete user"
	case ListUsers:
		return "list users"
	case ManageMenu:
		return "manage menu"
	case ViewOrders:
		return "view orders"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Target names the object an action applies to. Unused fields stay zero.
type Target struct {
	FranchiseID uint
	UserID      model.UserID
}

// roleGated actions answer Forbidden to anonymous callers too: they fail on the role
// check alone, not on the missing session.
func (a Action) roleGated() bool {
	switch a {
	case CreateFranchise, DeleteFranchise, CreateStore:
		return true
	default:
		return false
	}
}

// Authorize returns nil when any role held by id grants action on target.
func Authorize(id Identity, action Action, target Target) error {
	if !id.Authenticated() {
		if action.roleGated() {
			return apperror.Newf(apperror.Forbidden, "unable to %s", action)
		}
		return apperror.Newf(apperror.Unauthorized, "must be logged in to %s", action)
	}
	for _, r := range id.Roles {
		if grants(id, r, action, target) {
			return nil
		}
	}
	return apperror.Newf(apperror.Forbidden, "unable to %s", action)
}

// Allowed is Authorize as a predicate.
func Allowed(id Identity, action Action, target Target) bool {
	return Authorize(id, action, target) == nil
}

func grants(id Identity, r model.RoleAssignment, action Action, target Target) bool {
	self := target.UserID != 0 && target.UserID == id.UserID

	switch r.Role {
	case model.RoleDiner:
		switch action {
		case ViewUserFranchises, UpdateUser, DeleteUser:
			return self
		case ViewOrders:
			return true
		case CreateFranchise, DeleteFranchise, CreateStore, DeleteStore, ListUsers, ManageMenu:
			return false
		}
	case model.RoleFranchisee:
		ownsTarget := r.ObjectID != nil && *r.ObjectID == target.FranchiseID
		switch action {
		case CreateStore, DeleteStore:
			// Scoped to the franchise the role names, not to any franchise.
			return ownsTarget
		case ViewUserFranchises, UpdateUser, DeleteUser:
			return self
		case ViewOrders:
			return true
		case CreateFranchise, DeleteFranchise, ListUsers, ManageMenu:
			return false
		}
	case model.RoleAdmin:
		switch action {
		case CreateFranchise, DeleteFranchise, DeleteStore, ViewUserFranchises, DeleteUser, ListUsers, ManageMenu, ViewOrders:
			return true
		case UpdateUser:
			return self
		case CreateStore:
			// Store creation belongs to the franchise's own franchisees.
			return false
		}
	}
	return false
}
