package auth

import (
	"github.com/techhub/server/internal/app/models"
	"github.com/techhub/server/internal/pkg/apperrors"
)

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID int64
	Role   models.RoleType
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// CanOrganize returns a permission error unless the actor may create events.
func CanOrganize(a Actor) error {
	if !a.Role.CanOrganize() {
		return apperrors.NewForbiddenError("Only chapter leaders and admins can create events")
	}
	return nil
}

// CanManageEvent returns a permission error unless the actor organises the
// event or is an administrator.
func CanManageEvent(a Actor, e *models.Event) error {
	if a.IsAdmin() || (a.UserID != 0 && a.UserID == e.OrganizerID) {
		return nil
	}
	return apperrors.NewForbiddenError("Not authorized to manage this event")
}

// CanViewEvent reports whether the event is visible to the actor. Anonymous
// callers pass a nil actor.
func CanViewEvent(a *Actor, e *models.Event) bool {
	if e.IsVisibleToPublic() {
		return true
	}
	return a != nil && CanManageEvent(*a, e) == nil
}
