package users

// Action names a policy-gated operation on user records.
type Action string

const (
	ActionViewList Action = "users:view_list"
	ActionView     Action = "users:view"
	ActionCreate   Action = "users:create"
	ActionUpdate   Action = "users:update"
	ActionDelete   Action = "users:delete"
)

// The policy checks are pure capability functions: they inspect the actor and
// the target record and return a verdict without touching storage or clocks.
// Every check denies by default; a nil actor or, where a target is involved, a
// nil target always yields false.

// CanViewUserList reports whether the actor may list user records. Only the
// editor tier browses the account list.
func CanViewUserList(actor *User) bool {
	return actor != nil && actor.Role == RoleEditor
}

// CanViewUser reports whether the actor may read the target record. Accounts
// are self-scoped: an actor only sees their own record.
func CanViewUser(actor, target *User) bool {
	if actor == nil || target == nil {
		return false
	}
	return actor.ID == target.ID
}

// CanCreateUser reports whether the actor may create accounts. Registration
// is open, so this always allows.
func CanCreateUser(_ *User) bool {
	return true
}

// CanUpdateUser reports whether the actor may modify the target record.
func CanUpdateUser(actor, target *User) bool {
	if actor == nil || target == nil {
		return false
	}
	return actor.ID == target.ID
}

// CanDeleteUser reports whether the actor may remove the target record.
func CanDeleteUser(actor, target *User) bool {
	if actor == nil || target == nil {
		return false
	}
	return actor.ID == target.ID
}

// Authorize evaluates the named action and returns a DeniedError when the
// policy rejects it.
func Authorize(action Action, actor, target *User) error {
	allowed := false
	switch action {
	case ActionViewList:
		allowed = CanViewUserList(actor)
	case ActionView:
		allowed = CanViewUser(actor, target)
	case ActionCreate:
		allowed = CanCreateUser(actor)
	case ActionUpdate:
		allowed = CanUpdateUser(actor, target)
	case ActionDelete:
		allowed = CanDeleteUser(actor, target)
	}
	if !allowed {
		return &DeniedError{Action: action}
	}
	return nil
}
