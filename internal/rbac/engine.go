package rbac

// Engine evaluates permission checks against the roles attached to a
// user. It holds no state and performs no I/O: every decision is a pure
// function of its arguments, so a single value can be shared by any
// number of goroutines.
type Engine struct{}

// NewEngine returns the evaluator. Construction exists for symmetry with
// the rest of the service wiring; the zero value is equally usable.
func NewEngine() Engine {
	return Engine{}
}

// Can reports whether the user may perform act on res. A nil user, a
// user without roles, and a matrix without the requested keys all
// evaluate to deny. Grants are unioned across roles: the first active
// role that allows the pair wins.
func (Engine) Can(u *User, res Resource, act Action) bool {
	if u == nil {
		return false
	}
	for _, role := range u.Roles {
		if !role.Active {
			continue
		}
		if role.Matrix.Allows(res, act) {
			return true
		}
	}
	return false
}

// CanAll reports whether the user may perform every listed action on
// res. An empty list is vacuously true: requiring nothing is satisfied
// by anyone, including anonymous users.
func (e Engine) CanAll(u *User, res Resource, acts ...Action) bool {
	for _, act := range acts {
		if !e.Can(u, res, act) {
			return false
		}
	}
	return true
}

// CanAny reports whether the user may perform at least one of the listed
// actions on res. An empty list is false.
func (e Engine) CanAny(u *User, res Resource, acts ...Action) bool {
	for _, act := range acts {
		if e.Can(u, res, act) {
			return true
		}
	}
	return false
}
