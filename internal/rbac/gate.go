package rbac

// Render gates wrap a producer in an authorization check. Denial means
// the zero value, never an error: hiding content is a UI concern, the
// authoritative deny stays with the guard and middleware on the server.
// The same gates serve server handlers (checker from Engine.For) and
// client views (checker from Engine.Bind over a CurrentUserStore).

// Render invokes produce only when the checker grants act on res. The
// boolean reports whether the producer ran.
func Render[T any](c Checker, res Resource, act Action, produce func() T) (T, bool) {
	if !c.Can(res, act) {
		var zero T
		return zero, false
	}
	return produce(), true
}

// RenderAll invokes produce only when every listed action is granted.
// An empty action list always renders.
func RenderAll[T any](c Checker, res Resource, acts []Action, produce func() T) (T, bool) {
	if !c.CanAll(res, acts...) {
		var zero T
		return zero, false
	}
	return produce(), true
}

// RenderAny invokes produce when at least one listed action is granted.
func RenderAny[T any](c Checker, res Resource, acts []Action, produce func() T) (T, bool) {
	if !c.CanAny(res, acts...) {
		var zero T
		return zero, false
	}
	return produce(), true
}

// Allowed returns the subset of the resource's schema actions the
// checker grants. Handlers attach it to list and detail payloads so
// clients can show only the controls the user may use.
func Allowed(c Checker, res Resource) []Action {
	var out []Action
	for _, act := range Actions(res) {
		if c.Can(res, act) {
			out = append(out, act)
		}
	}
	return out
}
