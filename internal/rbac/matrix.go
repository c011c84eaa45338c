package rbac

import (
	"fmt"
	"sort"
	"time"
)

// Resource identifies a protected entity kind. The set is closed: new
// resources are added here and in schema, nowhere else.
type Resource string

// Known resources.
const (
	ResourceUser         Resource = "user"
	ResourceBook         Resource = "book"
	ResourceBlog         Resource = "blog"
	ResourceArticle      Resource = "article"
	ResourceMedia        Resource = "media"
	ResourceOrder        Resource = "order"
	ResourcePayment      Resource = "payment"
	ResourceSubscription Resource = "subscription"
	ResourceRole         Resource = "role"
	ResourceSetting      Resource = "setting"
)

// Action identifies an operation on a resource. Which actions apply to
// which resource is defined by schema below; the sets are heterogeneous
// (orders cannot be created through the API, payments cannot be deleted).
type Action string

// Known actions.
const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionViewOne  Action = "viewOne"
	ActionViewMany Action = "viewMany"
	ActionDelete   Action = "delete"
	ActionActive   Action = "active"
	ActionFeatured Action = "featured"
	ActionCancel   Action = "cancel"
	ActionVerify   Action = "verify"
)

// schema is the single source of truth for which actions exist per
// resource. The roles admin API and the matrix validator both derive
// from it so the stored matrices and the editing forms cannot drift.
var schema = map[Resource][]Action{
	ResourceUser:         {ActionCreate, ActionUpdate, ActionViewOne, ActionViewMany, ActionDelete, ActionActive},
	ResourceBook:         {ActionCreate, ActionUpdate, ActionViewOne, ActionViewMany, ActionDelete, ActionActive, ActionFeatured},
	ResourceBlog:         {ActionCreate, ActionUpdate, ActionViewOne, ActionViewMany, ActionDelete, ActionActive},
	ResourceArticle:      {ActionCreate, ActionUpdate, ActionViewOne, ActionViewMany, ActionDelete, ActionActive},
	ResourceMedia:        {ActionCreate, ActionViewOne, ActionViewMany, ActionDelete},
	ResourceOrder:        {ActionUpdate, ActionViewOne, ActionViewMany, ActionCancel},
	ResourcePayment:      {ActionCreate, ActionViewOne, ActionViewMany, ActionVerify},
	ResourceSubscription: {ActionCreate, ActionUpdate, ActionViewOne, ActionViewMany, ActionCancel},
	ResourceRole:         {ActionCreate, ActionUpdate, ActionViewOne, ActionViewMany, ActionDelete},
	ResourceSetting:      {ActionViewOne, ActionUpdate},
}

// Resources returns the closed resource set in stable order.
func Resources() []Resource {
	out := make([]Resource, 0, len(schema))
	for res := range schema {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Actions returns the action set defined for a resource, or nil for an
// unknown resource.
func Actions(res Resource) []Action {
	actions, ok := schema[res]
	if !ok {
		return nil
	}
	out := make([]Action, len(actions))
	copy(out, actions)
	return out
}

// KnownResource reports whether res belongs to the closed set.
func KnownResource(res Resource) bool {
	_, ok := schema[res]
	return ok
}

// KnownAction reports whether act is defined for res.
func KnownAction(res Resource, act Action) bool {
	for _, a := range schema[res] {
		if a == act {
			return true
		}
	}
	return false
}

// ActionSet maps actions to grant flags for one resource.
type ActionSet map[Action]bool

// Matrix maps every granted resource to its action flags. Absent keys
// always evaluate to deny.
type Matrix map[Resource]ActionSet

// Allows reports whether the matrix grants act on res. Unknown keys are
// a deny, never an error.
func (m Matrix) Allows(res Resource, act Action) bool {
	if m == nil {
		return false
	}
	return m[res][act]
}

// Validate checks the matrix against schema: every present resource must
// be known and carry exactly the actions defined for it. Stored role
// matrices must always pass; the engine still treats holes as deny in
// case legacy rows predate a schema addition.
func (m Matrix) Validate() error {
	for res, set := range m {
		actions, ok := schema[res]
		if !ok {
			return fmt.Errorf("rbac: unknown resource %q", res)
		}
		if len(set) != len(actions) {
			return fmt.Errorf("rbac: resource %q: want %d actions, got %d", res, len(actions), len(set))
		}
		for _, act := range actions {
			if _, ok := set[act]; !ok {
				return fmt.Errorf("rbac: resource %q: missing action %q", res, act)
			}
		}
		for act := range set {
			if !KnownAction(res, act) {
				return fmt.Errorf("rbac: resource %q: unknown action %q", res, act)
			}
		}
	}
	return nil
}

// EmptyMatrix returns a well-formed matrix covering every resource with
// every action denied. Role creation forms start from this shape.
func EmptyMatrix() Matrix {
	m := make(Matrix, len(schema))
	for res, actions := range schema {
		set := make(ActionSet, len(actions))
		for _, act := range actions {
			set[act] = false
		}
		m[res] = set
	}
	return m
}

// Role bundles a named permission matrix assignable to users. Lifecycle
// is owned by the roles admin module; the engine reads it as-is.
type Role struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	Matrix    Matrix    `json:"permission"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is the authenticated actor as seen by the permission engine.
type User struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Active        bool   `json:"active"`
	EmailVerified bool   `json:"email_verified"`
	Roles         []Role `json:"roles"`
}
