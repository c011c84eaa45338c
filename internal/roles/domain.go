package roles

import "github.com/inkwell-press/inkwell/internal/rbac"

// Role aliases the engine's role type: the admin module owns its
// lifecycle, the engine only reads it.
type Role = rbac.Role
