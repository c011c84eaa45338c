package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
	"github.com/inkwell-press/inkwell/internal/rbac"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     *Guard
	csrf      *CSRFManager
	engine    rbac.Engine
	validator *validator.Validate
	secure    bool
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard *Guard, csrf *CSRFManager, secure bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		guard:     guard,
		csrf:      csrf,
		engine:    rbac.NewEngine(),
		validator: validator.New(),
		secure:    secure,
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require())
		r.Post("/logout", h.logout)
		r.Get("/me", h.me)
		r.Get("/csrf", h.csrfToken)
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type rolePayload struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type userPayload struct {
	ID            int64               `json:"id"`
	Email         string              `json:"email"`
	Name          string              `json:"name"`
	Active        bool                `json:"active"`
	EmailVerified bool                `json:"email_verified"`
	Roles         []rolePayload       `json:"roles"`
	Permissions   map[string][]string `json:"permissions"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	user, sess, err := h.service.Login(r.Context(), req.Email, req.Password, r.RemoteAddr, r.UserAgent())
	if err != nil && !IsAuditWriteError(err) {
		httpx.ProblemWithCause(w, http.StatusUnauthorized, "Unauthorized", ErrInvalidCredentials.Message, string(ErrInvalidCredentials.Cause))
		return
	}
	if err != nil {
		h.logger.Warn("session audit write failed", slog.Any("error", err))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.guard.CookieName(),
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
		Expires:  sess.ExpiresAt,
	})
	httpx.JSON(w, http.StatusOK, h.toPayload(user))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	if id.Session != nil {
		if err := h.service.Logout(r.Context(), id.Session.ID); err != nil {
			h.logger.Warn("logout", slog.Any("error", err))
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.guard.CookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	httpx.JSON(w, http.StatusOK, h.toPayload(id.User))
}

func (h *Handler) csrfToken(w http.ResponseWriter, r *http.Request) {
	id := IdentityFromContext(r.Context())
	if id.Session == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"csrf_token": h.csrf.TokenFor(id.Session.ID)})
}

// toPayload shapes the identity response, including the per-resource
// actions the user may perform so clients can build their navigation
// without re-deriving the matrix.
func (h *Handler) toPayload(user *rbac.User) userPayload {
	if user == nil {
		return userPayload{Permissions: map[string][]string{}}
	}
	checker := h.engine.For(user)
	perms := make(map[string][]string, len(rbac.Resources()))
	for _, res := range rbac.Resources() {
		allowed := rbac.Allowed(checker, res)
		if len(allowed) == 0 {
			continue
		}
		actions := make([]string, len(allowed))
		for i, act := range allowed {
			actions[i] = string(act)
		}
		perms[string(res)] = actions
	}
	roles := make([]rolePayload, len(user.Roles))
	for i, role := range user.Roles {
		roles[i] = rolePayload{ID: role.ID, Name: role.Name, Active: role.Active}
	}
	return userPayload{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Active:        user.Active,
		EmailVerified: user.EmailVerified,
		Roles:         roles,
		Permissions:   perms,
	}
}
