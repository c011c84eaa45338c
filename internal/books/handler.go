package books

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/inkwell-press/inkwell/internal/auth"
	"github.com/inkwell-press/inkwell/internal/platform/httpx"
	"github.com/inkwell-press/inkwell/internal/rbac"
)

// Handler manages catalogue endpoints. Reads are safe-auth: anonymous
// visitors browse the active subset, staff with book permissions see
// everything plus the controls their matrix grants.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	engine    rbac.Engine
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw rbac.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		engine:    rbac.NewEngine(),
		rbac:      mw,
		validator: validator.New(),
	}
}

// MountRoutes registers catalogue routes. The surrounding router mounts
// the guard: safe-auth for reads, strict for writes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listBooks)
	r.Get("/{id}", h.getBook)

	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceBook, rbac.ActionCreate))
		r.Post("/", h.createBook)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceBook, rbac.ActionUpdate))
		r.Put("/{id}", h.updateBook)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceBook, rbac.ActionActive))
		r.Put("/{id}/active", h.setActive)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceBook, rbac.ActionFeatured))
		r.Put("/{id}/featured", h.setFeatured)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.Require(rbac.ResourceBook, rbac.ActionDelete))
		r.Delete("/{id}", h.deleteBook)
	})
}

type bookRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=256"`
	Author      string `json:"author" validate:"max=256"`
	Slug        string `json:"slug" validate:"required,min=1,max=128"`
	Description string `json:"description" validate:"max=4096"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
}

type flagRequest struct {
	Value bool `json:"value"`
}

// adminMeta is the staff-only slice of a detail payload, rendered
// through a gate so anonymous responses simply omit it.
type adminMeta struct {
	Active    bool      `json:"active"`
	Featured  bool      `json:"featured"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type bookPayload struct {
	Book           Book       `json:"book"`
	AllowedActions []string   `json:"allowed_actions,omitempty"`
	Admin          *adminMeta `json:"admin,omitempty"`
}

type listPayload struct {
	Books          []Book   `json:"books"`
	AllowedActions []string `json:"allowed_actions,omitempty"`
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	checker := h.engine.For(auth.UserFromContext(r.Context()))

	// Full catalogue only for holders of the manage-view permission.
	activeOnly := !checker.Can(rbac.ResourceBook, rbac.ActionViewMany)
	books, err := h.service.ListBooks(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("list books", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, listPayload{
		Books:          books,
		AllowedActions: actionStrings(rbac.Allowed(checker, rbac.ResourceBook)),
	})
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	book, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	checker := h.engine.For(auth.UserFromContext(r.Context()))
	if !book.Active && !checker.Can(rbac.ResourceBook, rbac.ActionViewOne) {
		// Hidden entries look absent to visitors.
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}

	admin, _ := rbac.Render(checker, rbac.ResourceBook, rbac.ActionViewOne, func() *adminMeta {
		return &adminMeta{
			Active:    book.Active,
			Featured:  book.Featured,
			CreatedAt: book.CreatedAt,
			UpdatedAt: book.UpdatedAt,
		}
	})
	httpx.JSON(w, http.StatusOK, bookPayload{
		Book:           book,
		AllowedActions: actionStrings(rbac.Allowed(checker, rbac.ResourceBook)),
		Admin:          admin,
	})
}

func (h *Handler) createBook(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	book, err := h.service.CreateBook(r.Context(), Book{
		Title:       req.Title,
		Author:      req.Author,
		Slug:        req.Slug,
		Description: req.Description,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, bookPayload{Book: book})
}

func (h *Handler) updateBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	book, err := h.service.UpdateBook(r.Context(), Book{
		ID:          id,
		Title:       req.Title,
		Author:      req.Author,
		Slug:        req.Slug,
		Description: req.Description,
		PriceCents:  req.PriceCents,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bookPayload{Book: book})
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, h.service.SetActive)
}

func (h *Handler) setFeatured(w http.ResponseWriter, r *http.Request) {
	h.setFlag(w, r, h.service.SetFeatured)
}

func (h *Handler) setFlag(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id int64, value bool) error) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	var req flagRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := apply(r.Context(), id, req.Value); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.DeleteBook(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (bookRequest, bool) {
	var req bookRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return req, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return req, false
	}
	return req, true
}

func actionStrings(actions []rbac.Action) []string {
	if len(actions) == 0 {
		return nil
	}
	out := make([]string, len(actions))
	for i, act := range actions {
		out[i] = string(act)
	}
	return out
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
