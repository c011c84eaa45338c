package books

import (
	"context"
	"fmt"
	"strings"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
)

// RepositoryPort defines data access methods for books.
type RepositoryPort interface {
	ListBooks(ctx context.Context, activeOnly bool) ([]Book, error)
	GetBook(ctx context.Context, id int64) (Book, error)
	CreateBook(ctx context.Context, book Book) (Book, error)
	UpdateBook(ctx context.Context, book Book) (Book, error)
	SetFlag(ctx context.Context, id int64, column string, value bool) error
	DeleteBook(ctx context.Context, id int64) error
}

// Service handles catalogue business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListBooks returns catalogue entries. Callers without the manage view
// pass activeOnly to get the storefront subset.
func (s *Service) ListBooks(ctx context.Context, activeOnly bool) ([]Book, error) {
	return s.repo.ListBooks(ctx, activeOnly)
}

// GetBook fetches one book.
func (s *Service) GetBook(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetBook(ctx, id)
}

// CreateBook validates and inserts a new entry. New books start
// inactive; going live is a separate, separately-permissioned step.
func (s *Service) CreateBook(ctx context.Context, book Book) (Book, error) {
	if err := normalize(&book); err != nil {
		return Book{}, err
	}
	book.Active = false
	book.Featured = false
	return s.repo.CreateBook(ctx, book)
}

// UpdateBook validates and saves the editable fields.
func (s *Service) UpdateBook(ctx context.Context, book Book) (Book, error) {
	if err := normalize(&book); err != nil {
		return Book{}, err
	}
	return s.repo.UpdateBook(ctx, book)
}

// SetActive toggles storefront visibility.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) error {
	return s.repo.SetFlag(ctx, id, "is_active", active)
}

// SetFeatured toggles landing-shelf promotion.
func (s *Service) SetFeatured(ctx context.Context, id int64, featured bool) error {
	return s.repo.SetFlag(ctx, id, "is_featured", featured)
}

// DeleteBook removes an entry.
func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	return s.repo.DeleteBook(ctx, id)
}

func normalize(book *Book) error {
	book.Title = strings.TrimSpace(book.Title)
	book.Author = strings.TrimSpace(book.Author)
	book.Slug = strings.TrimSpace(strings.ToLower(book.Slug))
	if book.Title == "" || book.Slug == "" {
		return fmt.Errorf("%w: title and slug required", httpx.ErrValidation)
	}
	if book.PriceCents < 0 {
		return fmt.Errorf("%w: price cannot be negative", httpx.ErrValidation)
	}
	return nil
}
