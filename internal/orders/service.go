package orders

import (
	"context"
	"fmt"

	"github.com/inkwell-press/inkwell/internal/platform/httpx"
)

// RepositoryPort defines data access methods for orders.
type RepositoryPort interface {
	ListOrders(ctx context.Context) ([]Order, error)
	ListOrdersForUser(ctx context.Context, userID int64) ([]Order, error)
	GetOrder(ctx context.Context, id int64) (Order, error)
	SetStatus(ctx context.Context, id int64, status Status) (Order, error)
}

// Service handles order business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListOrders returns every order for staff views.
func (s *Service) ListOrders(ctx context.Context) ([]Order, error) {
	return s.repo.ListOrders(ctx)
}

// ListOrdersForUser returns one customer's orders.
func (s *Service) ListOrdersForUser(ctx context.Context, userID int64) ([]Order, error) {
	return s.repo.ListOrdersForUser(ctx, userID)
}

// GetOrder fetches one order.
func (s *Service) GetOrder(ctx context.Context, id int64) (Order, error) {
	return s.repo.GetOrder(ctx, id)
}

// UpdateStatus moves an order along its lifecycle. Cancelled and
// delivered orders are terminal.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (Order, error) {
	if !status.Valid() {
		return Order{}, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, status)
	}
	current, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if current.Status == StatusCancelled || current.Status == StatusDelivered {
		return Order{}, fmt.Errorf("%w: order %s is final", httpx.ErrValidation, current.Status)
	}
	return s.repo.SetStatus(ctx, id, status)
}

// Cancel marks an order cancelled.
func (s *Service) Cancel(ctx context.Context, id int64) (Order, error) {
	return s.UpdateStatus(ctx, id, StatusCancelled)
}
