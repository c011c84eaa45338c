package orders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/orders"
	"github.com/inkwell-press/inkwell/internal/platform/httpx"
)

type stubRepo struct {
	store map[int64]orders.Order
}

func (s *stubRepo) ListOrders(ctx context.Context) ([]orders.Order, error) {
	var out []orders.Order
	for _, o := range s.store {
		out = append(out, o)
	}
	return out, nil
}

func (s *stubRepo) ListOrdersForUser(ctx context.Context, userID int64) ([]orders.Order, error) {
	var out []orders.Order
	for _, o := range s.store {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubRepo) GetOrder(ctx context.Context, id int64) (orders.Order, error) {
	o, ok := s.store[id]
	if !ok {
		return orders.Order{}, httpx.ErrNotFound
	}
	return o, nil
}

func (s *stubRepo) SetStatus(ctx context.Context, id int64, status orders.Status) (orders.Order, error) {
	o, ok := s.store[id]
	if !ok {
		return orders.Order{}, httpx.ErrNotFound
	}
	o.Status = status
	s.store[id] = o
	return o, nil
}

func TestUpdateStatus(t *testing.T) {
	repo := &stubRepo{store: map[int64]orders.Order{
		1: {ID: 1, UserID: 5, Status: orders.StatusPaid},
	}}
	svc := orders.NewService(repo)

	order, err := svc.UpdateStatus(context.Background(), 1, orders.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusShipped, order.Status)
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	repo := &stubRepo{store: map[int64]orders.Order{1: {ID: 1, Status: orders.StatusPaid}}}
	svc := orders.NewService(repo)

	_, err := svc.UpdateStatus(context.Background(), 1, orders.Status("teleported"))
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateStatusFinalStates(t *testing.T) {
	repo := &stubRepo{store: map[int64]orders.Order{
		1: {ID: 1, Status: orders.StatusCancelled},
		2: {ID: 2, Status: orders.StatusDelivered},
	}}
	svc := orders.NewService(repo)

	_, err := svc.UpdateStatus(context.Background(), 1, orders.StatusPaid)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Cancel(context.Background(), 2)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestCancel(t *testing.T) {
	repo := &stubRepo{store: map[int64]orders.Order{1: {ID: 1, Status: orders.StatusPending}}}
	svc := orders.NewService(repo)

	order, err := svc.Cancel(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusCancelled, order.Status)
}
