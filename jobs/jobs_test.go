package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/Cristian668/VentaX/internal/catalog"
	"github.com/Cristian668/VentaX/internal/orders"
	"github.com/Cristian668/VentaX/internal/platform/httpx"
)

type stubUpstream struct {
	lists     map[catalog.Supplier][]catalog.Product
	err       error
	listCalls int
}

func (s *stubUpstream) ListProducts(ctx context.Context, view catalog.Supplier, limit int) ([]catalog.Product, error) {
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.lists[view], nil
}

func (s *stubUpstream) SearchProducts(ctx context.Context, query string, limit int) ([]catalog.Product, error) {
	return nil, nil
}

func (s *stubUpstream) GetProduct(ctx context.Context, token string) (catalog.Product, error) {
	return catalog.Product{}, errors.New("not implemented")
}

func TestCatalogWarmupRefreshesBothViews(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	up := &stubUpstream{lists: map[catalog.Supplier][]catalog.Product{
		catalog.SupplierFirstParty: {{ID: "1", ProductCode: "A"}},
		catalog.SupplierThirdParty: {{ID: "2", ProductCode: "B"}},
	}}
	svc := catalog.NewService(up, catalog.NewStore(50), catalog.NewSnapshot(client, time.Minute), slog.Default())
	warmer := NewCatalogWarmer(svc, slog.Default())

	task, err := NewCatalogWarmupTask(time.Now())
	require.NoError(t, err)
	require.NoError(t, warmer.Handle(context.Background(), task))

	require.Equal(t, 2, up.listCalls)
	require.True(t, mr.Exists("catalog:products:Cristy"))
	require.True(t, mr.Exists("catalog:products:others"))
}

func TestCatalogWarmupPropagatesUpstreamFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	up := &stubUpstream{err: errors.New("upstream down")}
	svc := catalog.NewService(up, catalog.NewStore(50), catalog.NewSnapshot(client, time.Minute), slog.Default())
	warmer := NewCatalogWarmer(svc, slog.Default())

	task, err := NewCatalogWarmupTask(time.Now())
	require.NoError(t, err)
	require.Error(t, warmer.Handle(context.Background(), task))
	require.False(t, mr.Exists("catalog:products:Cristy"))
}

type fakeOrderStore struct {
	orders  map[string]orders.Order
	pending []orders.Order
	updated map[string]orders.OrderStatus
}

func (f *fakeOrderStore) GetByID(ctx context.Context, id string) (orders.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrderStore) ListPending(ctx context.Context, limit int) ([]orders.Order, error) {
	return f.pending, nil
}

func (f *fakeOrderStore) UpdateStatus(ctx context.Context, id string, status orders.OrderStatus) error {
	if f.updated == nil {
		f.updated = make(map[string]orders.OrderStatus)
	}
	f.updated[id] = status
	return nil
}

type fakeStatusSource struct {
	statuses map[string]string
}

func (f *fakeStatusSource) GetOrderStatus(ctx context.Context, code string) (string, error) {
	status, ok := f.statuses[code]
	if !ok {
		return "", httpx.ErrNotFound
	}
	return status, nil
}

func pendingOrder(code string) orders.Order {
	return orders.Order{ID: uuid.New(), Code: code, Status: orders.StatusPending}
}

func TestOrderSweepAdvancesSettledOrders(t *testing.T) {
	confirmed := pendingOrder("ORD-AAAAAAAA")
	cancelled := pendingOrder("ORD-BBBBBBBB")
	unmirrored := pendingOrder("ORD-CCCCCCCC")

	store := &fakeOrderStore{pending: []orders.Order{confirmed, cancelled, unmirrored}}
	source := &fakeStatusSource{statuses: map[string]string{
		"ORD-AAAAAAAA": "CONFIRMED",
		"ORD-BBBBBBBB": "cancelled",
	}}
	syncer := NewOrderSyncer(store, slog.Default()).WithStatusSource(source)

	task, err := NewOrderSyncTask(OrderSyncPayload{})
	require.NoError(t, err)
	require.NoError(t, syncer.Handle(context.Background(), task))

	require.Len(t, store.updated, 2)
	require.Equal(t, orders.StatusConfirmed, store.updated[confirmed.ID.String()])
	require.Equal(t, orders.StatusCancelled, store.updated[cancelled.ID.String()])
	// an order the upstream does not know yet stays pending
	require.NotContains(t, store.updated, unmirrored.ID.String())
}

func TestSingleOrderSyncUpdatesStatus(t *testing.T) {
	order := pendingOrder("ORD-DDDDDDDD")
	store := &fakeOrderStore{orders: map[string]orders.Order{order.ID.String(): order}}
	source := &fakeStatusSource{statuses: map[string]string{"ORD-DDDDDDDD": "CONFIRMED"}}
	syncer := NewOrderSyncer(store, slog.Default()).WithStatusSource(source)

	task, err := NewOrderSyncTask(OrderSyncPayload{OrderID: order.ID.String()})
	require.NoError(t, err)
	require.NoError(t, syncer.Handle(context.Background(), task))

	require.Equal(t, orders.StatusConfirmed, store.updated[order.ID.String()])
}

func TestBadPayloadSkipsRetry(t *testing.T) {
	warmer := NewCatalogWarmer(nil, slog.Default())
	err := warmer.Handle(context.Background(), asynq.NewTask(TaskCatalogWarmup, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)

	syncer := NewOrderSyncer(nil, slog.Default())
	err = syncer.Handle(context.Background(), asynq.NewTask(TaskOrderSync, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}
