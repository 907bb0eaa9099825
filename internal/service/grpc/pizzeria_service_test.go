package grpcsvc_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
	"github.com/vladislavdragonenkov/pizzeria/internal/metrics"
	"github.com/vladislavdragonenkov/pizzeria/internal/seed"
	grpcsvc "github.com/vladislavdragonenkov/pizzeria/internal/service/grpc"
	"github.com/vladislavdragonenkov/pizzeria/internal/service/ordering"
	"github.com/vladislavdragonenkov/pizzeria/internal/storage/memory"
)

const bufSize = 1024 * 1024

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

func newTestClient(t *testing.T, store *ordering.Store) *grpcsvc.PizzeriaClient {
	t.Helper()

	listener := bufconn.Listen(bufSize)
	logger := loggerForTests()
	service := grpcsvc.NewPizzeriaService(store, metrics.NewStoreMetricsWithRegisterer(prometheus.NewRegistry()), logger)

	server := grpc.NewServer()
	grpcsvc.RegisterPizzeriaServer(server, service)
	go func() {
		if err := server.Serve(listener); err != nil {
			logger.WithError(err).Error("grpc serve failed")
		}
	}()

	dialer := func(context.Context, string) (net.Conn, error) {
		return listener.Dial()
	}
	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		server.Stop()
	})
	return grpcsvc.NewPizzeriaClient(conn)
}

func newStoreWithCustomer(t *testing.T) *ordering.Store {
	t.Helper()
	store := ordering.NewStore(
		ordering.WithLogger(loggerForTests()),
		ordering.WithTimeline(memory.NewTimelineRepository()),
	)
	_, err := store.AddCustomer(domain.Customer{Name: "Ana Silva", Address: "Rua das Flores, 10"})
	require.NoError(t, err)
	return store
}

func requireCode(t *testing.T, err error, expected codes.Code) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected grpc status, got %v", err)
	require.Equal(t, expected, st.Code(), st.Message())
}

func workedExample() *grpcsvc.CreateOrderRequest {
	return &grpcsvc.CreateOrderRequest{
		CustomerName: "ana",
		Items:        []grpcsvc.Item{{Size: "regular", Toppings: []string{"margherita", "pepperoni"}}},
		Beverages:    []string{"cola_2l"},
		DistanceKm:   "3.5",
	}
}

func TestPizzeriaService_CreateAndGet(t *testing.T) {
	client := newTestClient(t, newStoreWithCustomer(t))
	ctx := context.Background()

	created, err := client.CreateOrder(ctx, workedExample())
	require.NoError(t, err)

	order := created.Order
	assert.Equal(t, int64(1), order.ID)
	require.NotNil(t, order.Customer)
	assert.Equal(t, "Ana Silva", order.Customer.Name)
	assert.Equal(t, "35.00", order.Items[0].Price)
	assert.Equal(t, "7.10", order.Shipping)
	assert.Equal(t, "54.10", order.Total)
	assert.Equal(t, "3.50", order.DistanceKm)

	got, err := client.GetOrder(ctx, &grpcsvc.GetOrderRequest{OrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, order.Total, got.Order.Total)
	assert.Equal(t, []string{"margherita", "pepperoni"}, got.Order.Items[0].Toppings)
	assert.Equal(t, "cola_2l", got.Order.Beverages[0].Code)
}

func TestPizzeriaService_CreateOrder_Errors(t *testing.T) {
	client := newTestClient(t, newStoreWithCustomer(t))
	ctx := context.Background()

	tests := []struct {
		name string
		req  *grpcsvc.CreateOrderRequest
		code codes.Code
	}{
		{name: "missing customer", req: &grpcsvc.CreateOrderRequest{Beverages: []string{"cola_2l"}}, code: codes.InvalidArgument},
		{name: "unknown customer", req: &grpcsvc.CreateOrderRequest{CustomerName: "zeca", Beverages: []string{"cola_2l"}}, code: codes.NotFound},
		{name: "empty order", req: &grpcsvc.CreateOrderRequest{CustomerName: "ana", DistanceKm: "1"}, code: codes.InvalidArgument},
		{name: "bad distance", req: &grpcsvc.CreateOrderRequest{CustomerName: "ana", Beverages: []string{"cola_2l"}, DistanceKm: "far"}, code: codes.InvalidArgument},
		{name: "negative distance", req: &grpcsvc.CreateOrderRequest{CustomerName: "ana", Beverages: []string{"cola_2l"}, DistanceKm: "-1"}, code: codes.InvalidArgument},
		{name: "unknown topping", req: &grpcsvc.CreateOrderRequest{CustomerName: "ana", Items: []grpcsvc.Item{{Size: "small", Toppings: []string{"pineapple"}}}}, code: codes.InvalidArgument},
		{name: "topping selection out of menu", req: &grpcsvc.CreateOrderRequest{CustomerName: "ana", Items: []grpcsvc.Item{{Size: "small", Toppings: []string{"11"}}}}, code: codes.InvalidArgument},
		{name: "no toppings", req: &grpcsvc.CreateOrderRequest{CustomerName: "ana", Items: []grpcsvc.Item{{Size: "small"}}}, code: codes.InvalidArgument},
		{name: "too many toppings", req: &grpcsvc.CreateOrderRequest{CustomerName: "ana", Items: []grpcsvc.Item{{Size: "small", Toppings: []string{"1", "2", "3", "4", "5"}}}}, code: codes.InvalidArgument},
		{name: "unknown beverage", req: &grpcsvc.CreateOrderRequest{CustomerName: "ana", Beverages: []string{"water"}}, code: codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreateOrder(ctx, tt.req)
			requireCode(t, err, tt.code)
		})
	}

	// ни одна неудачная попытка не сдвигает счётчик ID
	created, err := client.CreateOrder(ctx, workedExample())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Order.ID)
}

func TestPizzeriaService_Mutations(t *testing.T) {
	client := newTestClient(t, newStoreWithCustomer(t))
	ctx := context.Background()

	created, err := client.CreateOrder(ctx, workedExample())
	require.NoError(t, err)
	id := created.Order.ID

	resp, err := client.AddItem(ctx, &grpcsvc.AddItemRequest{OrderID: id, Item: grpcsvc.Item{Size: "1", Toppings: []string{"four cheese"}}})
	require.NoError(t, err)
	assert.Equal(t, "80.60", resp.Order.Total)

	resp, err = client.AddBeverage(ctx, &grpcsvc.AddBeverageRequest{OrderID: id, Beverage: "2"})
	require.NoError(t, err)
	assert.Equal(t, "91.30", resp.Order.Total)

	resp, err = client.RemoveBeverage(ctx, &grpcsvc.RemoveBeverageRequest{OrderID: id, Index: 0})
	require.NoError(t, err)
	assert.Equal(t, "79.10", resp.Order.Total)
	require.Len(t, resp.Order.Beverages, 1)
	assert.Equal(t, "guarana_2l", resp.Order.Beverages[0].Code)

	resp, err = client.ReplaceItemToppings(ctx, &grpcsvc.ReplaceItemToppingsRequest{OrderID: id, Index: 1, Toppings: []string{"tuna"}})
	require.NoError(t, err)
	assert.Equal(t, "small", resp.Order.Items[1].Size)
	assert.Equal(t, []string{"tuna"}, resp.Order.Items[1].Toppings)

	_, err = client.RemoveItem(ctx, &grpcsvc.RemoveItemRequest{OrderID: id, Index: 5})
	requireCode(t, err, codes.OutOfRange)

	_, err = client.AddBeverage(ctx, &grpcsvc.AddBeverageRequest{OrderID: 99, Beverage: "cola_2l"})
	requireCode(t, err, codes.NotFound)

	_, err = client.ReplaceItemToppings(ctx, &grpcsvc.ReplaceItemToppingsRequest{OrderID: id, Index: 0})
	requireCode(t, err, codes.InvalidArgument)
}

func TestPizzeriaService_RemovingLastPositionCancelsOrder(t *testing.T) {
	client := newTestClient(t, newStoreWithCustomer(t))
	ctx := context.Background()

	created, err := client.CreateOrder(ctx, &grpcsvc.CreateOrderRequest{CustomerName: "ana", Beverages: []string{"fanta_2l"}, DistanceKm: "2"})
	require.NoError(t, err)
	id := created.Order.ID

	_, err = client.RemoveBeverage(ctx, &grpcsvc.RemoveBeverageRequest{OrderID: id, Index: 0})
	requireCode(t, err, codes.NotFound)

	_, err = client.GetOrder(ctx, &grpcsvc.GetOrderRequest{OrderID: id})
	requireCode(t, err, codes.NotFound)

	timeline, err := client.GetOrderTimeline(ctx, &grpcsvc.GetOrderTimelineRequest{OrderID: id})
	require.NoError(t, err)
	require.Len(t, timeline.Events, 3)
	assert.Equal(t, domain.TimelineOrderCreated, timeline.Events[0].Type)
	assert.Equal(t, domain.TimelineOrderCancelled, timeline.Events[2].Type)

	_, err = client.GetOrderTimeline(ctx, &grpcsvc.GetOrderTimelineRequest{OrderID: 42})
	requireCode(t, err, codes.NotFound)
}

func TestPizzeriaService_Customers(t *testing.T) {
	client := newTestClient(t, newStoreWithCustomer(t))
	ctx := context.Background()

	_, err := client.AddCustomer(ctx, &grpcsvc.AddCustomerRequest{Customer: grpcsvc.Customer{Name: "  "}})
	requireCode(t, err, codes.InvalidArgument)

	added, err := client.AddCustomer(ctx, &grpcsvc.AddCustomerRequest{Customer: grpcsvc.Customer{Name: "Bruno Costa", Phone: "97777-2222"}})
	require.NoError(t, err)
	assert.Equal(t, "Bruno Costa", added.Customer.Name)

	found, err := client.FindCustomer(ctx, &grpcsvc.FindCustomerRequest{Query: "  COSTA "})
	require.NoError(t, err)
	require.True(t, found.Found)
	assert.Equal(t, "97777-2222", found.Customer.Phone)

	missing, err := client.FindCustomer(ctx, &grpcsvc.FindCustomerRequest{Query: "zeca"})
	require.NoError(t, err)
	assert.False(t, missing.Found)
	assert.Nil(t, missing.Customer)

	list, err := client.ListCustomers(ctx, &grpcsvc.ListCustomersRequest{})
	require.NoError(t, err)
	require.Len(t, list.Customers, 2)
	assert.Equal(t, "Ana Silva", list.Customers[0].Name)
}

func TestPizzeriaService_GetCatalog(t *testing.T) {
	client := newTestClient(t, newStoreWithCustomer(t))

	menu, err := client.GetCatalog(context.Background(), &grpcsvc.GetCatalogRequest{})
	require.NoError(t, err)

	require.Len(t, menu.Toppings, 10)
	assert.Equal(t, grpcsvc.CatalogEntry{Selection: 1, Code: "margherita", Name: "margherita", Value: "30.00"}, menu.Toppings[0])
	require.Len(t, menu.Sizes, 3)
	assert.Equal(t, "1.30", menu.Sizes[2].Value)
	require.Len(t, menu.Beverages, 3)
	assert.Equal(t, ordering.DefaultMaxToppings, menu.MaxToppings)
	assert.Equal(t, grpcsvc.Rates{PerKm: "1.80", ItemWeight: "0.60", BeverageWeight: "0.20"}, menu.Rates)
}

func TestPizzeriaService_ListOrdersAndSalesReport(t *testing.T) {
	store := ordering.NewStore(ordering.WithLogger(loggerForTests()))
	_, err := seed.Load(store)
	require.NoError(t, err)

	client := newTestClient(t, store)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	orders, err := client.ListOrders(ctx, &grpcsvc.ListOrdersRequest{})
	require.NoError(t, err)
	require.Len(t, orders.Orders, 2)
	assert.Equal(t, "80.60", orders.Orders[0].Total)
	assert.Equal(t, "160.25", orders.Orders[1].Total)

	sales, err := client.GetSalesReport(ctx, &grpcsvc.GetSalesReportRequest{})
	require.NoError(t, err)
	assert.Equal(t, "240.85", sales.Revenue)
	assert.Equal(t, 2, sales.OrderCount)
	require.Len(t, sales.TopToppings, 5)
	assert.Equal(t, grpcsvc.RankedEntry{Code: "pepperoni", Name: "pepperoni", Count: 2}, sales.TopToppings[0])
	require.Len(t, sales.TopBeverages, 3)
	assert.Equal(t, "guarana_2l", sales.TopBeverages[0].Code)
	assert.Equal(t, []grpcsvc.ToppingPair{
		{A: "pepperoni", B: "calabresa", Weight: 1},
		{A: "pepperoni", B: "mozzarella", Weight: 1},
		{A: "chicken_catupiry", B: "mozzarella", Weight: 1},
	}, sales.Pairs)

	limited, err := client.GetSalesReport(ctx, &grpcsvc.GetSalesReportRequest{ToppingLimit: 2, BeverageLimit: 1})
	require.NoError(t, err)
	assert.Len(t, limited.TopToppings, 2)
	assert.Len(t, limited.TopBeverages, 1)

	unlimited, err := client.GetSalesReport(ctx, &grpcsvc.GetSalesReportRequest{ToppingLimit: -1})
	require.NoError(t, err)
	assert.Len(t, unlimited.TopToppings, 6)
}
