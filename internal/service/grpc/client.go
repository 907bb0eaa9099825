package grpcsvc

import (
	"context"

	"google.golang.org/grpc"
)

// PizzeriaClient — клиент pizzeria.v1.PizzeriaService. Все вызовы идут через JSON-кодек.
type PizzeriaClient struct {
	cc grpc.ClientConnInterface
}

// NewPizzeriaClient создаёт клиент поверх соединения.
func NewPizzeriaClient(cc grpc.ClientConnInterface) *PizzeriaClient {
	return &PizzeriaClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *PizzeriaClient) GetCatalog(ctx context.Context, in *GetCatalogRequest, opts ...grpc.CallOption) (*GetCatalogResponse, error) {
	return invoke[GetCatalogResponse](ctx, c.cc, PizzeriaService_GetCatalog_FullMethodName, in, opts)
}

func (c *PizzeriaClient) AddCustomer(ctx context.Context, in *AddCustomerRequest, opts ...grpc.CallOption) (*AddCustomerResponse, error) {
	return invoke[AddCustomerResponse](ctx, c.cc, PizzeriaService_AddCustomer_FullMethodName, in, opts)
}

func (c *PizzeriaClient) FindCustomer(ctx context.Context, in *FindCustomerRequest, opts ...grpc.CallOption) (*FindCustomerResponse, error) {
	return invoke[FindCustomerResponse](ctx, c.cc, PizzeriaService_FindCustomer_FullMethodName, in, opts)
}

func (c *PizzeriaClient) ListCustomers(ctx context.Context, in *ListCustomersRequest, opts ...grpc.CallOption) (*ListCustomersResponse, error) {
	return invoke[ListCustomersResponse](ctx, c.cc, PizzeriaService_ListCustomers_FullMethodName, in, opts)
}

func (c *PizzeriaClient) CreateOrder(ctx context.Context, in *CreateOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, PizzeriaService_CreateOrder_FullMethodName, in, opts)
}

func (c *PizzeriaClient) GetOrder(ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, PizzeriaService_GetOrder_FullMethodName, in, opts)
}

func (c *PizzeriaClient) ListOrders(ctx context.Context, in *ListOrdersRequest, opts ...grpc.CallOption) (*ListOrdersResponse, error) {
	return invoke[ListOrdersResponse](ctx, c.cc, PizzeriaService_ListOrders_FullMethodName, in, opts)
}

func (c *PizzeriaClient) AddItem(ctx context.Context, in *AddItemRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, PizzeriaService_AddItem_FullMethodName, in, opts)
}

func (c *PizzeriaClient) AddBeverage(ctx context.Context, in *AddBeverageRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, PizzeriaService_AddBeverage_FullMethodName, in, opts)
}

func (c *PizzeriaClient) RemoveItem(ctx context.Context, in *RemoveItemRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, PizzeriaService_RemoveItem_FullMethodName, in, opts)
}

func (c *PizzeriaClient) RemoveBeverage(ctx context.Context, in *RemoveBeverageRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, PizzeriaService_RemoveBeverage_FullMethodName, in, opts)
}

func (c *PizzeriaClient) ReplaceItemToppings(ctx context.Context, in *ReplaceItemToppingsRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, PizzeriaService_ReplaceItemToppings_FullMethodName, in, opts)
}

func (c *PizzeriaClient) GetOrderTimeline(ctx context.Context, in *GetOrderTimelineRequest, opts ...grpc.CallOption) (*GetOrderTimelineResponse, error) {
	return invoke[GetOrderTimelineResponse](ctx, c.cc, PizzeriaService_GetOrderTimeline_FullMethodName, in, opts)
}

func (c *PizzeriaClient) GetSalesReport(ctx context.Context, in *GetSalesReportRequest, opts ...grpc.CallOption) (*GetSalesReportResponse, error) {
	return invoke[GetSalesReportResponse](ctx, c.cc, PizzeriaService_GetSalesReport_FullMethodName, in, opts)
}
