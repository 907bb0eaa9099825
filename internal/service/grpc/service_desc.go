package grpcsvc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName — полное имя gRPC-сервиса.
const ServiceName = "pizzeria.v1.PizzeriaService"

// Полные имена методов PizzeriaService.
const (
	PizzeriaService_GetCatalog_FullMethodName          = "/" + ServiceName + "/GetCatalog"
	PizzeriaService_AddCustomer_FullMethodName         = "/" + ServiceName + "/AddCustomer"
	PizzeriaService_FindCustomer_FullMethodName        = "/" + ServiceName + "/FindCustomer"
	PizzeriaService_ListCustomers_FullMethodName       = "/" + ServiceName + "/ListCustomers"
	PizzeriaService_CreateOrder_FullMethodName         = "/" + ServiceName + "/CreateOrder"
	PizzeriaService_GetOrder_FullMethodName            = "/" + ServiceName + "/GetOrder"
	PizzeriaService_ListOrders_FullMethodName          = "/" + ServiceName + "/ListOrders"
	PizzeriaService_AddItem_FullMethodName             = "/" + ServiceName + "/AddItem"
	PizzeriaService_AddBeverage_FullMethodName         = "/" + ServiceName + "/AddBeverage"
	PizzeriaService_RemoveItem_FullMethodName          = "/" + ServiceName + "/RemoveItem"
	PizzeriaService_RemoveBeverage_FullMethodName      = "/" + ServiceName + "/RemoveBeverage"
	PizzeriaService_ReplaceItemToppings_FullMethodName = "/" + ServiceName + "/ReplaceItemToppings"
	PizzeriaService_GetOrderTimeline_FullMethodName    = "/" + ServiceName + "/GetOrderTimeline"
	PizzeriaService_GetSalesReport_FullMethodName      = "/" + ServiceName + "/GetSalesReport"
)

// PizzeriaServer — серверная часть pizzeria.v1.PizzeriaService.
type PizzeriaServer interface {
	GetCatalog(context.Context, *GetCatalogRequest) (*GetCatalogResponse, error)
	AddCustomer(context.Context, *AddCustomerRequest) (*AddCustomerResponse, error)
	FindCustomer(context.Context, *FindCustomerRequest) (*FindCustomerResponse, error)
	ListCustomers(context.Context, *ListCustomersRequest) (*ListCustomersResponse, error)
	CreateOrder(context.Context, *CreateOrderRequest) (*OrderResponse, error)
	GetOrder(context.Context, *GetOrderRequest) (*OrderResponse, error)
	ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error)
	AddItem(context.Context, *AddItemRequest) (*OrderResponse, error)
	AddBeverage(context.Context, *AddBeverageRequest) (*OrderResponse, error)
	RemoveItem(context.Context, *RemoveItemRequest) (*OrderResponse, error)
	RemoveBeverage(context.Context, *RemoveBeverageRequest) (*OrderResponse, error)
	ReplaceItemToppings(context.Context, *ReplaceItemToppingsRequest) (*OrderResponse, error)
	GetOrderTimeline(context.Context, *GetOrderTimelineRequest) (*GetOrderTimelineResponse, error)
	GetSalesReport(context.Context, *GetSalesReportRequest) (*GetSalesReportResponse, error)
}

// UnimplementedPizzeriaServer отвечает codes.Unimplemented на все методы.
type UnimplementedPizzeriaServer struct{}

func (UnimplementedPizzeriaServer) GetCatalog(context.Context, *GetCatalogRequest) (*GetCatalogResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCatalog not implemented")
}

func (UnimplementedPizzeriaServer) AddCustomer(context.Context, *AddCustomerRequest) (*AddCustomerResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddCustomer not implemented")
}

func (UnimplementedPizzeriaServer) FindCustomer(context.Context, *FindCustomerRequest) (*FindCustomerResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method FindCustomer not implemented")
}

func (UnimplementedPizzeriaServer) ListCustomers(context.Context, *ListCustomersRequest) (*ListCustomersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListCustomers not implemented")
}

func (UnimplementedPizzeriaServer) CreateOrder(context.Context, *CreateOrderRequest) (*OrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateOrder not implemented")
}

func (UnimplementedPizzeriaServer) GetOrder(context.Context, *GetOrderRequest) (*OrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetOrder not implemented")
}

func (UnimplementedPizzeriaServer) ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListOrders not implemented")
}

func (UnimplementedPizzeriaServer) AddItem(context.Context, *AddItemRequest) (*OrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddItem not implemented")
}

func (UnimplementedPizzeriaServer) AddBeverage(context.Context, *AddBeverageRequest) (*OrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddBeverage not implemented")
}

func (UnimplementedPizzeriaServer) RemoveItem(context.Context, *RemoveItemRequest) (*OrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveItem not implemented")
}

func (UnimplementedPizzeriaServer) RemoveBeverage(context.Context, *RemoveBeverageRequest) (*OrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveBeverage not implemented")
}

func (UnimplementedPizzeriaServer) ReplaceItemToppings(context.Context, *ReplaceItemToppingsRequest) (*OrderResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReplaceItemToppings not implemented")
}

func (UnimplementedPizzeriaServer) GetOrderTimeline(context.Context, *GetOrderTimelineRequest) (*GetOrderTimelineResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetOrderTimeline not implemented")
}

func (UnimplementedPizzeriaServer) GetSalesReport(context.Context, *GetSalesReportRequest) (*GetSalesReportResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSalesReport not implemented")
}

// RegisterPizzeriaServer регистрирует реализацию на gRPC-сервере.
func RegisterPizzeriaServer(s grpc.ServiceRegistrar, srv PizzeriaServer) {
	s.RegisterService(&PizzeriaService_ServiceDesc, srv)
}

// unaryHandler строит обработчик метода с поддержкой interceptor'ов.
func unaryHandler[Req any, Resp any](fullMethod string, call func(PizzeriaServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PizzeriaServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PizzeriaServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// PizzeriaService_ServiceDesc описывает сервис для grpc.Server.
var PizzeriaService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PizzeriaServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetCatalog",
			Handler:    unaryHandler(PizzeriaService_GetCatalog_FullMethodName, PizzeriaServer.GetCatalog),
		},
		{
			MethodName: "AddCustomer",
			Handler:    unaryHandler(PizzeriaService_AddCustomer_FullMethodName, PizzeriaServer.AddCustomer),
		},
		{
			MethodName: "FindCustomer",
			Handler:    unaryHandler(PizzeriaService_FindCustomer_FullMethodName, PizzeriaServer.FindCustomer),
		},
		{
			MethodName: "ListCustomers",
			Handler:    unaryHandler(PizzeriaService_ListCustomers_FullMethodName, PizzeriaServer.ListCustomers),
		},
		{
			MethodName: "CreateOrder",
			Handler:    unaryHandler(PizzeriaService_CreateOrder_FullMethodName, PizzeriaServer.CreateOrder),
		},
		{
			MethodName: "GetOrder",
			Handler:    unaryHandler(PizzeriaService_GetOrder_FullMethodName, PizzeriaServer.GetOrder),
		},
		{
			MethodName: "ListOrders",
			Handler:    unaryHandler(PizzeriaService_ListOrders_FullMethodName, PizzeriaServer.ListOrders),
		},
		{
			MethodName: "AddItem",
			Handler:    unaryHandler(PizzeriaService_AddItem_FullMethodName, PizzeriaServer.AddItem),
		},
		{
			MethodName: "AddBeverage",
			Handler:    unaryHandler(PizzeriaService_AddBeverage_FullMethodName, PizzeriaServer.AddBeverage),
		},
		{
			MethodName: "RemoveItem",
			Handler:    unaryHandler(PizzeriaService_RemoveItem_FullMethodName, PizzeriaServer.RemoveItem),
		},
		{
			MethodName: "RemoveBeverage",
			Handler:    unaryHandler(PizzeriaService_RemoveBeverage_FullMethodName, PizzeriaServer.RemoveBeverage),
		},
		{
			MethodName: "ReplaceItemToppings",
			Handler:    unaryHandler(PizzeriaService_ReplaceItemToppings_FullMethodName, PizzeriaServer.ReplaceItemToppings),
		},
		{
			MethodName: "GetOrderTimeline",
			Handler:    unaryHandler(PizzeriaService_GetOrderTimeline_FullMethodName, PizzeriaServer.GetOrderTimeline),
		},
		{
			MethodName: "GetSalesReport",
			Handler:    unaryHandler(PizzeriaService_GetSalesReport_FullMethodName, PizzeriaServer.GetSalesReport),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pizzeria/v1/pizzeria.proto",
}
