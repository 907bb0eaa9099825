// Package grpcsvc реализует gRPC API пиццерии поверх хранилища заказов и отчётов.
package grpcsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vladislavdragonenkov/pizzeria/internal/catalog"
	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
	"github.com/vladislavdragonenkov/pizzeria/internal/metrics"
	"github.com/vladislavdragonenkov/pizzeria/internal/service/ordering"
	"github.com/vladislavdragonenkov/pizzeria/internal/service/report"
)

// PizzeriaService реализует pizzeria.v1.PizzeriaService.
type PizzeriaService struct {
	UnimplementedPizzeriaServer

	store   *ordering.Store
	metrics *metrics.StoreMetrics
	logger  *log.Entry
}

// NewPizzeriaService конструирует сервис. metrics и logger могут быть nil.
func NewPizzeriaService(store *ordering.Store, m *metrics.StoreMetrics, logger *log.Entry) *PizzeriaService {
	if logger == nil {
		logger = log.New().WithField("component", "pizzeria-service")
	}
	return &PizzeriaService{
		store:   store,
		metrics: m,
		logger:  logger,
	}
}

// GetCatalog возвращает меню, лимит начинок и тарифы доставки.
func (s *PizzeriaService) GetCatalog(context.Context, *GetCatalogRequest) (*GetCatalogResponse, error) {
	rates := s.store.Rates()
	return &GetCatalogResponse{
		Toppings:    toCatalogEntries(catalog.ToppingEntries()),
		Sizes:       toCatalogEntries(catalog.SizeEntries()),
		Beverages:   toCatalogEntries(catalog.BeverageEntries()),
		MaxToppings: s.store.MaxToppings(),
		Rates: Rates{
			PerKm:          rates.PerKm.StringFixed(2),
			ItemWeight:     rates.ItemWeight.StringFixed(2),
			BeverageWeight: rates.BeverageWeight.StringFixed(2),
		},
	}, nil
}

// AddCustomer регистрирует клиента.
func (s *PizzeriaService) AddCustomer(_ context.Context, req *AddCustomerRequest) (*AddCustomerResponse, error) {
	if req == nil || strings.TrimSpace(req.Customer.Name) == "" {
		return nil, status.Error(codes.InvalidArgument, "customer.name is required")
	}

	stored, err := s.store.AddCustomer(domain.Customer{
		Name:    strings.TrimSpace(req.Customer.Name),
		Address: req.Customer.Address,
		Phone:   req.Customer.Phone,
		Email:   req.Customer.Email,
	})
	if err != nil {
		return nil, s.toStatus("AddCustomer", err)
	}
	return &AddCustomerResponse{Customer: *toCustomer(stored)}, nil
}

// FindCustomer ищет первого клиента по подстроке имени без учёта регистра.
func (s *PizzeriaService) FindCustomer(_ context.Context, req *FindCustomerRequest) (*FindCustomerResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	customer, ok := s.store.FindCustomerByName(req.Query)
	if !ok {
		return &FindCustomerResponse{}, nil
	}
	return &FindCustomerResponse{Found: true, Customer: toCustomer(customer)}, nil
}

// ListCustomers возвращает клиентов в порядке добавления.
func (s *PizzeriaService) ListCustomers(context.Context, *ListCustomersRequest) (*ListCustomersResponse, error) {
	customers := s.store.Customers()
	resp := &ListCustomersResponse{Customers: make([]Customer, 0, len(customers))}
	for _, customer := range customers {
		resp.Customers = append(resp.Customers, *toCustomer(customer))
	}
	return resp, nil
}

// CreateOrder создаёт заказ для существующего клиента.
func (s *PizzeriaService) CreateOrder(_ context.Context, req *CreateOrderRequest) (*OrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, status.Error(codes.InvalidArgument, "customer_name is required")
	}
	customer, ok := s.store.FindCustomerByName(req.CustomerName)
	if !ok {
		return nil, status.Errorf(codes.NotFound, "customer %q not found", req.CustomerName)
	}

	distance, err := parseDistance(req.DistanceKm)
	if err != nil {
		return nil, s.toStatus("CreateOrder", err)
	}

	items := make([]domain.ComboItem, 0, len(req.Items))
	for idx, in := range req.Items {
		item, err := parseItem(in)
		if err != nil {
			return nil, s.toStatus("CreateOrder", fmt.Errorf("item[%d]: %w", idx, err))
		}
		items = append(items, item)
	}

	beverages := make([]catalog.Beverage, 0, len(req.Beverages))
	for idx, value := range req.Beverages {
		beverage, err := catalog.ParseBeverage(value)
		if err != nil {
			return nil, s.toStatus("CreateOrder", fmt.Errorf("beverage[%d]: %w", idx, err))
		}
		beverages = append(beverages, beverage)
	}

	order, err := s.store.CreateOrder(customer, items, beverages, distance)
	if err != nil {
		return nil, s.toStatus("CreateOrder", err)
	}
	return &OrderResponse{Order: toOrder(order)}, nil
}

// GetOrder возвращает текущий снимок заказа.
func (s *PizzeriaService) GetOrder(_ context.Context, req *GetOrderRequest) (*OrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	order, err := s.store.FindOrder(req.OrderID)
	if err != nil {
		return nil, s.toStatus("GetOrder", err)
	}
	return &OrderResponse{Order: toOrder(order)}, nil
}

// ListOrders возвращает заказы в порядке создания.
func (s *PizzeriaService) ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error) {
	orders := s.store.Orders()
	resp := &ListOrdersResponse{Orders: make([]Order, 0, len(orders))}
	for _, order := range orders {
		resp.Orders = append(resp.Orders, toOrder(order))
	}
	return resp, nil
}

// AddItem добавляет пиццу в заказ.
func (s *PizzeriaService) AddItem(_ context.Context, req *AddItemRequest) (*OrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	item, err := parseItem(req.Item)
	if err != nil {
		return nil, s.toStatus("AddItem", err)
	}
	return s.orderResponse("AddItem")(s.store.AddItem(req.OrderID, item))
}

// AddBeverage добавляет напиток в заказ.
func (s *PizzeriaService) AddBeverage(_ context.Context, req *AddBeverageRequest) (*OrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	beverage, err := catalog.ParseBeverage(req.Beverage)
	if err != nil {
		return nil, s.toStatus("AddBeverage", err)
	}
	return s.orderResponse("AddBeverage")(s.store.AddBeverage(req.OrderID, beverage))
}

// RemoveItem удаляет пиццу по индексу. Опустевший заказ снимается, клиент получает NotFound.
func (s *PizzeriaService) RemoveItem(_ context.Context, req *RemoveItemRequest) (*OrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	return s.orderResponse("RemoveItem")(s.store.RemoveItem(req.OrderID, req.Index))
}

// RemoveBeverage удаляет напиток по индексу.
func (s *PizzeriaService) RemoveBeverage(_ context.Context, req *RemoveBeverageRequest) (*OrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	return s.orderResponse("RemoveBeverage")(s.store.RemoveBeverage(req.OrderID, req.Index))
}

// ReplaceItemToppings заменяет начинки пиццы, размер сохраняется.
func (s *PizzeriaService) ReplaceItemToppings(_ context.Context, req *ReplaceItemToppingsRequest) (*OrderResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	toppings, err := parseToppings(req.Toppings)
	if err != nil {
		return nil, s.toStatus("ReplaceItemToppings", err)
	}
	return s.orderResponse("ReplaceItemToppings")(s.store.ReplaceItemToppings(req.OrderID, req.Index, toppings))
}

// GetOrderTimeline возвращает журнал заказа. Для снятых заказов журнал остаётся доступен.
func (s *PizzeriaService) GetOrderTimeline(_ context.Context, req *GetOrderTimelineRequest) (*GetOrderTimelineResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	events, err := s.store.Timeline(req.OrderID)
	if err != nil {
		return nil, s.toStatus("GetOrderTimeline", err)
	}
	if len(events) == 0 {
		if _, err := s.store.FindOrder(req.OrderID); err != nil {
			return nil, s.toStatus("GetOrderTimeline", err)
		}
	}

	resp := &GetOrderTimelineResponse{Events: make([]TimelineEvent, 0, len(events))}
	for _, event := range events {
		resp.Events = append(resp.Events, TimelineEvent{
			Type:     event.Type,
			Reason:   event.Reason,
			Occurred: event.Occurred,
		})
	}
	return resp, nil
}

// GetSalesReport строит отчёт по текущим заказам.
func (s *PizzeriaService) GetSalesReport(_ context.Context, req *GetSalesReportRequest) (*GetSalesReportResponse, error) {
	if req == nil {
		req = &GetSalesReportRequest{}
	}

	var opts []report.Option
	if req.ToppingLimit != 0 {
		opts = append(opts, report.WithToppingLimit(req.ToppingLimit))
	}
	if req.BeverageLimit != 0 {
		opts = append(opts, report.WithBeverageLimit(req.BeverageLimit))
	}

	sales := report.Build(s.store.Orders(), opts...)
	if s.metrics != nil {
		s.metrics.RecordReportBuilt()
	}

	resp := &GetSalesReportResponse{
		Revenue:      sales.Revenue.StringFixed(2),
		OrderCount:   sales.OrderCount,
		TopToppings:  make([]RankedEntry, 0, len(sales.TopToppings)),
		TopBeverages: make([]RankedEntry, 0, len(sales.TopBeverages)),
		Pairs:        make([]ToppingPair, 0, len(sales.Pairs)),
	}
	for _, entry := range sales.TopToppings {
		resp.TopToppings = append(resp.TopToppings, RankedEntry{Code: entry.Topping.Code(), Name: entry.Topping.String(), Count: entry.Count})
	}
	for _, entry := range sales.TopBeverages {
		resp.TopBeverages = append(resp.TopBeverages, RankedEntry{Code: entry.Beverage.Code(), Name: entry.Beverage.String(), Count: entry.Count})
	}
	for _, edge := range sales.Pairs {
		resp.Pairs = append(resp.Pairs, ToppingPair{A: edge.A.Code(), B: edge.B.Code(), Weight: edge.Weight})
	}
	return resp, nil
}

func (s *PizzeriaService) orderResponse(operation string) func(domain.Order, error) (*OrderResponse, error) {
	return func(order domain.Order, err error) (*OrderResponse, error) {
		if err != nil {
			return nil, s.toStatus(operation, err)
		}
		return &OrderResponse{Order: toOrder(order)}, nil
	}
}

// toStatus переводит доменные ошибки в коды gRPC.
func (s *PizzeriaService) toStatus(operation string, err error) error {
	entry := s.logger.WithError(err).WithField("operation", operation)

	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidIndex):
		entry.Debug("invalid request")
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrIndexOutOfRange):
		entry.Debug("index out of range")
		return status.Error(codes.OutOfRange, err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		entry.Debug("order not found")
		return status.Error(codes.NotFound, err.Error())
	default:
		entry.Error("request failed")
		return status.Error(codes.Internal, fmt.Sprintf("%s failed", operation))
	}
}

func parseDistance(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	distance, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: distance_km %q is not a number", domain.ErrInvalidInput, value)
	}
	if distance.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: distance_km must be >= 0", domain.ErrInvalidInput)
	}
	return distance, nil
}

func parseItem(in Item) (domain.ComboItem, error) {
	size, err := catalog.ParseSize(in.Size)
	if err != nil {
		return domain.ComboItem{}, err
	}
	toppings, err := parseToppings(in.Toppings)
	if err != nil {
		return domain.ComboItem{}, err
	}
	return domain.NewComboItem(toppings, size)
}

func parseToppings(values []string) ([]catalog.Topping, error) {
	toppings := make([]catalog.Topping, 0, len(values))
	for _, value := range values {
		topping, err := catalog.ParseTopping(value)
		if err != nil {
			return nil, err
		}
		toppings = append(toppings, topping)
	}
	return toppings, nil
}

func toCatalogEntries(entries []catalog.Entry) []CatalogEntry {
	result := make([]CatalogEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, CatalogEntry{
			Selection: entry.Selection,
			Code:      entry.Code,
			Name:      entry.Name,
			Value:     entry.Value.StringFixed(2),
		})
	}
	return result
}

func toCustomer(customer *domain.Customer) *Customer {
	if customer == nil {
		return nil
	}
	return &Customer{
		Name:    customer.Name,
		Address: customer.Address,
		Phone:   customer.Phone,
		Email:   customer.Email,
	}
}

func toOrder(order domain.Order) Order {
	out := Order{
		ID:         order.ID,
		Customer:   toCustomer(order.Customer),
		Items:      make([]Item, 0, len(order.Items)),
		Beverages:  make([]Beverage, 0, len(order.Beverages)),
		DistanceKm: order.DistanceKm.StringFixed(2),
		Shipping:   order.Shipping.StringFixed(2),
		Total:      order.Total.StringFixed(2),
		Version:    order.Version,
		CreatedAt:  order.CreatedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	for _, item := range order.Items {
		toppings := make([]string, 0, item.ToppingCount())
		for _, topping := range item.Toppings() {
			toppings = append(toppings, topping.Code())
		}
		out.Items = append(out.Items, Item{
			Size:     item.Size().Code(),
			Toppings: toppings,
			Price:    item.Price().StringFixed(2),
		})
	}
	for _, beverage := range order.Beverages {
		out.Beverages = append(out.Beverages, Beverage{
			Code:  beverage.Code(),
			Name:  beverage.String(),
			Price: beverage.Price().StringFixed(2),
		})
	}
	return out
}

var _ PizzeriaServer = (*PizzeriaService)(nil)
