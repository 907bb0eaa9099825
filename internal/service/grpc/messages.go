package grpcsvc

import "time"

// Сообщения pizzeria.v1. Денежные суммы и дистанция передаются строками с двумя знаками.

type CatalogEntry struct {
	Selection int    `json:"selection"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Value     string `json:"value"`
}

type Rates struct {
	PerKm          string `json:"per_km"`
	ItemWeight     string `json:"item_weight"`
	BeverageWeight string `json:"beverage_weight"`
}

type GetCatalogRequest struct{}

type GetCatalogResponse struct {
	Toppings    []CatalogEntry `json:"toppings"`
	Sizes       []CatalogEntry `json:"sizes"`
	Beverages   []CatalogEntry `json:"beverages"`
	MaxToppings int            `json:"max_toppings"`
	Rates       Rates          `json:"rates"`
}

type Customer struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

type AddCustomerRequest struct {
	Customer Customer `json:"customer"`
}

type AddCustomerResponse struct {
	Customer Customer `json:"customer"`
}

type FindCustomerRequest struct {
	Query string `json:"query"`
}

type FindCustomerResponse struct {
	Found    bool      `json:"found"`
	Customer *Customer `json:"customer,omitempty"`
}

type ListCustomersRequest struct{}

type ListCustomersResponse struct {
	Customers []Customer `json:"customers"`
}

// Item — пицца. Во входящих запросах Size и Toppings принимают код, название
// или номер пункта меню; Price заполняет сервер.
type Item struct {
	Size     string   `json:"size"`
	Toppings []string `json:"toppings"`
	Price    string   `json:"price,omitempty"`
}

type Beverage struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type Order struct {
	ID         int64      `json:"id"`
	Customer   *Customer  `json:"customer,omitempty"`
	Items      []Item     `json:"items"`
	Beverages  []Beverage `json:"beverages"`
	DistanceKm string     `json:"distance_km"`
	Shipping   string     `json:"shipping"`
	Total      string     `json:"total"`
	Version    int64      `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type CreateOrderRequest struct {
	// CustomerName ищется среди клиентов без учёта регистра.
	CustomerName string   `json:"customer_name"`
	Items        []Item   `json:"items"`
	Beverages    []string `json:"beverages"`
	DistanceKm   string   `json:"distance_km"`
}

// OrderResponse возвращают все операции, отдающие снимок заказа.
type OrderResponse struct {
	Order Order `json:"order"`
}

type GetOrderRequest struct {
	OrderID int64 `json:"order_id"`
}

type ListOrdersRequest struct{}

type ListOrdersResponse struct {
	Orders []Order `json:"orders"`
}

type AddItemRequest struct {
	OrderID int64 `json:"order_id"`
	Item    Item  `json:"item"`
}

type AddBeverageRequest struct {
	OrderID  int64  `json:"order_id"`
	Beverage string `json:"beverage"`
}

type RemoveItemRequest struct {
	OrderID int64 `json:"order_id"`
	Index   int   `json:"index"`
}

type RemoveBeverageRequest struct {
	OrderID int64 `json:"order_id"`
	Index   int   `json:"index"`
}

type ReplaceItemToppingsRequest struct {
	OrderID  int64    `json:"order_id"`
	Index    int      `json:"index"`
	Toppings []string `json:"toppings"`
}

type TimelineEvent struct {
	Type     string    `json:"type"`
	Reason   string    `json:"reason,omitempty"`
	Occurred time.Time `json:"occurred"`
}

type GetOrderTimelineRequest struct {
	OrderID int64 `json:"order_id"`
}

type GetOrderTimelineResponse struct {
	Events []TimelineEvent `json:"events"`
}

type GetSalesReportRequest struct {
	// Ноль означает лимит по умолчанию, отрицательное значение снимает ограничение.
	ToppingLimit  int `json:"topping_limit"`
	BeverageLimit int `json:"beverage_limit"`
}

type RankedEntry struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ToppingPair struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Weight int    `json:"weight"`
}

type GetSalesReportResponse struct {
	Revenue      string        `json:"revenue"`
	OrderCount   int           `json:"order_count"`
	TopToppings  []RankedEntry `json:"top_toppings"`
	TopBeverages []RankedEntry `json:"top_beverages"`
	Pairs        []ToppingPair `json:"pairs"`
}
