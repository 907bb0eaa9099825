package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/pizzeria/internal/catalog"
	"github.com/vladislavdragonenkov/pizzeria/internal/pricing"
)

// Customer — получатель заказа. Не уникален: дубликаты имён допустимы.
type Customer struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

func (c Customer) String() string {
	return fmt.Sprintf("%s, %s, %s, %s", c.Name, c.Address, c.Phone, c.Email)
}

// Order — неизменяемый снимок заказа. Любая мутация в хранилище порождает новый снимок
// с пересчитанными доставкой и итогом.
type Order struct {
	ID       int64
	Customer *Customer
	// Items и Beverages сохраняют порядок добавления; индексы адресуют позиции с нуля.
	Items     []ComboItem
	Beverages []catalog.Beverage
	// DistanceKm задаётся при создании и используется для каждого пересчёта доставки.
	DistanceKm decimal.Decimal
	Shipping   decimal.Decimal
	Total      decimal.Decimal
	// Version увеличивается хранилищем при каждой замене снимка.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrder собирает первый снимок заказа. ID и версию назначает хранилище.
func NewOrder(customer *Customer, items []ComboItem, beverages []catalog.Beverage, distanceKm decimal.Decimal, rates pricing.Rates, now time.Time) (Order, error) {
	if customer == nil {
		return Order{}, ErrCustomerRequired
	}

	order := Order{
		Customer:   customer,
		DistanceKm: distanceKm,
		CreatedAt:  now,
	}
	return order.Recompose(items, beverages, rates, now)
}

// Recompose возвращает новый снимок с заданным составом. Доставка и итог считаются заново
// по исходной дистанции. Для пустого состава возвращается ErrEmptyOrder.
func (o Order) Recompose(items []ComboItem, beverages []catalog.Beverage, rates pricing.Rates, now time.Time) (Order, error) {
	if len(items) == 0 && len(beverages) == 0 {
		return Order{}, ErrEmptyOrder
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return Order{}, err
		}
	}
	for _, beverage := range beverages {
		if !beverage.Valid() {
			return Order{}, ErrBeverageInvalid
		}
	}

	next := o
	next.Items = cloneItems(items)
	next.Beverages = cloneBeverages(beverages)
	next.Shipping = rates.ShippingCost(o.DistanceKm, len(items), len(beverages))
	next.Total = pricing.OrderTotal(itemPrices(next.Items), beveragePrices(next.Beverages), next.Shipping)
	next.UpdatedAt = now
	return next, nil
}

// Clone копирует срезы снимка. Клиент остаётся общей ссылкой: заказ им не владеет.
func (o Order) Clone() Order {
	clone := o
	clone.Items = cloneItems(o.Items)
	clone.Beverages = cloneBeverages(o.Beverages)
	return clone
}

// ItemCount и BeverageCount нужны для расчёта доставки и отчётов.
func (o Order) ItemCount() int {
	return len(o.Items)
}

func (o Order) BeverageCount() int {
	return len(o.Beverages)
}

// IsEmpty сообщает, что в заказе нет ни пицц, ни напитков.
func (o Order) IsEmpty() bool {
	return len(o.Items) == 0 && len(o.Beverages) == 0
}

// Equal сравнивает заказы только по идентификатору.
func (o Order) Equal(other Order) bool {
	return o.ID == other.ID
}

// SameContent сравнивает содержимое двух снимков, игнорируя версию и временные метки.
func (o Order) SameContent(other Order) bool {
	if o.ID != other.ID || len(o.Items) != len(other.Items) || len(o.Beverages) != len(other.Beverages) {
		return false
	}
	if (o.Customer == nil) != (other.Customer == nil) {
		return false
	}
	if o.Customer != nil && o.Customer != other.Customer && *o.Customer != *other.Customer {
		return false
	}
	if !o.DistanceKm.Equal(other.DistanceKm) || !o.Shipping.Equal(other.Shipping) || !o.Total.Equal(other.Total) {
		return false
	}
	for i := range o.Items {
		if !itemsEqual(o.Items[i], other.Items[i]) {
			return false
		}
	}
	for i := range o.Beverages {
		if o.Beverages[i] != other.Beverages[i] {
			return false
		}
	}
	return true
}

// ValidateInvariants проверяет базовые инварианты снимка и возвращает список замечаний.
func (o Order) ValidateInvariants(rates pricing.Rates) []error {
	var errs []error

	if o.Customer == nil {
		errs = append(errs, ErrCustomerRequired)
	}
	if o.IsEmpty() {
		errs = append(errs, ErrEmptyOrder)
	}
	for _, item := range o.Items {
		if err := item.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	shipping := rates.ShippingCost(o.DistanceKm, len(o.Items), len(o.Beverages))
	if !shipping.Equal(o.Shipping) {
		errs = append(errs, fmt.Errorf("%w: order %d has %s, expected %s", ErrShippingMismatch, o.ID, o.Shipping, shipping))
	}

	total := pricing.OrderTotal(itemPrices(o.Items), beveragePrices(o.Beverages), o.Shipping)
	if !total.Equal(o.Total) {
		errs = append(errs, fmt.Errorf("%w: order %d has %s, expected %s", ErrTotalMismatch, o.ID, o.Total, total))
	}

	return errs
}

func (o Order) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%d\n", o.ID)
	if o.Customer != nil {
		fmt.Fprintf(&b, "Customer: %s\n", o.Customer)
	}
	for i, item := range o.Items {
		fmt.Fprintf(&b, "  [%d] %s\n", i, item)
	}
	for i, beverage := range o.Beverages {
		fmt.Fprintf(&b, "  [%d] %s (%s)\n", i, beverage, beverage.Price().StringFixed(2))
	}
	fmt.Fprintf(&b, "Shipping: %s\n", o.Shipping.StringFixed(2))
	fmt.Fprintf(&b, "Total: %s", o.Total.StringFixed(2))
	return b.String()
}

func itemsEqual(a, b ComboItem) bool {
	if a.size != b.size || !a.price.Equal(b.price) || len(a.toppings) != len(b.toppings) {
		return false
	}
	for i := range a.toppings {
		if a.toppings[i] != b.toppings[i] {
			return false
		}
	}
	return true
}

func cloneItems(items []ComboItem) []ComboItem {
	if items == nil {
		return nil
	}
	result := make([]ComboItem, len(items))
	copy(result, items)
	return result
}

func cloneBeverages(beverages []catalog.Beverage) []catalog.Beverage {
	if beverages == nil {
		return nil
	}
	result := make([]catalog.Beverage, len(beverages))
	copy(result, beverages)
	return result
}

func itemPrices(items []ComboItem) []decimal.Decimal {
	result := make([]decimal.Decimal, 0, len(items))
	for _, item := range items {
		result = append(result, item.Price())
	}
	return result
}

func beveragePrices(beverages []catalog.Beverage) []decimal.Decimal {
	result := make([]decimal.Decimal, 0, len(beverages))
	for _, beverage := range beverages {
		result = append(result, pricing.BeveragePrice(beverage))
	}
	return result
}
