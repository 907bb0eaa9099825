// Package seed загружает демонстрационных клиентов и заказы.
package seed

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/pizzeria/internal/catalog"
	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
	"github.com/vladislavdragonenkov/pizzeria/internal/service/ordering"
)

type pizza struct {
	size     catalog.Size
	toppings []catalog.Topping
}

type demoOrder struct {
	customer  int
	pizzas    []pizza
	beverages []catalog.Beverage
	distance  string
}

var demoCustomers = []domain.Customer{
	{Name: "Ana Silva", Address: "Rua das Flores, 10", Phone: "98888-1111", Email: "ana@ex.com"},
	{Name: "Bruno Costa", Address: "Av. Central, 50", Phone: "97777-2222", Email: "bruno@ex.com"},
}

var demoOrders = []demoOrder{
	{
		customer: 0,
		pizzas: []pizza{
			{size: catalog.Regular, toppings: []catalog.Topping{catalog.Pepperoni, catalog.Mozzarella}},
			{size: catalog.Small, toppings: []catalog.Topping{catalog.FourCheese}},
		},
		beverages: []catalog.Beverage{catalog.Cola2L},
		distance:  "3.5",
	},
	{
		customer: 1,
		pizzas: []pizza{
			{size: catalog.Large, toppings: []catalog.Topping{catalog.ChickenCatupiry, catalog.Mozzarella}},
			{size: catalog.Regular, toppings: []catalog.Topping{catalog.Pepperoni, catalog.Calabresa}},
			{size: catalog.Regular, toppings: []catalog.Topping{catalog.Margherita}},
		},
		beverages: []catalog.Beverage{catalog.Guarana2L, catalog.Guarana2L, catalog.Fanta2L},
		distance:  "8.0",
	},
}

// Result описывает, что было загружено.
type Result struct {
	Customers []*domain.Customer
	Orders    []domain.Order
}

// Load добавляет двух демо-клиентов и по одному заказу на каждого.
func Load(store *ordering.Store) (Result, error) {
	var result Result

	for _, c := range demoCustomers {
		stored, err := store.AddCustomer(c)
		if err != nil {
			return Result{}, fmt.Errorf("seed customer %q: %w", c.Name, err)
		}
		result.Customers = append(result.Customers, stored)
	}

	for i, o := range demoOrders {
		items := make([]domain.ComboItem, 0, len(o.pizzas))
		for _, p := range o.pizzas {
			item, err := domain.NewComboItem(p.toppings, p.size)
			if err != nil {
				return Result{}, fmt.Errorf("seed order %d: %w", i+1, err)
			}
			items = append(items, item)
		}

		order, err := store.CreateOrder(result.Customers[o.customer], items, o.beverages, decimal.RequireFromString(o.distance))
		if err != nil {
			return Result{}, fmt.Errorf("seed order %d: %w", i+1, err)
		}
		result.Orders = append(result.Orders, order)
	}

	return result, nil
}
