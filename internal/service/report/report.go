// Package report строит отчёты по продажам: выручку, популярные начинки и напитки
// и граф совместного появления начинок.
package report

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/pizzeria/internal/catalog"
	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
	"github.com/vladislavdragonenkov/pizzeria/internal/pricing"
)

// Лимиты рейтингов по умолчанию.
const (
	DefaultToppingLimit  = 5
	DefaultBeverageLimit = 3
)

// ToppingCount хранит начинку и число её появлений.
type ToppingCount struct {
	Topping catalog.Topping
	Count   int
}

// BeverageCount хранит напиток и число его появлений.
type BeverageCount struct {
	Beverage catalog.Beverage
	Count    int
}

// SalesReport — итоговый отчёт по продажам.
type SalesReport struct {
	Revenue      decimal.Decimal
	OrderCount   int
	TopToppings  []ToppingCount
	TopBeverages []BeverageCount
	Pairs        []Edge
}

type options struct {
	toppingLimit  int
	beverageLimit int
}

// Option настраивает Build.
type Option func(*options)

// WithToppingLimit ограничивает рейтинг начинок. limit <= 0 отключает ограничение.
func WithToppingLimit(limit int) Option {
	return func(o *options) {
		o.toppingLimit = limit
	}
}

// WithBeverageLimit ограничивает рейтинг напитков. limit <= 0 отключает ограничение.
func WithBeverageLimit(limit int) Option {
	return func(o *options) {
		o.beverageLimit = limit
	}
}

// Build собирает отчёт по снимкам заказов.
func Build(orders []domain.Order, opts ...Option) SalesReport {
	cfg := options{
		toppingLimit:  DefaultToppingLimit,
		beverageLimit: DefaultBeverageLimit,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return SalesReport{
		Revenue:      TotalRevenue(orders),
		OrderCount:   len(orders),
		TopToppings:  TopToppings(orders, cfg.toppingLimit),
		TopBeverages: TopBeverages(orders, cfg.beverageLimit),
		Pairs:        BuildCooccurrence(orders).Edges(),
	}
}

// TotalRevenue суммирует итоги заказов.
func TotalRevenue(orders []domain.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, order := range orders {
		sum = sum.Add(order.Total)
	}
	return pricing.Round2(sum)
}

// TopToppings считает каждое появление начинки во всех пиццах (повторы внутри пиццы тоже)
// и возвращает не более limit самых частых. При равенстве побеждает порядок справочника.
func TopToppings(orders []domain.Order, limit int) []ToppingCount {
	counts := make([]int, len(catalog.Toppings()))
	for _, order := range orders {
		for _, item := range order.Items {
			for _, topping := range item.Toppings() {
				if topping.Valid() {
					counts[topping]++
				}
			}
		}
	}

	var result []ToppingCount
	for i, count := range counts {
		if count > 0 {
			result = append(result, ToppingCount{Topping: catalog.Topping(i), Count: count})
		}
	}
	slices.SortStableFunc(result, func(a, b ToppingCount) int {
		return b.Count - a.Count
	})
	return truncate(result, limit)
}

// TopBeverages считает каждое появление напитка и возвращает не более limit самых частых.
func TopBeverages(orders []domain.Order, limit int) []BeverageCount {
	counts := make([]int, len(catalog.Beverages()))
	for _, order := range orders {
		for _, beverage := range order.Beverages {
			if beverage.Valid() {
				counts[beverage]++
			}
		}
	}

	var result []BeverageCount
	for i, count := range counts {
		if count > 0 {
			result = append(result, BeverageCount{Beverage: catalog.Beverage(i), Count: count})
		}
	}
	slices.SortStableFunc(result, func(a, b BeverageCount) int {
		return b.Count - a.Count
	})
	return truncate(result, limit)
}

func truncate[T any](values []T, limit int) []T {
	if limit > 0 && len(values) > limit {
		return values[:limit]
	}
	return values
}
