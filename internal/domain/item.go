package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/pizzeria/internal/catalog"
	"github.com/vladislavdragonenkov/pizzeria/internal/pricing"
)

// ComboItem — пицца из одной или нескольких начинок определённого размера.
// Неизменяема: «редактирование» означает создание новой позиции.
type ComboItem struct {
	toppings []catalog.Topping
	size     catalog.Size
	price    decimal.Decimal

	isConstructed bool
}

// NewComboItem создаёт позицию и считает её цену. Начинки могут повторяться.
func NewComboItem(toppings []catalog.Topping, size catalog.Size) (ComboItem, error) {
	price, err := pricing.ComboItemPrice(toppings, size)
	if err != nil {
		return ComboItem{}, err
	}

	owned := make([]catalog.Topping, len(toppings))
	copy(owned, toppings)

	return ComboItem{
		toppings:      owned,
		size:          size,
		price:         price,
		isConstructed: true,
	}, nil
}

// WithToppings возвращает новую позицию того же размера с другими начинками.
func (i ComboItem) WithToppings(toppings []catalog.Topping) (ComboItem, error) {
	if err := i.Validate(); err != nil {
		return ComboItem{}, err
	}
	return NewComboItem(toppings, i.size)
}

// Validate проверяет, что позиция создана через NewComboItem.
func (i ComboItem) Validate() error {
	if !i.isConstructed {
		return ErrItemNotConstructed
	}
	return nil
}

// Toppings возвращает копию списка начинок.
func (i ComboItem) Toppings() []catalog.Topping {
	result := make([]catalog.Topping, len(i.toppings))
	copy(result, i.toppings)
	return result
}

// ToppingCount возвращает число начинок без копирования.
func (i ComboItem) ToppingCount() int {
	return len(i.toppings)
}

func (i ComboItem) Size() catalog.Size {
	return i.size
}

func (i ComboItem) Price() decimal.Decimal {
	return i.price
}

func (i ComboItem) String() string {
	names := make([]string, 0, len(i.toppings))
	for _, topping := range i.toppings {
		names = append(names, topping.String())
	}
	return fmt.Sprintf("%s (%s) - toppings: [%s]", i.size, i.price.StringFixed(2), strings.Join(names, ", "))
}
