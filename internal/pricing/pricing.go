// Package pricing содержит чистые функции расчёта цен, доставки и итога заказа.
//
// Все денежные значения — decimal.Decimal. Округление до двух знаков выполняется через
// Decimal.Round(2): половина округляется от нуля, что для неотрицательных сумм совпадает
// с round-half-up.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/pizzeria/internal/catalog"
)

const moneyPlaces = 2

var (
	// ErrInvalidInput — корневая ошибка некорректных входных данных расчёта.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoToppings возвращается при расчёте цены позиции без начинок.
	ErrNoToppings = fmt.Errorf("%w: item must have at least one topping", ErrInvalidInput)
	// Ошибка начинки вне справочника.
	ErrInvalidTopping = fmt.Errorf("%w: topping is not in the catalog", ErrInvalidInput)
	// Ошибка размера вне справочника.
	ErrInvalidSize = fmt.Errorf("%w: size is not in the catalog", ErrInvalidInput)
	// Ошибка отрицательного тарифа доставки.
	ErrNegativeRate = fmt.Errorf("%w: shipping rate must be non-negative", ErrInvalidInput)
)

// Round2 округляет денежную сумму до двух знаков.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(moneyPlaces)
}

// ComboItemPrice считает цену пиццы: максимальная базовая цена среди начинок,
// умноженная на множитель размера. Порядок начинок на результат не влияет.
func ComboItemPrice(toppings []catalog.Topping, size catalog.Size) (decimal.Decimal, error) {
	if len(toppings) == 0 {
		return decimal.Zero, ErrNoToppings
	}
	if !size.Valid() {
		return decimal.Zero, ErrInvalidSize
	}

	maxBase := decimal.Zero
	for _, topping := range toppings {
		if !topping.Valid() {
			return decimal.Zero, ErrInvalidTopping
		}
		if base := topping.BasePrice(); base.GreaterThan(maxBase) {
			maxBase = base
		}
	}

	return Round2(maxBase.Mul(size.Factor())), nil
}

// BeveragePrice возвращает цену напитка из справочника.
func BeveragePrice(beverage catalog.Beverage) decimal.Decimal {
	return beverage.Price()
}

// OrderTotal складывает цены позиций, напитков и доставку и округляет результат.
// Итог всегда считается заново по текущему составу заказа.
func OrderTotal(itemPrices, beveragePrices []decimal.Decimal, shipping decimal.Decimal) decimal.Decimal {
	sum := shipping
	for _, p := range itemPrices {
		sum = sum.Add(p)
	}
	for _, p := range beveragePrices {
		sum = sum.Add(p)
	}
	return Round2(sum)
}

// Rates — тарифы доставки.
type Rates struct {
	// Стоимость километра.
	PerKm decimal.Decimal
	// Надбавка за каждую пиццу.
	ItemWeight decimal.Decimal
	// Надбавка за каждый напиток.
	BeverageWeight decimal.Decimal
}

// DefaultRates возвращает стандартные тарифы: 1.80 за км, 0.60 за пиццу, 0.20 за напиток.
func DefaultRates() Rates {
	return Rates{
		PerKm:          decimal.RequireFromString("1.80"),
		ItemWeight:     decimal.RequireFromString("0.60"),
		BeverageWeight: decimal.RequireFromString("0.20"),
	}
}

// ParseRates собирает тарифы из строковых значений (например, из переменных окружения).
func ParseRates(perKm, itemWeight, beverageWeight string) (Rates, error) {
	var (
		rates Rates
		err   error
	)
	if rates.PerKm, err = decimal.NewFromString(perKm); err != nil {
		return Rates{}, fmt.Errorf("parse per-km rate: %w", err)
	}
	if rates.ItemWeight, err = decimal.NewFromString(itemWeight); err != nil {
		return Rates{}, fmt.Errorf("parse item weight: %w", err)
	}
	if rates.BeverageWeight, err = decimal.NewFromString(beverageWeight); err != nil {
		return Rates{}, fmt.Errorf("parse beverage weight: %w", err)
	}
	if err := rates.Validate(); err != nil {
		return Rates{}, err
	}
	return rates, nil
}

// Validate проверяет, что тарифы неотрицательны.
func (r Rates) Validate() error {
	if r.PerKm.IsNegative() || r.ItemWeight.IsNegative() || r.BeverageWeight.IsNegative() {
		return ErrNegativeRate
	}
	return nil
}

// ShippingCost считает стоимость доставки. Отрицательная дистанция или пустой заказ
// дают нулевую стоимость.
func (r Rates) ShippingCost(distanceKm decimal.Decimal, itemCount, beverageCount int) decimal.Decimal {
	if distanceKm.IsNegative() || itemCount+beverageCount <= 0 {
		return decimal.Zero
	}

	distanceCost := distanceKm.Mul(r.PerKm)
	weightCost := r.ItemWeight.Mul(decimal.NewFromInt(int64(itemCount))).
		Add(r.BeverageWeight.Mul(decimal.NewFromInt(int64(beverageCount))))

	return Round2(distanceCost.Add(weightCost))
}
