package catalog

import (
	"github.com/shopspring/decimal"
)

// Topping — начинка пиццы. Значение совпадает с позицией в справочнике.
type Topping uint8

const (
	Margherita Topping = iota
	Pepperoni
	FourCheese
	Calabresa
	ChickenCatupiry
	Portuguesa
	Mozzarella
	Tuna
	Vegetarian
	HouseSpecial
)

const toppingCatalog = "topping"

var toppingTable = []entrySpec{
	{code: "margherita", name: "margherita", value: price("30.00")},
	{code: "pepperoni", name: "pepperoni", value: price("35.00")},
	{code: "four_cheese", name: "four cheese", value: price("37.00")},
	{code: "calabresa", name: "calabresa", value: price("33.00")},
	{code: "chicken_catupiry", name: "chicken catupiry", value: price("36.50")},
	{code: "portuguesa", name: "portuguesa", value: price("33.40")},
	{code: "mozzarella", name: "mozzarella", value: price("28.00")},
	{code: "tuna", name: "tuna", value: price("38.70")},
	{code: "vegetarian", name: "vegetarian", value: price("34.30")},
	{code: "house_special", name: "house special", value: price("42.20")},
}

// Toppings возвращает все начинки в порядке объявления.
func Toppings() []Topping {
	result := make([]Topping, len(toppingTable))
	for i := range toppingTable {
		result[i] = Topping(i)
	}
	return result
}

// ToppingEntries возвращает меню начинок с базовыми ценами.
func ToppingEntries() []Entry {
	return entriesOf(toppingTable)
}

// ToppingBySelection разрешает номер пункта меню (с 1) в начинку.
func ToppingBySelection(selection int) (Topping, error) {
	idx, err := bySelection(toppingTable, toppingCatalog, selection)
	return Topping(idx), err
}

// ToppingByName ищет начинку по коду или названию без учёта регистра.
func ToppingByName(name string) (Topping, error) {
	idx, err := byName(toppingTable, toppingCatalog, name)
	return Topping(idx), err
}

// ParseTopping принимает номер пункта меню или название.
func ParseTopping(value string) (Topping, error) {
	idx, err := parseEntry(toppingTable, toppingCatalog, value)
	return Topping(idx), err
}

// Valid сообщает, входит ли значение в справочник.
func (t Topping) Valid() bool {
	return int(t) < len(toppingTable)
}

// Code возвращает машинный код начинки.
func (t Topping) Code() string {
	if !t.Valid() {
		return "unknown"
	}
	return toppingTable[t].code
}

func (t Topping) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return toppingTable[t].name
}

// BasePrice возвращает базовую цену начинки (для множителя 1.0).
func (t Topping) BasePrice() decimal.Decimal {
	if !t.Valid() {
		return decimal.Zero
	}
	return toppingTable[t].value
}

func (t Topping) MarshalText() ([]byte, error) {
	return []byte(t.Code()), nil
}

func (t *Topping) UnmarshalText(text []byte) error {
	parsed, err := ToppingByName(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
