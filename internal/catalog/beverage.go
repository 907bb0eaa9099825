package catalog

import (
	"github.com/shopspring/decimal"
)

// Beverage — напиток с фиксированной ценой.
type Beverage uint8

const (
	Cola2L Beverage = iota
	Guarana2L
	Fanta2L
)

const beverageCatalog = "beverage"

var beverageTable = []entrySpec{
	{code: "cola_2l", name: "coca-cola 2l", value: price("12.00")},
	{code: "guarana_2l", name: "guarana 2l", value: price("10.50")},
	{code: "fanta_2l", name: "fanta 2l", value: price("10.00")},
}

// Beverages возвращает напитки в порядке объявления.
func Beverages() []Beverage {
	result := make([]Beverage, len(beverageTable))
	for i := range beverageTable {
		result[i] = Beverage(i)
	}
	return result
}

// BeverageEntries возвращает меню напитков с ценами.
func BeverageEntries() []Entry {
	return entriesOf(beverageTable)
}

// BeverageBySelection разрешает номер пункта меню (с 1) в напиток.
func BeverageBySelection(selection int) (Beverage, error) {
	idx, err := bySelection(beverageTable, beverageCatalog, selection)
	return Beverage(idx), err
}

// BeverageByName ищет напиток по коду или названию.
func BeverageByName(name string) (Beverage, error) {
	idx, err := byName(beverageTable, beverageCatalog, name)
	return Beverage(idx), err
}

// ParseBeverage принимает номер пункта меню или название.
func ParseBeverage(value string) (Beverage, error) {
	idx, err := parseEntry(beverageTable, beverageCatalog, value)
	return Beverage(idx), err
}

func (b Beverage) Valid() bool {
	return int(b) < len(beverageTable)
}

func (b Beverage) Code() string {
	if !b.Valid() {
		return "unknown"
	}
	return beverageTable[b].code
}

func (b Beverage) String() string {
	if !b.Valid() {
		return "unknown"
	}
	return beverageTable[b].name
}

// Price возвращает цену напитка.
func (b Beverage) Price() decimal.Decimal {
	if !b.Valid() {
		return decimal.Zero
	}
	return beverageTable[b].value
}

func (b Beverage) MarshalText() ([]byte, error) {
	return []byte(b.Code()), nil
}

func (b *Beverage) UnmarshalText(text []byte) error {
	parsed, err := BeverageByName(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
