package catalog

import (
	"github.com/shopspring/decimal"
)

// Size — размер пиццы с множителем цены.
type Size uint8

const (
	Small Size = iota
	Regular
	Large
)

const sizeCatalog = "size"

var sizeTable = []entrySpec{
	{code: "small", name: "SMALL", value: price("0.7")},
	{code: "regular", name: "REGULAR", value: price("1.0")},
	{code: "large", name: "LARGE", value: price("1.3")},
}

// Sizes возвращает размеры в порядке объявления.
func Sizes() []Size {
	result := make([]Size, len(sizeTable))
	for i := range sizeTable {
		result[i] = Size(i)
	}
	return result
}

// SizeEntries возвращает меню размеров с множителями.
func SizeEntries() []Entry {
	return entriesOf(sizeTable)
}

// SizeBySelection разрешает номер пункта меню (с 1) в размер.
func SizeBySelection(selection int) (Size, error) {
	idx, err := bySelection(sizeTable, sizeCatalog, selection)
	return Size(idx), err
}

// SizeByName ищет размер по коду без учёта регистра.
func SizeByName(name string) (Size, error) {
	idx, err := byName(sizeTable, sizeCatalog, name)
	return Size(idx), err
}

// ParseSize принимает номер пункта меню или название.
func ParseSize(value string) (Size, error) {
	idx, err := parseEntry(sizeTable, sizeCatalog, value)
	return Size(idx), err
}

func (s Size) Valid() bool {
	return int(s) < len(sizeTable)
}

func (s Size) Code() string {
	if !s.Valid() {
		return "unknown"
	}
	return sizeTable[s].code
}

func (s Size) String() string {
	if !s.Valid() {
		return "UNKNOWN"
	}
	return sizeTable[s].name
}

// Factor возвращает множитель цены размера.
func (s Size) Factor() decimal.Decimal {
	if !s.Valid() {
		return decimal.Zero
	}
	return sizeTable[s].value
}

func (s Size) MarshalText() ([]byte, error) {
	return []byte(s.Code()), nil
}

func (s *Size) UnmarshalText(text []byte) error {
	parsed, err := SizeByName(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
