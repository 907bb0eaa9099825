// Package catalog описывает закрытые справочники пиццерии: начинки, размеры и напитки.
//
// Справочники неизменяемы и упорядочены: порядок объявления используется для нумерации
// пунктов меню (с единицы) и как детерминированный tie-break в отчётах.
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidIndex возвращается, если выбор из справочника не соответствует ни одной записи.
var ErrInvalidIndex = errors.New("invalid catalog selection")

// SelectionError уточняет, какой справочник и какое значение не удалось разрешить.
type SelectionError struct {
	Catalog string
	Value   string
	Size    int
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("invalid %s selection %q: expected 1..%d or a known name", e.Catalog, e.Value, e.Size)
}

func (e *SelectionError) Unwrap() error {
	return ErrInvalidIndex
}

// Entry — строка меню для отображения на внешней границе.
type Entry struct {
	// Номер пункта меню, начиная с 1.
	Selection int
	Code      string
	Name      string
	// Базовая цена начинки, множитель размера или цена напитка.
	Value decimal.Decimal
}

type entrySpec struct {
	code  string
	name  string
	value decimal.Decimal
}

func entriesOf(table []entrySpec) []Entry {
	result := make([]Entry, 0, len(table))
	for i, row := range table {
		result = append(result, Entry{
			Selection: i + 1,
			Code:      row.code,
			Name:      row.name,
			Value:     row.value,
		})
	}
	return result
}

func bySelection(table []entrySpec, catalogName string, selection int) (int, error) {
	if selection < 1 || selection > len(table) {
		return 0, &SelectionError{Catalog: catalogName, Value: strconv.Itoa(selection), Size: len(table)}
	}
	return selection - 1, nil
}

func byName(table []entrySpec, catalogName, name string) (int, error) {
	needle := normalizeName(name)
	for i, row := range table {
		if needle == normalizeName(row.code) || needle == normalizeName(row.name) {
			return i, nil
		}
	}
	return 0, &SelectionError{Catalog: catalogName, Value: name, Size: len(table)}
}

// parseEntry принимает либо номер пункта меню, либо код/название записи.
func parseEntry(table []entrySpec, catalogName, value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if n, err := strconv.Atoi(trimmed); err == nil {
		return bySelection(table, catalogName, n)
	}
	return byName(table, catalogName, trimmed)
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", " ", "-", " ").Replace(s)
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
