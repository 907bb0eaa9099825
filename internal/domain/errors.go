package domain

import (
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/pizzeria/internal/catalog"
	"github.com/vladislavdragonenkov/pizzeria/internal/pricing"
)

var (
	// Корневая ошибка некорректных данных (пустая пицца, пустой заказ и т.п.).
	ErrInvalidInput = pricing.ErrInvalidInput
	// Ошибка выбора из справочника вне диапазона или по неизвестному названию.
	ErrInvalidIndex = catalog.ErrInvalidIndex
	// Ошибка заказа без пицц и без напитков.
	ErrEmptyOrder = fmt.Errorf("%w: order must contain at least one item or beverage", ErrInvalidInput)
	// Ошибка отсутствующего клиента.
	ErrCustomerRequired = fmt.Errorf("%w: customer is required", ErrInvalidInput)
	// ErrTooManyToppings возвращается, если начинок больше, чем разрешено на одну пиццу.
	ErrTooManyToppings = fmt.Errorf("%w: too many toppings", ErrInvalidInput)
	// Ошибка позиции, созданной в обход NewComboItem.
	ErrItemNotConstructed = fmt.Errorf("%w: item must be created via NewComboItem", ErrInvalidInput)
	// Ошибка напитка вне справочника.
	ErrBeverageInvalid = fmt.Errorf("%w: beverage is not in the catalog", ErrInvalidInput)
	// ErrOrderNotFound возвращается, если заказа с таким ID нет в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderCancelled — заказ опустел после удаления позиции и был снят.
	// Является частным случаем ErrOrderNotFound: обновлённого заказа больше нет.
	ErrOrderCancelled = fmt.Errorf("%w: order cancelled because it became empty", ErrOrderNotFound)
	// ErrOrderAlreadyExists возвращается при повторном сохранении заказа с занятым ID.
	ErrOrderAlreadyExists = errors.New("order already exists")
	// ErrOrderVersionConflict возвращается, если снимок заказа устарел относительно хранилища.
	ErrOrderVersionConflict = errors.New("order version conflict")
	// Ошибка индекса позиции заказа вне диапазона.
	ErrIndexOutOfRange = errors.New("index out of range")
	// Ошибка несовпадения стоимости доставки с пересчитанной.
	ErrShippingMismatch = errors.New("order shipping does not match recomputed value")
	// Ошибка несоответствия итога заказа сумме позиций и доставки.
	ErrTotalMismatch = errors.New("order total does not match items sum")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IndexError описывает обращение к несуществующей позиции заказа.
type IndexError struct {
	// Field: "item" или "beverage".
	Field string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d is out of range [0, %d)", e.Field, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// CheckIndex возвращает *IndexError, если index вне [0, length).
func CheckIndex(field string, index, length int) error {
	if index < 0 || index >= length {
		return &IndexError{Field: field, Index: index, Len: length}
	}
	return nil
}

// IsOrderNotFound проверяет, что заказа нет (включая снятый из-за опустошения).
func IsOrderNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}

// IsOrderCancelled проверяет, что заказ был снят, потому что опустел.
func IsOrderCancelled(err error) bool {
	return errors.Is(err, ErrOrderCancelled)
}

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}
