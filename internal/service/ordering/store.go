// Package ordering содержит хранилище заказов пиццерии: выдачу идентификаторов,
// мутации заказов, контроль инвариантов и автоматическое снятие опустевших заказов.
package ordering

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pizzeria/internal/catalog"
	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
	"github.com/vladislavdragonenkov/pizzeria/internal/metrics"
	"github.com/vladislavdragonenkov/pizzeria/internal/pricing"
	"github.com/vladislavdragonenkov/pizzeria/internal/storage/memory"
)

// DefaultMaxToppings задаёт максимум начинок на одну пиццу по умолчанию.
const DefaultMaxToppings = 4

// Названия операций для логов и метрик.
const (
	opCreateOrder         = "create_order"
	opAddItem             = "add_item"
	opAddBeverage         = "add_beverage"
	opRemoveItem          = "remove_item"
	opRemoveBeverage      = "remove_beverage"
	opReplaceItemToppings = "replace_item_toppings"
)

const cancelReason = "order became empty"

// Store хранит клиентов и заказы. Все мутации выполняются под одним мьютексом:
// новый снимок считается на копии и фиксируется только в конце, поэтому неудачная
// операция не меняет состояние.
type Store struct {
	mu sync.RWMutex

	customers domain.CustomerRepository
	orders    domain.OrderRepository
	timeline  domain.TimelineRepository
	outbox    domain.OutboxRepository

	rates       pricing.Rates
	maxToppings int
	now         func() time.Time
	logger      *log.Entry
	metrics     *metrics.StoreMetrics

	nextOrderID int64
}

// Option настраивает Store.
type Option func(*Store)

// WithLogger задаёт логгер хранилища.
func WithLogger(logger *log.Entry) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics включает Prometheus-метрики операций.
func WithMetrics(m *metrics.StoreMetrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithRates задаёт тарифы доставки.
func WithRates(rates pricing.Rates) Option {
	return func(s *Store) {
		s.rates = rates
	}
}

// WithMaxToppings ограничивает число начинок на пиццу. Значения < 1 игнорируются.
func WithMaxToppings(max int) Option {
	return func(s *Store) {
		if max > 0 {
			s.maxToppings = max
		}
	}
}

// WithTimeline подключает журнал событий заказов.
func WithTimeline(repo domain.TimelineRepository) Option {
	return func(s *Store) {
		s.timeline = repo
	}
}

// WithOutbox подключает transactional outbox для публикации событий заказов.
func WithOutbox(repo domain.OutboxRepository) Option {
	return func(s *Store) {
		s.outbox = repo
	}
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCustomerRepository подменяет хранилище клиентов.
func WithCustomerRepository(repo domain.CustomerRepository) Option {
	return func(s *Store) {
		if repo != nil {
			s.customers = repo
		}
	}
}

// WithOrderRepository подменяет хранилище заказов. Репозиторий должен быть пустым:
// нумерация заказов начинается с 1.
func WithOrderRepository(repo domain.OrderRepository) Option {
	return func(s *Store) {
		if repo != nil {
			s.orders = repo
		}
	}
}

// NewStore создаёт пустое хранилище. Первый заказ получит ID 1.
func NewStore(opts ...Option) *Store {
	s := &Store{
		customers:   memory.NewCustomerRepository(),
		orders:      memory.NewOrderRepository(),
		rates:       pricing.DefaultRates(),
		maxToppings: DefaultMaxToppings,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      log.New().WithField("component", "ordering"),
		nextOrderID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rates возвращает тарифы доставки хранилища.
func (s *Store) Rates() pricing.Rates {
	return s.rates
}

// MaxToppings возвращает ограничение на число начинок.
func (s *Store) MaxToppings() int {
	return s.maxToppings
}

// AddCustomer сохраняет клиента и возвращает общую ссылку на него.
func (s *Store) AddCustomer(customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.customers.Add(customer)
	if err != nil {
		return nil, fmt.Errorf("add customer: %w", err)
	}
	s.logger.WithField("customer", stored.Name).Debug("customer added")
	return stored, nil
}

// FindCustomerByName возвращает первого клиента, чьё имя содержит запрос без учёта регистра.
func (s *Store) FindCustomerByName(query string) (*domain.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.customers.FindByName(query)
}

// Customers возвращает клиентов в порядке добавления.
func (s *Store) Customers() []*domain.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customers, err := s.customers.List()
	if err != nil {
		s.logger.WithError(err).Error("list customers failed")
		return nil
	}
	return customers
}

// Orders возвращает копии заказов в порядке создания.
func (s *Store) Orders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders, err := s.orders.List()
	if err != nil {
		s.logger.WithError(err).Error("list orders failed")
		return nil
	}
	return orders
}

// FindOrder возвращает снимок заказа или ErrOrderNotFound.
func (s *Store) FindOrder(id int64) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, err := s.orders.Get(id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("find order %d: %w", id, err)
	}
	return order, nil
}

// CreateOrder создаёт заказ и выдаёт ему следующий ID. При ошибке счётчик не сдвигается.
func (s *Store) CreateOrder(customer *domain.Customer, items []domain.ComboItem, beverages []catalog.Beverage, distanceKm decimal.Decimal) (domain.Order, error) {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.buildOrder(customer, items, beverages, distanceKm)
	if err != nil {
		s.recordOperation(opCreateOrder, err, start)
		return domain.Order{}, fmt.Errorf("%s: %w", opCreateOrder, err)
	}

	order.ID = s.nextOrderID
	if err := s.orders.Create(order); err != nil {
		s.recordOperation(opCreateOrder, err, start)
		return domain.Order{}, fmt.Errorf("%s: %w", opCreateOrder, err)
	}
	s.nextOrderID++

	s.logger.WithFields(log.Fields{
		"order_id":  order.ID,
		"customer":  customer.Name,
		"items":     order.ItemCount(),
		"beverages": order.BeverageCount(),
		"total":     order.Total.StringFixed(2),
	}).Debug("order created")

	s.appendTimeline(order.ID, domain.TimelineOrderCreated, "", order.CreatedAt)
	s.enqueueEvent(order, domain.OutboxEventOrderCreated, "")
	if s.metrics != nil {
		s.metrics.RecordOrderCreated(order.Total)
	}
	s.recordOperation(opCreateOrder, nil, start)

	return order.Clone(), nil
}

func (s *Store) buildOrder(customer *domain.Customer, items []domain.ComboItem, beverages []catalog.Beverage, distanceKm decimal.Decimal) (domain.Order, error) {
	if len(items) == 0 && len(beverages) == 0 {
		return domain.Order{}, domain.ErrEmptyOrder
	}
	for i, item := range items {
		if err := s.checkToppings(item.ToppingCount()); err != nil {
			return domain.Order{}, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return domain.NewOrder(customer, items, beverages, distanceKm, s.rates, s.now())
}

func (s *Store) checkToppings(count int) error {
	if count > s.maxToppings {
		return fmt.Errorf("%w: %d toppings, at most %d allowed", domain.ErrTooManyToppings, count, s.maxToppings)
	}
	return nil
}

// AddItem добавляет пиццу в конец заказа и пересчитывает доставку и итог.
func (s *Store) AddItem(id int64, item domain.ComboItem) (domain.Order, error) {
	return s.mutate(opAddItem, id, func(current domain.Order) (change, error) {
		if err := item.Validate(); err != nil {
			return change{}, err
		}
		if err := s.checkToppings(item.ToppingCount()); err != nil {
			return change{}, err
		}
		return change{
			items:        append(current.Items, item),
			beverages:    current.Beverages,
			timelineType: domain.TimelineItemAdded,
			reason:       item.String(),
		}, nil
	})
}

// AddBeverage добавляет напиток в конец заказа.
func (s *Store) AddBeverage(id int64, beverage catalog.Beverage) (domain.Order, error) {
	return s.mutate(opAddBeverage, id, func(current domain.Order) (change, error) {
		if !beverage.Valid() {
			return change{}, domain.ErrBeverageInvalid
		}
		return change{
			items:        current.Items,
			beverages:    append(current.Beverages, beverage),
			timelineType: domain.TimelineBeverageAdded,
			reason:       beverage.String(),
		}, nil
	})
}

// RemoveItem удаляет пиццу по индексу. Если заказ опустел, он снимается
// и возвращается ErrOrderCancelled.
func (s *Store) RemoveItem(id int64, index int) (domain.Order, error) {
	return s.mutate(opRemoveItem, id, func(current domain.Order) (change, error) {
		if err := domain.CheckIndex("item", index, len(current.Items)); err != nil {
			return change{}, err
		}
		return change{
			items:        removeAt(current.Items, index),
			beverages:    current.Beverages,
			timelineType: domain.TimelineItemRemoved,
			reason:       current.Items[index].String(),
		}, nil
	})
}

// RemoveBeverage удаляет напиток по индексу. Если заказ опустел, он снимается
// и возвращается ErrOrderCancelled.
func (s *Store) RemoveBeverage(id int64, index int) (domain.Order, error) {
	return s.mutate(opRemoveBeverage, id, func(current domain.Order) (change, error) {
		if err := domain.CheckIndex("beverage", index, len(current.Beverages)); err != nil {
			return change{}, err
		}
		return change{
			items:        current.Items,
			beverages:    removeAt(current.Beverages, index),
			timelineType: domain.TimelineBeverageRemoved,
			reason:       current.Beverages[index].String(),
		}, nil
	})
}

// ReplaceItemToppings заменяет начинки пиццы, сохраняя её размер.
func (s *Store) ReplaceItemToppings(id int64, index int, toppings []catalog.Topping) (domain.Order, error) {
	return s.mutate(opReplaceItemToppings, id, func(current domain.Order) (change, error) {
		if err := domain.CheckIndex("item", index, len(current.Items)); err != nil {
			return change{}, err
		}
		if err := s.checkToppings(len(toppings)); err != nil {
			return change{}, err
		}
		replaced, err := current.Items[index].WithToppings(toppings)
		if err != nil {
			return change{}, err
		}

		items := make([]domain.ComboItem, len(current.Items))
		copy(items, current.Items)
		items[index] = replaced

		return change{
			items:        items,
			beverages:    current.Beverages,
			timelineType: domain.TimelineItemToppingsReplaced,
			reason:       replaced.String(),
		}, nil
	})
}

// Timeline возвращает журнал событий заказа, включая снятые заказы.
func (s *Store) Timeline(id int64) ([]domain.TimelineEvent, error) {
	if s.timeline == nil {
		return nil, nil
	}
	events, err := s.timeline.List(id)
	if err != nil {
		return nil, fmt.Errorf("list timeline of order %d: %w", id, err)
	}
	return events, nil
}

// CheckInvariants проверяет все хранимые заказы: состав, доставку, итог и монотонность ID.
func (s *Store) CheckInvariants() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders, err := s.orders.List()
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}

	var (
		errs   []error
		lastID int64
	)
	for _, order := range orders {
		if order.ID <= lastID || order.ID >= s.nextOrderID {
			errs = append(errs, fmt.Errorf("order %d breaks id ordering (previous %d, next %d)", order.ID, lastID, s.nextOrderID))
		}
		lastID = order.ID
		for _, violation := range order.ValidateInvariants(s.rates) {
			errs = append(errs, fmt.Errorf("order %d: %w", order.ID, violation))
		}
	}
	return errors.Join(errs...)
}

// change — новый состав заказа и описание события для журнала.
type change struct {
	items        []domain.ComboItem
	beverages    []catalog.Beverage
	timelineType string
	reason       string
}

// mutate выполняет read-modify-write заказа под эксклюзивной блокировкой.
func (s *Store) mutate(operation string, id int64, apply func(current domain.Order) (change, error)) (domain.Order, error) {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.orders.Get(id)
	if err != nil {
		s.recordOperation(operation, err, start)
		return domain.Order{}, fmt.Errorf("%s on order %d: %w", operation, id, err)
	}

	next, err := apply(current)
	if err != nil {
		s.recordOperation(operation, err, start)
		return domain.Order{}, fmt.Errorf("%s on order %d: %w", operation, id, err)
	}

	now := s.now()
	if len(next.items) == 0 && len(next.beverages) == 0 {
		return domain.Order{}, s.cancel(operation, current, next, now, start)
	}

	updated, err := current.Recompose(next.items, next.beverages, s.rates, now)
	if err == nil {
		err = s.orders.Save(updated)
	}
	if err == nil {
		updated, err = s.orders.Get(id)
	}
	if err != nil {
		s.recordOperation(operation, err, start)
		return domain.Order{}, fmt.Errorf("%s on order %d: %w", operation, id, err)
	}

	s.logger.WithFields(log.Fields{
		"order_id":  id,
		"operation": operation,
		"version":   updated.Version,
		"total":     updated.Total.StringFixed(2),
	}).Debug("order updated")

	s.appendTimeline(id, next.timelineType, next.reason, now)
	s.enqueueEvent(updated, domain.OutboxEventOrderUpdated, next.timelineType)
	s.recordOperation(operation, nil, start)

	return updated, nil
}

// cancel снимает опустевший заказ. ID снятого заказа повторно не выдаётся.
func (s *Store) cancel(operation string, current domain.Order, last change, now time.Time, start time.Time) error {
	if err := s.orders.Delete(current.ID); err != nil {
		s.recordOperation(operation, err, start)
		return fmt.Errorf("%s on order %d: %w", operation, current.ID, err)
	}

	s.logger.WithFields(log.Fields{
		"order_id":  current.ID,
		"operation": operation,
	}).Info("order cancelled because it became empty")

	s.appendTimeline(current.ID, last.timelineType, last.reason, now)
	s.appendTimeline(current.ID, domain.TimelineOrderCancelled, cancelReason, now)

	cancelled := current.Clone()
	cancelled.Items = nil
	cancelled.Beverages = nil
	cancelled.Shipping = decimal.Zero
	cancelled.Total = decimal.Zero
	cancelled.UpdatedAt = now
	s.enqueueEvent(cancelled, domain.OutboxEventOrderCancelled, cancelReason)

	if s.metrics != nil {
		s.metrics.RecordOrderCancelled()
		s.metrics.RecordOperation(operation, metrics.ResultCancelled, time.Since(start))
	}
	return fmt.Errorf("%s on order %d: %w", operation, current.ID, domain.ErrOrderCancelled)
}

func (s *Store) appendTimeline(orderID int64, eventType, reason string, occurred time.Time) {
	if s.timeline == nil {
		return
	}
	event := domain.TimelineEvent{
		OrderID:  orderID,
		Type:     eventType,
		Reason:   reason,
		Occurred: occurred,
	}
	if err := s.timeline.Append(event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"event":    eventType,
		}).Warn("append timeline event failed")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordTimelineEvent()
	}
}

func (s *Store) enqueueEvent(order domain.Order, eventType, reason string) {
	if s.outbox == nil {
		return
	}
	msg, err := newOutboxMessage(order, eventType, reason)
	if err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": order.ID,
			"event":    eventType,
		}).Error("marshal event failed")
		return
	}
	if _, err := s.outbox.Enqueue(msg); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": order.ID,
			"event":    eventType,
		}).Warn("enqueue event failed")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordOutboxEvent()
	}
}

func (s *Store) recordOperation(operation string, err error, start time.Time) {
	if s.metrics == nil {
		return
	}
	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultError
	}
	s.metrics.RecordOperation(operation, result, time.Since(start))
}

func removeAt[T any](values []T, index int) []T {
	result := make([]T, 0, len(values)-1)
	result = append(result, values[:index]...)
	return append(result, values[index+1:]...)
}
