package ordering

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

// OrderEventPayload — тело outbox-события заказа.
type OrderEventPayload struct {
	OrderID   int64            `json:"order_id"`
	Customer  string           `json:"customer,omitempty"`
	Items     []OrderEventItem `json:"items"`
	Beverages []string         `json:"beverages"`
	Distance  string           `json:"distance_km"`
	Shipping  string           `json:"shipping"`
	Total     string           `json:"total"`
	Version   int64            `json:"version"`
	Reason    string           `json:"reason,omitempty"`
	Timestamp time.Time        `json:"ts"`
}

// OrderEventItem описывает пиццу в теле события.
type OrderEventItem struct {
	Size     string   `json:"size"`
	Toppings []string `json:"toppings"`
	Price    string   `json:"price"`
}

func newOutboxMessage(order domain.Order, eventType, reason string) (domain.OutboxMessage, error) {
	payload := OrderEventPayload{
		OrderID:   order.ID,
		Items:     make([]OrderEventItem, 0, len(order.Items)),
		Beverages: make([]string, 0, len(order.Beverages)),
		Distance:  order.DistanceKm.String(),
		Shipping:  order.Shipping.StringFixed(2),
		Total:     order.Total.StringFixed(2),
		Version:   order.Version,
		Reason:    reason,
		Timestamp: order.UpdatedAt,
	}
	if order.Customer != nil {
		payload.Customer = order.Customer.Name
	}
	for _, item := range order.Items {
		toppings := make([]string, 0, item.ToppingCount())
		for _, topping := range item.Toppings() {
			toppings = append(toppings, topping.Code())
		}
		payload.Items = append(payload.Items, OrderEventItem{
			Size:     item.Size().Code(),
			Toppings: toppings,
			Price:    item.Price().StringFixed(2),
		})
	}
	for _, beverage := range order.Beverages {
		payload.Beverages = append(payload.Beverages, beverage.Code())
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return domain.OutboxMessage{}, err
	}

	return domain.OutboxMessage{
		AggregateType: domain.OutboxAggregateOrder,
		AggregateID:   strconv.FormatInt(order.ID, 10),
		EventType:     eventType,
		Payload:       data,
	}, nil
}
