package domain

import "time"

// Типы событий жизненного цикла заказа.
const (
	TimelineOrderCreated         = "OrderCreated"
	TimelineItemAdded            = "ItemAdded"
	TimelineItemRemoved          = "ItemRemoved"
	TimelineBeverageAdded        = "BeverageAdded"
	TimelineBeverageRemoved      = "BeverageRemoved"
	TimelineItemToppingsReplaced = "ItemToppingsReplaced"
	TimelineOrderCancelled       = "OrderCancelled"
)

// TimelineEvent описывает событие в жизненном цикле заказа.
type TimelineEvent struct {
	OrderID  int64
	Type     string
	Reason   string
	Occurred time.Time
}
