package history

import (
	"time"

	"cookwise/internal/notify"
	"cookwise/internal/shopping"
	"cookwise/internal/storage"
)

// DeliveryStatus is the order state of a delivery plan. Nothing advances it
// past StatusOrderPlaced.
type DeliveryStatus string

const (
	StatusOrderPlaced    DeliveryStatus = "Order Placed"
	StatusProcessing     DeliveryStatus = "Processing"
	StatusOutForDelivery DeliveryStatus = "Out for Delivery"
	StatusDelivered      DeliveryStatus = "Delivered"
)

// DeliveryPlan is an immutable snapshot of a scheduled order.
type DeliveryPlan struct {
	ID          string                   `json:"id"`
	CreatedAt   time.Time                `json:"createdAt"`
	Supermarket shopping.Quote           `json:"supermarket"`
	Recipes     []shopping.PlannedRecipe `json:"recipes"`
	GroceryList shopping.GroceryList     `json:"groceryList"`
	Status      DeliveryStatus           `json:"status"`
}

func (d DeliveryPlan) RecordID() string { return d.ID }

// NewDeliveryPlan snapshots a plan ordered from supermarket at now.
func NewDeliveryPlan(now time.Time, supermarket shopping.Quote, recipes []shopping.PlannedRecipe, list shopping.GroceryList) DeliveryPlan {
	return DeliveryPlan{
		ID:          NewID(now),
		CreatedAt:   now.UTC(),
		Supermarket: supermarket,
		Recipes:     append([]shopping.PlannedRecipe(nil), recipes...),
		GroceryList: list.Clone(),
		Status:      StatusOrderPlaced,
	}
}

// DeliveryLog is the list of scheduled deliveries.
type DeliveryLog struct {
	log      *recordLog[DeliveryPlan]
	notifier notify.Notifier
}

// NewDeliveryLog loads the delivery plans from adapter.
func NewDeliveryLog(adapter *storage.Adapter, notifier notify.Notifier) *DeliveryLog {
	return &DeliveryLog{
		log:      newRecordLog[DeliveryPlan](adapter, storage.KeyDeliveryPlans),
		notifier: notifier,
	}
}

// Append records a new delivery at the head of the log.
func (d *DeliveryLog) Append(plan DeliveryPlan) error {
	if err := d.log.prepend(plan); err != nil {
		return err
	}
	d.notifier.Notify(notify.Notice{
		Title:       "Delivery Scheduled!",
		Description: "Your order from " + plan.Supermarket.Name + " is on its way.",
	})
	return nil
}

// RemoveOne deletes the delivery with id.
func (d *DeliveryLog) RemoveOne(id string, silent bool) error {
	if err := d.log.remove(id); err != nil {
		return err
	}
	if !silent {
		d.notifier.Notify(notify.Notice{
			Title:       "Delivery Removed",
			Description: "The delivery plan has been removed.",
		})
	}
	return nil
}

// ClearAll empties the log and removes its key.
func (d *DeliveryLog) ClearAll() error {
	if err := d.log.clear(); err != nil {
		return err
	}
	d.notifier.Notify(notify.Notice{Title: "Delivery History Cleared"})
	return nil
}

// List returns the deliveries, most recent first.
func (d *DeliveryLog) List() []DeliveryPlan { return d.log.list() }

// Get returns the delivery with id.
func (d *DeliveryLog) Get(id string) (DeliveryPlan, bool) { return d.log.get(id) }
