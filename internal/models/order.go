package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the lifecycle position of a delivery order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderAssigned  OrderStatus = "assigned"
	OrderPickedUp  OrderStatus = "picked_up"
	OrderInTransit OrderStatus = "in_transit"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Activity log entry types.
const (
	ActivityStatus = "status"
	ActivityEvent  = "event"
	ActivityNote   = "note"
)

// Contact is the customer block on an order.
type Contact struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Phone string `bson:"phone" json:"phone"`
}

// Waypoint is a pickup or delivery stop.
type Waypoint struct {
	Address       string     `bson:"address" json:"address"`
	City          string     `bson:"city" json:"city"`
	State         string     `bson:"state" json:"state"`
	ZipCode       string     `bson:"zipCode" json:"zipCode"`
	Coordinates   *GeoPoint  `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	ScheduledTime *time.Time `bson:"scheduledTime,omitempty" json:"scheduledTime,omitempty"`
	ActualTime    *time.Time `bson:"actualTime,omitempty" json:"actualTime,omitempty"`
	Notes         string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ItemDimensions holds per-item box measurements. Unit is "in" or "cm";
// empty means inches.
type ItemDimensions struct {
	Length float64 `bson:"length" json:"length"`
	Width  float64 `bson:"width" json:"width"`
	Height float64 `bson:"height" json:"height"`
	Unit   string  `bson:"unit,omitempty" json:"unit,omitempty"`
}

// OrderItem is one manifest line. Weight is a pointer: a nil weight means
// "unknown", an explicit zero still counts toward the aggregate.
type OrderItem struct {
	Description string          `bson:"description" json:"description"`
	SKU         string          `bson:"sku,omitempty" json:"sku,omitempty"`
	Quantity    float64         `bson:"quantity" json:"quantity"`
	Dimensions  *ItemDimensions `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	Weight      *float64        `bson:"weight,omitempty" json:"weight,omitempty"`
	Status      string          `bson:"status,omitempty" json:"status,omitempty"` // picked, packed, pending
}

// ActivityEntry is one append-only line in an order's audit trail.
type ActivityEntry struct {
	Message   string    `bson:"message" json:"message"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Actor     string    `bson:"actor,omitempty" json:"actor,omitempty"`
	Type      string    `bson:"type,omitempty" json:"type,omitempty"`
}

// Order matches a document in the "orders" collection. TotalWeight and
// TotalVolume are derived from Items; both are absent (not zero) when no
// item supplies the relevant measurement.
type Order struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrderNumber     string              `bson:"orderNumber" json:"orderNumber"`
	Status          OrderStatus         `bson:"status" json:"status"`
	ReferenceNumber string              `bson:"referenceNumber,omitempty" json:"referenceNumber,omitempty"`
	Customer        Contact             `bson:"customer" json:"customer"`
	Pickup          Waypoint            `bson:"pickup" json:"pickup"`
	Delivery        Waypoint            `bson:"delivery" json:"delivery"`
	AssignedDriver  *primitive.ObjectID `bson:"assignedDriver,omitempty" json:"assignedDriver,omitempty"`
	AssignedVehicle *primitive.ObjectID `bson:"assignedVehicle,omitempty" json:"assignedVehicle,omitempty"`
	Items           []OrderItem         `bson:"items" json:"items"`
	TotalWeight     *float64            `bson:"totalWeight,omitempty" json:"totalWeight,omitempty"`
	TotalVolume     *float64            `bson:"totalVolume,omitempty" json:"totalVolume,omitempty"` // cubic feet
	Priority        string              `bson:"priority" json:"priority"`

	EstimatedDistance *float64   `bson:"estimatedDistance,omitempty" json:"estimatedDistance,omitempty"` // km
	EstimatedDuration *float64   `bson:"estimatedDuration,omitempty" json:"estimatedDuration,omitempty"` // minutes
	ActualDistance    *float64   `bson:"actualDistance,omitempty" json:"actualDistance,omitempty"`
	ActualDuration    *float64   `bson:"actualDuration,omitempty" json:"actualDuration,omitempty"`
	EstimatedArrival  *time.Time `bson:"estimatedArrival,omitempty" json:"estimatedArrival,omitempty"`
	DelayMinutes      *float64   `bson:"delayMinutes,omitempty" json:"delayMinutes,omitempty"`

	ActivityLog []ActivityEntry    `bson:"activityLog,omitempty" json:"activityLog,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidPriority reports whether p is a known order priority.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ValidActivityType reports whether t is a known activity log entry type.
func ValidActivityType(t string) bool {
	switch t {
	case ActivityStatus, ActivityEvent, ActivityNote:
		return true
	}
	return false
}
