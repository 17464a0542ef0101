package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	VehicleAvailable   = "available"
	VehicleInUse       = "in_use"
	VehicleMaintenance = "maintenance"
	VehicleRetired     = "retired"
)

// MaintenanceEntry is one append-only record in a vehicle's service history.
type MaintenanceEntry struct {
	Title       string     `bson:"title" json:"title"`
	PerformedAt *time.Time `bson:"performedAt,omitempty" json:"performedAt,omitempty"`
	Status      string     `bson:"status,omitempty" json:"status,omitempty"` // completed, scheduled, overdue
	Notes       string     `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Vehicle matches a document in the "vehicles" collection.
type Vehicle struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name            string              `bson:"name" json:"name"`
	PlateNumber     string              `bson:"plateNumber" json:"plateNumber"`
	Type            string              `bson:"type" json:"type"` // truck, van, trailer, pickup
	Status          string              `bson:"status" json:"status"`
	Capacity        float64             `bson:"capacity" json:"capacity"` // kg
	CapacityUsed    float64             `bson:"capacityUsed,omitempty" json:"capacityUsed,omitempty"`
	FuelType        string              `bson:"fuelType,omitempty" json:"fuelType,omitempty"` // diesel, gasoline, electric, hybrid
	Mileage         float64             `bson:"mileage" json:"mileage"`
	Odometer        float64             `bson:"odometer,omitempty" json:"odometer,omitempty"`
	FuelLevel       float64             `bson:"fuelLevel,omitempty" json:"fuelLevel,omitempty"`
	HealthStatus    string              `bson:"healthStatus,omitempty" json:"healthStatus,omitempty"` // good, warning, critical
	VIN             string              `bson:"vin,omitempty" json:"vin,omitempty"`
	Make            string              `bson:"make,omitempty" json:"make,omitempty"`
	Model           string              `bson:"model,omitempty" json:"model,omitempty"`
	Year            int                 `bson:"year,omitempty" json:"year,omitempty"`
	Color           string              `bson:"color,omitempty" json:"color,omitempty"`
	LastServiceDate *time.Time          `bson:"lastServiceDate,omitempty" json:"lastServiceDate,omitempty"`
	NextServiceDue  *time.Time          `bson:"nextServiceDue,omitempty" json:"nextServiceDue,omitempty"`
	Location        *GeoPoint           `bson:"location,omitempty" json:"location,omitempty"`
	AssignedDriver  *primitive.ObjectID `bson:"assignedDriver,omitempty" json:"assignedDriver,omitempty"`

	MaintenanceHistory []MaintenanceEntry `bson:"maintenanceHistory,omitempty" json:"maintenanceHistory,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ValidVehicleStatus reports whether status is a known vehicle status.
func ValidVehicleStatus(status string) bool {
	switch status {
	case VehicleAvailable, VehicleInUse, VehicleMaintenance, VehicleRetired:
		return true
	}
	return false
}
