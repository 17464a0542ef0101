package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DriverActive   = "active"
	DriverInactive = "inactive"
	DriverOnBreak  = "on_break"
	DriverOffDuty  = "off_duty"
)

// DriverActivity is one entry in a driver's route history.
type DriverActivity struct {
	Date            time.Time `bson:"date" json:"date"`
	RouteID         string    `bson:"routeId,omitempty" json:"routeId,omitempty"`
	Zone            string    `bson:"zone,omitempty" json:"zone,omitempty"`
	Status          string    `bson:"status,omitempty" json:"status,omitempty"` // in_progress, completed, late
	DurationMinutes int       `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
}

// DriverDocument points at an uploaded file (license scan, contract, ...).
type DriverDocument struct {
	ID         string     `bson:"id" json:"id"`
	Title      string     `bson:"title" json:"title"`
	URL        string     `bson:"url,omitempty" json:"url,omitempty"`
	UploadedAt *time.Time `bson:"uploadedAt,omitempty" json:"uploadedAt,omitempty"`
}

type PayrollEntry struct {
	Period string  `bson:"period" json:"period"`
	Amount float64 `bson:"amount" json:"amount"`
	Status string  `bson:"status,omitempty" json:"status,omitempty"` // paid, pending
}

type DriverIncident struct {
	Title      string     `bson:"title" json:"title"`
	ReportedAt *time.Time `bson:"reportedAt,omitempty" json:"reportedAt,omitempty"`
	Status     string     `bson:"status,omitempty" json:"status,omitempty"` // open, resolved
}

// Driver matches a document in the "drivers" collection.
type Driver struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name            string              `bson:"name" json:"name"`
	Email           string              `bson:"email" json:"email"`
	Phone           string              `bson:"phone" json:"phone"`
	Status          string              `bson:"status" json:"status"`
	EmployeeID      string              `bson:"employeeId,omitempty" json:"employeeId,omitempty"`
	EmploymentType  string              `bson:"employmentType,omitempty" json:"employmentType,omitempty"` // full_time, contract, part_time
	Rating          float64             `bson:"rating,omitempty" json:"rating,omitempty"`
	ReviewsCount    int                 `bson:"reviewsCount,omitempty" json:"reviewsCount,omitempty"`
	OnTimeRate      float64             `bson:"onTimeRate,omitempty" json:"onTimeRate,omitempty"`
	TotalDeliveries int                 `bson:"totalDeliveries,omitempty" json:"totalDeliveries,omitempty"`
	DistanceDriven  float64             `bson:"distanceDriven,omitempty" json:"distanceDriven,omitempty"` // km
	Location        *GeoPoint           `bson:"location,omitempty" json:"location,omitempty"`
	Vehicle         *primitive.ObjectID `bson:"vehicle,omitempty" json:"vehicle,omitempty"`
	LicenseNumber   string              `bson:"licenseNumber" json:"licenseNumber"`
	LicenseExpiry   time.Time           `bson:"licenseExpiry" json:"licenseExpiry"`
	Avatar          string              `bson:"avatar,omitempty" json:"avatar,omitempty"`

	ActivityHistory []DriverActivity `bson:"activityHistory,omitempty" json:"activityHistory,omitempty"`
	Documents       []DriverDocument `bson:"documents,omitempty" json:"documents,omitempty"`
	Payroll         []PayrollEntry   `bson:"payroll,omitempty" json:"payroll,omitempty"`
	Incidents       []DriverIncident `bson:"incidents,omitempty" json:"incidents,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ValidDriverStatus reports whether status is a known driver status.
func ValidDriverStatus(status string) bool {
	switch status {
	case DriverActive, DriverInactive, DriverOnBreak, DriverOffDuty:
		return true
	}
	return false
}
