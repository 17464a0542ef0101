package orders

import (
	"errors"
	"math"

	"fleetdesk-api-server/internal/models"
)

const (
	inchesPerCM           = 0.3937008
	cubicInchesPerCubicFt = 1728
)

// ErrInvalidItem rejects a manifest replacement as a whole; no partial
// apply happens.
var ErrInvalidItem = errors.New("each item must include a description and a positive quantity")

// Totals carries the derived manifest aggregates. A nil field means the
// aggregate is unknown and must be unset on the document; an explicit
// zero still counts as a present value.
type Totals struct {
	Weight *float64
	Volume *float64 // cubic feet
}

// ValidateItems checks a full replacement item list. One bad line fails
// the whole list.
func ValidateItems(items []models.OrderItem) error {
	for _, item := range items {
		if item.Description == "" || item.Quantity <= 0 {
			return ErrInvalidItem
		}
	}
	return nil
}

// ComputeTotals recomputes weight and volume over the item list.
// Weight: sum of weight × quantity over items with a finite weight.
// Volume: dimensions normalized to inches, L×W×H / 1728 → cubic feet,
// times quantity. Items missing a measurement simply don't contribute;
// if nothing contributes the aggregate stays nil.
func ComputeTotals(items []models.OrderItem) Totals {
	var totals Totals
	for _, item := range items {
		qty := item.Quantity

		if item.Weight != nil && isFinite(*item.Weight) {
			add(&totals.Weight, *item.Weight*qty)
		}

		dims := item.Dimensions
		if dims != nil && isFinite(dims.Length) && isFinite(dims.Width) && isFinite(dims.Height) {
			length, width, height := dims.Length, dims.Width, dims.Height
			if dims.Unit == "cm" {
				length *= inchesPerCM
				width *= inchesPerCM
				height *= inchesPerCM
			}
			volumeFt3 := (length * width * height) / cubicInchesPerCubicFt
			add(&totals.Volume, volumeFt3*qty)
		}
	}
	return totals
}

func add(total **float64, v float64) {
	if *total == nil {
		*total = new(float64)
	}
	**total += v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
