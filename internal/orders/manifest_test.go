package orders

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk-api-server/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestComputeTotalsWeightOnly(t *testing.T) {
	items := []models.OrderItem{
		{Description: "Pallet", Quantity: 2, Weight: floatPtr(10)},
	}

	totals := ComputeTotals(items)

	require.NotNil(t, totals.Weight)
	assert.Equal(t, 20.0, *totals.Weight)
	assert.Nil(t, totals.Volume)
}

func TestComputeTotalsVolumeFromCentimeters(t *testing.T) {
	// A 2.54 cm cube is a one inch cube: 1/1728 cubic feet.
	items := []models.OrderItem{
		{
			Description: "Box",
			Quantity:    1,
			Dimensions:  &models.ItemDimensions{Length: 2.54, Width: 2.54, Height: 2.54, Unit: "cm"},
		},
	}

	totals := ComputeTotals(items)

	require.NotNil(t, totals.Volume)
	assert.InDelta(t, 1.0/1728.0, *totals.Volume, 1e-9)
	assert.Nil(t, totals.Weight)
}

func TestComputeTotalsVolumeInInches(t *testing.T) {
	// A 12 inch cube is exactly one cubic foot.
	items := []models.OrderItem{
		{
			Description: "Crate",
			Quantity:    3,
			Dimensions:  &models.ItemDimensions{Length: 12, Width: 12, Height: 12, Unit: "in"},
		},
	}

	totals := ComputeTotals(items)

	require.NotNil(t, totals.Volume)
	assert.InDelta(t, 3.0, *totals.Volume, 1e-9)
}

func TestComputeTotalsExplicitZeroWeight(t *testing.T) {
	// Zero weight is a known value, not a missing one: the aggregate is
	// present and zero.
	items := []models.OrderItem{
		{Description: "Envelope", Quantity: 5, Weight: floatPtr(0)},
	}

	totals := ComputeTotals(items)

	require.NotNil(t, totals.Weight)
	assert.Equal(t, 0.0, *totals.Weight)
}

func TestComputeTotalsNothingContributes(t *testing.T) {
	tests := []struct {
		name  string
		items []models.OrderItem
	}{
		{"empty list", []models.OrderItem{}},
		{"nil list", nil},
		{"no measurements", []models.OrderItem{{Description: "Unknown parcel", Quantity: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals := ComputeTotals(tt.items)
			assert.Nil(t, totals.Weight)
			assert.Nil(t, totals.Volume)
		})
	}
}

func TestComputeTotalsSkipsNonFiniteValues(t *testing.T) {
	items := []models.OrderItem{
		{Description: "Bad scale reading", Quantity: 1, Weight: floatPtr(math.NaN())},
		{Description: "Overflow", Quantity: 1, Weight: floatPtr(math.Inf(1))},
		{Description: "Good", Quantity: 2, Weight: floatPtr(3)},
		{
			Description: "Bad dims",
			Quantity:    1,
			Dimensions:  &models.ItemDimensions{Length: math.NaN(), Width: 1, Height: 1},
		},
	}

	totals := ComputeTotals(items)

	require.NotNil(t, totals.Weight)
	assert.Equal(t, 6.0, *totals.Weight)
	assert.Nil(t, totals.Volume)
}

func TestComputeTotalsMixedItems(t *testing.T) {
	items := []models.OrderItem{
		{Description: "Weighed only", Quantity: 2, Weight: floatPtr(10)},
		{
			Description: "Measured only",
			Quantity:    1,
			Dimensions:  &models.ItemDimensions{Length: 12, Width: 12, Height: 12},
		},
	}

	totals := ComputeTotals(items)

	require.NotNil(t, totals.Weight)
	require.NotNil(t, totals.Volume)
	assert.Equal(t, 20.0, *totals.Weight)
	assert.InDelta(t, 1.0, *totals.Volume, 1e-9)
}

func TestValidateItems(t *testing.T) {
	tests := []struct {
		name    string
		items   []models.OrderItem
		wantErr bool
	}{
		{"nil list", nil, false},
		{"valid items", []models.OrderItem{{Description: "Pallet", Quantity: 1}}, false},
		{"missing description", []models.OrderItem{{Quantity: 1}}, true},
		{"zero quantity", []models.OrderItem{{Description: "Pallet", Quantity: 0}}, true},
		{"negative quantity", []models.OrderItem{{Description: "Pallet", Quantity: -2}}, true},
		{
			"one bad line fails the list",
			[]models.OrderItem{
				{Description: "Good", Quantity: 1},
				{Description: "", Quantity: 1},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateItems(tt.items)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidItem)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
