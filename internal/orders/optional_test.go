package orders

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type assignBody struct {
	DriverID  OptionalRef `json:"driverId"`
	VehicleID OptionalRef `json:"vehicleId"`
}

func TestOptionalRefAbsentKey(t *testing.T) {
	var body assignBody
	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))

	assert.False(t, body.DriverID.Set)
	assert.False(t, body.VehicleID.Set)
}

func TestOptionalRefExplicitNull(t *testing.T) {
	var body assignBody
	require.NoError(t, json.Unmarshal([]byte(`{"driverId": null}`), &body))

	assert.True(t, body.DriverID.Set)
	assert.Nil(t, body.DriverID.Value)
	assert.False(t, body.VehicleID.Set)
}

func TestOptionalRefValue(t *testing.T) {
	id := primitive.NewObjectID()
	payload := `{"driverId": "` + id.Hex() + `"}`

	var body assignBody
	require.NoError(t, json.Unmarshal([]byte(payload), &body))

	assert.True(t, body.DriverID.Set)
	require.NotNil(t, body.DriverID.Value)
	assert.Equal(t, id, *body.DriverID.Value)
}

func TestOptionalRefInvalidHex(t *testing.T) {
	var body assignBody
	err := json.Unmarshal([]byte(`{"driverId": "not-an-object-id"}`), &body)
	assert.Error(t, err)
}

func TestOptionalRefMixedFields(t *testing.T) {
	id := primitive.NewObjectID()
	payload := `{"driverId": null, "vehicleId": "` + id.Hex() + `"}`

	var body assignBody
	require.NoError(t, json.Unmarshal([]byte(payload), &body))

	assert.True(t, body.DriverID.Set)
	assert.Nil(t, body.DriverID.Value)
	assert.True(t, body.VehicleID.Set)
	require.NotNil(t, body.VehicleID.Value)
	assert.Equal(t, id, *body.VehicleID.Value)
}
