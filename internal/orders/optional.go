package orders

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OptionalRef is a three-state reference field in a JSON payload:
// absent (leave unchanged), explicit null (clear), or an object id hex
// string (set). UnmarshalJSON only runs when the key is present, which
// is what distinguishes absent from null.
type OptionalRef struct {
	Set   bool
	Value *primitive.ObjectID
}

func (o *OptionalRef) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var hex string
	if err := json.Unmarshal(data, &hex); err != nil {
		return err
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return err
	}
	o.Value = &id
	return nil
}
