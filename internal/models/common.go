package models

// GeoPoint is a GeoJSON point, coordinates stored as [longitude, latitude].
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from a [longitude, latitude] pair.
func NewGeoPoint(coordinates []float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: coordinates}
}

// Pagination is the envelope returned alongside list endpoints.
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}
