package models

// Location is a single GPS fix. Lat/Lng of 0,0 means "unknown".
type Location struct {
	Lat       float64 `json:"lat" bson:"lat" validate:"min=-90,max=90"`
	Lng       float64 `json:"lng" bson:"lng" validate:"min=-180,max=180"`
	Address   string  `json:"address,omitempty" bson:"address,omitempty"`
	Timestamp string  `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
}

// HasCoordinates reports whether the fix carries a usable position.
func (l Location) HasCoordinates() bool {
	return l.Lat != 0 || l.Lng != 0
}

// Bounds is the map viewport captured with a route snapshot.
type Bounds struct {
	North float64 `json:"north" bson:"north"`
	South float64 `json:"south" bson:"south"`
	East  float64 `json:"east" bson:"east"`
	West  float64 `json:"west" bson:"west"`
}
