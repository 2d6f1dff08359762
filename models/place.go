package models

// PlaceLocation is a lat/lng pair from the place lookup service.
type PlaceLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceGeometry wraps the location of a place candidate.
type PlaceGeometry struct {
	Location PlaceLocation `json:"location"`
}

// PlaceDetails is the metadata payload returned by the place lookup
// service for a merchant. A zero value means no candidate was found (or
// the lookup failed); the import pipeline treats both the same way.
type PlaceDetails struct {
	PlaceID    string         `json:"place_id,omitempty"`
	Name       string         `json:"name,omitempty"`
	Types      []string       `json:"types,omitempty"`
	Geometry   *PlaceGeometry `json:"geometry,omitempty"`
	PriceLevel int            `json:"price_level,omitempty"`
}

// IsEmpty reports whether the lookup produced no usable candidate.
func (p PlaceDetails) IsEmpty() bool {
	return p.PlaceID == "" && p.Name == "" && len(p.Types) == 0 && p.Geometry == nil
}
