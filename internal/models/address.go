package models

// Address is a static pickup point record. ID is its 1-based position in the source list.
type Address struct {
	ID      int    // ID is the stable identity used as cache key.
	Name    string // Name is the display name of the pickup point.
	Address string // Address is the free-text postal address to be geocoded.
}

// PackagePoint is an Address enriched with derived fields and, when resolved, its coordinates.
type PackagePoint struct {
	ID         int          `json:"id"`
	Name       string       `json:"name"`
	Address    string       `json:"address"`
	PostalCode string       `json:"postalCode"`
	City       string       `json:"city"`
	Coords     *Coordinates `json:"coords,omitempty"`
}

// HasCoords reports whether the point has been geocoded.
func (p PackagePoint) HasCoords() bool {
	return p.Coords != nil
}
