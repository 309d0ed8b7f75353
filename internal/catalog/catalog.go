// Package catalog holds the fixed list of pickup points and the derived views
// the locator page shows: search filtering and map viewport calculation.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/UnknownOlympus/pakketpunt/internal/models"
)

//go:embed points.json
var pointsJSON []byte

// ErrUnknownPoint is returned when an identity is not part of the catalog.
var ErrUnknownPoint = errors.New("unknown package point")

// Dutch postal code, e.g. 3035KT.
var postalCodeRe = regexp.MustCompile(`\d{4}[A-Z]{2}`)

// Catalog is an immutable, ordinal-indexed list of pickup points.
type Catalog struct {
	addresses []models.Address
}

type rawPoint struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Load parses the embedded pickup point list.
func Load() (*Catalog, error) {
	var raw []rawPoint
	if err := json.Unmarshal(pointsJSON, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode embedded package points: %w", err)
	}

	addresses := make([]models.Address, 0, len(raw))
	for idx, point := range raw {
		addresses = append(addresses, models.Address{ID: idx + 1, Name: point.Name, Address: point.Address})
	}

	return &Catalog{addresses: addresses}, nil
}

// New builds a catalog from records. IDs are reassigned from list position.
func New(records []models.Address) *Catalog {
	addresses := make([]models.Address, len(records))
	for idx, rec := range records {
		rec.ID = idx + 1
		addresses[idx] = rec
	}

	return &Catalog{addresses: addresses}
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.addresses)
}

// Head returns a copy of the first n records.
func (c *Catalog) Head(n int) []models.Address {
	if n > len(c.addresses) {
		n = len(c.addresses)
	}
	if n < 0 {
		n = 0
	}
	out := make([]models.Address, n)
	copy(out, c.addresses[:n])

	return out
}

// Get returns the record with the given identity.
func (c *Catalog) Get(id int) (models.Address, error) {
	if id < 1 || id > len(c.addresses) {
		return models.Address{}, fmt.Errorf("%w: %d", ErrUnknownPoint, id)
	}

	return c.addresses[id-1], nil
}

// Point returns the record with the given identity as a package point.
// coords may be nil when the point is not resolved yet.
func (c *Catalog) Point(id int, coords *models.Coordinates) (models.PackagePoint, error) {
	addr, err := c.Get(id)
	if err != nil {
		return models.PackagePoint{}, err
	}

	point := newPackagePoint(addr)
	if coords != nil {
		cc := *coords
		point.Coords = &cc
	}

	return point, nil
}

// Points merges resolved coordinates into the records.
func (c *Catalog) Points(coords map[int]models.Coordinates) []models.PackagePoint {
	points := make([]models.PackagePoint, 0, len(c.addresses))
	for _, addr := range c.addresses {
		point := newPackagePoint(addr)
		if cc, ok := coords[addr.ID]; ok {
			point.Coords = &cc
		}
		points = append(points, point)
	}

	return points
}

func newPackagePoint(addr models.Address) models.PackagePoint {
	parts := strings.Split(addr.Address, ", ")

	var postalCode string
	for _, part := range parts {
		if postalCodeRe.MatchString(part) {
			postalCode = part
			break
		}
	}

	// Addresses end with "<city>, <postal code>, <country>".
	var city string
	if cityIdx := len(parts) - 3; cityIdx >= 0 {
		city = parts[cityIdx]
	}

	return models.PackagePoint{
		ID:         addr.ID,
		Name:       addr.Name,
		Address:    addr.Address,
		PostalCode: postalCode,
		City:       city,
	}
}
