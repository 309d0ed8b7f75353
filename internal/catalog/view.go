package catalog

import (
	"strings"

	"github.com/UnknownOlympus/pakketpunt/internal/models"
)

// DefaultCenter is the centre of the Netherlands, used when no point has coordinates.
var DefaultCenter = models.Coordinates{Latitude: 52.1326, Longitude: 5.2913}

const (
	overviewZoom = 8
	selectedZoom = 15
)

// Viewport is the map state shown next to the point list.
type Viewport struct {
	Center models.Coordinates `json:"center"`
	Zoom   int                `json:"zoom"`
}

// Filter keeps points whose name, address, postal code or city contains the query,
// ignoring case. An empty query keeps everything.
func Filter(points []models.PackagePoint, query string) []models.PackagePoint {
	needle := strings.ToLower(query)
	out := make([]models.PackagePoint, 0, len(points))
	for _, point := range points {
		if matches(point, needle) {
			out = append(out, point)
		}
	}

	return out
}

func matches(point models.PackagePoint, needle string) bool {
	for _, field := range []string{point.Name, point.Address, point.PostalCode, point.City} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}

	return false
}

// Center returns the mean coordinate of the points that have been geocoded.
func Center(points []models.PackagePoint) models.Coordinates {
	var sumLat, sumLng float64
	var count int
	for _, point := range points {
		if !point.HasCoords() {
			continue
		}
		sumLat += point.Coords.Latitude
		sumLng += point.Coords.Longitude
		count++
	}

	if count == 0 {
		return DefaultCenter
	}

	return models.Coordinates{Latitude: sumLat / float64(count), Longitude: sumLng / float64(count)}
}

// NewViewport zooms in on the selected point when it has coordinates,
// otherwise shows the centroid of the visible points.
func NewViewport(points []models.PackagePoint, selected *models.PackagePoint) Viewport {
	if selected != nil && selected.HasCoords() {
		return Viewport{Center: *selected.Coords, Zoom: selectedZoom}
	}

	return Viewport{Center: Center(points), Zoom: overviewZoom}
}
