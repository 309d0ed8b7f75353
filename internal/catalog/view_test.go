package catalog_test

import (
	"testing"

	"github.com/UnknownOlympus/pakketpunt/internal/catalog"
	"github.com/UnknownOlympus/pakketpunt/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePoints() []models.PackagePoint {
	return []models.PackagePoint{
		{
			ID: 1, Name: "t Tabakje", Address: "Zwaanshals 420, Rotterdam, 3035KT, The Netherlands",
			PostalCode: "3035KT", City: "Rotterdam",
			Coords: &models.Coordinates{Latitude: 51.93, Longitude: 4.46},
		},
		{
			ID: 2, Name: "50/50 Budgetstore Middenweg", Address: "Middenweg 14, Amsterdam, 1097BM, The Netherlands",
			PostalCode: "1097BM", City: "Amsterdam",
			Coords: &models.Coordinates{Latitude: 52.35, Longitude: 4.93},
		},
		{
			ID: 3, Name: "2CV4U", Address: "Winselingseweg 16, unit 20, Nijmegen, 6541AK, The Netherlands",
			PostalCode: "6541AK", City: "Nijmegen",
		},
	}
}

func TestFilter(t *testing.T) {
	points := samplePoints()

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{name: "empty query keeps all", query: "", want: []int{1, 2, 3}},
		{name: "name is case insensitive", query: "TABAKJE", want: []int{1}},
		{name: "postal code", query: "1097bm", want: []int{2}},
		{name: "city", query: "nijmegen", want: []int{3}},
		{name: "shared country", query: "netherlands", want: []int{1, 2, 3}},
		{name: "no match", query: "berlin", want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalog.Filter(points, tt.query)
			ids := make([]int, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCenter(t *testing.T) {
	t.Run("mean of geocoded points", func(t *testing.T) {
		center := catalog.Center(samplePoints())

		assert.InDelta(t, 52.14, center.Latitude, 1e-9)
		assert.InDelta(t, 4.695, center.Longitude, 1e-9)
	})

	t.Run("default when nothing is geocoded", func(t *testing.T) {
		center := catalog.Center(samplePoints()[2:])

		assert.Equal(t, catalog.DefaultCenter, center)
	})
}

func TestNewViewport(t *testing.T) {
	points := samplePoints()

	t.Run("selected point with coordinates", func(t *testing.T) {
		vp := catalog.NewViewport(points, &points[1])

		require.Equal(t, 15, vp.Zoom)
		assert.Equal(t, *points[1].Coords, vp.Center)
	})

	t.Run("selected point without coordinates falls back to centroid", func(t *testing.T) {
		vp := catalog.NewViewport(points, &points[2])

		assert.Equal(t, 8, vp.Zoom)
		assert.Equal(t, catalog.Center(points), vp.Center)
	})

	t.Run("no selection", func(t *testing.T) {
		vp := catalog.NewViewport(nil, nil)

		assert.Equal(t, catalog.Viewport{Center: catalog.DefaultCenter, Zoom: 8}, vp)
	})
}
