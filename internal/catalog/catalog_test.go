package catalog_test

import (
	"testing"

	"github.com/UnknownOlympus/pakketpunt/internal/catalog"
	"github.com/UnknownOlympus/pakketpunt/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	assert.Equal(t, 229, cat.Len())

	first, err := cat.Get(1)
	require.NoError(t, err)
	assert.Equal(t, models.Address{
		ID:      1,
		Name:    "t Tabakje",
		Address: "Zwaanshals 420, Rotterdam, 3035KT, The Netherlands",
	}, first)

	for idx, addr := range cat.Head(cat.Len()) {
		assert.Equal(t, idx+1, addr.ID)
		assert.NotEmpty(t, addr.Address)
	}
}

func TestGet_Unknown(t *testing.T) {
	cat := catalog.New([]models.Address{{Name: "A", Address: "Street 1, Utrecht, 3511AB, The Netherlands"}})

	_, err := cat.Get(0)
	require.ErrorIs(t, err, catalog.ErrUnknownPoint)

	_, err = cat.Get(2)
	require.ErrorIs(t, err, catalog.ErrUnknownPoint)
}

func TestPoint(t *testing.T) {
	cat := catalog.New([]models.Address{
		{Name: "t Tabakje", Address: "Zwaanshals 420, Rotterdam, 3035KT, The Netherlands"},
		{Name: "2CV4U", Address: "Winselingseweg 16, unit 20, Nijmegen, 6541AK, The Netherlands"},
	})

	point, err := cat.Point(1, &models.Coordinates{Latitude: 51.93, Longitude: 4.46})
	require.NoError(t, err)
	assert.Equal(t, models.PackagePoint{
		ID:         1,
		Name:       "t Tabakje",
		Address:    "Zwaanshals 420, Rotterdam, 3035KT, The Netherlands",
		PostalCode: "3035KT",
		City:       "Rotterdam",
		Coords:     &models.Coordinates{Latitude: 51.93, Longitude: 4.46},
	}, point)

	point, err = cat.Point(2, nil)
	require.NoError(t, err)
	assert.Equal(t, "Nijmegen", point.City)
	assert.False(t, point.HasCoords())

	_, err = cat.Point(3, nil)
	require.ErrorIs(t, err, catalog.ErrUnknownPoint)
}

func TestHead(t *testing.T) {
	cat := catalog.New([]models.Address{
		{Name: "A", Address: "a"},
		{Name: "B", Address: "b"},
		{Name: "C", Address: "c"},
	})

	assert.Len(t, cat.Head(2), 2)
	assert.Len(t, cat.Head(10), 3)
	assert.Empty(t, cat.Head(-1))

	head := cat.Head(1)
	head[0].Name = "changed"
	first, err := cat.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "A", first.Name)
}

func TestPoints_DerivedFields(t *testing.T) {
	cat := catalog.New([]models.Address{
		{Name: "2CV4U", Address: "Winselingseweg 16, unit 20, Nijmegen, 6541AK, The Netherlands"},
		{Name: "Short", Address: "Somewhere"},
	})

	points := cat.Points(map[int]models.Coordinates{1: {Latitude: 51.84, Longitude: 5.79}})

	want := []models.PackagePoint{
		{
			ID:         1,
			Name:       "2CV4U",
			Address:    "Winselingseweg 16, unit 20, Nijmegen, 6541AK, The Netherlands",
			PostalCode: "6541AK",
			City:       "Nijmegen",
			Coords:     &models.Coordinates{Latitude: 51.84, Longitude: 5.79},
		},
		{ID: 2, Name: "Short", Address: "Somewhere"},
	}
	if diff := cmp.Diff(want, points); diff != "" {
		t.Errorf("Points() mismatch (-want +got):\n%s", diff)
	}
}
