package source

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/lrs/internal/lib/geo"
)

const hwy4GeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"id": "hwy4-angels-murphys", "name": "Hwy 4"},
      "geometry": {"type": "LineString", "coordinates": [[-120.5436, 38.0675], [-120.4561, 38.1391]]}
    },
    {
      "type": "Feature",
      "properties": {"name": "Split"},
      "geometry": {"type": "MultiLineString", "coordinates": [[[0, 0], [1, 0]], [[2, 0], [3, 0]]]}
    },
    {
      "type": "Feature",
      "properties": {},
      "geometry": {"type": "Point", "coordinates": [5, 5]}
    }
  ]
}`

func TestLoad_Coordinates(t *testing.T) {
	routes, err := Load(Definition{
		ID:          "a",
		Name:        "Line A",
		Coordinates: [][]float64{{0, 0}, {2, 0}},
	})
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "a", routes[0].ID)
	assert.Equal(t, "Line A", routes[0].Name)
	assert.Equal(t, []geo.Coord{geo.C(0, 0), geo.C(2, 0)}, routes[0].Coords)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		def  Definition
		err  error
	}{
		{"no geometry", Definition{ID: "a"}, ErrNoGeometry},
		{"ambiguous", Definition{ID: "a", Coordinates: [][]float64{{0, 0}}, EncodedPolyline: "_p~iF~ps|U"}, ErrAmbiguousGeometry},
		{"short pair", Definition{ID: "a", Coordinates: [][]float64{{0, 0}, {1}}}, ErrInvalidCoordinates},
		{"not finite", Definition{ID: "a", Coordinates: [][]float64{{0, 0}, {math.NaN(), 1}}}, ErrInvalidCoordinates},
		{"bad polyline", Definition{ID: "a", EncodedPolyline: "_"}, ErrInvalidCoordinates},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.def)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoad_EncodedPolyline(t *testing.T) {
	routes, err := Load(Definition{ID: "p", EncodedPolyline: "_p~iF~ps|U_ulLnnqC_mqNvxq`@"})
	require.NoError(t, err)
	require.Len(t, routes, 1)
	require.Len(t, routes[0].Coords, 3)
	assert.InDelta(t, -120.2, routes[0].Coords[0].X, 1e-6)
	assert.InDelta(t, 38.5, routes[0].Coords[0].Y, 1e-6)
}

func TestLoad_GeoJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.geojson")
	require.NoError(t, os.WriteFile(path, []byte(hwy4GeoJSON), 0o600))

	routes, err := Load(Definition{ID: "ca", Name: "California", GeoJSON: path})
	require.NoError(t, err)
	require.Len(t, routes, 3)

	assert.Equal(t, "hwy4-angels-murphys", routes[0].ID)
	assert.Equal(t, "Hwy 4", routes[0].Name)
	assert.Equal(t, []geo.Coord{geo.C(-120.5436, 38.0675), geo.C(-120.4561, 38.1391)}, routes[0].Coords)

	assert.Equal(t, "ca-1/0", routes[1].ID)
	assert.Equal(t, "Split", routes[1].Name)
	assert.Equal(t, "ca-1/1", routes[2].ID)
	assert.Equal(t, []geo.Coord{geo.C(2, 0), geo.C(3, 0)}, routes[2].Coords)

	_, err = Load(Definition{ID: "missing", GeoJSON: filepath.Join(t.TempDir(), "nope.geojson")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromGeoJSON(t *testing.T) {
	routes, err := FromGeoJSON("single", "Default", []byte(`{
		"type": "FeatureCollection",
		"features": [{"type": "Feature", "properties": null,
			"geometry": {"type": "LineString", "coordinates": [[0, 0], [0, 4]]}}]
	}`))
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "single", routes[0].ID)
	assert.Equal(t, "Default", routes[0].Name)

	_, err = FromGeoJSON("points", "", []byte(`{"type": "FeatureCollection", "features": [
		{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [1, 2]}}]}`))
	assert.ErrorIs(t, err, ErrNoGeometry)

	_, err = FromGeoJSON("broken", "", []byte(`{"type": `))
	assert.Error(t, err)
}
