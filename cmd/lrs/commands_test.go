package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/lrs/internal/lib/geo"
	"github.com/dpup/lrs/internal/lib/lrs"
)

const planarConfig = `
system: planar
fragment:
  max_length: 5
  max_extent: 1
logging:
  level: error
routes:
  - id: a
    name: Line A
    coordinates: [[0, 0], [10, 0]]
  - id: d
    coordinates: [[0, 0], [3, 4]]
`

const sphericalConfig = `
system: spherical
fragment:
  max_length: 2000
  max_extent: 50
logging:
  level: error
routes:
  - id: hwy4
    name: Hwy 4
    coordinates: [[-120.5436, 38.0675], [-120.4561, 38.1391]]
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runConfig(t, planarConfig, args...)
}

func runConfig(t *testing.T, config string, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lrs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(config), 0o600))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	err := execute(root, append([]string{"--config", path}, args...))
	return out.String(), err
}

func TestCommands(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"routes"}, "a\tLine A\tlength=10\tfragments=2\nd\t\tlength=5\tfragments=1\n"},
		{[]string{"project", "a", "7", "1"}, "distance_along_curve=7 offset=1\n"},
		{[]string{"project", "a", "-3", "-2"}, "distance_along_curve=0 offset=-3\n"},
		{[]string{"project", "--", "a", "-3", "-2"}, "distance_along_curve=0 offset=-3\n"},
		{[]string{"project", "a", "6.5", "30"}, "distance_along_curve=6 offset=30\n"},
		{[]string{"candidates", "a", "5", "1"}, "distance_along_curve=5 offset=1\ndistance_along_curve=5 offset=1\n"},
		{[]string{"candidates", "a", "5", "-30"}, "no fragment within extent\n"},
		{[]string{"resolve", "a", "7"}, "7,0\n"},
		{[]string{"resolve", "a", "100", "--clamp"}, "10,0\n"},
		{[]string{"intersect", "a", "0", "1", "10", "1"}, "no intersection\n"},
		{[]string{"lookup", "5", "1", "--max-distance", "2"}, "a\tdistance_along_curve=5 offset=1\n"},
		{[]string{"lookup", "5", "50", "--max-distance", "10"}, "no route within range\n"},
		{[]string{"lookup", "5", "50"}, "d\tdistance_along_curve=5 offset=46\na\tdistance_along_curve=5 offset=50\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

// coords parses the comma separated pairs printed by a command
func coords(t *testing.T, out string) []float64 {
	t.Helper()
	var values []float64
	for _, pair := range strings.Fields(out) {
		for _, v := range strings.Split(pair, ",") {
			f, err := strconv.ParseFloat(v, 64)
			require.NoError(t, err)
			values = append(values, f)
		}
	}
	return values
}

func TestCommands_Geometry(t *testing.T) {
	tests := []struct {
		args []string
		want []float64
	}{
		{[]string{"normal", "a", "7"}, []float64{7, 0, 7, 1}},
		{[]string{"intersect", "a", "8", "-1", "8", "1"}, []float64{8, 0}},
		{[]string{"decode-polyline", "_p~iF~ps|U_ulLnnqC_mqNvxq`@"}, []float64{-120.2, 38.5, -120.95, 40.7, -126.453, 43.252}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.want, coords(t, out), 1e-9)
		})
	}
}

func TestCommands_Fragments(t *testing.T) {
	out, err := run(t, "fragments", "a")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "start_offset=5")
	assert.Contains(t, lines[1], "bbox=4,-1-11,1")
}

func TestCommands_ExportKML(t *testing.T) {
	out, err := run(t, "export-kml", "a", "--normals-every", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "<kml")
	assert.Contains(t, out, "<name>a#1</name>")
	assert.Contains(t, out, "<name>a@5</name>")
	assert.Contains(t, out, "<description>start_offset=5 length=5</description>")
	assert.Equal(t, 3, strings.Count(out, "<styleUrl>#normal</styleUrl>"))
}

func TestCommands_ExportKMLDiagonal(t *testing.T) {
	// Some distances along a diagonal have no normal, they are left out
	out, err := run(t, "export-kml", "d", "--normals-every", "1")
	require.NoError(t, err)
	normals := strings.Count(out, "<styleUrl>#normal</styleUrl>")
	assert.GreaterOrEqual(t, normals, 2)
	assert.LessOrEqual(t, normals, 6)
	assert.Contains(t, out, "<name>d@0</name>")
}

func TestCommands_RoutesEncoded(t *testing.T) {
	out, err := run(t, "routes", "--encoded")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	fields := strings.Split(lines[0], "\t")
	require.Len(t, fields, 5)
	encoded, ok := strings.CutPrefix(fields[4], "polyline=")
	require.True(t, ok)
	pl, err := geo.DecodePolyline(encoded)
	require.NoError(t, err)
	assert.Equal(t, []geo.Coord{geo.C(0, 0), geo.C(10, 0)}, pl.Coords)
}

func TestCommands_Spherical(t *testing.T) {
	out, err := runConfig(t, sphericalConfig, "project", "hwy4", "-120.5436", "38.0675")
	require.NoError(t, err)
	assert.Equal(t, "distance_along_curve=0 offset=0\n", out)

	out, err = runConfig(t, sphericalConfig, "lookup", "-120.50", "38.10", "--max-distance", "5000")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "hwy4\t"), out)

	out, err = runConfig(t, sphericalConfig, "resolve", "hwy4", "0")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-120.5436, 38.0675}, coords(t, out), 1e-9)

	out, err = runConfig(t, sphericalConfig, "intersect", "hwy4", "-120.50", "38.05", "-120.50", "38.15")
	require.NoError(t, err)
	c := coords(t, out)
	require.Len(t, c, 2)
	assert.InDelta(t, -120.50, c[0], 1e-6)

	// The extent is 50 m, not 50 degrees
	out, err = runConfig(t, sphericalConfig, "candidates", "hwy4", "-90", "60")
	require.NoError(t, err)
	assert.Equal(t, "no fragment within extent\n", out)
}

func TestPositionalNumbers(t *testing.T) {
	tests := []struct {
		args []string
		want []string
	}{
		{
			[]string{"project", "a", "7", "1"},
			[]string{"project", "a", "7", "1"},
		},
		{
			[]string{"--config", "lrs.yaml", "project", "a", "-120.5", "38.1"},
			[]string{"project", "--config", "lrs.yaml", "--", "a", "-120.5", "38.1"},
		},
		{
			[]string{"lookup", "-1", "2", "--max-distance", "-5"},
			[]string{"lookup", "--max-distance", "-5", "--", "-1", "2"},
		},
		{
			[]string{"resolve", "a", "-5", "--clamp"},
			[]string{"resolve", "--clamp", "--", "a", "-5"},
		},
		{
			[]string{"intersect", "a", "-.5", "-1e3", "8", "1"},
			[]string{"intersect", "--", "a", "-.5", "-1e3", "8", "1"},
		},
		{
			[]string{"export-kml", "-o", "out.kml", "a"},
			[]string{"export-kml", "-o", "out.kml", "a"},
		},
		{
			[]string{"project", "--", "a", "-1", "0"},
			[]string{"project", "--", "a", "-1", "0"},
		},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			assert.Equal(t, tt.want, positionalNumbers(newRootCmd(), tt.args))
		})
	}
}

func TestCommands_Errors(t *testing.T) {
	_, err := run(t, "resolve", "a", "42")
	assert.Error(t, err)

	_, err = run(t, "project", "missing", "0", "0")
	assert.ErrorIs(t, err, lrs.ErrUnknownRoute)

	_, err = run(t, "project", "a", "x", "0")
	assert.Error(t, err)

	_, err = run(t, "--system", "mercator", "routes")
	assert.ErrorIs(t, err, lrs.ErrUnknownSystem)
}
