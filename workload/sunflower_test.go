package workload

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSunflowerStepBoundaries(t *testing.T) {
	s, err := NewSunflowerSchedule([]SunflowerRow{
		{T: 0.3, Weights: []float64{1, 0}},
		{T: 1.0, Weights: []float64{0, 1}},
	}, 2)
	require.NoError(t, err)

	r := rand.New(rand.NewSource(1))
	const duration = 1000
	for idx := int64(0); idx < duration; idx++ {
		region := s.PickRegion(r, idx, duration)
		if idx < 300 {
			require.Equal(t, 0, region, "txn %d", idx)
		} else {
			require.Equal(t, 1, region, "txn %d", idx)
		}
	}
}

func TestSunflowerValidation(t *testing.T) {
	_, err := NewSunflowerSchedule(nil, 2)
	require.Error(t, err)

	// Wrong weight count.
	_, err = NewSunflowerSchedule([]SunflowerRow{{T: 1.0, Weights: []float64{1}}}, 2)
	require.Error(t, err)

	// Times must strictly increase.
	_, err = NewSunflowerSchedule([]SunflowerRow{
		{T: 0.5, Weights: []float64{1, 0}},
		{T: 0.5, Weights: []float64{0, 1}},
	}, 2)
	require.Error(t, err)

	// The schedule must cover the whole run.
	_, err = NewSunflowerSchedule([]SunflowerRow{{T: 0.9, Weights: []float64{1, 0}}}, 2)
	require.Error(t, err)
}

func TestLoadSunflowerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sf.csv")
	content := "0.1,.5,.5\n0.5,.2,.8\n1.0,0,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := LoadSunflowerFile(path, 2)
	require.NoError(t, err)
	require.Len(t, s.rows, 3)
	require.Equal(t, 0.1, s.rows[0].T)
	require.Equal(t, []float64{0.2, 0.8}, s.rows[1].Weights)

	// The deterministic final row always picks region 1.
	r := rand.New(rand.NewSource(3))
	require.Equal(t, 1, s.PickRegion(r, 999, 1000))

	_, err = LoadSunflowerFile(path, 3)
	require.Error(t, err)
}

func TestNewParams(t *testing.T) {
	defaults := map[string]string{"mh": "0", "mp": "0", "mix": "1:2:3"}

	p, err := NewParams(defaults, "mh=50,mix=9:9:9")
	require.NoError(t, err)
	require.Equal(t, int64(50), p.GetInt64("mh", -1))
	require.Equal(t, int64(0), p.GetInt64("mp", -1))
	require.Equal(t, "9:9:9", p.GetString("mix", ""))

	_, err = NewParams(defaults, "bogus=1")
	require.Error(t, err)
	_, err = NewParams(defaults, "mh")
	require.Error(t, err)

	mix, err := ParseIntList("40:25:15:5:15")
	require.NoError(t, err)
	require.Equal(t, []int{40, 25, 15, 5, 15}, mix)
	_, err = ParseIntList("1:x")
	require.Error(t, err)
}
