package workload

import (
	"bufio"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/pingcap/errors"

	"github.com/delftdata/Gaia/generator"
)

// SunflowerRow is one step of a stepwise sunflower schedule: until fraction
// T of the run has elapsed, region picks are drawn from Weights.
type SunflowerRow struct {
	T       float64
	Weights []float64
}

// SunflowerSchedule steps through a table of time-varying region weights.
// The active row is the smallest i whose T is still ahead of the elapsed
// fraction; the trailing row must have T >= 1 so the schedule never runs
// out.
type SunflowerSchedule struct {
	rows    []SunflowerRow
	current int
	picker  *generator.Discrete
}

// NewSunflowerSchedule validates the rows: times strictly increasing, every
// row one weight per region, last time at least 1.0.
func NewSunflowerSchedule(rows []SunflowerRow, numRegions int) (*SunflowerSchedule, error) {
	if len(rows) == 0 {
		return nil, errors.New("sunflower schedule is empty")
	}
	prev := -1.0
	for i, row := range rows {
		if len(row.Weights) != numRegions {
			return nil, errors.Errorf("sunflower row %d has %d weights, want %d", i, len(row.Weights), numRegions)
		}
		if row.T <= prev {
			return nil, errors.Errorf("sunflower times must be strictly increasing at row %d", i)
		}
		prev = row.T
	}
	if rows[len(rows)-1].T < 1.0 {
		return nil, errors.New("sunflower schedule must end with a row at time >= 1.0")
	}
	s := &SunflowerSchedule{rows: rows}
	s.picker = generator.NewDiscrete(rows[0].Weights)
	return s, nil
}

// LoadSunflowerFile parses a CSV sunflower file: each row "t, w_0, ...,
// w_{R-1}".
func LoadSunflowerFile(path string, numRegions int) (*SunflowerSchedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotate(err, "open sunflower file")
	}
	defer f.Close()

	var rows []SunflowerRow
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != numRegions+1 {
			return nil, errors.Errorf("sunflower row %q has %d fields, want %d", line, len(fields), numRegions+1)
		}
		var row SunflowerRow
		if row.T, err = strconv.ParseFloat(strings.TrimSpace(fields[0]), 64); err != nil {
			return nil, errors.Annotatef(err, "parse sunflower time in %q", line)
		}
		for _, field := range fields[1:] {
			w, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Annotatef(err, "parse sunflower weight in %q", line)
			}
			row.Weights = append(row.Weights, w)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Annotate(err, "read sunflower file")
	}
	return NewSunflowerSchedule(rows, numRegions)
}

// advance moves the active row forward once the elapsed fraction reaches its
// time.
func (s *SunflowerSchedule) advance(txnIdx, duration int64) {
	frac := float64(txnIdx) / float64(duration)
	moved := false
	for s.current < len(s.rows)-1 && frac >= s.rows[s.current].T {
		s.current++
		moved = true
	}
	if moved {
		s.picker = generator.NewDiscrete(s.rows[s.current].Weights)
	}
}

// PickRegion draws a region from the weights active at txnIdx out of
// duration transactions.
func (s *SunflowerSchedule) PickRegion(r *rand.Rand, txnIdx, duration int64) int {
	s.advance(txnIdx, duration)
	return int(s.picker.Next(r))
}

// ActiveWeights exposes the weights active at txnIdx, for generators that
// need the raw distribution.
func (s *SunflowerSchedule) ActiveWeights(txnIdx, duration int64) []float64 {
	s.advance(txnIdx, duration)
	return s.rows[s.current].Weights
}
