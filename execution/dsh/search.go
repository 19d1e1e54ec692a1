package dsh

import (
	"sort"

	"github.com/delftdata/Gaia/execution"
)

// SearchTxn ranks the candidate hotels by distance and walks them nearest
// first until one has capacity left on every night of the stay.
//
// All coordinate, count and capacity cells are fetched up front and the walk
// runs over the cached values. The fetch loop is the transaction's key
// footprint, so it must not depend on what the reads return: a key-gen pass
// then records exactly the keys real execution can touch.
type SearchTxn struct {
	execution.BaseTxn
	hotels            execution.Table
	reservationCounts execution.Table

	inDate   *execution.FixedTextScalar
	outDate  *execution.FixedTextScalar
	lat, lon *execution.Float64Scalar
	hotelIDs []*execution.Int32Scalar

	dists      []float64
	capacities []*execution.Int32Scalar
	// counts[i][j] is the free-rooms cell of hotel i on night j, nil when
	// the hotel has no bookings that night.
	counts [][]*execution.Int32Scalar

	NearestAvailable *execution.Int32Scalar
}

func NewSearchTxn(adapter execution.StorageAdapter, inDate, outDate string, lat, lon float64, hotelIDs []int32) *SearchTxn {
	t := &SearchTxn{
		hotels:            execution.NewTable(HotelSchema, adapter),
		reservationCounts: execution.NewTable(ReservationCountSchema, adapter),
		inDate:            execution.NewFixedTextScalar(dateLength, inDate),
		outDate:           execution.NewFixedTextScalar(dateLength, outDate),
		lat:               execution.NewFloat64Scalar(lat),
		lon:               execution.NewFloat64Scalar(lon),
		NearestAvailable:  execution.NewInt32Scalar(-1),
	}
	for i, id := range hotelIDs {
		if i >= RecommendationReadSize {
			break
		}
		t.hotelIDs = append(t.hotelIDs, execution.NewInt32Scalar(id))
	}
	return t
}

func (t *SearchTxn) Read() bool {
	ok := true
	dateRange := DateInterp(t.inDate.String(), t.outDate.String())

	t.dists = make([]float64, len(t.hotelIDs))
	t.capacities = make([]*execution.Int32Scalar, len(t.hotelIDs))
	t.counts = make([][]*execution.Int32Scalar, len(t.hotelIDs))

	for i, hID := range t.hotelIDs {
		if res := t.hotels.Select([]execution.Scalar{hID}, ColHotelLat, ColHotelLon); len(res) > 0 {
			t.dists[i] = Dist(t.lat.Value, t.lon.Value,
				res[0].(*execution.Float64Scalar).Value, res[1].(*execution.Float64Scalar).Value)
		} else {
			t.SetError("Hotel not found")
			ok = false
		}
		if res := t.hotels.Select([]execution.Scalar{hID}, ColHotelCapacity); len(res) > 0 {
			t.capacities[i] = res[0].(*execution.Int32Scalar)
		} else {
			t.SetError("Hotel capacity not found")
			ok = false
		}
		t.counts[i] = make([]*execution.Int32Scalar, len(dateRange))
		for j, date := range dateRange {
			res := t.reservationCounts.Select([]execution.Scalar{hID, date}, ColReservationCountCount)
			if len(res) > 0 {
				t.counts[i][j] = res[0].(*execution.Int32Scalar)
			}
		}
	}
	return ok
}

func (t *SearchTxn) Compute() {
	order := make([]int, len(t.hotelIDs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return t.dists[order[a]] < t.dists[order[b]] })

	for _, i := range order {
		allDatesAvailable := true
		for _, count := range t.counts[i] {
			// A hotel with no bookings that night has its full capacity
			// free.
			remaining := t.capacities[i].Value
			if count != nil {
				remaining = count.Value
			}
			if remaining <= 0 {
				allDatesAvailable = false
				break
			}
		}
		if allDatesAvailable {
			t.NearestAvailable = t.hotelIDs[i]
			return
		}
	}
}

func (t *SearchTxn) Write() bool { return true }
