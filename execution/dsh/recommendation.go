package dsh

import (
	"github.com/delftdata/Gaia/execution"
)

// RecommendationType selects the ranking dimension of a RecommendTxn.
type RecommendationType int

const (
	RecommendDistance RecommendationType = iota
	RecommendRating
	RecommendPrice
)

// RecommendTxn reads the candidate hotels and picks the argmin distance,
// argmin price or argmax rating, depending on the requested type.
type RecommendTxn struct {
	execution.BaseTxn
	hotels execution.Table

	recommendType RecommendationType
	lat, lon      *execution.Float64Scalar
	hotelIDs      []*execution.Int32Scalar

	readLat    []*execution.Float64Scalar
	readLon    []*execution.Float64Scalar
	readRating []*execution.Float64Scalar
	readPrice  []*execution.Float64Scalar

	ChosenHotelID *execution.Int32Scalar
	chosenDist    *execution.Float64Scalar
	chosenPrice   *execution.Float64Scalar
	chosenRating  *execution.Float64Scalar
}

func NewRecommendTxn(adapter execution.StorageAdapter, recommendType RecommendationType,
	lat, lon float64, hotelIDs []int32) *RecommendTxn {
	t := &RecommendTxn{
		hotels:        execution.NewTable(HotelSchema, adapter),
		recommendType: recommendType,
		lat:           execution.NewFloat64Scalar(lat),
		lon:           execution.NewFloat64Scalar(lon),
		ChosenHotelID: execution.NewInt32Scalar(0),
		chosenDist:    execution.NewFloat64Scalar(float64(0xFFFFFFFF)),
		chosenPrice:   execution.NewFloat64Scalar(MaxHotelPrice),
		chosenRating:  execution.NewFloat64Scalar(0),
	}
	for i, id := range hotelIDs {
		if i >= RecommendationReadSize {
			break
		}
		t.hotelIDs = append(t.hotelIDs, execution.NewInt32Scalar(id))
	}
	return t
}

func (t *RecommendTxn) Read() bool {
	ok := true
	for _, hID := range t.hotelIDs {
		res := t.hotels.Select([]execution.Scalar{hID})
		if len(res) == 0 {
			t.SetError("Cannot find recommendation hotel")
			ok = false
			continue
		}
		t.readLat = append(t.readLat, res[ColHotelLat].(*execution.Float64Scalar))
		t.readLon = append(t.readLon, res[ColHotelLon].(*execution.Float64Scalar))
		t.readRating = append(t.readRating, res[ColHotelRating].(*execution.Float64Scalar))
		t.readPrice = append(t.readPrice, res[ColHotelPrice].(*execution.Float64Scalar))
	}
	return ok
}

func (t *RecommendTxn) Compute() {
	switch t.recommendType {
	case RecommendDistance:
		for i := range t.readLat {
			d := Dist(t.readLat[i].Value, t.readLon[i].Value, t.lat.Value, t.lon.Value)
			if d < t.chosenDist.Value {
				t.chosenDist.Value = d
				t.ChosenHotelID = t.hotelIDs[i]
			}
		}
	case RecommendPrice:
		for i := range t.readPrice {
			if t.readPrice[i].Value < t.chosenPrice.Value {
				t.chosenPrice = t.readPrice[i]
				t.ChosenHotelID = t.hotelIDs[i]
			}
		}
	case RecommendRating:
		for i := range t.readRating {
			if t.readRating[i].Value > t.chosenRating.Value {
				t.chosenRating = t.readRating[i]
				t.ChosenHotelID = t.hotelIDs[i]
			}
		}
	}
}

func (t *RecommendTxn) Write() bool { return true }
