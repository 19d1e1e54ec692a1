package dsh

import (
	"github.com/delftdata/Gaia/execution"
)

var UserSchema = &execution.Schema{
	Name: "user",
	ID:   0,
	Columns: []execution.Column{
		{Name: "username", Type: execution.FixedTextType, Size: usernameLength},
		{Name: "password", Type: execution.VarTextType, Size: passwordMax},
	},
	PKCols: 1,
}

var HotelSchema = &execution.Schema{
	Name: "hotel",
	ID:   1,
	Columns: []execution.Column{
		{Name: "id", Type: execution.Int32Type},
		{Name: "lat", Type: execution.Float64Type},
		{Name: "lon", Type: execution.Float64Type},
		{Name: "rating", Type: execution.Float64Type},
		{Name: "price", Type: execution.Float64Type},
		{Name: "capacity", Type: execution.Int32Type},
	},
	PKCols: 1,
}

var ReservationCountSchema = &execution.Schema{
	Name: "reservation_count",
	ID:   2,
	Columns: []execution.Column{
		{Name: "hotel_id", Type: execution.Int32Type},
		{Name: "date", Type: execution.FixedTextType, Size: dateLength},
		{Name: "count", Type: execution.Int32Type},
	},
	PKCols: 2,
}

var ReservationSchema = &execution.Schema{
	Name: "reservation",
	ID:   3,
	Columns: []execution.Column{
		{Name: "hotel_id", Type: execution.Int32Type},
		{Name: "rid", Type: execution.Int32Type},
		{Name: "cust_name", Type: execution.VarTextType, Size: custNameMax},
		{Name: "in_date", Type: execution.FixedTextType, Size: dateLength},
		{Name: "out_date", Type: execution.FixedTextType, Size: dateLength},
		{Name: "num_rooms", Type: execution.Int32Type},
	},
	PKCols: 2,
}

// Value-column indices.
const (
	ColUserPassword = 0

	ColHotelLat      = 0
	ColHotelLon      = 1
	ColHotelRating   = 2
	ColHotelPrice    = 3
	ColHotelCapacity = 4

	ColReservationCountCount = 0
)
