package dsh

import (
	"github.com/delftdata/Gaia/execution"
)

// ReservationTxn books num_rooms rooms at a hotel for [in_date, out_date)
// after verifying the user, the hotel capacity and the remaining rooms on
// every night of the stay. Each hotel+date pair carries a row holding the
// number of rooms still free that night; a missing row means the hotel still
// has its full capacity that night.
type ReservationTxn struct {
	execution.BaseTxn
	reservations      execution.Table
	hotels            execution.Table
	reservationCounts execution.Table
	users             execution.Table

	inDate   *execution.FixedTextScalar
	outDate  *execution.FixedTextScalar
	hotelID  *execution.Int32Scalar
	custName *execution.VarTextScalar
	numRooms *execution.Int32Scalar
	username *execution.FixedTextScalar
	password *execution.VarTextScalar

	newID *execution.Int32Scalar

	dateRange []*execution.FixedTextScalar

	hotelCapacity *execution.Int32Scalar
	savedPassword *execution.VarTextScalar

	newReservationCount []*execution.Int32Scalar
	correctPassword     *execution.Int8Scalar
}

func NewReservationTxn(adapter execution.StorageAdapter, username, password, inDate, outDate string,
	hotelID int32, custName string, numRooms int32) *ReservationTxn {
	return &ReservationTxn{
		reservations:      execution.NewTable(ReservationSchema, adapter),
		hotels:            execution.NewTable(HotelSchema, adapter),
		reservationCounts: execution.NewTable(ReservationCountSchema, adapter),
		users:             execution.NewTable(UserSchema, adapter),
		inDate:            execution.NewFixedTextScalar(dateLength, inDate),
		outDate:           execution.NewFixedTextScalar(dateLength, outDate),
		hotelID:           execution.NewInt32Scalar(hotelID),
		custName:          execution.NewVarTextScalar(custNameMax, custName),
		numRooms:          execution.NewInt32Scalar(numRooms),
		username:          execution.NewFixedTextScalar(usernameLength, FormatUname(username)),
		password:          execution.NewVarTextScalar(passwordMax, password),
		newID:             execution.NewInt32Scalar(0),
		hotelCapacity:     execution.NewInt32Scalar(0),
		savedPassword:     execution.NewVarTextScalar(passwordMax, ""),
		correctPassword:   execution.NewInt8Scalar(0),
	}
}

func (t *ReservationTxn) Read() bool {
	ok := true
	if res := t.users.Select([]execution.Scalar{t.username}, ColUserPassword); len(res) > 0 {
		t.savedPassword = res[0].(*execution.VarTextScalar)
	} else {
		t.SetError("User not found")
		ok = false
	}

	if res := t.hotels.Select([]execution.Scalar{t.hotelID}, ColHotelCapacity); len(res) > 0 {
		t.hotelCapacity = res[0].(*execution.Int32Scalar)
	} else {
		t.SetError("Hotel capacity does not exist")
		ok = false
	}
	if ok && t.numRooms.Value > t.hotelCapacity.Value {
		t.SetError("Hotel capacity is too low")
		ok = false
	}

	t.dateRange = DateInterp(t.inDate.String(), t.outDate.String())
	if len(t.dateRange) > MaxStay {
		t.SetError("Stay is too long")
		ok = false
	}
	t.newReservationCount = make([]*execution.Int32Scalar, len(t.dateRange))
	// Keep selecting after a failure so a key-gen pass discovers the whole
	// key set before the abort surfaces.
	for i, date := range t.dateRange {
		countRes := t.reservationCounts.Select(
			[]execution.Scalar{t.hotelID, date}, ColReservationCountCount)
		if !ok {
			continue
		}
		if len(countRes) == 0 {
			t.newReservationCount[i] = execution.NewInt32Scalar(t.hotelCapacity.Value - t.numRooms.Value)
			continue
		}
		newRoomCount := countRes[0].(*execution.Int32Scalar).Value - t.numRooms.Value
		if newRoomCount < 0 {
			t.SetError("Too many reservations on " + date.String())
			ok = false
		}
		t.newReservationCount[i] = execution.NewInt32Scalar(newRoomCount)
	}

	return ok
}

func (t *ReservationTxn) Compute() {
	if t.savedPassword.String() == t.password.String() {
		t.correctPassword.Value = 1
	} else {
		t.correctPassword.Value = 0
	}
}

func (t *ReservationTxn) Write() bool {
	for i, date := range t.dateRange {
		count := t.newReservationCount[i]
		if count == nil {
			// Unreached outside key generation; keep the write set intact.
			count = execution.NewInt32Scalar(0)
		}
		// A count row is created on first booking and updated afterwards.
		if count.Value+t.numRooms.Value == t.hotelCapacity.Value {
			if !t.reservationCounts.Insert([]execution.Scalar{t.hotelID, date, count}) {
				t.SetError("Reservation count update failed")
				return false
			}
			continue
		}
		if !t.reservationCounts.Update([]execution.Scalar{t.hotelID, date},
			[]int{ColReservationCountCount}, []execution.Scalar{count}) {
			t.SetError("Reservation count update failed")
			return false
		}
	}
	if !t.reservations.Insert([]execution.Scalar{
		t.hotelID, t.newID, t.custName, t.inDate, t.outDate, t.numRooms,
	}) {
		t.SetError("Reservation insertion failed")
		return false
	}
	return true
}
