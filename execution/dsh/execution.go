package dsh

import (
	"strconv"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/execution"
	"github.com/delftdata/Gaia/storage"
	"github.com/delftdata/Gaia/txnpb"
)

// Execution dispatches serialized DeathStar Hotel transactions by procedure
// name.
type Execution struct {
	sharder common.Sharder
	store   storage.Storage
}

func NewExecution(sharder common.Sharder, store storage.Storage) *Execution {
	return &Execution{sharder: sharder, store: store}
}

func (e *Execution) Execute(txn *txnpb.Transaction) {
	adapter := execution.NewTxnStorageAdapter(txn, e.store)

	args, ok := execution.Precheck(txn)
	if !ok {
		return
	}

	switch args[0] {
	case "user login":
		if len(args) != 3 {
			txn.Abort("UserLogin Txn - Invalid number of arguments")
			return
		}
		// args[1] carries the formatted username for key routing; the body
		// formats the raw id itself.
		t := NewUserLoginTxn(adapter, args[2], args[2])
		if !execution.Execute(t) {
			txn.Abort("UserLogin Txn - " + t.Error())
			return
		}
	case "search":
		if len(args) < 5 {
			txn.Abort("Search Txn - Invalid number of arguments")
			return
		}
		lat, _ := strconv.ParseFloat(args[3], 64)
		lon, _ := strconv.ParseFloat(args[4], 64)
		t := NewSearchTxn(adapter, args[1], args[2], lat, lon, parseHotelIDs(args[5:]))
		if !execution.Execute(t) {
			txn.Abort("Search Txn - " + t.Error())
			return
		}
	case "recommendation":
		if len(args) < 4 {
			txn.Abort("Recommendation Txn - Invalid number of arguments")
			return
		}
		recommendType, _ := strconv.Atoi(args[1])
		lat, _ := strconv.ParseFloat(args[2], 64)
		lon, _ := strconv.ParseFloat(args[3], 64)
		t := NewRecommendTxn(adapter, RecommendationType(recommendType), lat, lon, parseHotelIDs(args[4:]))
		if !execution.Execute(t) {
			txn.Abort("Recommendation Txn - " + t.Error())
			return
		}
	case "reservation":
		if len(args) != 8 {
			txn.Abort("Reservation Txn - Invalid number of arguments")
			return
		}
		hotelID, _ := strconv.Atoi(args[5])
		numRooms, _ := strconv.Atoi(args[7])
		t := NewReservationTxn(adapter, args[2], args[2], args[3], args[4],
			int32(hotelID), args[6], int32(numRooms))
		if !execution.Execute(t) {
			txn.Abort("Reservation Txn - " + t.Error())
			return
		}
	default:
		txn.Abort("Unknown procedure name")
		return
	}

	execution.Commit(txn, e.sharder, e.store)
}

func parseHotelIDs(args []string) []int32 {
	ids := make([]int32, 0, len(args))
	for _, a := range args {
		id, _ := strconv.Atoi(a)
		ids = append(ids, int32(id))
	}
	return ids
}
