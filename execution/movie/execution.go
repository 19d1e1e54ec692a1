package movie

import (
	"strconv"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/execution"
	"github.com/delftdata/Gaia/storage"
	"github.com/delftdata/Gaia/txnpb"
)

// Execution dispatches serialized movie transactions by procedure name.
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
	case "new_review", "newReview":
		if len(args) != 8 {
			txn.Abort("NewReview Txn - Invalid number of arguments")
			return
		}
		rating, _ := strconv.Atoi(args[2])
		timestamp, _ := strconv.ParseInt(args[5], 10, 64)
		reqID, _ := strconv.ParseInt(args[1], 10, 64)
		reviewID, _ := strconv.ParseInt(args[6], 10, 64)
		t := NewNewReviewTxn(adapter, reqID, int32(rating), args[3], args[4], timestamp, reviewID, args[7])
		if !execution.Execute(t) {
			txn.Abort("Review Txn - " + t.Error())
			return
		}
	default:
		txn.Abort("Unknown procedure name")
		return
	}

	execution.Commit(txn, e.sharder, e.store)
}
