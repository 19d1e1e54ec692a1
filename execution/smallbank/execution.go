package smallbank

import (
	"strconv"

	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/execution"
	"github.com/delftdata/Gaia/storage"
	"github.com/delftdata/Gaia/txnpb"
)

// Execution dispatches serialized SmallBank transactions by procedure name.
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
		log.Info("invalid code")
		return
	}

	switch args[0] {
	case "getCustomerIdByName":
		if len(args) != 2 {
			txn.Abort("getCustomerIdByName Txn - Invalid number of arguments")
			return
		}
		t := NewGetCustomerIdByNameTxn(adapter, args[1])
		if !execution.Execute(t) {
			txn.Abort("getCustomerIdByName Txn - " + t.Error())
			log.Info("getCustomerIdByName failed",
				zap.String("account_name", args[1]), zap.String("error", t.Error()))
			return
		}
	case "balance":
		if len(args) != 3 {
			txn.Abort("BalanceTxn Txn - Invalid number of arguments")
			return
		}
		customerID, _ := strconv.Atoi(args[2])
		t := NewBalanceTxn(adapter, args[1], int32(customerID))
		if !execution.Execute(t) {
			txn.Abort("BalanceTxn Txn - " + t.Error())
			log.Info("balance failed", zap.Int("customer_id", customerID), zap.String("error", t.Error()))
			return
		}
	case "depositChecking":
		if len(args) != 4 {
			txn.Abort("DepositCheckingTxn Txn - Invalid number of arguments")
			return
		}
		customerID, _ := strconv.Atoi(args[2])
		amount, _ := strconv.Atoi(args[3])
		t := NewDepositCheckingTxn(adapter, args[1], int32(customerID), int32(amount))
		if !execution.Execute(t) {
			txn.Abort("DepositCheckingTxn Txn - " + t.Error())
			log.Info("depositChecking failed", zap.Int("customer_id", customerID), zap.String("error", t.Error()))
			return
		}
	case "transactionSaving":
		if len(args) != 4 {
			txn.Abort("TransactionSavingTxn Txn - Invalid number of arguments")
			return
		}
		customerID, _ := strconv.Atoi(args[2])
		amount, _ := strconv.Atoi(args[3])
		t := NewTransactionSavingTxn(adapter, args[1], int32(customerID), int32(amount))
		if !execution.Execute(t) {
			txn.Abort("TransactionSavingTxn Txn - " + t.Error())
			log.Info("transactionSaving failed", zap.Int("customer_id", customerID), zap.String("error", t.Error()))
			return
		}
	case "amalgamate":
		if len(args) != 5 {
			txn.Abort("AmalgamateTxn Txn - Invalid number of arguments")
			return
		}
		firstCustomerID, _ := strconv.Atoi(args[3])
		secondCustomerID, _ := strconv.Atoi(args[4])
		t := NewAmalgamateTxn(adapter, args[1], args[2], int32(firstCustomerID), int32(secondCustomerID))
		if !execution.Execute(t) {
			txn.Abort("AmalgamateTxn Txn - " + t.Error())
			log.Info("amalgamate failed",
				zap.Int("first_customer_id", firstCustomerID),
				zap.Int("second_customer_id", secondCustomerID),
				zap.String("error", t.Error()))
			return
		}
	case "writecheck":
		if len(args) != 4 {
			txn.Abort("WritecheckTxn Txn - Invalid number of arguments")
			return
		}
		customerID, _ := strconv.Atoi(args[2])
		value, _ := strconv.Atoi(args[3])
		t := NewWritecheckTxn(adapter, args[1], int32(customerID), int32(value))
		if !execution.Execute(t) {
			txn.Abort("WritecheckTxn Txn - " + t.Error())
			log.Info("writecheck failed", zap.Int("customer_id", customerID), zap.String("error", t.Error()))
			return
		}
	default:
		txn.Abort("Unknown procedure name")
		return
	}

	execution.Commit(txn, e.sharder, e.store)
}
