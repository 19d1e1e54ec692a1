package pps

import (
	"strconv"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/execution"
	"github.com/delftdata/Gaia/storage"
	"github.com/delftdata/Gaia/txnpb"
)

// Execution dispatches serialized PPS transactions by procedure name.
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
	case "get_product":
		if len(args) != 2 {
			txn.Abort("GetProduct Txn - Invalid number of arguments")
			return
		}
		productID, _ := strconv.Atoi(args[1])
		t := NewGetProduct(adapter, int32(productID))
		if !execution.Execute(t) {
			txn.Abort("GetProduct Txn - " + t.Error())
			return
		}
	case "get_part":
		if len(args) != 2 {
			txn.Abort("GetPart Txn - Invalid number of arguments")
			return
		}
		partID, _ := strconv.Atoi(args[1])
		t := NewGetPart(adapter, int32(partID))
		if !execution.Execute(t) {
			txn.Abort("GetPart Txn - " + t.Error())
			return
		}
	case "order_parts":
		t := NewOrderParts(adapter, parseIDs(args[1:]))
		if !execution.Execute(t) {
			txn.Abort("OrderParts Txn - " + t.Error())
			return
		}
	case "order_product":
		if len(args) < 2 {
			txn.Abort("OrderProduct Txn - Invalid number of arguments")
			return
		}
		productID, _ := strconv.Atoi(args[1])
		t := NewOrderProduct(adapter, int32(productID), parseIDs(args[2:]))
		if !execution.Execute(t) {
			txn.Abort("OrderProduct Txn - " + t.Error())
			return
		}
	case "supplier_restock":
		if len(args) < 2 {
			txn.Abort("SupplierRestock Txn - Invalid number of arguments")
			return
		}
		supplierID, _ := strconv.Atoi(args[1])
		t := NewSupplierRestock(adapter, int32(supplierID), parseIDs(args[2:]))
		if !execution.Execute(t) {
			txn.Abort("SupplierRestock Txn - " + t.Error())
			return
		}
	case "get_parts_by_product":
		if len(args) != 2 {
			txn.Abort("GetPartsByProduct Txn - Invalid number of arguments")
			return
		}
		productID, _ := strconv.Atoi(args[1])
		t := NewGetPartsByProduct(adapter, int32(productID))
		if !execution.Execute(t) {
			txn.Abort("GetPartsByProduct Txn - " + t.Error())
			return
		}
	case "get_parts_by_supplier":
		if len(args) != 2 {
			txn.Abort("GetPartsBySupplier Txn - Invalid number of arguments")
			return
		}
		supplierID, _ := strconv.Atoi(args[1])
		t := NewGetPartsBySupplier(adapter, int32(supplierID))
		if !execution.Execute(t) {
			txn.Abort("GetPartsBySupplier Txn - " + t.Error())
			return
		}
	case "update_product_part":
		if len(args) != 2 {
			txn.Abort("UpdateProductPart Txn - Invalid number of arguments")
			return
		}
		productID, _ := strconv.Atoi(args[1])
		t := NewUpdateProductPart(adapter, int32(productID))
		if !execution.Execute(t) {
			txn.Abort("UpdateProductPart Txn - " + t.Error())
			return
		}
	default:
		txn.Abort("Unknown procedure name")
		return
	}

	execution.Commit(txn, e.sharder, e.store)
}

func parseIDs(args []string) []int32 {
	ids := make([]int32, 0, len(args))
	for _, a := range args {
		id, _ := strconv.Atoi(a)
		ids = append(ids, int32(id))
	}
	return ids
}
