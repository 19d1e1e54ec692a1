package execution

import (
	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/storage"
	"github.com/delftdata/Gaia/txnpb"
)

// Txn is the uniform three-phase transaction body. Read discovers and
// fetches the key set, Compute derives new values and cannot fail, Write
// stages the mutations.
type Txn interface {
	Read() bool
	Compute()
	Write() bool
	Error() string
}

// BaseTxn carries the sticky error every body reports through. Only the
// first non-empty error is retained.
type BaseTxn struct {
	err string
}

func (b *BaseTxn) SetError(msg string) {
	if b.err == "" {
		b.err = msg
	}
}

func (b *BaseTxn) Error() string { return b.err }

// Execute runs the three phases. The first failing phase short-circuits the
// rest; the body's error string explains why.
func Execute(t Txn) bool {
	if !t.Read() {
		return false
	}
	t.Compute()
	return t.Write()
}

// Execution runs serialized transactions of one benchmark family against
// real storage.
type Execution interface {
	Execute(txn *txnpb.Transaction)
}

// Precheck validates the procedure header shared by every family
// dispatcher. It aborts the transaction and returns false when the code
// block is empty.
func Precheck(txn *txnpb.Transaction) ([]string, bool) {
	if len(txn.Code.Procedures) == 0 || len(txn.Code.Procedures[0].Args) == 0 {
		txn.Abort("Invalid code")
		return nil, false
	}
	return txn.Code.Procedures[0].Args, true
}

// Commit stamps the transaction committed and applies its writes locally.
func Commit(txn *txnpb.Transaction, sharder common.Sharder, store storage.Storage) {
	txn.Status = txnpb.StatusCommitted
	ApplyWrites(txn, sharder, store)
}
