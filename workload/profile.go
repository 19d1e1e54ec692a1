package workload

import (
	"github.com/delftdata/Gaia/common"
)

// DependencyType places a transaction inside a dependent-transaction chain.
type DependencyType int

const (
	DependencyNone DependencyType = iota
	DependencyFirstPhase
	DependencySecondPhase
)

// TransactionType labels the logical operation a generated transaction
// belongs to, across its phases.
type TransactionType int

const (
	TxnNothing TransactionType = iota
	TxnBalance
	TxnDepositChecking
	TxnTransactionSaving
	TxnAmalgamate
	TxnWritecheck
)

// TransactionProfile is the generator's out-of-band annotation of a
// transaction: the placement it intended and where the transaction sits in a
// dependent chain. The benchmark harness groups latency and throughput by
// these fields.
type TransactionProfile struct {
	ClientTxnID common.TxnId

	IsMultiPartition    bool
	IsMultiHome         bool
	IsForeignSingleHome bool

	TransactionType TransactionType
	DependencyType  DependencyType
}
