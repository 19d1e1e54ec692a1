// Package txnpb holds the wire transaction message exchanged with the
// coordinator. The field shapes mirror the cluster's canonical schema; key
// and value bytes inside it use the little-endian layouts produced by the
// execution layer.
package txnpb

import (
	"fmt"
	"strings"
)

type KeyType int32

const (
	KeyRead KeyType = iota
	KeyWrite
)

func (t KeyType) String() string {
	if t == KeyWrite {
		return "WRITE"
	}
	return "READ"
}

type TransactionStatus int32

const (
	StatusPending TransactionStatus = iota
	StatusCommitted
	StatusAborted
)

func (s TransactionStatus) String() string {
	switch s {
	case StatusCommitted:
		return "COMMITTED"
	case StatusAborted:
		return "ABORTED"
	default:
		return "PENDING"
	}
}

type ValueEntry struct {
	Value []byte `json:"value,omitempty"`
}

type KeyEntry struct {
	Key        []byte     `json:"key"`
	Type       KeyType    `json:"type"`
	Home       int32      `json:"home"`
	ValueEntry ValueEntry `json:"value_entry"`
}

type Procedure struct {
	Args []string `json:"args"`
}

type Code struct {
	Procedures []*Procedure `json:"procedures,omitempty"`
}

type TransactionEvent struct {
	Event   string `json:"event"`
	Machine string `json:"machine"`
	Time    int64  `json:"time"`
	Home    int32  `json:"home"`
}

type TransactionInternal struct {
	ID     uint64             `json:"id"`
	Events []TransactionEvent `json:"events,omitempty"`
}

type Transaction struct {
	Keys        []*KeyEntry         `json:"keys,omitempty"`
	Code        Code                `json:"code"`
	Status      TransactionStatus   `json:"status"`
	AbortReason string              `json:"abort_reason,omitempty"`
	Internal    TransactionInternal `json:"internal"`
	// NewMaster, when set, turns the transaction into a remaster request
	// for its keys.
	NewMaster *int32 `json:"new_master,omitempty"`
}

// AddProcedure appends a procedure with the given args and returns it.
func (t *Transaction) AddProcedure(args ...string) *Procedure {
	p := &Procedure{Args: args}
	t.Code.Procedures = append(t.Code.Procedures, p)
	return p
}

// KeyIndex returns the position of the key in the key list, or -1.
func (t *Transaction) KeyIndex(key []byte) int {
	for i, e := range t.Keys {
		if string(e.Key) == string(key) {
			return i
		}
	}
	return -1
}

// Abort stamps the transaction aborted with the given reason. The first
// abort wins.
func (t *Transaction) Abort(reason string) {
	if t.Status == StatusAborted {
		return
	}
	t.Status = StatusAborted
	t.AbortReason = reason
}

func (t *Transaction) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Txn %d: %s", t.Internal.ID, t.Status)
	if t.AbortReason != "" {
		fmt.Fprintf(&b, " (%s)", t.AbortReason)
	}
	b.WriteByte('\n')
	for _, p := range t.Code.Procedures {
		fmt.Fprintf(&b, "  code: %s\n", strings.Join(p.Args, " "))
	}
	for _, k := range t.Keys {
		fmt.Fprintf(&b, "  %s %q home=%d value=%d bytes\n", k.Type, k.Key, k.Home, len(k.ValueEntry.Value))
	}
	return b.String()
}
