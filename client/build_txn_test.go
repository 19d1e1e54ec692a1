package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/delftdata/Gaia/txnpb"
)

func writeTxnFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "txn.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestBuildPPSTxn(t *testing.T) {
	path := writeTxnFile(t, `{
		"workload": "pps",
		"txn_type": "get_product",
		"arguments": {"product_id": 42}
	}`)
	f, err := LoadTxnFile(path)
	require.NoError(t, err)

	txn, err := f.BuildTransaction()
	require.NoError(t, err)
	require.Equal(t, []string{"get_product", "42"}, txn.Code.Procedures[0].Args)
	// One read key for the product row.
	require.Len(t, txn.Keys, 1)
	require.Equal(t, txnpb.KeyRead, txn.Keys[0].Type)
}

func TestBuildPPSOrderParts(t *testing.T) {
	f := &TxnFile{
		Workload:  "pps",
		TxnType:   "order_parts",
		Arguments: json.RawMessage(`{"parts_ids": [5, 6, 7]}`),
	}
	txn, err := f.BuildTransaction()
	require.NoError(t, err)
	require.Equal(t, []string{"order_parts", "5", "6", "7"}, txn.Code.Procedures[0].Args)
	require.Len(t, txn.Keys, 3)
	for _, entry := range txn.Keys {
		require.Equal(t, txnpb.KeyWrite, entry.Type)
	}
}

func TestBuildDSHRecommendation(t *testing.T) {
	f := &TxnFile{
		Workload:  "dsh",
		TxnType:   "recommendation",
		Arguments: json.RawMessage(`{"type": "price", "h_ids": [1, 2, 3]}`),
	}
	txn, err := f.BuildTransaction()
	require.NoError(t, err)
	args := txn.Code.Procedures[0].Args
	require.Equal(t, "recommendation", args[0])
	// "price" maps to its own recommendation type.
	require.Equal(t, "2", args[1])
	require.Len(t, txn.Keys, 3)

	f.Arguments = json.RawMessage(`{"type": "nope", "h_ids": []}`)
	_, err = f.BuildTransaction()
	require.Error(t, err)
}

func TestBuildDSHReservation(t *testing.T) {
	f := &TxnFile{
		Workload: "dsh",
		TxnType:  "reservation",
		Arguments: json.RawMessage(`{
			"username": "7", "password": "7",
			"in_date": "01-06-2020", "out_date": "03-06-2020",
			"hotel_id": 4, "num_rooms": 2, "cust_name": "7"
		}`),
	}
	txn, err := f.BuildTransaction()
	require.NoError(t, err)
	args := txn.Code.Procedures[0].Args
	require.Equal(t, "reservation", args[0])
	require.Equal(t, "4", args[5])
	require.Equal(t, "2", args[7])
	// user + hotel + two count rows + the reservation row.
	require.Len(t, txn.Keys, 5)
}

func TestBuildExplicitAndRemaster(t *testing.T) {
	f := &TxnFile{
		Workload: "other",
		ReadSet:  []string{"r1"},
		WriteSet: []string{"w1", "w2"},
		Code:     [][]string{{"proc", "a"}},
	}
	txn, err := f.BuildTransaction()
	require.NoError(t, err)
	require.Len(t, txn.Keys, 3)
	require.Equal(t, txnpb.KeyWrite, txn.Keys[0].Type)
	require.Equal(t, txnpb.KeyRead, txn.Keys[2].Type)
	require.Equal(t, []string{"proc", "a"}, txn.Code.Procedures[0].Args)

	master := int32(2)
	f.NewMaster = &master
	txn, err = f.BuildTransaction()
	require.NoError(t, err)
	require.NotNil(t, txn.NewMaster)
	require.Equal(t, int32(2), *txn.NewMaster)
	require.Empty(t, txn.Code.Procedures)
}

func TestLoadTxnFileMalformed(t *testing.T) {
	path := writeTxnFile(t, "{not json")
	_, err := LoadTxnFile(path)
	require.Error(t, err)

	_, err = LoadTxnFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
