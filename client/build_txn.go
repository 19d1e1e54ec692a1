package client

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/pingcap/errors"

	"github.com/delftdata/Gaia/execution"
	"github.com/delftdata/Gaia/execution/dsh"
	"github.com/delftdata/Gaia/execution/pps"
	"github.com/delftdata/Gaia/txnpb"
)

// TxnFile is the JSON transaction description the txn command consumes.
type TxnFile struct {
	Workload  string          `json:"workload"`
	TxnType   string          `json:"txn_type"`
	Arguments json.RawMessage `json:"arguments"`
	ReadSet   []string        `json:"read_set"`
	WriteSet  []string        `json:"write_set"`
	Code      [][]string      `json:"code"`
	NewMaster *int32          `json:"new_master"`
}

// LoadTxnFile parses a transaction description file.
func LoadTxnFile(path string) (*TxnFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotatef(err, "open file %s", path)
	}
	var f TxnFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Annotatef(err, "could not parse json in %s", path)
	}
	return &f, nil
}

// BuildTransaction turns a transaction description into a wire transaction.
// PPS and DSH transactions run their real bodies under the key-generation
// adapter so the submitted key set matches what execution will touch; other
// workloads pass their read/write sets and code through explicitly.
func (f *TxnFile) BuildTransaction() (*txnpb.Transaction, error) {
	switch f.Workload {
	case "pps":
		return f.buildPPS()
	case "dsh":
		return f.buildDSH()
	default:
		return f.buildExplicit()
	}
}

func (f *TxnFile) buildPPS() (*txnpb.Transaction, error) {
	var args struct {
		ProductID  int   `json:"product_id"`
		PartID     int   `json:"part_id"`
		SupplierID int   `json:"supplier_id"`
		PartsIDs   []int `json:"parts_ids"`
	}
	if err := json.Unmarshal(f.Arguments, &args); err != nil {
		return nil, errors.Annotate(err, "parse pps arguments")
	}
	partsIDs := make([]int32, 0, len(args.PartsIDs))
	for _, id := range args.PartsIDs {
		partsIDs = append(partsIDs, int32(id))
	}

	txn := &txnpb.Transaction{}
	adapter := execution.NewKeyGenStorageAdapter(txn, nil)

	switch f.TxnType {
	case "get_product":
		body := pps.NewGetProduct(adapter, int32(args.ProductID))
		body.Read()
		adapter.Finalize()
		txn.AddProcedure(f.TxnType, strconv.Itoa(args.ProductID))
	case "get_part":
		body := pps.NewGetPart(adapter, int32(args.PartID))
		body.Read()
		adapter.Finalize()
		txn.AddProcedure(f.TxnType, strconv.Itoa(args.PartID))
	case "order_parts":
		body := pps.NewOrderParts(adapter, partsIDs)
		body.Read()
		body.Write()
		adapter.Finalize()
		txn.AddProcedure(append([]string{f.TxnType}, intArgs(args.PartsIDs)...)...)
	case "order_product":
		body := pps.NewOrderProduct(adapter, int32(args.ProductID), partsIDs)
		body.Read()
		body.Write()
		adapter.Finalize()
		txn.AddProcedure(append([]string{f.TxnType, strconv.Itoa(args.ProductID)}, intArgs(args.PartsIDs)...)...)
	case "supplier_restock":
		body := pps.NewSupplierRestock(adapter, int32(args.SupplierID), partsIDs)
		body.Read()
		body.Write()
		adapter.Finalize()
		txn.AddProcedure(append([]string{f.TxnType, strconv.Itoa(args.SupplierID)}, intArgs(args.PartsIDs)...)...)
	case "get_parts_by_product":
		body := pps.NewGetPartsByProduct(adapter, int32(args.ProductID))
		body.Read()
		adapter.Finalize()
		txn.AddProcedure(f.TxnType, strconv.Itoa(args.ProductID))
	case "get_parts_by_supplier":
		body := pps.NewGetPartsBySupplier(adapter, int32(args.SupplierID))
		body.Read()
		adapter.Finalize()
		txn.AddProcedure(f.TxnType, strconv.Itoa(args.SupplierID))
	case "update_product_part":
		body := pps.NewUpdateProductPart(adapter, int32(args.ProductID))
		body.Read()
		body.Write()
		adapter.Finalize()
		txn.AddProcedure(f.TxnType, strconv.Itoa(args.ProductID))
	default:
		return nil, errors.Errorf("unknown PPS transaction type: %s", f.TxnType)
	}
	return txn, nil
}

func (f *TxnFile) buildDSH() (*txnpb.Transaction, error) {
	var args struct {
		Username string  `json:"username"`
		Password string  `json:"password"`
		InDate   string  `json:"in_date"`
		OutDate  string  `json:"out_date"`
		Lat      float64 `json:"lat"`
		Lon      float64 `json:"lon"`
		HotelIDs []int32 `json:"h_ids"`
		HotelID  int32   `json:"hotel_id"`
		NumRooms int32   `json:"num_rooms"`
		CustName string  `json:"cust_name"`
		Type     string  `json:"type"`
	}
	if err := json.Unmarshal(f.Arguments, &args); err != nil {
		return nil, errors.Annotate(err, "parse dsh arguments")
	}

	txn := &txnpb.Transaction{}
	adapter := execution.NewKeyGenStorageAdapter(txn, nil)

	switch f.TxnType {
	case "user_login", "user login":
		body := dsh.NewUserLoginTxn(adapter, args.Username, args.Password)
		body.Read()
		adapter.Finalize()
		txn.AddProcedure("user login", dsh.FormatUname(args.Username), args.Password)
	case "recommendation":
		var recommendType dsh.RecommendationType
		switch args.Type {
		case "distance":
			recommendType = dsh.RecommendDistance
		case "rating":
			recommendType = dsh.RecommendRating
		case "price":
			recommendType = dsh.RecommendPrice
		default:
			return nil, errors.Errorf("invalid recommendation type: %s", args.Type)
		}
		body := dsh.NewRecommendTxn(adapter, recommendType, args.Lat, args.Lon, args.HotelIDs)
		body.Read()
		adapter.Finalize()
		procArgs := []string{f.TxnType, strconv.Itoa(int(recommendType)),
			formatFloat(args.Lat), formatFloat(args.Lon)}
		txn.AddProcedure(append(procArgs, int32Args(args.HotelIDs)...)...)
	case "search":
		body := dsh.NewSearchTxn(adapter, args.InDate, args.OutDate, args.Lat, args.Lon, args.HotelIDs)
		body.Read()
		adapter.Finalize()
		procArgs := []string{f.TxnType, args.InDate, args.OutDate,
			formatFloat(args.Lat), formatFloat(args.Lon)}
		txn.AddProcedure(append(procArgs, int32Args(args.HotelIDs)...)...)
	case "reservation":
		body := dsh.NewReservationTxn(adapter, args.Username, args.Password,
			args.InDate, args.OutDate, args.HotelID, args.CustName, args.NumRooms)
		body.Read()
		body.Write()
		adapter.Finalize()
		txn.AddProcedure(f.TxnType, dsh.FormatUname(args.Username), args.Password,
			args.InDate, args.OutDate, strconv.Itoa(int(args.HotelID)),
			args.CustName, strconv.Itoa(int(args.NumRooms)))
	default:
		return nil, errors.Errorf("invalid DSH transaction type: %s", f.TxnType)
	}
	return txn, nil
}

// buildExplicit passes the declared read/write sets and code straight into
// the wire transaction; a new_master value turns it into a remaster
// request.
func (f *TxnFile) buildExplicit() (*txnpb.Transaction, error) {
	txn := &txnpb.Transaction{}
	for _, key := range f.WriteSet {
		txn.Keys = append(txn.Keys, &txnpb.KeyEntry{Key: []byte(key), Type: txnpb.KeyWrite})
	}
	for _, key := range f.ReadSet {
		txn.Keys = append(txn.Keys, &txnpb.KeyEntry{Key: []byte(key), Type: txnpb.KeyRead})
	}
	if f.NewMaster != nil {
		txn.NewMaster = f.NewMaster
		return txn, nil
	}
	for _, proc := range f.Code {
		txn.AddProcedure(proc...)
	}
	return txn, nil
}

func intArgs(ids []int) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strconv.Itoa(id))
	}
	return out
}

func int32Args(ids []int32) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, strconv.Itoa(int(id)))
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
