package workload

import (
	"encoding/binary"
	"math/rand"
	"strconv"

	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/config"
	"github.com/delftdata/Gaia/execution"
	"github.com/delftdata/Gaia/execution/pps"
	"github.com/delftdata/Gaia/generator"
	"github.com/delftdata/Gaia/metrics"
	"github.com/delftdata/Gaia/txnpb"
)

// PPS workload parameters.
const (
	// Percentage of multi-home transactions.
	ppsMHPct = "mh"
	// Percentage of multi-partition transactions.
	ppsMPPct = "mp"
	// Colon-separated percentages of the five txn types: order_product,
	// get_parts_by_product, update_product_part, get_product, get_part.
	ppsTxnMix = "mix"
	// Skewness of the workload, a theta value between 0.0 and 1.0.
	ppsHot = "hot"
	// Target region of the sunflower scenario, -1 to disable.
	ppsSunflowerTarget = "sunflower"
	// If 1, every SH transaction goes to the nearest region.
	ppsNearest = "nearest"
)

var ppsDefaultParams = map[string]string{
	ppsMHPct:           "0",
	ppsMPPct:           "0",
	ppsTxnMix:          "80:8:8:2:2",
	ppsHot:             "0.0",
	ppsSunflowerTarget: "-1",
	ppsNearest:         "1",
}

// PPSWorkload generates the products/parts/suppliers stream. order_product
// is dependent: phase one is a get_parts_by_product whose returned part ids
// feed the phase-two amount update emitted on the next call.
type PPSWorkload struct {
	base

	cfg          *config.Config
	localRegion  int
	localReplica int

	numRegions    int
	numPartitions int
	numProducts   int
	numParts      int
	numSuppliers  int

	metadataInit *pps.MetadataInitializer
	rg           *rand.Rand
	txnMix       *generator.Discrete
	clientTxnID  common.TxnId

	sunflowerRedirectPct  int
	sunflowerTargetRegion int

	// Dependent-transaction state: the phase-one transaction whose executed
	// key values feed phase two.
	prevTxn         *txnpb.Transaction
	partsToRetrieve []int32
}

// NewPPSWorkload builds the generator. region and replica are the locality
// of the issuing client.
func NewPPSWorkload(cfg *config.Config, region common.RegionId, replica common.ReplicaId,
	paramsStr string, seed int64) (*PPSWorkload, error) {
	if cfg.Partitioning != config.PPSPartitioning {
		return nil, errors.New("PPS workload is only compatible with PPS partitioning")
	}
	params, err := NewParams(ppsDefaultParams, paramsStr)
	if err != nil {
		return nil, errors.Trace(err)
	}

	w := &PPSWorkload{
		base:          base{name: "pps", params: params},
		cfg:           cfg,
		localRegion:   int(region),
		localReplica:  int(replica),
		numRegions:    int(cfg.NumWorkloadRegions()),
		numPartitions: int(cfg.NumPartitions),
		numProducts:   cfg.PPS.Products,
		numParts:      cfg.PPS.Parts,
		numSuppliers:  cfg.PPS.Suppliers,
		metadataInit:  pps.NewMetadataInitializer(cfg.NumWorkloadRegions(), cfg.NumPartitions),
		rg:            rand.New(rand.NewSource(seed)),
	}
	if cfg.NumRegions == 1 {
		w.localRegion = int(replica)
	}
	w.sunflowerTargetRegion = int(params.GetInt64(ppsSunflowerTarget, -1))

	mix, err := ParseIntList(params.GetString(ppsTxnMix, ""))
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(mix) != 5 {
		return nil, errors.New("there must be exactly 5 values for txn mix")
	}
	w.txnMix = generator.NewDiscreteInts(mix)

	w.partsToRetrieve = make([]int32, pps.PartsPerProduct)
	for i := range w.partsToRetrieve {
		w.partsToRetrieve[i] = int32(i + 1)
	}

	log.Info("PPS workload created",
		zap.Int("region", w.localRegion), zap.Int("replica", w.localReplica),
		zap.String("params", paramsStr),
		zap.Int("num_products", w.numProducts), zap.Int("num_parts", w.numParts),
		zap.Int("num_suppliers", w.numSuppliers), zap.Int64("seed", seed))
	return w, nil
}

func (w *PPSWorkload) NextTransaction() (*txnpb.Transaction, TransactionProfile) {
	pro := TransactionProfile{
		ClientTxnID:    w.clientTxnID,
		DependencyType: DependencyNone,
	}
	txn := &txnpb.Transaction{}

	if w.prevTxn != nil {
		// The previous call emitted phase one of order_product; decode the
		// part id each slot returned and emit phase two.
		if len(w.prevTxn.Keys) != pps.PartsPerProduct {
			log.Fatal("first phase order_product returned incorrect number of keys",
				zap.Int("keys", len(w.prevTxn.Keys)))
		}
		for _, entry := range w.prevTxn.Keys {
			// product_parts keys carry the slot index after the product id.
			slot := int32(binary.LittleEndian.Uint32(entry.Key[4:8]))
			if slot < 1 || slot > pps.PartsPerProduct {
				log.Fatal("invalid slot index for part", zap.Int32("slot", slot))
			}
			w.partsToRetrieve[slot-1] = int32(binary.LittleEndian.Uint32(entry.ValueEntry.Value))
		}
		productID, _ := strconv.Atoi(w.prevTxn.Code.Procedures[0].Args[1])
		if productID < 1 || productID > w.numProducts {
			log.Fatal("invalid product id", zap.Int("product_id", productID))
		}
		w.prevTxn = nil

		pro.DependencyType = DependencySecondPhase
		w.orderProductTransaction(txn, &pro, productID)
	} else {
		switch w.txnMix.Next(w.rg) {
		case 0:
			pro.DependencyType = DependencyFirstPhase
			w.orderProductTransaction(txn, &pro, -1)
		case 1:
			w.getPartsByProductTransaction(txn, &pro, false)
		case 2:
			w.updateProductPartTransaction(txn, &pro)
		case 3:
			w.getProductTransaction(txn, &pro)
		case 4:
			w.getPartTransaction(txn, &pro)
		}
	}

	txn.Internal.ID = w.clientTxnID
	w.clientTxnID++
	return txn, pro
}

func (w *PPSWorkload) orderProductTransaction(txn *txnpb.Transaction, pro *TransactionProfile, productID int) {
	if productID == -1 {
		w.getPartsByProductTransaction(txn, pro, true)
		return
	}

	category := ((productID - 1) % (4 * w.numPartitions * w.numRegions)) / (w.numPartitions * w.numRegions)
	pro.IsMultiHome = category&2 != 0
	pro.IsMultiPartition = category&1 != 0
	metrics.TxnsGenerated.WithLabelValues(w.name, "order_product",
		metrics.Placement(pro.IsMultiHome, pro.IsMultiPartition)).Inc()

	adapter := execution.NewKeyGenStorageAdapter(txn, w.metadataInit)
	body := pps.NewOrderProduct(adapter, int32(productID), w.partsToRetrieve)
	body.Read()
	body.Write()
	adapter.Finalize()

	args := []string{"order_product", strconv.Itoa(productID)}
	for _, partID := range w.partsToRetrieve {
		args = append(args, strconv.Itoa(int(partID)))
	}
	txn.AddProcedure(args...)
}

func (w *PPSWorkload) getPartsByProductTransaction(txn *txnpb.Transaction, pro *TransactionProfile, partOfOrderProduct bool) {
	productID := w.selectProduct()

	adapter := execution.NewKeyGenStorageAdapter(txn, w.metadataInit)
	body := pps.NewGetPartsByProduct(adapter, int32(productID))
	body.Read()
	adapter.Finalize()

	txn.AddProcedure("get_parts_by_product", strconv.Itoa(productID))
	if partOfOrderProduct {
		w.prevTxn = txn
		metrics.TxnsGenerated.WithLabelValues(w.name, "order_product_phase1", "sh_sp").Inc()
	} else {
		metrics.TxnsGenerated.WithLabelValues(w.name, "get_parts_by_product", "sh_sp").Inc()
	}
}

func (w *PPSWorkload) updateProductPartTransaction(txn *txnpb.Transaction, pro *TransactionProfile) {
	productID := w.selectProduct()
	metrics.TxnsGenerated.WithLabelValues(w.name, "update_product_part", "sh_sp").Inc()

	adapter := execution.NewKeyGenStorageAdapter(txn, w.metadataInit)
	body := pps.NewUpdateProductPart(adapter, int32(productID))
	body.Read()
	body.Write()
	adapter.Finalize()

	txn.AddProcedure("update_product_part", strconv.Itoa(productID))
}

func (w *PPSWorkload) getProductTransaction(txn *txnpb.Transaction, pro *TransactionProfile) {
	productID := w.selectProduct()
	metrics.TxnsGenerated.WithLabelValues(w.name, "get_product", "sh_sp").Inc()

	adapter := execution.NewKeyGenStorageAdapter(txn, w.metadataInit)
	body := pps.NewGetProduct(adapter, int32(productID))
	body.Read()
	adapter.Finalize()

	txn.AddProcedure("get_product", strconv.Itoa(productID))
}

func (w *PPSWorkload) getPartTransaction(txn *txnpb.Transaction, pro *TransactionProfile) {
	partID := w.rg.Intn(w.numParts) + 1
	metrics.TxnsGenerated.WithLabelValues(w.name, "get_part", "sh_sp").Inc()

	adapter := execution.NewKeyGenStorageAdapter(txn, w.metadataInit)
	body := pps.NewGetPart(adapter, int32(partID))
	body.Read()
	adapter.Finalize()

	txn.AddProcedure("get_part", strconv.Itoa(partID))
}

// selectProduct picks a product id for the next transaction.
//
// Products are laid out in blocks of num_partitions * num_regions ids, with
// categories cycling per block (see the loader). The selection works in
// three steps:
//
//  1. The category is determined by the MH and MP coin flips.
//  2. The region within a block follows the client's locality, the
//     sunflower target, or a uniform pick for MH transactions.
//  3. The block and the partition within it come from the NURand skewed
//     distribution.
func (w *PPSWorkload) selectProduct() int {
	mh := w.params.GetInt64(ppsMHPct, 0)
	mp := w.params.GetInt64(ppsMPPct, 0)
	isMH := w.rg.Float64() < float64(mh)/100.0
	isMP := w.rg.Float64() < float64(mp)/100.0

	followSunflower := false
	if w.sunflowerTargetRegion != -1 {
		followSunflower = w.rg.Float64() < float64(w.sunflowerRedirectPct)/100.0
	}
	nearest := w.params.GetInt64(ppsNearest, 1)

	var chosenRegion int
	switch {
	case followSunflower:
		chosenRegion = w.sunflowerTargetRegion
		metrics.SunflowerRedirects.WithLabelValues(w.name).Inc()
	case !isMH && nearest == 1:
		chosenRegion = w.localRegion
	default:
		chosenRegion = w.rg.Intn(w.numRegions)
	}

	totalBlocksPerCategory := w.numProducts / (4 * w.numPartitions * w.numRegions)
	skew := w.params.GetFloat64(ppsHot, 0)
	choice := generator.SkewedPick(w.rg, totalBlocksPerCategory*w.numPartitions, skew)
	chosenBlockWithinCategory := choice / w.numPartitions
	chosenPartition := choice % w.numPartitions

	category := 0
	if isMH {
		category |= 2
	}
	if isMP {
		category |= 1
	}
	productID := chosenBlockWithinCategory*(4*w.numPartitions*w.numRegions) +
		chosenRegion*w.numPartitions + chosenPartition + 1 +
		category*w.numPartitions*w.numRegions
	if productID < 1 || productID > w.numProducts {
		log.Fatal("invalid product id", zap.Int("product_id", productID))
	}
	return productID
}

// RefreshSunflower ramps the redirect percentage up by ten points every
// tenth of the run, the linear sunflower style.
func (w *PPSWorkload) RefreshSunflower(duration, elapsed int64) {
	if w.sunflowerTargetRegion == -1 {
		return
	}
	if float64(elapsed)/float64(duration) > float64(w.sunflowerRedirectPct)/100.0 {
		w.sunflowerRedirectPct += 10
		log.Info("sunflower scenario: redirecting transactions",
			zap.Int("pct", w.sunflowerRedirectPct), zap.Int("target_region", w.sunflowerTargetRegion))
	}
}
