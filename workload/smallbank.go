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
	"github.com/delftdata/Gaia/execution/smallbank"
	"github.com/delftdata/Gaia/generator"
	"github.com/delftdata/Gaia/metrics"
	"github.com/delftdata/Gaia/txnpb"
)

// SmallBank workload parameters.
const (
	sbMH     = "mh"
	sbMP     = "mp"
	sbTxnMix = "mix"
	sbHot    = "hot"
	// Colon-separated target regions and matching redirect probabilities of
	// the stepwise sunflower scenario.
	sbSunflowerRegions       = "sunflower_target_regions"
	sbSunflowerProbabilities = "sunflower_target_probabilities"
)

var sbDefaultParams = map[string]string{
	sbMH:                     "50",
	sbMP:                     "50",
	sbTxnMix:                 "40:25:15:5:15",
	sbHot:                    "0.0",
	sbSunflowerRegions:       "",
	sbSunflowerProbabilities: "",
}

// placement classifies where an account's name row and id rows live
// relative to each other.
type placementChoice int

const (
	chooseSHSP placementChoice = 1
	chooseMHMP placementChoice = 2
	chooseMHSP placementChoice = 3
	chooseSHMP placementChoice = 4
)

// SmallBankWorkload generates the SmallBank stream. Every user-facing
// transaction is two-phase: a name-to-id lookup whose executed result feeds
// the actual operation; amalgamate chains two lookups before its third
// phase. The harness reports executed transactions back through OnExecuted,
// which drives the dependent-transaction state machine.
type SmallBankWorkload struct {
	base

	cfg          *config.Config
	localRegion  int
	localReplica int

	numRegions    int
	numPartitions int

	metadataInit *smallbank.MetadataInitializer
	rg           *rand.Rand
	txnMix       *generator.Discrete
	clientTxnID  common.TxnId

	clientNamesByID map[int]string

	// Account-name pools by the relation of name placement to id placement.
	shSPAccountsByRegion [][]string
	shMPAccountsByRegion [][]string
	mhMPAccountNames     []string
	mhSPAccountNames     []string

	// clientPartitionMap[partition][home] lists the client ids whose id
	// rows live there.
	clientPartitionMap [][][]int

	// Stepwise sunflower state.
	regionMix                   []int
	probabilityMix              []int
	sunflowerCurrentRegionIndex int

	// Dependent-transaction state.
	pendingBalanceTxn    *txnpb.Transaction
	pendingDepositTxn    *txnpb.Transaction
	pendingSavingTxn     *txnpb.Transaction
	pendingWritecheckTxn *txnpb.Transaction

	pendingAmalgamateTxn  *txnpb.Transaction
	previousAmalgamateTxn *txnpb.Transaction

	amalgamateFirstID int
}

func NewSmallBankWorkload(cfg *config.Config, region common.RegionId, replica common.ReplicaId,
	paramsStr string, seed int64) (*SmallBankWorkload, error) {
	if cfg.Partitioning != config.SmallBankPartitioning {
		return nil, errors.New("smallbank workload is only compatible with smallbank partitioning")
	}
	params, err := NewParams(sbDefaultParams, paramsStr)
	if err != nil {
		return nil, errors.Trace(err)
	}

	w := &SmallBankWorkload{
		base:            base{name: "smallbank", params: params},
		cfg:             cfg,
		localRegion:     int(region),
		localReplica:    int(replica),
		numRegions:      int(cfg.NumWorkloadRegions()),
		numPartitions:   int(cfg.NumPartitions),
		metadataInit:    smallbank.NewMetadataInitializer(cfg.NumWorkloadRegions(), cfg.NumPartitions),
		rg:              rand.New(rand.NewSource(seed)),
		clientNamesByID: make(map[int]string),
	}
	if cfg.NumRegions == 1 {
		w.localRegion = int(replica)
	}

	numClients := cfg.SmallBank.Clients
	w.clientPartitionMap = make([][][]int, w.numPartitions)
	for p := range w.clientPartitionMap {
		w.clientPartitionMap[p] = make([][]int, w.numRegions)
	}
	w.shSPAccountsByRegion = make([][]string, w.numRegions)
	w.shMPAccountsByRegion = make([][]string, w.numRegions)

	for i := 0; i < numClients; i++ {
		clientName := smallbank.ClientName(i)
		w.clientNamesByID[i] = clientName

		nameHash := common.MurmurHash3(clientName)
		namePartition := int(nameHash) % w.numPartitions
		nameHome := int(nameHash/uint32(w.numPartitions)) % w.numRegions

		clientPartition := i % w.numPartitions
		idHome := (i / w.numPartitions) % w.numRegions

		samePartition := namePartition == clientPartition
		sameHome := nameHome == idHome
		switch {
		case samePartition && sameHome:
			w.shSPAccountsByRegion[nameHome] = append(w.shSPAccountsByRegion[nameHome], clientName)
		case !samePartition && !sameHome:
			w.mhMPAccountNames = append(w.mhMPAccountNames, clientName)
		case !samePartition && sameHome:
			w.shMPAccountsByRegion[nameHome] = append(w.shMPAccountsByRegion[nameHome], clientName)
		default:
			w.mhSPAccountNames = append(w.mhSPAccountNames, clientName)
		}

		w.clientPartitionMap[clientPartition][idHome] = append(w.clientPartitionMap[clientPartition][idHome], i)
	}

	for region := 0; region < w.numRegions; region++ {
		log.Info("smallbank account pools",
			zap.Int("region", region),
			zap.Int("sh_sp", len(w.shSPAccountsByRegion[region])),
			zap.Int("sh_mp", len(w.shMPAccountsByRegion[region])))
	}
	log.Info("smallbank cross-home pools",
		zap.Int("mh_mp", len(w.mhMPAccountNames)), zap.Int("mh_sp", len(w.mhSPAccountNames)))

	mix, err := ParseIntList(params.GetString(sbTxnMix, ""))
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(mix) != 5 {
		return nil, errors.New("there must be exactly 5 values for txn mix")
	}
	w.txnMix = generator.NewDiscreteInts(mix)

	if w.sunflowerEnabled() {
		if w.regionMix, err = ParseIntList(params.GetString(sbSunflowerRegions, "")); err != nil {
			return nil, errors.Trace(err)
		}
		if w.probabilityMix, err = ParseIntList(params.GetString(sbSunflowerProbabilities, "")); err != nil {
			return nil, errors.Trace(err)
		}
		if len(w.regionMix) != len(w.probabilityMix) {
			return nil, errors.New("sunflower regions and probabilities must pair up")
		}
	}

	return w, nil
}

func (w *SmallBankWorkload) sunflowerEnabled() bool {
	return w.params.GetString(sbSunflowerRegions, "") != ""
}

// OnExecuted reports an executed transaction back to the generator so a
// dependent follow-up can consume its results on the next call.
func (w *SmallBankWorkload) OnExecuted(txn *txnpb.Transaction, pro TransactionProfile) {
	if pro.DependencyType != DependencyFirstPhase {
		return
	}
	switch pro.TransactionType {
	case TxnBalance:
		w.pendingBalanceTxn = txn
	case TxnDepositChecking:
		w.pendingDepositTxn = txn
	case TxnTransactionSaving:
		w.pendingSavingTxn = txn
	case TxnWritecheck:
		w.pendingWritecheckTxn = txn
	case TxnAmalgamate:
		w.pendingAmalgamateTxn = txn
	}
}

func decodeCustomerID(txn *txnpb.Transaction) int {
	if len(txn.Keys) != 1 {
		log.Fatal("phase-one lookup must return exactly one key", zap.Int("keys", len(txn.Keys)))
	}
	return int(int32(binary.LittleEndian.Uint32(txn.Keys[0].ValueEntry.Value)))
}

func (w *SmallBankWorkload) NextTransaction() (*txnpb.Transaction, TransactionProfile) {
	pro := TransactionProfile{ClientTxnID: w.clientTxnID}
	txn := &txnpb.Transaction{}

	switch {
	case w.pendingBalanceTxn != nil:
		id := decodeCustomerID(w.pendingBalanceTxn)
		w.pendingBalanceTxn = nil
		pro.TransactionType = TxnNothing
		w.balance(txn, &pro, 2, id)
	case w.pendingDepositTxn != nil:
		id := decodeCustomerID(w.pendingDepositTxn)
		w.pendingDepositTxn = nil
		pro.TransactionType = TxnNothing
		w.depositChecking(txn, &pro, 2, id)
	case w.pendingSavingTxn != nil:
		id := decodeCustomerID(w.pendingSavingTxn)
		w.pendingSavingTxn = nil
		pro.TransactionType = TxnNothing
		w.transactionSaving(txn, &pro, 2, id)
	case w.pendingWritecheckTxn != nil:
		id := decodeCustomerID(w.pendingWritecheckTxn)
		w.pendingWritecheckTxn = nil
		pro.TransactionType = TxnNothing
		w.writecheck(txn, &pro, 2, id)
	case w.pendingAmalgamateTxn != nil && w.previousAmalgamateTxn == nil:
		// The src lookup has executed; issue the dst lookup.
		w.amalgamateFirstID = decodeCustomerID(w.pendingAmalgamateTxn)
		pro.TransactionType = TxnAmalgamate
		w.amalgamatePhase2(txn, &pro)
		w.previousAmalgamateTxn = w.pendingAmalgamateTxn
		w.pendingAmalgamateTxn = nil
	case w.pendingAmalgamateTxn != nil && w.previousAmalgamateTxn != nil:
		firstID := decodeCustomerID(w.previousAmalgamateTxn)
		secondID := decodeCustomerID(w.pendingAmalgamateTxn)
		w.pendingAmalgamateTxn = nil
		w.previousAmalgamateTxn = nil
		pro.TransactionType = TxnNothing
		w.amalgamatePhase3(txn, &pro, firstID, secondID)
	default:
		switch w.txnMix.Next(w.rg) {
		case 0:
			pro.TransactionType = TxnBalance
			w.balance(txn, &pro, 1, 0)
		case 1:
			pro.TransactionType = TxnDepositChecking
			w.depositChecking(txn, &pro, 1, 0)
		case 2:
			pro.TransactionType = TxnTransactionSaving
			w.transactionSaving(txn, &pro, 1, 0)
		case 3:
			pro.TransactionType = TxnAmalgamate
			w.amalgamatePhase1(txn, &pro)
		case 4:
			pro.TransactionType = TxnWritecheck
			w.writecheck(txn, &pro, 1, 0)
		}
	}

	txn.Internal.ID = w.clientTxnID
	w.clientTxnID++
	return txn, pro
}

// rollChoice classifies the next account pick from independent MH and MP
// coin flips.
func (w *SmallBankWorkload) rollChoice() placementChoice {
	mh := w.rg.Float64() < w.params.GetFloat64(sbMH, 0)/100.0
	mp := w.rg.Float64() < w.params.GetFloat64(sbMP, 0)/100.0
	switch {
	case mh && mp:
		return chooseMHMP
	case mh:
		return chooseMHSP
	case mp:
		return chooseSHMP
	default:
		return chooseSHSP
	}
}

// pickAccountName draws a name from the pool matching the placement choice.
// Under an active sunflower schedule the single-home pools follow the
// current target region with the configured probability.
func (w *SmallBankWorkload) pickAccountName(choice placementChoice) string {
	skew := w.params.GetFloat64(sbHot, 0)
	region := w.localRegion
	if w.sunflowerEnabled() &&
		w.rg.Float64() < float64(w.probabilityMix[w.sunflowerCurrentRegionIndex])/100.0 {
		region = w.regionMix[w.sunflowerCurrentRegionIndex]
		metrics.SunflowerRedirects.WithLabelValues(w.name).Inc()
	}

	var pool []string
	switch choice {
	case chooseSHSP:
		pool = w.shSPAccountsByRegion[region]
	case chooseMHMP:
		pool = w.mhMPAccountNames
	case chooseMHSP:
		pool = w.mhSPAccountNames
	case chooseSHMP:
		pool = w.shMPAccountsByRegion[region]
	}
	if len(pool) == 0 {
		log.Fatal("empty account pool", zap.Int("choice", int(choice)))
	}
	return pool[generator.SkewedPick(w.rg, len(pool), skew)]
}

// getCustomerIdByName emits the phase-one lookup for the given (or picked)
// account name.
func (w *SmallBankWorkload) getCustomerIdByName(txn *txnpb.Transaction, choice placementChoice, overrideName string) {
	name := overrideName
	if name == "" {
		name = w.pickAccountName(choice)
	}

	adapter := execution.NewKeyGenStorageAdapter(txn, w.metadataInit)
	body := smallbank.NewGetCustomerIdByNameTxn(adapter, name)
	body.Read()
	adapter.Finalize()

	txn.AddProcedure("getCustomerIdByName", name)
}

// accountPlacement derives the intended placement of a phase-two operation
// touching one account: its name row against its checking/savings rows.
func (w *SmallBankWorkload) accountPlacement(name string, id int) (multiHome, multiPartition bool) {
	hash := common.MurmurHash3(name)
	namePartition := int(hash) % w.numPartitions
	nameHome := int(hash/uint32(w.numPartitions)) % w.numRegions
	idPartition := id % w.numPartitions
	idHome := (id / w.numPartitions) % w.numRegions
	return nameHome != idHome, namePartition != idPartition
}

func (w *SmallBankWorkload) balance(txn *txnpb.Transaction, pro *TransactionProfile, phase, customerID int) {
	if phase == 1 {
		choice := w.rollChoice()
		w.getCustomerIdByName(txn, choice, "")
		pro.DependencyType = DependencyFirstPhase
		metrics.TxnsGenerated.WithLabelValues(w.name, "balance",
			metrics.Placement(choice == chooseMHMP || choice == chooseMHSP,
				choice == chooseMHMP || choice == chooseSHMP)).Inc()
		return
	}

	name := w.clientNamesByID[customerID]
	pro.IsMultiHome, pro.IsMultiPartition = w.accountPlacement(name, customerID)

	adapter := execution.NewKeyGenStorageAdapter(txn, w.metadataInit)
	body := smallbank.NewBalanceTxn(adapter, name, int32(customerID))
	body.Read()
	body.Write()
	adapter.Finalize()

	txn.AddProcedure("balance", name, strconv.Itoa(customerID))
	pro.DependencyType = DependencySecondPhase
}

func (w *SmallBankWorkload) depositChecking(txn *txnpb.Transaction, pro *TransactionProfile, phase, customerID int) {
	if phase == 1 {
		choice := w.rollChoice()
		w.getCustomerIdByName(txn, choice, "")
		pro.DependencyType = DependencyFirstPhase
		metrics.TxnsGenerated.WithLabelValues(w.name, "deposit_checking",
			metrics.Placement(choice == chooseMHMP || choice == chooseMHSP,
				choice == chooseMHMP || choice == chooseSHMP)).Inc()
		return
	}

	name := w.clientNamesByID[customerID]
	pro.IsMultiHome, pro.IsMultiPartition = w.accountPlacement(name, customerID)
	amount := w.rg.Intn(9901) + 100

	adapter := execution.NewKeyGenStorageAdapter(txn, w.metadataInit)
	body := smallbank.NewDepositCheckingTxn(adapter, name, int32(customerID), int32(amount))
	body.Read()
	body.Write()
	adapter.Finalize()

	txn.AddProcedure("depositChecking", name, strconv.Itoa(customerID), strconv.Itoa(amount))
	pro.DependencyType = DependencySecondPhase
}

func (w *SmallBankWorkload) transactionSaving(txn *txnpb.Transaction, pro *TransactionProfile, phase, customerID int) {
	if phase == 1 {
		choice := w.rollChoice()
		w.getCustomerIdByName(txn, choice, "")
		pro.DependencyType = DependencyFirstPhase
		metrics.TxnsGenerated.WithLabelValues(w.name, "transaction_saving",
			metrics.Placement(choice == chooseMHMP || choice == chooseMHSP,
				choice == chooseMHMP || choice == chooseSHMP)).Inc()
		return
	}

	name := w.clientNamesByID[customerID]
	pro.IsMultiHome, pro.IsMultiPartition = w.accountPlacement(name, customerID)
	amount := w.rg.Intn(9901) + 100

	adapter := execution.NewKeyGenStorageAdapter(txn, w.metadataInit)
	body := smallbank.NewTransactionSavingTxn(adapter, name, int32(customerID), int32(amount))
	body.Read()
	body.Write()
	adapter.Finalize()

	txn.AddProcedure("transactionSaving", name, strconv.Itoa(customerID), strconv.Itoa(amount))
	pro.DependencyType = DependencySecondPhase
}

func (w *SmallBankWorkload) writecheck(txn *txnpb.Transaction, pro *TransactionProfile, phase, customerID int) {
	if phase == 1 {
		choice := w.rollChoice()
		w.getCustomerIdByName(txn, choice, "")
		pro.DependencyType = DependencyFirstPhase
		metrics.TxnsGenerated.WithLabelValues(w.name, "writecheck",
			metrics.Placement(choice == chooseMHMP || choice == chooseMHSP,
				choice == chooseMHMP || choice == chooseSHMP)).Inc()
		return
	}

	name := w.clientNamesByID[customerID]
	pro.IsMultiHome, pro.IsMultiPartition = w.accountPlacement(name, customerID)
	amount := w.rg.Intn(9901) + 100

	adapter := execution.NewKeyGenStorageAdapter(txn, w.metadataInit)
	body := smallbank.NewWritecheckTxn(adapter, name, int32(customerID), int32(amount))
	body.Read()
	body.Write()
	adapter.Finalize()

	txn.AddProcedure("writecheck", name, strconv.Itoa(customerID), strconv.Itoa(amount))
	pro.DependencyType = DependencySecondPhase
}

// pickValidHome draws a home whose client pool at the partition is not
// empty.
func (w *SmallBankWorkload) pickValidHome(partition, minClients int) int {
	for {
		home := w.rg.Intn(len(w.clientPartitionMap[partition]))
		if len(w.clientPartitionMap[partition][home]) >= minClients {
			return home
		}
	}
}

func (w *SmallBankWorkload) pickClientIndex(partition, home int) int {
	pool := w.clientPartitionMap[partition][home]
	skew := w.params.GetFloat64(sbHot, 0)
	return generator.SkewedPick(w.rg, len(pool), skew)
}

func (w *SmallBankWorkload) amalgamatePhase1(txn *txnpb.Transaction, pro *TransactionProfile) {
	partition := w.rg.Intn(len(w.clientPartitionMap))
	home := w.localRegion
	idx := w.pickClientIndex(partition, home)
	src := w.clientNamesByID[w.clientPartitionMap[partition][home][idx]]
	w.getCustomerIdByName(txn, 0, src)
	pro.DependencyType = DependencyFirstPhase
	metrics.TxnsGenerated.WithLabelValues(w.name, "amalgamate_phase1", "sh_sp").Inc()
}

// amalgamatePhase2 picks the destination account relative to the source's
// placement and issues its lookup.
func (w *SmallBankWorkload) amalgamatePhase2(txn *txnpb.Transaction, pro *TransactionProfile) {
	firstID := w.amalgamateFirstID
	partition1 := firstID % w.numPartitions
	idHome1 := (firstID / w.numPartitions) % w.numRegions

	isMultiHome := w.rg.Float64() < w.params.GetFloat64(sbMH, 0)/100.0
	isMultiPartition := w.rg.Float64() < w.params.GetFloat64(sbMP, 0)/100.0

	partition2, idHome2 := partition1, idHome1
	if isMultiPartition && w.numPartitions > 1 {
		for partition2 == partition1 {
			partition2 = w.rg.Intn(w.numPartitions)
		}
	}
	if isMultiHome && w.numRegions > 1 {
		for idHome2 == idHome1 {
			idHome2 = w.pickValidHome(partition2, 1)
		}
	}

	var secondID int
	for {
		idx2 := w.pickClientIndex(partition2, idHome2)
		secondID = w.clientPartitionMap[partition2][idHome2][idx2]
		if secondID != firstID {
			break
		}
	}
	dst := w.clientNamesByID[secondID]
	w.getCustomerIdByName(txn, 0, dst)
	pro.DependencyType = DependencyFirstPhase
	metrics.TxnsGenerated.WithLabelValues(w.name, "amalgamate_phase2",
		metrics.Placement(isMultiHome, isMultiPartition)).Inc()
}

func (w *SmallBankWorkload) amalgamatePhase3(txn *txnpb.Transaction, pro *TransactionProfile, firstID, secondID int) {
	firstName := w.clientNamesByID[firstID]
	secondName := w.clientNamesByID[secondID]

	mh1, mp1 := w.accountPlacement(firstName, firstID)
	mh2, mp2 := w.accountPlacement(secondName, secondID)
	pro.IsMultiHome = mh1 || mh2 ||
		(firstID/w.numPartitions)%w.numRegions != (secondID/w.numPartitions)%w.numRegions
	pro.IsMultiPartition = mp1 || mp2 || firstID%w.numPartitions != secondID%w.numPartitions

	adapter := execution.NewKeyGenStorageAdapter(txn, w.metadataInit)
	body := smallbank.NewAmalgamateTxn(adapter, firstName, secondName, int32(firstID), int32(secondID))
	body.Read()
	body.Write()
	adapter.Finalize()

	txn.AddProcedure("amalgamate", firstName, secondName,
		strconv.Itoa(firstID), strconv.Itoa(secondID))
	pro.DependencyType = DependencySecondPhase
	metrics.TxnsGenerated.WithLabelValues(w.name, "amalgamate",
		metrics.Placement(pro.IsMultiHome, pro.IsMultiPartition)).Inc()
}

// RefreshSunflower steps to the next (region, probability) pair once the
// matching fraction of the run has elapsed.
func (w *SmallBankWorkload) RefreshSunflower(duration, elapsed int64) {
	if !w.sunflowerEnabled() {
		return
	}
	next := w.sunflowerCurrentRegionIndex + 1
	if next < len(w.regionMix) &&
		float64(elapsed)/float64(duration) > float64(next)/float64(len(w.regionMix)) {
		w.sunflowerCurrentRegionIndex = next
		log.Info("sunflower scenario: switching target",
			zap.Int("index", next), zap.Int("region", w.regionMix[next]))
	}
}
