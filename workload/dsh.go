package workload

import (
	"math/rand"
	"strconv"

	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/config"
	"github.com/delftdata/Gaia/execution"
	"github.com/delftdata/Gaia/execution/dsh"
	"github.com/delftdata/Gaia/generator"
	"github.com/delftdata/Gaia/metrics"
	"github.com/delftdata/Gaia/txnpb"
)

// DSH workload parameters.
const (
	// Txn mix: search, recommend, login, reserve.
	dshTxnMix = "mix"
	// Size of the hot record set as a fraction of the record set; 0.01
	// means 1% of records are hot.
	dshHot = "hot"
	// Chance of a pick coming from the hot set; skew is disabled at 0.
	dshHotChance = "hot_chance"
	dshMHChance  = "mh"
	dshMPChance  = "mp"
	// Path of the stepwise sunflower CSV file.
	dshSunflowerFile = "sf"
	// Total number of transactions the run will generate; paces the
	// sunflower schedule.
	dshDuration = "duration"
)

var dshDefaultParams = map[string]string{
	dshTxnMix:        "120:68:1:1",
	dshHot:           "-1.0",
	dshHotChance:     "0.0",
	dshMHChance:      ".25",
	dshMPChance:      ".25",
	dshSunflowerFile: "",
	dshDuration:      "60",
}

type dshDate struct {
	d, m, y int
}

// DSHWorkload generates the DeathStar Hotel stream.
type DSHWorkload struct {
	base

	cfg          *config.Config
	localRegion  int
	localReplica int

	numRegions    int
	numPartitions int
	sizing        config.DSHSizing

	metadataInit *dsh.MetadataInitializer
	rg           *rand.Rand
	txnMix       *generator.Discrete
	clientTxnID  common.TxnId
	totalTxns    int64

	mhChance, mpChance, hotChance float64
	hotActive                     bool
	numHotUsers                   int
	numHotHotels                  int

	// uIndex[partition][home] and hIndex[partition][home] list the user and
	// hotel ids living there.
	uIndex [][][]int32
	hIndex [][][]int32

	sunflower *SunflowerSchedule
}

func NewDSHWorkload(cfg *config.Config, region common.RegionId, replica common.ReplicaId,
	paramsStr string, seed int64) (*DSHWorkload, error) {
	if cfg.Partitioning != config.DSHPartitioning {
		return nil, errors.New("dsh workload is only compatible with dsh partitioning")
	}
	params, err := NewParams(dshDefaultParams, paramsStr)
	if err != nil {
		return nil, errors.Trace(err)
	}

	w := &DSHWorkload{
		base:          base{name: "dsh", params: params},
		cfg:           cfg,
		localRegion:   int(region),
		localReplica:  int(replica),
		numRegions:    int(cfg.NumWorkloadRegions()),
		numPartitions: int(cfg.NumPartitions),
		sizing:        cfg.DSH,
		metadataInit:  dsh.NewMetadataInitializer(cfg.NumWorkloadRegions(), cfg.NumPartitions),
		rg:            rand.New(rand.NewSource(seed)),
	}
	if cfg.NumRegions == 1 {
		w.localRegion = int(replica)
	}

	if path := params.GetString(dshSunflowerFile, ""); path != "" {
		if w.sunflower, err = LoadSunflowerFile(path, w.numRegions); err != nil {
			return nil, errors.Trace(err)
		}
		log.Info("sunflower schedule loaded", zap.String("path", path))
	}

	w.hotChance = params.GetFloat64(dshHotChance, 0)
	w.hotActive = w.hotChance > 0
	if w.hotActive {
		w.loadSkew()
	}

	w.uIndex = make([][][]int32, w.numPartitions)
	w.hIndex = make([][][]int32, w.numPartitions)
	for p := 0; p < w.numPartitions; p++ {
		w.uIndex[p] = make([][]int32, w.numRegions)
		w.hIndex[p] = make([][]int32, w.numRegions)
	}
	for i := 0; i < w.sizing.NumUsers; i++ {
		partition := i % w.numPartitions
		home := (i / w.numPartitions) % w.numRegions
		w.uIndex[partition][home] = append(w.uIndex[partition][home], int32(i))
	}
	for i := 0; i < w.sizing.NumHotels; i++ {
		partition := i % w.numPartitions
		home := (i / w.numPartitions) % w.numRegions
		w.hIndex[partition][home] = append(w.hIndex[partition][home], int32(i))
	}

	mix, err := ParseIntList(params.GetString(dshTxnMix, ""))
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(mix) != 4 {
		return nil, errors.New("there must be exactly 4 values for txn mix")
	}
	w.txnMix = generator.NewDiscreteInts(mix)

	w.mhChance = params.GetFloat64(dshMHChance, 0)
	w.mpChance = params.GetFloat64(dshMPChance, 0)
	return w, nil
}

// loadSkew derives the per-machine hot-set sizes.
func (w *DSHWorkload) loadSkew() {
	hotPct := w.params.GetFloat64(dshHot, 0)
	if hotPct < 0 {
		hotPct = 0
	}
	numMachines := float64(w.numRegions * w.numPartitions)
	w.numHotHotels = int(hotPct * float64(w.sizing.NumHotels) / numMachines)
	w.numHotUsers = int(hotPct * float64(w.sizing.NumUsers) / numMachines)
	log.Info("dsh hot sets", zap.Int("hot_hotels", w.numHotHotels), zap.Int("hot_users", w.numHotUsers))
	if w.numHotHotels < dsh.RecommendationReadSize {
		log.Warn("not enough hot hotels for a full read, skew is slightly inaccurate")
	}
}

// pickLocalRegion is the region single-home picks anchor to. An active
// sunflower schedule replaces the client's locality with a draw from the
// current weights.
func (w *DSHWorkload) pickLocalRegion() int {
	if w.sunflower != nil {
		duration := w.params.GetInt64(dshDuration, 1)
		return w.sunflower.PickRegion(w.rg, w.totalTxns, duration)
	}
	return w.localRegion
}

func (w *DSHWorkload) NextTransaction() (*txnpb.Transaction, TransactionProfile) {
	pro := TransactionProfile{ClientTxnID: w.clientTxnID}
	txn := &txnpb.Transaction{}

	switch w.txnMix.Next(w.rg) {
	case 0:
		w.searchHotel(txn, &pro)
		metrics.TxnsGenerated.WithLabelValues(w.name, "search",
			metrics.Placement(pro.IsMultiHome, pro.IsMultiPartition)).Inc()
	case 1:
		w.getRecommendation(txn, &pro)
		metrics.TxnsGenerated.WithLabelValues(w.name, "recommendation",
			metrics.Placement(pro.IsMultiHome, pro.IsMultiPartition)).Inc()
	case 2:
		w.userLogin(txn, &pro)
		metrics.TxnsGenerated.WithLabelValues(w.name, "user_login",
			metrics.Placement(pro.IsMultiHome, pro.IsMultiPartition)).Inc()
	case 3:
		w.reserveHotel(txn, &pro)
		metrics.TxnsGenerated.WithLabelValues(w.name, "reservation",
			metrics.Placement(pro.IsMultiHome, pro.IsMultiPartition)).Inc()
	}

	txn.Internal.ID = w.clientTxnID
	w.clientTxnID++
	w.totalTxns++
	return txn, pro
}

// userLogin reads a single user row. A multi-home coin sends the lookup to a
// foreign region, making the transaction foreign-single-home.
func (w *DSHWorkload) userLogin(txn *txnpb.Transaction, pro *TransactionProfile) {
	partition := w.rg.Intn(w.numPartitions)
	localRegion := w.pickLocalRegion()
	region := localRegion
	if w.numRegions > 1 && w.rg.Float64() < w.mhChance {
		region = w.rg.Intn(w.numRegions - 1)
		if region >= localRegion {
			region++
		}
		pro.IsForeignSingleHome = true
	}

	pool := w.uIndex[partition][region]
	if len(pool) == 0 {
		log.Fatal("not enough users", zap.Int("partition", partition), zap.Int("region", region))
	}
	uname := strconv.Itoa(int(w.sampleOnce(pool, w.numHotUsers)))

	adapter := execution.NewKeyGenStorageAdapter(txn, w.metadataInit)
	body := dsh.NewUserLoginTxn(adapter, uname, uname)
	body.Read()
	adapter.Finalize()

	txn.AddProcedure("user login", dsh.FormatUname(uname), uname)
}

func (w *DSHWorkload) searchHotel(txn *txnpb.Transaction, pro *TransactionProfile) {
	hotelSample := w.sample(w.hIndex, w.numHotHotels, dsh.RecommendationReadSize, pro)
	inDate, outDate := w.randDateRange(dshDate{1, 1, 2020}, dshDate{31, 6, 2020})
	lat := w.rg.Float64() * (w.sizing.MaxCoord - 1)
	lon := w.rg.Float64() * (w.sizing.MaxCoord - 1)

	adapter := execution.NewKeyGenStorageAdapter(txn, w.metadataInit)
	body := dsh.NewSearchTxn(adapter, inDate, outDate, lat, lon, hotelSample)
	body.Read()
	adapter.Finalize()

	args := []string{"search", inDate, outDate,
		strconv.FormatFloat(lat, 'f', -1, 64), strconv.FormatFloat(lon, 'f', -1, 64)}
	for _, id := range hotelSample {
		args = append(args, strconv.Itoa(int(id)))
	}
	txn.AddProcedure(args...)
}

func (w *DSHWorkload) getRecommendation(txn *txnpb.Transaction, pro *TransactionProfile) {
	hotelSample := w.sample(w.hIndex, w.numHotHotels, dsh.RecommendationReadSize, pro)

	recommendType := dsh.RecommendationType(w.rg.Intn(3))
	var lat, lon float64
	if recommendType == dsh.RecommendDistance {
		lat = w.rg.Float64() * (w.sizing.MaxCoord - 1)
		lon = w.rg.Float64() * (w.sizing.MaxCoord - 1)
	}

	adapter := execution.NewKeyGenStorageAdapter(txn, w.metadataInit)
	body := dsh.NewRecommendTxn(adapter, recommendType, lat, lon, hotelSample)
	body.Read()
	adapter.Finalize()

	args := []string{"recommendation", strconv.Itoa(int(recommendType)),
		strconv.FormatFloat(lat, 'f', -1, 64), strconv.FormatFloat(lon, 'f', -1, 64)}
	for _, id := range hotelSample {
		args = append(args, strconv.Itoa(int(id)))
	}
	txn.AddProcedure(args...)
}

func (w *DSHWorkload) reserveHotel(txn *txnpb.Transaction, pro *TransactionProfile) {
	pro.IsMultiHome = w.rg.Float64() < w.mhChance
	pro.IsMultiPartition = w.rg.Float64() < w.mpChance

	hPartition := w.rg.Intn(w.numPartitions)
	uPartition := hPartition
	if pro.IsMultiPartition && w.numPartitions > 1 {
		perm := w.rg.Perm(w.numPartitions)
		hPartition, uPartition = perm[0], perm[1]
	}

	localRegion := w.pickLocalRegion()
	hRegion, uRegion := localRegion, localRegion
	if pro.IsMultiHome && w.numRegions > 1 {
		perm := w.rg.Perm(w.numRegions)
		hRegion, uRegion = perm[0], perm[1]
	}

	userID := w.sampleOnce(w.uIndex[uPartition][uRegion], w.numHotUsers)
	hotelID := w.sampleOnce(w.hIndex[hPartition][hRegion], w.numHotHotels)
	uname := strconv.Itoa(int(userID))

	inDate, outDate := w.randDateRange(dshDate{1, 1, 2020}, dshDate{31, 6, 2020})
	numRooms := w.rg.Intn(5)

	adapter := execution.NewKeyGenStorageAdapter(txn, w.metadataInit)
	body := dsh.NewReservationTxn(adapter, uname, uname, inDate, outDate, hotelID, uname, int32(numRooms))
	body.Read()
	body.Write()
	adapter.Finalize()

	txn.AddProcedure("reservation", dsh.FormatUname(uname), uname, inDate, outDate,
		strconv.Itoa(int(hotelID)), uname, strconv.Itoa(numRooms))
}

// sample draws cnt ids honoring the MH and MP coins: single-home picks stay
// in one (partition, home) cell, multi picks re-draw the partition and/or
// home per element. With skew active the hot prefix of each pool is
// reshuffled and hot picks come from it.
func (w *DSHWorkload) sample(source [][][]int32, hotCnt, cnt int, pro *TransactionProfile) []int32 {
	result := make([]int32, cnt)
	pro.IsMultiHome = w.rg.Float64() < w.mhChance
	pro.IsMultiPartition = w.rg.Float64() < w.mpChance

	txnLocalPartition := w.rg.Intn(w.numPartitions)
	txnLocalHome := w.pickLocalRegion()

	hotRecordSize := hotCnt
	if cnt > hotRecordSize {
		hotRecordSize = cnt
	}
	if w.hotActive {
		for _, partitions := range source {
			for _, pool := range partitions {
				n := hotRecordSize
				if n > len(pool) {
					n = len(pool)
				}
				w.rg.Shuffle(n, func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
			}
		}
	}

	partition, home := txnLocalPartition, txnLocalHome
	for i := 0; i < cnt; i++ {
		if pro.IsMultiPartition {
			partition = w.rg.Intn(w.numPartitions)
		}
		if pro.IsMultiHome {
			if w.sunflower != nil {
				home = w.pickLocalRegion()
			} else {
				home = w.rg.Intn(w.numRegions)
			}
		}
		pool := source[partition][home]
		if w.hotActive && w.rg.Float64() < w.hotChance {
			result[i] = pool[i%len(pool)]
		} else {
			cold := len(pool) - hotRecordSize
			if cold <= 0 {
				result[i] = pool[w.rg.Intn(len(pool))]
			} else {
				result[i] = pool[hotRecordSize+w.rg.Intn(cold)]
			}
		}
	}
	return result
}

func (w *DSHWorkload) sampleOnce(pool []int32, hotCnt int) int32 {
	if w.hotActive && w.rg.Float64() < w.hotChance && hotCnt > 0 {
		n := hotCnt
		if n > len(pool) {
			n = len(pool)
		}
		return pool[w.rg.Intn(n)]
	}
	cold := len(pool) - hotCnt
	if cold <= 0 {
		return pool[w.rg.Intn(len(pool))]
	}
	return pool[hotCnt+w.rg.Intn(cold)]
}

// randDateRange draws a stay inside [start, end]: a random check-in day and
// a stay of up to MaxStay nights, rolling over month and year boundaries on
// the non-leap calendar.
func (w *DSHWorkload) randDateRange(start, end dshDate) (string, string) {
	daysInMonth := [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

	y := start.y + w.rg.Intn(end.y-start.y+1)
	startM, endM := 1, 12
	if y == start.y {
		startM = start.m
	}
	if y == end.y {
		endM = end.m
	}
	m := startM + w.rg.Intn(endM-startM+1)

	startD, endD := 1, daysInMonth[m-1]
	if y == start.y && m == start.m {
		startD = start.d
	}
	if y == end.y && m == end.m {
		endD = end.d
	}
	if endD < startD {
		endD = startD
	}
	d := startD + w.rg.Intn(endD-startD+1)

	stay := w.rg.Intn(dsh.MaxStay) + 1
	dOut, mOut, yOut := d+stay, m, y
	if dOut > daysInMonth[m-1] {
		dOut -= daysInMonth[m-1]
		mOut++
		if mOut > 12 {
			mOut = 1
			yOut++
		}
	}
	return dsh.FormatDate(d, m, y), dsh.FormatDate(dOut, mOut, yOut)
}
