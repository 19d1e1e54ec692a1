package workload

import (
	"math/rand"
	"strconv"

	"github.com/pingcap/errors"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/config"
	"github.com/delftdata/Gaia/execution"
	"github.com/delftdata/Gaia/execution/movie"
	"github.com/delftdata/Gaia/generator"
	"github.com/delftdata/Gaia/metrics"
	"github.com/delftdata/Gaia/txnpb"
)

// Movie workload parameters.
const (
	// Skewness of the workload, a theta value between 0.0 and 1.0.
	movieSkew     = "skew"
	movieMHChance = "mh"
	movieMPChance = "mp"
	// 1 enables the two-home sunflower: user picks concentrate on sf_home
	// with probability sf_fraction.
	movieSunflower  = "sunflower"
	movieSFFraction = "sf_fraction"
	movieSFHome     = "sf_home"
)

var movieDefaultParams = map[string]string{
	movieSkew:       "0.0",
	movieMHChance:   "25",
	movieMPChance:   "50",
	movieSunflower:  "0",
	movieSFFraction: "0.9",
	movieSFHome:     "0",
}

// movieMaxUserID bounds the review/user id space the generator draws from.
const movieMaxUserID = 1000

// MovieWorkload generates a stream of new_review transactions. The review
// and title ids are picked relative to the user id so the multi-home and
// multi-partition coins translate directly into key placement.
type MovieWorkload struct {
	base

	cfg          *config.Config
	localRegion  int
	localReplica int

	numRegions    int
	numPartitions int

	metadataInit *movie.MetadataInitializer
	rg           *rand.Rand
	clientTxnID  common.TxnId
	skew         float64
}

func NewMovieWorkload(cfg *config.Config, region common.RegionId, replica common.ReplicaId,
	paramsStr string, seed int64) (*MovieWorkload, error) {
	if cfg.Partitioning != config.MoviePartitioning {
		return nil, errors.New("movie workload is only compatible with movie partitioning")
	}
	params, err := NewParams(movieDefaultParams, paramsStr)
	if err != nil {
		return nil, errors.Trace(err)
	}

	w := &MovieWorkload{
		base:          base{name: "movie", params: params},
		cfg:           cfg,
		localRegion:   int(region),
		localReplica:  int(replica),
		numRegions:    int(cfg.NumRegions),
		numPartitions: int(cfg.NumPartitions),
		metadataInit:  movie.NewMetadataInitializer(cfg.NumRegions, cfg.NumPartitions),
		rg:            rand.New(rand.NewSource(seed)),
		skew:          params.GetFloat64(movieSkew, 0),
	}
	if cfg.NumRegions == 1 {
		w.localRegion = int(replica)
	}
	return w, nil
}

func (w *MovieWorkload) NextTransaction() (*txnpb.Transaction, TransactionProfile) {
	pro := TransactionProfile{ClientTxnID: w.clientTxnID}
	txn := &txnpb.Transaction{}

	multiHome := w.rg.Float64() < w.params.GetFloat64(movieMHChance, 0)/100.0
	multiPartition := w.rg.Float64() < w.params.GetFloat64(movieMPChance, 0)/100.0

	sunflower := w.params.GetInt64(movieSunflower, 0) == 1
	sunflowerHome := int(w.params.GetInt64(movieSFHome, 0))
	if sunflower {
		// Works with two homes: the fraction goes to sf_home, the rest to
		// the other one.
		if !(w.rg.Float64() < w.params.GetFloat64(movieSFFraction, 0)) && w.cfg.NumRegions > 1 {
			sunflowerHome = 1 - sunflowerHome
			if sunflowerHome < 0 {
				sunflowerHome = 0
			}
		} else {
			metrics.SunflowerRedirects.WithLabelValues(w.name).Inc()
		}
	}

	w.newReview(txn, &pro, sunflower, sunflowerHome, multiHome, multiPartition)
	metrics.TxnsGenerated.WithLabelValues(w.name, "new_review",
		metrics.Placement(pro.IsMultiHome, pro.IsMultiPartition)).Inc()

	txn.Internal.ID = w.clientTxnID
	w.clientTxnID++
	return txn, pro
}

func (w *MovieWorkload) newReview(txn *txnpb.Transaction, pro *TransactionProfile,
	sunflower bool, sunflowerHome int, multiHome, multiPartition bool) {
	movieIdxMax := int64(len(movie.Movies) - 1)

	var userID int64
	if sunflower {
		userID = w.randomIDForHome(sunflowerHome, movieMaxUserID)
	} else if multiHome {
		userID = generator.NURand(w.rg, int64(w.skew*movieMaxUserID), 0, movieMaxUserID)
	} else {
		userID = w.randomIDForHome(w.localRegion, movieMaxUserID)
	}

	// Stored titles carry a one-based index prefix, so title placement is
	// computed on index+1.
	var reviewID, titleIndex int64
	switch {
	case multiHome && w.numRegions > 1 && multiPartition && w.numPartitions > 1:
		reviewID = w.pickRelative(userID, movieMaxUserID, false, false, 0)
		titleIndex = w.pickRelative(userID, movieIdxMax, false, false, 1)
	case multiHome && w.numRegions > 1:
		reviewID = w.pickRelative(userID, movieMaxUserID, false, true, 0)
		titleIndex = w.pickRelative(userID, movieIdxMax, false, true, 1)
	case multiPartition && w.numPartitions > 1:
		reviewID = w.pickRelative(userID, movieMaxUserID, true, false, 0)
		titleIndex = w.pickRelative(userID, movieIdxMax, true, false, 1)
	default:
		reviewID = w.pickRelative(userID, movieMaxUserID, true, true, 0)
		titleIndex = w.pickRelative(userID, movieIdxMax, true, true, 1)
	}

	rating := w.rg.Intn(11)
	text := w.randomString(256)
	timestamp := reviewID
	reqID := reviewID

	username := movie.UserName(int(userID))
	title := movie.TitleOnDisk(int(titleIndex))

	pro.IsMultiHome = w.calculateHome(reviewID) != w.calculateHome(userID)
	pro.IsMultiPartition = w.calculatePart(reviewID) != w.calculatePart(userID)

	adapter := execution.NewKeyGenStorageAdapter(txn, w.metadataInit)
	body := movie.NewNewReviewTxn(adapter, reqID, int32(rating), username, title, timestamp, reviewID, text)
	body.Read()
	body.Write()
	adapter.Finalize()

	txn.AddProcedure("new_review",
		strconv.FormatInt(reqID, 10),
		strconv.Itoa(rating),
		username,
		title,
		strconv.FormatInt(timestamp, 10),
		strconv.FormatInt(reviewID, 10),
		text)
}

func (w *MovieWorkload) calculateHome(id int64) int {
	return int(id/int64(w.numPartitions)) % w.numRegions
}

func (w *MovieWorkload) calculatePart(id int64) int {
	return int(id % int64(w.numPartitions))
}

// randomIDForHome draws an id mastered in the requested home region.
func (w *MovieWorkload) randomIDForHome(home int, maxID int64) int64 {
	var candidates []int64
	for i := int64(0); i <= maxID; i++ {
		if w.calculateHome(i) == home {
			candidates = append(candidates, i)
		}
	}
	return w.pickCandidate(candidates)
}

// pickRelative draws an id whose home and partition match or differ from the
// reference id's as requested. offset shifts the placement computation of a
// candidate without changing the returned value.
func (w *MovieWorkload) pickRelative(id, maxID int64, sameHome, samePart bool, offset int64) int64 {
	h0 := w.calculateHome(id)
	p0 := w.calculatePart(id)
	var candidates []int64
	for i := int64(0); i <= maxID; i++ {
		if (w.calculateHome(i+offset) == h0) == sameHome && (w.calculatePart(i+offset) == p0) == samePart {
			candidates = append(candidates, i)
		}
	}
	return w.pickCandidate(candidates)
}

func (w *MovieWorkload) pickCandidate(candidates []int64) int64 {
	if len(candidates) == 0 {
		return 0
	}
	return candidates[generator.SkewedPick(w.rg, len(candidates), w.skew)]
}

const movieTextCharset = "0123456789" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz"

func (w *MovieWorkload) randomString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = movieTextCharset[w.rg.Intn(len(movieTextCharset))]
	}
	return string(b)
}
