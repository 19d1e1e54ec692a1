package pps

import (
	"math/rand"

	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/execution"
)

// LoadTablesParams sizes one PPS loader run.
type LoadTablesParams struct {
	NumProducts  int
	NumParts     int
	NumSuppliers int

	NumRegions     int
	NumPartitions  int
	LocalPartition int

	// MaxRegions and MaxPartitions bound the spread of the part picks in
	// the mixed categories.
	MaxRegions    int
	MaxPartitions int

	Seed int64
}

// LoadTables populates the PPS tables with the rows owned by the local
// partition. The seed and iteration order fully determine the content.
func LoadTables(adapter execution.StorageAdapter, p LoadTablesParams) {
	loader := newPartitionedLoader(adapter, p)
	loader.load()
}

// We define as class the combination of a region and a partition, so there
// are num_partitions * num_regions classes, each holding
// num_parts / (num_partitions * num_regions) parts. For example, with 3
// regions and 4 partitions, class (region 0, partition 2) holds the parts
// [3, 15, 27, ...]:
//
//	partition / region |  0  |  1  |  2  |  0  |  1  |  2  |  0  |  1  |  2
//	-------------------|-----|-----|-----|-----|-----|-----|-----|-----|-----
//	          0        |  1  |  5  |  9  | 13  | 17  | 21  | 25  | 29  | 33
//	          1        |  2  |  6  | 10  | 14  | 18  | 22  | 26  | 30  | 34
//	          2        |  3  |  7  | 11  | 15  | 19  | 23  | 27  | 31  | 35
//	          3        |  4  |  8  | 12  | 16  | 20  | 24  | 28  | 32  | 36
//	---------------------------------- part ids ---------------------------
type partitionedLoader struct {
	LoadTablesParams

	rg     *rand.Rand
	strGen *common.RandomStringGenerator

	adapter execution.StorageAdapter

	numPartsPerClass int
	remoteRegions    [][]int
	remotePartitions []int
}

func newPartitionedLoader(adapter execution.StorageAdapter, p LoadTablesParams) *partitionedLoader {
	l := &partitionedLoader{
		LoadTablesParams: p,
		rg:               rand.New(rand.NewSource(p.Seed)),
		strGen:           common.NewRandomStringGenerator(p.Seed),
		adapter:          adapter,
		numPartsPerClass: p.NumParts / (p.NumPartitions * p.NumRegions),
	}
	l.remoteRegions = make([][]int, p.NumRegions)
	for i := 0; i < p.NumRegions; i++ {
		for j := 0; j < p.NumRegions; j++ {
			if i != j {
				l.remoteRegions[i] = append(l.remoteRegions[i], j)
			}
		}
	}
	for i := 0; i < p.NumPartitions; i++ {
		if i != p.LocalPartition {
			l.remotePartitions = append(l.remotePartitions, i)
		}
	}
	return l
}

func (l *partitionedLoader) computePartition(id int) int { return (id - 1) % l.NumPartitions }

func (l *partitionedLoader) computeRegion(id int) int {
	return (id - 1) / l.NumPartitions % l.NumRegions
}

func (l *partitionedLoader) chooseRandomPart(chosenRegion, chosenPartition int) int {
	normalizedPartID := l.NumPartitions*chosenRegion + chosenPartition + 1
	partIndexWithinClass := l.rg.Intn(l.numPartsPerClass) + 1
	return (partIndexWithinClass-1)*l.NumPartitions*l.NumRegions + normalizedPartID
}

func (l *partitionedLoader) load() {
	log.Info("generating products",
		zap.Int("count", l.NumProducts/l.NumPartitions), zap.Int("partition", l.LocalPartition))
	productTable := execution.NewTable(ProductSchema, l.adapter)
	for productID := 1; productID <= l.NumProducts; productID++ {
		if l.computePartition(productID) == l.LocalPartition {
			productTable.Insert([]execution.Scalar{
				execution.NewInt32Scalar(int32(productID)),
				execution.NewFixedTextScalar(productNameLength, l.strGen.Next(productNameLength)),
			})
		}
	}

	log.Info("generating parts",
		zap.Int("count", l.NumParts/l.NumPartitions), zap.Int("partition", l.LocalPartition))
	partTable := execution.NewTable(PartSchema, l.adapter)
	for partID := 1; partID <= l.NumParts; partID++ {
		if l.computePartition(partID) == l.LocalPartition {
			partTable.Insert([]execution.Scalar{
				execution.NewInt32Scalar(int32(partID)),
				execution.NewInt64Scalar(int64(1000 + partID%100)),
				execution.NewFixedTextScalar(partNameLength, l.strGen.Next(partNameLength)),
			})
		}
	}

	log.Info("generating suppliers",
		zap.Int("count", l.NumSuppliers/l.NumPartitions), zap.Int("partition", l.LocalPartition))
	supplierTable := execution.NewTable(SupplierSchema, l.adapter)
	for supplierID := 1; supplierID <= l.NumSuppliers; supplierID++ {
		if l.computePartition(supplierID) == l.LocalPartition {
			supplierTable.Insert([]execution.Scalar{
				execution.NewInt32Scalar(int32(supplierID)),
				execution.NewFixedTextScalar(supplierNameLength, l.strGen.Next(supplierNameLength)),
			})
		}
	}

	l.loadProductParts()
	l.loadSupplierParts()
}

// loadProductParts assigns every local product to a placement category and
// picks its parts from the matching (region, partition) classes. Products
// are grouped in blocks of num_partitions*num_regions ids; the category of a
// block cycles through: same region + same partition, same region +
// different partitions, different regions + same partition, different
// regions + different partitions.
func (l *partitionedLoader) loadProductParts() {
	if l.numPartsPerClass < 4 {
		log.Fatal("not enough parts per class", zap.Int("parts_per_class", l.numPartsPerClass))
	}
	productPartsTable := execution.NewTable(ProductPartsSchema, l.adapter)
	countProductParts := 0
	for productID := 1; productID <= l.NumProducts; productID++ {
		if l.computePartition(productID) != l.LocalPartition {
			continue
		}
		productRegion := l.computeRegion(productID)
		insertSlot := func(slot, partID int) {
			productPartsTable.Insert([]execution.Scalar{
				execution.NewInt32Scalar(int32(productID)),
				execution.NewInt32Scalar(int32(slot)),
				execution.NewInt32Scalar(int32(partID)),
			})
		}
		switch (countProductParts / l.NumRegions) % 4 {
		case 0:
			// Same region, same partition.
			for i := 1; i <= PartsPerProduct; i++ {
				insertSlot(i, l.chooseRandomPart(productRegion, l.LocalPartition))
			}
		case 1:
			// Same region, different partitions.
			l.shuffleRemotePartitions()
			for i := 1; i <= PartsPerProduct; i++ {
				insertSlot(i, l.chooseRandomPart(productRegion, l.pickPartition()))
			}
		case 2:
			// Different regions, same partition.
			l.shuffleRemoteRegions(productRegion)
			for i := 1; i <= PartsPerProduct; i++ {
				insertSlot(i, l.chooseRandomPart(l.pickRegion(productRegion), l.LocalPartition))
			}
		case 3:
			// Different regions, different partitions.
			l.shuffleRemotePartitions()
			l.shuffleRemoteRegions(productRegion)
			for i := 1; i <= PartsPerProduct; i++ {
				insertSlot(i, l.chooseRandomPart(l.pickRegion(productRegion), l.pickPartition()))
			}
		}
		countProductParts++
	}
}

func (l *partitionedLoader) shuffleRemotePartitions() {
	l.rg.Shuffle(len(l.remotePartitions), func(i, j int) {
		l.remotePartitions[i], l.remotePartitions[j] = l.remotePartitions[j], l.remotePartitions[i]
	})
}

func (l *partitionedLoader) shuffleRemoteRegions(region int) {
	rr := l.remoteRegions[region]
	l.rg.Shuffle(len(rr), func(i, j int) { rr[i], rr[j] = rr[j], rr[i] })
}

// pickPartition selects one of MaxPartitions partitions, the last index
// standing for the local partition.
func (l *partitionedLoader) pickPartition() int {
	idx := l.rg.Intn(l.MaxPartitions)
	if idx == l.MaxPartitions-1 {
		return l.LocalPartition
	}
	return l.remotePartitions[idx]
}

// pickRegion selects one of MaxRegions regions, the last index standing for
// the product's own region.
func (l *partitionedLoader) pickRegion(productRegion int) int {
	idx := l.rg.Intn(l.MaxRegions)
	if idx == l.MaxRegions-1 {
		return productRegion
	}
	return l.remoteRegions[productRegion][idx]
}

func (l *partitionedLoader) loadSupplierParts() {
	supplierPartsTable := execution.NewTable(SupplierPartsSchema, l.adapter)
	partIDs := make([]int, l.NumParts)
	for i := range partIDs {
		partIDs[i] = i + 1
	}
	for supplierID := 1; supplierID <= l.NumSuppliers; supplierID++ {
		if l.computePartition(supplierID) != l.LocalPartition {
			continue
		}
		l.rg.Shuffle(len(partIDs), func(i, j int) { partIDs[i], partIDs[j] = partIDs[j], partIDs[i] })
		for i := 1; i <= PartsPerSupplier; i++ {
			supplierPartsTable.Insert([]execution.Scalar{
				execution.NewInt32Scalar(int32(supplierID)),
				execution.NewInt32Scalar(int32(i)),
				execution.NewInt32Scalar(int32(partIDs[i-1])),
			})
		}
	}
}
