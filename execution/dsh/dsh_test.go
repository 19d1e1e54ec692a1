package dsh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/execution"
	"github.com/delftdata/Gaia/storage"
	"github.com/delftdata/Gaia/txnpb"
)

func TestFormatDate(t *testing.T) {
	require.Equal(t, "01-06-2020", FormatDate(1, 6, 2020))
	require.Equal(t, "31-12-2019", FormatDate(31, 12, 2019))
}

func TestFormatUname(t *testing.T) {
	require.Equal(t, "01_________________7", FormatUname("7"))
	require.Equal(t, "03_______________123", FormatUname("123"))
	require.Len(t, FormatUname("7"), usernameLength)
}

func TestDateInterp(t *testing.T) {
	dates := DateInterp("01-06-2020", "04-06-2020")
	require.Len(t, dates, 3)
	require.Equal(t, "01-06-2020", dates[0].String())
	require.Equal(t, "02-06-2020", dates[1].String())
	require.Equal(t, "03-06-2020", dates[2].String())

	// Month rollover on the non-leap calendar.
	feb := DateInterp("27-02-2021", "02-03-2021")
	require.Len(t, feb, 3)
	require.Equal(t, "28-02-2021", feb[1].String())
	require.Equal(t, "01-03-2021", feb[2].String())

	// Year rollover.
	dec := DateInterp("31-12-2020", "01-01-2021")
	require.Len(t, dec, 1)

	// Empty and inverted ranges produce nothing.
	require.Empty(t, DateInterp("05-06-2020", "05-06-2020"))
	require.Empty(t, DateInterp("06-06-2020", "05-06-2020"))
}

func loadedStore(t *testing.T) *storage.MemStorage {
	t.Helper()
	store := storage.NewMemStorage()
	adapter := execution.NewLoaderStorageAdapter(store, NewMetadataInitializer(1, 1))
	LoadTables(adapter, LoadTablesParams{
		NumPartitions:  1,
		LocalPartition: 0,
		NumRegions:     1,
		NumUsers:       20,
		NumHotels:      12,
		MaxCoord:       100,
		Seed:           7,
	})
	return store
}

func setHotelCapacity(t *testing.T, store *storage.MemStorage, hotelID, capacity int32) {
	t.Helper()
	adapter := execution.NewLoaderStorageAdapter(store, nil)
	require.True(t, execution.NewTable(HotelSchema, adapter).Update(
		[]execution.Scalar{execution.NewInt32Scalar(hotelID)},
		[]int{ColHotelCapacity}, []execution.Scalar{execution.NewInt32Scalar(capacity)}))
}

func setReservationCount(t *testing.T, store *storage.MemStorage, hotelID int32, date string, count int32) {
	t.Helper()
	adapter := execution.NewLoaderStorageAdapter(store, NewMetadataInitializer(1, 1))
	require.True(t, execution.NewTable(ReservationCountSchema, adapter).Insert([]execution.Scalar{
		execution.NewInt32Scalar(hotelID),
		execution.NewFixedTextScalar(dateLength, date),
		execution.NewInt32Scalar(count),
	}))
}

func keyGenReservation(user, in, out string, hotelID, rooms int32) *txnpb.Transaction {
	txn := &txnpb.Transaction{}
	adapter := execution.NewKeyGenStorageAdapter(txn, NewMetadataInitializer(1, 1))
	body := NewReservationTxn(adapter, user, user, in, out, hotelID, user, rooms)
	body.Read()
	body.Write()
	adapter.Finalize()
	txn.AddProcedure("reservation", FormatUname(user), user, in, out,
		execution.NewInt32Scalar(hotelID).String(), user,
		execution.NewInt32Scalar(rooms).String())
	return txn
}

func TestUserLogin(t *testing.T) {
	store := loadedStore(t)
	exec := NewExecution(common.NewDSHSharder(1, 0), store)

	txn := &txnpb.Transaction{}
	adapter := execution.NewKeyGenStorageAdapter(txn, NewMetadataInitializer(1, 1))
	body := NewUserLoginTxn(adapter, "3", "3")
	body.Read()
	adapter.Finalize()
	txn.AddProcedure("user login", FormatUname("3"), "3")

	exec.Execute(txn)
	require.Equal(t, txnpb.StatusCommitted, txn.Status)

	// The stored password equals the user id, so the comparison succeeds.
	check := NewUserLoginTxn(execution.NewTxnStorageAdapter(txn, store), "3", "3")
	require.True(t, execution.Execute(check))
	require.Equal(t, int8(1), check.Result.Value)

	// A wrong password still commits; the result cell reports the failure.
	wrong := NewUserLoginTxn(execution.NewTxnStorageAdapter(txn, store), "3", "nope")
	require.True(t, execution.Execute(wrong))
	require.Equal(t, int8(0), wrong.Result.Value)
}

func TestReservationCapacityAbort(t *testing.T) {
	store := loadedStore(t)
	setHotelCapacity(t, store, 4, 2)
	setReservationCount(t, store, 4, "01-06-2020", 1)

	txn := keyGenReservation("3", "01-06-2020", "02-06-2020", 4, 2)
	NewExecution(common.NewDSHSharder(1, 0), store).Execute(txn)

	require.Equal(t, txnpb.StatusAborted, txn.Status)
	require.Contains(t, txn.AbortReason, "Too many reservations on 01-06-2020")
}

func TestReservationCommitsAndCounts(t *testing.T) {
	store := loadedStore(t)
	setHotelCapacity(t, store, 4, 10)
	exec := NewExecution(common.NewDSHSharder(1, 0), store)

	txn := keyGenReservation("3", "01-06-2020", "03-06-2020", 4, 2)
	exec.Execute(txn)
	require.Equal(t, txnpb.StatusCommitted, txn.Status)

	adapter := execution.NewLoaderStorageAdapter(store, nil)
	counts := execution.NewTable(ReservationCountSchema, adapter)
	for _, date := range []string{"01-06-2020", "02-06-2020"} {
		res := counts.Select([]execution.Scalar{
			execution.NewInt32Scalar(4),
			execution.NewFixedTextScalar(dateLength, date),
		}, ColReservationCountCount)
		require.Len(t, res, 1, "date %s", date)
		require.Equal(t, int32(8), res[0].(*execution.Int32Scalar).Value)
	}

	// A second booking decrements the now-existing counts.
	txn2 := keyGenReservation("5", "01-06-2020", "02-06-2020", 4, 3)
	exec.Execute(txn2)
	require.Equal(t, txnpb.StatusCommitted, txn2.Status)
	res := counts.Select([]execution.Scalar{
		execution.NewInt32Scalar(4),
		execution.NewFixedTextScalar(dateLength, "01-06-2020"),
	}, ColReservationCountCount)
	require.Equal(t, int32(5), res[0].(*execution.Int32Scalar).Value)
}

func TestSearchKeyGenSupersetAndExecution(t *testing.T) {
	store := loadedStore(t)
	hotelIDs := []int32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

	txn := &txnpb.Transaction{}
	adapter := execution.NewKeyGenStorageAdapter(txn, NewMetadataInitializer(1, 1))
	body := NewSearchTxn(adapter, "01-06-2020", "03-06-2020", 10, 10, hotelIDs)
	body.Read()
	adapter.Finalize()
	txn.AddProcedure("search", "01-06-2020", "03-06-2020", "10", "10",
		"0", "1", "2", "3", "4", "5", "6", "7", "8", "9")

	// Hotel rows plus one count row per hotel and night.
	require.Len(t, txn.Keys, len(hotelIDs)+len(hotelIDs)*2)

	NewExecution(common.NewDSHSharder(1, 0), store).Execute(txn)
	require.Equal(t, txnpb.StatusCommitted, txn.Status)

	// With no bookings every hotel is available, so the nearest one wins.
	check := NewSearchTxn(execution.NewTxnStorageAdapter(txn, store), "01-06-2020", "03-06-2020", 10, 10, hotelIDs)
	require.True(t, execution.Execute(check))
	require.NotEqual(t, int32(-1), check.NearestAvailable.Value)
}

func TestRecommendPicksBestRating(t *testing.T) {
	store := loadedStore(t)
	adapter := execution.NewLoaderStorageAdapter(store, nil)
	hotels := execution.NewTable(HotelSchema, adapter)
	require.True(t, hotels.Update([]execution.Scalar{execution.NewInt32Scalar(6)},
		[]int{ColHotelRating}, []execution.Scalar{execution.NewFloat64Scalar(9.5)}))

	hotelIDs := []int32{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	txn := &txnpb.Transaction{}
	keyGen := execution.NewKeyGenStorageAdapter(txn, NewMetadataInitializer(1, 1))
	body := NewRecommendTxn(keyGen, RecommendRating, 0, 0, hotelIDs)
	body.Read()
	keyGen.Finalize()

	check := NewRecommendTxn(execution.NewTxnStorageAdapter(txn, store), RecommendRating, 0, 0, hotelIDs)
	require.True(t, execution.Execute(check))
	require.Equal(t, int32(6), check.ChosenHotelID.Value)
}
