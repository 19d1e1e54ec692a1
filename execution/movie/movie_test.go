package movie

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/delftdata/Gaia/common"
	"github.com/delftdata/Gaia/execution"
	"github.com/delftdata/Gaia/storage"
	"github.com/delftdata/Gaia/txnpb"
)

func TestPadding(t *testing.T) {
	require.Equal(t, "000000000042", AddLeadingZeros(12, "42"))
	require.Equal(t, "ab  ", AddTrailingSpaces(4, "ab"))
	require.Equal(t, "abcdef", AddTrailingSpaces(4, "abcdef"))
}

func TestUserAndTitleFormats(t *testing.T) {
	require.Equal(t, "000000000007_username", UserName(7))
	require.Len(t, UserName(7), usernameLength)

	title := TitleOnDisk(0)
	require.Len(t, title, titleLength)
	require.Equal(t, "000000000001_The Shawshank Redemption", title[:37])
}

func loadedStore(t *testing.T) *storage.MemStorage {
	t.Helper()
	store := storage.NewMemStorage()
	adapter := execution.NewLoaderStorageAdapter(store, NewMetadataInitializer(1, 1))
	LoadTables(adapter, 1, 0)
	return store
}

func TestNewReviewFlow(t *testing.T) {
	store := loadedStore(t)
	exec := NewExecution(common.NewMovieSharder(1, 0), store)

	txn := &txnpb.Transaction{}
	adapter := execution.NewKeyGenStorageAdapter(txn, NewMetadataInitializer(1, 1))
	body := NewNewReviewTxn(adapter, 55, 8, UserName(7), TitleOnDisk(2), 55, 55, "great")
	body.Read()
	body.Write()
	adapter.Finalize()
	txn.AddProcedure("new_review", "55", "8", UserName(7), TitleOnDisk(2), "55", "55", "great")

	exec.Execute(txn)
	require.Equal(t, txnpb.StatusCommitted, txn.Status)

	// The user's review counter was bumped.
	check := execution.NewLoaderStorageAdapter(store, nil)
	user := execution.NewTable(UserSchema, check)
	res := user.Select([]execution.Scalar{
		execution.NewFixedTextScalar(usernameLength, UserName(7)),
	}, ColUserReviews)
	require.Len(t, res, 1)
	require.Equal(t, int64(1), res[0].(*execution.Int64Scalar).Value)

	// The review row landed with the movie and user references resolved.
	review := execution.NewTable(ReviewSchema, check)
	row := review.Select([]execution.Scalar{execution.NewInt64Scalar(55)})
	require.NotNil(t, row)
	require.Equal(t, "0003", row[4].(*execution.FixedTextScalar).String())
	require.Equal(t, int64(7), row[5].(*execution.Int64Scalar).Value)
}

func TestNewReviewMissingUserAborts(t *testing.T) {
	store := loadedStore(t)
	exec := NewExecution(common.NewMovieSharder(1, 0), store)

	txn := &txnpb.Transaction{}
	adapter := execution.NewKeyGenStorageAdapter(txn, NewMetadataInitializer(1, 1))
	body := NewNewReviewTxn(adapter, 1, 5, UserName(5000), TitleOnDisk(2), 1, 1, "x")
	body.Read()
	body.Write()
	adapter.Finalize()
	txn.AddProcedure("new_review", "1", "5", UserName(5000), TitleOnDisk(2), "1", "1", "x")

	exec.Execute(txn)
	require.Equal(t, txnpb.StatusAborted, txn.Status)
	require.Contains(t, txn.AbortReason, "User does not exist")
}
