package movie

import (
	"strconv"

	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/delftdata/Gaia/execution"
)

// UserName formats the on-disk username of a user id.
func UserName(id int) string {
	return AddLeadingZeros(12, strconv.Itoa(id)) + "_username"
}

// TitleOnDisk formats the stored, index-prefixed, space-padded title of the
// movie at the given zero-based pool index.
func TitleOnDisk(index int) string {
	title := AddLeadingZeros(12, strconv.Itoa(index+1)) + "_" + Movies[index]
	return AddTrailingSpaces(titleLength, title)
}

// LoadTables populates users and movies owned by the local partition. Review
// rows are only ever created by NewReviewTxn.
func LoadTables(adapter execution.StorageAdapter, numPartitions, localPartition int) {
	loadMovies(adapter, numPartitions, localPartition)
	loadUsers(adapter, numPartitions, localPartition)
}

func loadUsers(adapter execution.StorageAdapter, numPartitions, localPartition int) {
	log.Info("generating users", zap.Int("count", NumUsers/numPartitions), zap.Int("partition", localPartition))
	user := execution.NewTable(UserSchema, adapter)
	for i := 1; i <= NumUsers; i++ {
		if i%numPartitions != localPartition {
			continue
		}
		postfix := AddLeadingZeros(4, strconv.Itoa(i))
		user.Insert([]execution.Scalar{
			execution.NewFixedTextScalar(usernameLength, UserName(i)),
			execution.NewInt64Scalar(int64(i)),
			execution.NewFixedTextScalar(passwordLength, "password_"+postfix),
			execution.NewFixedTextScalar(lastNameLength, "last_name_"+postfix),
			execution.NewFixedTextScalar(firstNameLen, "first_name_"+postfix),
			execution.NewInt64Scalar(0),
		})
	}
}

func loadMovies(adapter execution.StorageAdapter, numPartitions, localPartition int) {
	log.Info("generating movies", zap.Int("count", len(Movies)/numPartitions), zap.Int("partition", localPartition))
	movie := execution.NewTable(MovieSchema, adapter)
	for i := range Movies {
		if (i+1)%numPartitions != localPartition {
			continue
		}
		movie.Insert([]execution.Scalar{
			execution.NewFixedTextScalar(titleLength, TitleOnDisk(i)),
			execution.NewFixedTextScalar(movieIDLength, AddLeadingZeros(4, strconv.Itoa(i+1))),
		})
	}
}
