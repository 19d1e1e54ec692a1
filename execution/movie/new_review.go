package movie

import (
	"github.com/delftdata/Gaia/execution"
)

// NewReviewTxn reads the reviewing user and the reviewed movie, bumps the
// user's review counter and inserts the review row.
type NewReviewTxn struct {
	execution.BaseTxn
	user   execution.Table
	movie  execution.Table
	review execution.Table

	username  *execution.FixedTextScalar
	title     *execution.FixedTextScalar
	rating    *execution.Int32Scalar
	timestamp *execution.Int64Scalar
	reqID     *execution.Int64Scalar
	text      *execution.FixedTextScalar
	reviewID  *execution.Int64Scalar

	readUserID  *execution.Int64Scalar
	readMovieID *execution.FixedTextScalar
	readReviews *execution.Int64Scalar

	newReviews *execution.Int64Scalar
}

func NewNewReviewTxn(adapter execution.StorageAdapter, reqID int64, rating int32,
	username, title string, timestamp, reviewID int64, text string) *NewReviewTxn {
	return &NewReviewTxn{
		user:        execution.NewTable(UserSchema, adapter),
		movie:       execution.NewTable(MovieSchema, adapter),
		review:      execution.NewTable(ReviewSchema, adapter),
		username:    execution.NewFixedTextScalar(usernameLength, username),
		title:       execution.NewFixedTextScalar(titleLength, title),
		rating:      execution.NewInt32Scalar(rating),
		timestamp:   execution.NewInt64Scalar(timestamp),
		reqID:       execution.NewInt64Scalar(reqID),
		text:        execution.NewFixedTextScalar(reviewTextLen, text),
		reviewID:    execution.NewInt64Scalar(reviewID),
		readUserID:  execution.NewInt64Scalar(0),
		readMovieID: execution.NewFixedTextScalar(movieIDLength, ""),
		readReviews: execution.NewInt64Scalar(0),
		newReviews:  execution.NewInt64Scalar(0),
	}
}

func (t *NewReviewTxn) Read() bool {
	ok := true
	if res := t.user.Select([]execution.Scalar{t.username}, ColUserID, ColUserReviews); len(res) > 0 {
		t.readUserID = res[0].(*execution.Int64Scalar)
		t.readReviews = res[1].(*execution.Int64Scalar)
	} else {
		t.SetError("User does not exist")
		ok = false
	}

	if res := t.movie.Select([]execution.Scalar{t.title}, ColMovieID); len(res) > 0 {
		t.readMovieID = res[0].(*execution.FixedTextScalar)
	} else {
		t.SetError("Movie does not exist")
		ok = false
	}

	return ok
}

func (t *NewReviewTxn) Compute() {
	t.newReviews.Value = t.readReviews.Value + 1
}

func (t *NewReviewTxn) Write() bool {
	ok := true
	if !t.review.Insert([]execution.Scalar{
		t.reviewID, t.reqID, t.text, t.rating, t.timestamp, t.readMovieID, t.readUserID,
	}) {
		t.SetError("Could not insert review")
		ok = false
	}
	if !t.user.Update([]execution.Scalar{t.username}, []int{ColUserReviews},
		[]execution.Scalar{t.newReviews}) {
		t.SetError("Could not update user reviews")
		ok = false
	}
	return ok
}
