package movie

import (
	"github.com/delftdata/Gaia/execution"
)

var UserSchema = &execution.Schema{
	Name: "user",
	ID:   0,
	Columns: []execution.Column{
		{Name: "username", Type: execution.FixedTextType, Size: usernameLength},
		{Name: "user_id", Type: execution.Int64Type},
		{Name: "password", Type: execution.FixedTextType, Size: passwordLength},
		{Name: "last_name", Type: execution.FixedTextType, Size: lastNameLength},
		{Name: "first_name", Type: execution.FixedTextType, Size: firstNameLen},
		{Name: "reviews", Type: execution.Int64Type},
	},
	PKCols: 1,
}

var MovieSchema = &execution.Schema{
	Name: "movie",
	ID:   1,
	Columns: []execution.Column{
		{Name: "title", Type: execution.FixedTextType, Size: titleLength},
		{Name: "movie_id", Type: execution.FixedTextType, Size: movieIDLength},
	},
	PKCols: 1,
}

var ReviewSchema = &execution.Schema{
	Name: "review",
	ID:   2,
	Columns: []execution.Column{
		{Name: "review_id", Type: execution.Int64Type},
		{Name: "req_id", Type: execution.Int64Type},
		{Name: "text", Type: execution.FixedTextType, Size: reviewTextLen},
		{Name: "rating", Type: execution.Int32Type},
		{Name: "timestamp", Type: execution.Int64Type},
		{Name: "movie_id", Type: execution.FixedTextType, Size: movieIDLength},
		{Name: "user_id", Type: execution.Int64Type},
	},
	PKCols: 1,
}

// Value-column indices.
const (
	ColUserID       = 0
	ColUserPassword = 1
	ColUserLastName = 2
	ColUserFirst    = 3
	ColUserReviews  = 4

	ColMovieID = 0
)
