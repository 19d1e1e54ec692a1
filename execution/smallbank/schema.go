// Package smallbank implements the SmallBank benchmark family. Every
// user-facing transaction runs a name-to-id lookup first, so the account
// table is keyed by a fixed 24-byte client name while checking and savings
// are keyed by customer id.
package smallbank

import (
	"github.com/delftdata/Gaia/execution"
)

// AccountNameLength is the fixed width of client names.
const AccountNameLength = 24

var AccountsSchema = &execution.Schema{
	Name: "accounts",
	ID:   0,
	Columns: []execution.Column{
		{Name: "name", Type: execution.FixedTextType, Size: AccountNameLength},
		{Name: "id", Type: execution.Int32Type},
	},
	PKCols: 1,
}

var CheckingSchema = &execution.Schema{
	Name: "checking",
	ID:   1,
	Columns: []execution.Column{
		{Name: "id", Type: execution.Int32Type},
		{Name: "balance", Type: execution.Int32Type},
	},
	PKCols: 1,
}

var SavingsSchema = &execution.Schema{
	Name: "savings",
	ID:   2,
	Columns: []execution.Column{
		{Name: "id", Type: execution.Int32Type},
		{Name: "balance", Type: execution.Int32Type},
	},
	PKCols: 1,
}

// Value-column indices.
const (
	ColAccountsID = 0

	ColCheckingBalance = 0

	ColSavingsBalance = 0
)
