package smallbank

import (
	"github.com/delftdata/Gaia/execution"
)

// AmalgamateTxn folds the first customer's funds into the second customer's
// checking account and zeroes the first customer's balances.
//
// The write-back below reproduces the deployed behavior: the first
// customer's checking receives the scalar that was zeroed in Compute through
// the savings read slot, and vice versa. The variable flow suggests an
// intended swap that never shipped; tests pin the behavior as is.
type AmalgamateTxn struct {
	execution.BaseTxn
	accounts execution.Table
	savings  execution.Table
	checking execution.Table

	firstAccountName  *execution.FixedTextScalar
	secondAccountName *execution.FixedTextScalar
	firstCustomerID   *execution.Int32Scalar
	secondCustomerID  *execution.Int32Scalar

	readFirstCustomerID    *execution.Int32Scalar
	readSecondCustomerID   *execution.Int32Scalar
	checkingFirstCustomer  *execution.Int32Scalar
	savingsFirstCustomer   *execution.Int32Scalar
	checkingSecondCustomer *execution.Int32Scalar

	newCheckingSecondCustomer *execution.Int32Scalar
}

func NewAmalgamateTxn(adapter execution.StorageAdapter, firstAccountName, secondAccountName string,
	firstCustomerID, secondCustomerID int32) *AmalgamateTxn {
	return &AmalgamateTxn{
		accounts:                  execution.NewTable(AccountsSchema, adapter),
		savings:                   execution.NewTable(SavingsSchema, adapter),
		checking:                  execution.NewTable(CheckingSchema, adapter),
		firstAccountName:          accountNameScalar(firstAccountName),
		secondAccountName:         accountNameScalar(secondAccountName),
		firstCustomerID:           execution.NewInt32Scalar(firstCustomerID),
		secondCustomerID:          execution.NewInt32Scalar(secondCustomerID),
		readFirstCustomerID:       execution.NewInt32Scalar(0),
		readSecondCustomerID:      execution.NewInt32Scalar(0),
		checkingFirstCustomer:     execution.NewInt32Scalar(0),
		savingsFirstCustomer:      execution.NewInt32Scalar(0),
		checkingSecondCustomer:    execution.NewInt32Scalar(0),
		newCheckingSecondCustomer: execution.NewInt32Scalar(0),
	}
}

func (t *AmalgamateTxn) Read() bool {
	ok := true
	if res := t.accounts.Select([]execution.Scalar{t.firstAccountName}, ColAccountsID); len(res) > 0 {
		t.readFirstCustomerID = res[0].(*execution.Int32Scalar)
	} else {
		t.SetError("There is no account associated with this name")
		ok = false
	}
	if res := t.accounts.Select([]execution.Scalar{t.secondAccountName}, ColAccountsID); len(res) > 0 {
		t.readSecondCustomerID = res[0].(*execution.Int32Scalar)
	} else {
		t.SetError("There is no account associated with this name")
		ok = false
	}
	if res := t.checking.Select([]execution.Scalar{t.firstCustomerID}, ColCheckingBalance); len(res) > 0 {
		t.checkingFirstCustomer = res[0].(*execution.Int32Scalar)
	} else {
		t.SetError("There is no account checkings associated with this customer_id")
		ok = false
	}
	if res := t.savings.Select([]execution.Scalar{t.firstCustomerID}, ColSavingsBalance); len(res) > 0 {
		t.savingsFirstCustomer = res[0].(*execution.Int32Scalar)
	} else {
		t.SetError("There is no account savings associated with this customer_id")
		ok = false
	}
	// The second customer's contribution is read from savings into the
	// checking slot, as deployed.
	if res := t.savings.Select([]execution.Scalar{t.secondCustomerID}, ColSavingsBalance); len(res) > 0 {
		t.checkingSecondCustomer = res[0].(*execution.Int32Scalar)
	} else {
		t.SetError("There is no account savings associated with this customer_id")
		ok = false
	}
	return ok
}

func (t *AmalgamateTxn) Compute() {
	t.newCheckingSecondCustomer.Value = t.checkingFirstCustomer.Value +
		t.savingsFirstCustomer.Value +
		t.checkingSecondCustomer.Value
	t.savingsFirstCustomer.Value = 0
	t.checkingSecondCustomer.Value = 0
}

func (t *AmalgamateTxn) Write() bool {
	ok := true
	if !t.checking.Update([]execution.Scalar{t.firstCustomerID}, []int{ColCheckingBalance},
		[]execution.Scalar{t.savingsFirstCustomer}) {
		t.SetError("Cannot update Checking Ballance")
		ok = false
	}
	if !t.savings.Update([]execution.Scalar{t.firstCustomerID}, []int{ColSavingsBalance},
		[]execution.Scalar{t.checkingSecondCustomer}) {
		t.SetError("Cannot update Savings Ballance")
		ok = false
	}
	if !t.checking.Update([]execution.Scalar{t.secondCustomerID}, []int{ColCheckingBalance},
		[]execution.Scalar{t.newCheckingSecondCustomer}) {
		t.SetError("Cannot update Checking Ballance")
		ok = false
	}
	return ok
}
