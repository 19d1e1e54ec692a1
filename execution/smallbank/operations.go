package smallbank

import (
	"github.com/delftdata/Gaia/execution"
)

func accountNameScalar(name string) *execution.FixedTextScalar {
	return execution.NewFixedTextScalar(AccountNameLength, name)
}

// GetCustomerIdByNameTxn resolves a client name to a customer id. It is the
// first phase of every other SmallBank transaction.
type GetCustomerIdByNameTxn struct {
	execution.BaseTxn
	accounts execution.Table

	accountName *execution.FixedTextScalar

	CustomerID *execution.Int32Scalar
}

func NewGetCustomerIdByNameTxn(adapter execution.StorageAdapter, accountName string) *GetCustomerIdByNameTxn {
	return &GetCustomerIdByNameTxn{
		accounts:    execution.NewTable(AccountsSchema, adapter),
		accountName: accountNameScalar(accountName),
		CustomerID:  execution.NewInt32Scalar(0),
	}
}

func (t *GetCustomerIdByNameTxn) Read() bool {
	ok := true
	if res := t.accounts.Select([]execution.Scalar{t.accountName}, ColAccountsID); len(res) > 0 {
		t.CustomerID = res[0].(*execution.Int32Scalar)
	} else {
		t.SetError("There is no account associated with this name")
		ok = false
	}
	return ok
}

func (t *GetCustomerIdByNameTxn) Compute() {}

func (t *GetCustomerIdByNameTxn) Write() bool { return true }

// BalanceTxn returns the combined checking and savings balance of a
// customer.
type BalanceTxn struct {
	execution.BaseTxn
	accounts execution.Table
	checking execution.Table
	savings  execution.Table

	accountName *execution.FixedTextScalar
	customerID  *execution.Int32Scalar

	readCustomerID  *execution.Int32Scalar
	checkingBalance *execution.Int32Scalar
	savingsBalance  *execution.Int32Scalar

	TotalBalance *execution.Int32Scalar
}

func NewBalanceTxn(adapter execution.StorageAdapter, accountName string, customerID int32) *BalanceTxn {
	return &BalanceTxn{
		accounts:        execution.NewTable(AccountsSchema, adapter),
		checking:        execution.NewTable(CheckingSchema, adapter),
		savings:         execution.NewTable(SavingsSchema, adapter),
		accountName:     accountNameScalar(accountName),
		customerID:      execution.NewInt32Scalar(customerID),
		readCustomerID:  execution.NewInt32Scalar(0),
		checkingBalance: execution.NewInt32Scalar(0),
		savingsBalance:  execution.NewInt32Scalar(0),
		TotalBalance:    execution.NewInt32Scalar(0),
	}
}

func (t *BalanceTxn) Read() bool {
	ok := true
	if res := t.accounts.Select([]execution.Scalar{t.accountName}, ColAccountsID); len(res) > 0 {
		t.readCustomerID = res[0].(*execution.Int32Scalar)
	} else {
		t.SetError("There is no account associated with this name")
		ok = false
	}
	if res := t.checking.Select([]execution.Scalar{t.customerID}, ColCheckingBalance); len(res) > 0 {
		t.checkingBalance = res[0].(*execution.Int32Scalar)
	} else {
		t.SetError("There is no account checkings associated with this customer_id")
		ok = false
	}
	if res := t.savings.Select([]execution.Scalar{t.customerID}, ColSavingsBalance); len(res) > 0 {
		t.savingsBalance = res[0].(*execution.Int32Scalar)
	} else {
		t.SetError("There is no account savings associated with this customer_id")
		ok = false
	}
	return ok
}

func (t *BalanceTxn) Compute() {
	t.TotalBalance.Value = t.checkingBalance.Value + t.savingsBalance.Value
}

func (t *BalanceTxn) Write() bool { return true }

// DepositCheckingTxn adds an amount to the checking balance.
type DepositCheckingTxn struct {
	execution.BaseTxn
	accounts execution.Table
	checking execution.Table

	accountName *execution.FixedTextScalar
	customerID  *execution.Int32Scalar
	amount      *execution.Int32Scalar

	readCustomerID *execution.Int32Scalar
	balance        *execution.Int32Scalar

	newCheckingBalance *execution.Int32Scalar
}

func NewDepositCheckingTxn(adapter execution.StorageAdapter, accountName string, customerID, amount int32) *DepositCheckingTxn {
	return &DepositCheckingTxn{
		accounts:           execution.NewTable(AccountsSchema, adapter),
		checking:           execution.NewTable(CheckingSchema, adapter),
		accountName:        accountNameScalar(accountName),
		customerID:         execution.NewInt32Scalar(customerID),
		amount:             execution.NewInt32Scalar(amount),
		readCustomerID:     execution.NewInt32Scalar(0),
		balance:            execution.NewInt32Scalar(0),
		newCheckingBalance: execution.NewInt32Scalar(0),
	}
}

func (t *DepositCheckingTxn) Read() bool {
	ok := true
	if res := t.accounts.Select([]execution.Scalar{t.accountName}, ColAccountsID); len(res) > 0 {
		t.readCustomerID = res[0].(*execution.Int32Scalar)
	} else {
		t.SetError("There is no account associated with this name")
		ok = false
	}
	if res := t.checking.Select([]execution.Scalar{t.customerID}, ColCheckingBalance); len(res) > 0 {
		t.balance = res[0].(*execution.Int32Scalar)
	} else {
		t.SetError("There is no account associated with this customer_id")
		ok = false
	}
	return ok
}

func (t *DepositCheckingTxn) Compute() {
	t.newCheckingBalance.Value = t.balance.Value + t.amount.Value
}

func (t *DepositCheckingTxn) Write() bool {
	ok := true
	if !t.checking.Update([]execution.Scalar{t.customerID}, []int{ColCheckingBalance},
		[]execution.Scalar{t.newCheckingBalance}) {
		t.SetError("Cannot update Checking Ballance")
		ok = false
	}
	return ok
}

// TransactionSavingTxn adds an amount to the savings balance.
type TransactionSavingTxn struct {
	execution.BaseTxn
	accounts execution.Table
	savings  execution.Table

	accountName *execution.FixedTextScalar
	customerID  *execution.Int32Scalar
	amount      *execution.Int32Scalar

	readCustomerID *execution.Int32Scalar
	balance        *execution.Int32Scalar

	newSavingsBalance *execution.Int32Scalar
}

func NewTransactionSavingTxn(adapter execution.StorageAdapter, accountName string, customerID, amount int32) *TransactionSavingTxn {
	return &TransactionSavingTxn{
		accounts:          execution.NewTable(AccountsSchema, adapter),
		savings:           execution.NewTable(SavingsSchema, adapter),
		accountName:       accountNameScalar(accountName),
		customerID:        execution.NewInt32Scalar(customerID),
		amount:            execution.NewInt32Scalar(amount),
		readCustomerID:    execution.NewInt32Scalar(0),
		balance:           execution.NewInt32Scalar(0),
		newSavingsBalance: execution.NewInt32Scalar(0),
	}
}

func (t *TransactionSavingTxn) Read() bool {
	ok := true
	if res := t.accounts.Select([]execution.Scalar{t.accountName}, ColAccountsID); len(res) > 0 {
		t.readCustomerID = res[0].(*execution.Int32Scalar)
	} else {
		t.SetError("There is no account associated with this name")
		ok = false
	}
	if res := t.savings.Select([]execution.Scalar{t.customerID}, ColSavingsBalance); len(res) > 0 {
		t.balance = res[0].(*execution.Int32Scalar)
	} else {
		t.SetError("There is no account associated with this customer_id")
		ok = false
	}
	return ok
}

func (t *TransactionSavingTxn) Compute() {
	t.newSavingsBalance.Value = t.balance.Value + t.amount.Value
}

func (t *TransactionSavingTxn) Write() bool {
	ok := true
	if !t.savings.Update([]execution.Scalar{t.customerID}, []int{ColSavingsBalance},
		[]execution.Scalar{t.newSavingsBalance}) {
		t.SetError("Cannot update Savings ballance")
		ok = false
	}
	return ok
}

// WritecheckTxn deducts a check from the checking balance, charging a
// one-unit penalty when the combined balance cannot cover it.
type WritecheckTxn struct {
	execution.BaseTxn
	accounts execution.Table
	savings  execution.Table
	checking execution.Table

	accountName *execution.FixedTextScalar
	customerID  *execution.Int32Scalar
	value       *execution.Int32Scalar

	readCustomerID  *execution.Int32Scalar
	checkingBalance *execution.Int32Scalar
	savingsBalance  *execution.Int32Scalar

	updatedBalance *execution.Int32Scalar
}

func NewWritecheckTxn(adapter execution.StorageAdapter, accountName string, customerID, value int32) *WritecheckTxn {
	return &WritecheckTxn{
		accounts:        execution.NewTable(AccountsSchema, adapter),
		savings:         execution.NewTable(SavingsSchema, adapter),
		checking:        execution.NewTable(CheckingSchema, adapter),
		accountName:     accountNameScalar(accountName),
		customerID:      execution.NewInt32Scalar(customerID),
		value:           execution.NewInt32Scalar(value),
		readCustomerID:  execution.NewInt32Scalar(0),
		checkingBalance: execution.NewInt32Scalar(0),
		savingsBalance:  execution.NewInt32Scalar(0),
		updatedBalance:  execution.NewInt32Scalar(0),
	}
}

func (t *WritecheckTxn) Read() bool {
	ok := true
	if res := t.accounts.Select([]execution.Scalar{t.accountName}, ColAccountsID); len(res) > 0 {
		t.readCustomerID = res[0].(*execution.Int32Scalar)
	} else {
		t.SetError("There is no account associated with this name")
		ok = false
	}
	if res := t.checking.Select([]execution.Scalar{t.customerID}, ColCheckingBalance); len(res) > 0 {
		t.checkingBalance = res[0].(*execution.Int32Scalar)
	} else {
		t.SetError("There is no account checkings associated with this customer_id")
		ok = false
	}
	if res := t.savings.Select([]execution.Scalar{t.customerID}, ColSavingsBalance); len(res) > 0 {
		t.savingsBalance = res[0].(*execution.Int32Scalar)
	} else {
		t.SetError("There is no account savings associated with this customer_id")
		ok = false
	}
	return ok
}

func (t *WritecheckTxn) Compute() {}

func (t *WritecheckTxn) Write() bool {
	ok := true
	if t.checkingBalance.Value+t.savingsBalance.Value < t.value.Value {
		t.updatedBalance.Value = t.checkingBalance.Value - (t.value.Value + 1)
	} else {
		t.updatedBalance.Value = t.checkingBalance.Value - t.value.Value
	}
	if !t.checking.Update([]execution.Scalar{t.customerID}, []int{ColCheckingBalance},
		[]execution.Scalar{t.updatedBalance}) {
		t.SetError("Cannot update Checking Ballance")
		ok = false
	}
	return ok
}
