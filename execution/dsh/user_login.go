package dsh

import (
	"bytes"

	"github.com/delftdata/Gaia/execution"
)

// UserLoginTxn reads a user's stored password and compares it against the
// supplied one. The outcome is reported through the result cell, not as a
// transaction failure.
type UserLoginTxn struct {
	execution.BaseTxn
	users execution.Table

	username *execution.FixedTextScalar
	password *execution.VarTextScalar

	readPassword *execution.VarTextScalar

	// 1 for success, 0 for failure.
	Result *execution.Int8Scalar
}

func NewUserLoginTxn(adapter execution.StorageAdapter, username, password string) *UserLoginTxn {
	return &UserLoginTxn{
		users:        execution.NewTable(UserSchema, adapter),
		username:     execution.NewFixedTextScalar(usernameLength, FormatUname(username)),
		password:     execution.NewVarTextScalar(passwordMax, password),
		readPassword: execution.NewVarTextScalar(passwordMax, ""),
		Result:       execution.NewInt8Scalar(0),
	}
}

func (t *UserLoginTxn) Read() bool {
	if res := t.users.Select([]execution.Scalar{t.username}, ColUserPassword); len(res) > 0 {
		t.readPassword = res[0].(*execution.VarTextScalar)
	} else {
		t.SetError("User does not exist")
		return false
	}
	return true
}

func (t *UserLoginTxn) Compute() {
	if bytes.Equal(t.readPassword.Value, t.password.Value) {
		t.Result.Value = 1
	} else {
		t.Result.Value = 0
	}
}

func (t *UserLoginTxn) Write() bool { return true }
