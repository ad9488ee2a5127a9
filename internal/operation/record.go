package operation

import "github.com/shopspring/decimal"

// Record is a single operation from the input stream.
// Amount is present for deposit/withdrawal and absent for
// dispute/resolve/chargeback, hence NullDecimal.
type Record struct {
	Kind   Kind
	Client uint16
	Tx     uint32
	Amount decimal.NullDecimal
}
