package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvariantValidator checks balance invariants across the three state
// containers. Violations indicate bugs in the transition rules, never
// bad input.
type InvariantValidator struct {
	ledger   *Ledger
	txlog    *TransactionLog
	disputes *DisputeSet
}

func NewInvariantValidator(ledger *Ledger, txlog *TransactionLog, disputes *DisputeSet) *InvariantValidator {
	return &InvariantValidator{
		ledger:   ledger,
		txlog:    txlog,
		disputes: disputes,
	}
}

// ValidateHeldNonNegative checks held >= 0 for a single account.
func (v *InvariantValidator) ValidateHeldNonNegative(client uint16) error {
	acct := v.ledger.Get(client)
	if acct == nil {
		return nil
	}
	if acct.Held.Sign() < 0 {
		return fmt.Errorf("client %d has negative held balance: %s", client, acct.Held)
	}
	return nil
}

// ValidateHeldMatchesDisputes verifies that every account's held balance
// equals the sum of amounts of that client's currently open disputes.
func (v *InvariantValidator) ValidateHeldMatchesDisputes() error {
	heldByClient := make(map[uint16]decimal.Decimal)

	for _, tx := range v.disputes.Members() {
		rec, ok := v.txlog.Lookup(tx)
		if !ok {
			return fmt.Errorf("disputed tx %d is missing from the transaction log", tx)
		}
		heldByClient[rec.Client] = heldByClient[rec.Client].Add(rec.Amount)
	}

	for _, client := range v.ledger.ClientIDs() {
		acct := v.ledger.Get(client)
		want := heldByClient[client]
		if !acct.Held.Equal(want) {
			return fmt.Errorf("client %d held balance %s does not match open disputes %s",
				client, acct.Held, want)
		}
	}

	return nil
}
