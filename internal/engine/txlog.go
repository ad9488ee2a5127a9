package engine

import "github.com/shopspring/decimal"

// TxRecord is the recorded amount and ownership of a past deposit or
// withdrawal. Amount is always the original operation amount — disputes are
// all-or-nothing. Immutable while present in the log.
type TxRecord struct {
	Client    uint16
	Amount    decimal.Decimal
	IsDeposit bool
}

// TransactionLog maps transaction ids to records. The id namespace is global
// across all clients and both operation kinds: a transaction id is consumed
// exactly once, regardless of who or what consumed it.
type TransactionLog struct {
	records map[uint32]TxRecord
}

func NewTransactionLog() *TransactionLog {
	return &TransactionLog{
		records: make(map[uint32]TxRecord),
	}
}

// Record inserts a record for tx. Returns false and leaves the log unchanged
// when tx is already present — duplicate transaction ids are dropped,
// protecting against replay.
func (tl *TransactionLog) Record(tx uint32, client uint16, amount decimal.Decimal, isDeposit bool) bool {
	if _, exists := tl.records[tx]; exists {
		return false
	}
	tl.records[tx] = TxRecord{
		Client:    client,
		Amount:    amount,
		IsDeposit: isDeposit,
	}
	return true
}

// Lookup returns the record for tx, if present.
func (tl *TransactionLog) Lookup(tx uint32) (TxRecord, bool) {
	rec, ok := tl.records[tx]
	return rec, ok
}

// Forget removes tx unconditionally. Forgetting an absent id is a no-op.
func (tl *TransactionLog) Forget(tx uint32) {
	delete(tl.records, tx)
}

// Len returns the number of records currently retained.
func (tl *TransactionLog) Len() int {
	return len(tl.records)
}
