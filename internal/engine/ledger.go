package engine

import "github.com/shopspring/decimal"

// Account holds one client's balance triple.
// Available may go negative: a dispute subtracts from it unconditionally.
type Account struct {
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// Total returns available + held. Derived, never stored.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Ledger maintains in-memory accounts keyed by client id.
// Accounts are created lazily on first reference and never deleted.
type Ledger struct {
	accounts map[uint16]*Account
}

func NewLedger() *Ledger {
	return &Ledger{
		accounts: make(map[uint16]*Account),
	}
}

// GetOrCreate returns the account for client, inserting a zeroed account
// if absent.
func (l *Ledger) GetOrCreate(client uint16) *Account {
	acct, ok := l.accounts[client]
	if !ok {
		acct = &Account{}
		l.accounts[client] = acct
	}
	return acct
}

// Get returns the account for client, or nil if the client never appeared.
func (l *Ledger) Get(client uint16) *Account {
	return l.accounts[client]
}

// ClientIDs returns every client id that ever appeared, in no particular
// order. The report writer sorts before emitting.
func (l *Ledger) ClientIDs() []uint16 {
	ids := make([]uint16, 0, len(l.accounts))
	for id := range l.accounts {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of accounts.
func (l *Ledger) Len() int {
	return len(l.accounts)
}
