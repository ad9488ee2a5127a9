package engine

import (
	"PayLedger/internal/observability"
	"PayLedger/internal/operation"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Rejection reasons attached to metrics and debug logs. Business-rule
// rejections are expected and frequent — malicious or inconsistent streams
// are normal input, not an error path.
const (
	reasonMissingAmount   = "missing_amount"
	reasonNonPositive     = "non_positive_amount"
	reasonLocked          = "locked"
	reasonInsufficient    = "insufficient_funds"
	reasonDuplicateTx     = "duplicate_tx"
	reasonUnknownTx       = "unknown_tx"
	reasonClientMismatch  = "client_mismatch"
	reasonNotDeposit      = "not_deposit"
	reasonAlreadyDisputed = "already_disputed"
	reasonNotDisputed     = "not_disputed"
	reasonUnknownKind     = "unknown_kind"
)

// Processor is the single-threaded operation dispatcher. It owns the account
// ledger, the transaction log, and the dispute set; operations are applied
// one at a time, in stream order, with no effect visible to a later
// operation before the former completes.
type Processor struct {
	ledger    *Ledger
	txlog     *TransactionLog
	disputes  *DisputeSet
	validator *InvariantValidator
	logger    zerolog.Logger
	metrics   *observability.Metrics
	opCount   int64
}

func NewProcessor(logger zerolog.Logger, metrics *observability.Metrics) *Processor {
	ledger := NewLedger()
	txlog := NewTransactionLog()
	disputes := NewDisputeSet()

	return &Processor{
		ledger:    ledger,
		txlog:     txlog,
		disputes:  disputes,
		validator: NewInvariantValidator(ledger, txlog, disputes),
		logger:    logger,
		metrics:   metrics,
	}
}

// Ledger exposes the account ledger for final reporting.
func (p *Processor) Ledger() *Ledger { return p.ledger }

// Transactions exposes the transaction log (read paths only).
func (p *Processor) Transactions() *TransactionLog { return p.txlog }

// Disputes exposes the dispute set (read paths only).
func (p *Processor) Disputes() *DisputeSet { return p.disputes }

// Process applies a single operation. Every business-rule rejection is a
// silent no-op: no error is returned and no state changes. Process itself
// never fails — the only fatal path in the system is upstream, at the
// parsing boundary.
func (p *Processor) Process(rec operation.Record) {
	start := time.Now()
	acct := p.ledger.GetOrCreate(rec.Client)

	var applied bool
	var reason string

	switch rec.Kind {
	case operation.KindDeposit:
		applied, reason = p.applyDeposit(acct, rec)
	case operation.KindWithdrawal:
		applied, reason = p.applyWithdrawal(acct, rec)
	case operation.KindDispute:
		applied, reason = p.applyDispute(acct, rec)
	case operation.KindResolve:
		applied, reason = p.applyResolve(acct, rec)
		p.cleanup(rec.Tx)
	case operation.KindChargeback:
		applied, reason = p.applyChargeback(acct, rec)
		p.cleanup(rec.Tx)
	default:
		reason = reasonUnknownKind
	}

	p.opCount++
	p.postCheckInvariants(rec.Client)

	if p.metrics != nil {
		kind := rec.Kind.String()
		if applied {
			p.metrics.OpsApplied.WithLabelValues(kind).Inc()
		} else {
			p.metrics.OpsRejected.WithLabelValues(kind, reason).Inc()
		}
		p.metrics.OpDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		p.metrics.DisputesOpen.Set(float64(p.disputes.Len()))
		p.metrics.Clients.Set(float64(p.ledger.Len()))
	}

	if !applied {
		p.logger.Debug().
			Str("kind", rec.Kind.String()).
			Uint16("client", rec.Client).
			Uint32("tx", rec.Tx).
			Str("reason", reason).
			Msg("operation rejected")
	}
}

// applyDeposit adds amount to available and records the transaction.
// Preconditions, in order: amount present and strictly positive, account not
// locked, transaction id never used before.
func (p *Processor) applyDeposit(acct *Account, rec operation.Record) (bool, string) {
	if !rec.Amount.Valid {
		return false, reasonMissingAmount
	}
	amt := rec.Amount.Decimal
	if amt.Sign() <= 0 {
		return false, reasonNonPositive
	}
	if acct.Locked {
		return false, reasonLocked
	}
	if !p.txlog.Record(rec.Tx, rec.Client, amt, true) {
		return false, reasonDuplicateTx
	}

	acct.Available = acct.Available.Add(amt)
	return true, ""
}

// applyWithdrawal subtracts amount from available and records the
// transaction. Same preconditions as deposit, plus available >= amount.
func (p *Processor) applyWithdrawal(acct *Account, rec operation.Record) (bool, string) {
	if !rec.Amount.Valid {
		return false, reasonMissingAmount
	}
	amt := rec.Amount.Decimal
	if amt.Sign() <= 0 {
		return false, reasonNonPositive
	}
	if acct.Locked {
		return false, reasonLocked
	}
	if acct.Available.Cmp(amt) < 0 {
		return false, reasonInsufficient
	}
	if !p.txlog.Record(rec.Tx, rec.Client, amt, false) {
		return false, reasonDuplicateTx
	}

	acct.Available = acct.Available.Sub(amt)
	return true, ""
}

// applyDispute freezes a previously deposited amount, moving it from
// available to held. Only deposit-origin records are disputable: a withdrawal
// already left the account, so holding it back would double-count. The
// owner check is a security gate — a dispute naming another client's
// transaction id must not move funds.
//
// The locked flag is NOT consulted: lockout blocks new funds movement, not
// the dispute lifecycle.
func (p *Processor) applyDispute(acct *Account, rec operation.Record) (bool, string) {
	txRec, ok := p.txlog.Lookup(rec.Tx)
	if !ok {
		return false, reasonUnknownTx
	}
	if txRec.Client != rec.Client {
		return false, reasonClientMismatch
	}
	if !txRec.IsDeposit {
		return false, reasonNotDeposit
	}
	if !p.disputes.Add(rec.Tx) {
		return false, reasonAlreadyDisputed
	}

	// Available may go negative here — the subtraction is unconditional.
	acct.Available = acct.Available.Sub(txRec.Amount)
	acct.Held = acct.Held.Add(txRec.Amount)
	return true, ""
}

// applyResolve reverses a dispute, returning the held amount to available.
// Removal from the dispute set is the atomic gate: if the id was not a
// member, the whole operation is a no-op.
func (p *Processor) applyResolve(acct *Account, rec operation.Record) (bool, string) {
	txRec, ok := p.txlog.Lookup(rec.Tx)
	if !ok {
		return false, reasonUnknownTx
	}
	if txRec.Client != rec.Client {
		return false, reasonClientMismatch
	}
	if !p.disputes.Remove(rec.Tx) {
		return false, reasonNotDisputed
	}

	acct.Held = acct.Held.Sub(txRec.Amount)
	acct.Available = acct.Available.Add(txRec.Amount)
	return true, ""
}

// applyChargeback finalizes a dispute against the account: the held amount is
// permanently removed (not returned to available) and the account is locked.
// Same gates as resolve.
func (p *Processor) applyChargeback(acct *Account, rec operation.Record) (bool, string) {
	txRec, ok := p.txlog.Lookup(rec.Tx)
	if !ok {
		return false, reasonUnknownTx
	}
	if txRec.Client != rec.Client {
		return false, reasonClientMismatch
	}
	if !p.disputes.Remove(rec.Tx) {
		return false, reasonNotDisputed
	}

	acct.Held = acct.Held.Sub(txRec.Amount)
	acct.Locked = true
	return true, ""
}

// cleanup runs after every resolve or chargeback, whether or not the
// transition applied: if the transaction id is no longer under dispute, its
// log record is removed unconditionally. Forgetting an absent record is a
// no-op, so cleanup is idempotent. Consequence: a resolved or charged-back
// transaction can never be disputed again.
func (p *Processor) cleanup(tx uint32) {
	if !p.disputes.Contains(tx) {
		p.txlog.Forget(tx)
	}
}

// postCheckInvariants validates invariants after each operation: held >= 0
// for the touched account on every operation, and the global
// held-matches-open-disputes check every 1000 operations.
func (p *Processor) postCheckInvariants(client uint16) {
	if err := p.validator.ValidateHeldNonNegative(client); err != nil {
		panic(fmt.Sprintf("FATAL: invariant violated: %v", err))
	}

	if p.opCount > 0 && p.opCount%1000 == 0 {
		if err := p.validator.ValidateHeldMatchesDisputes(); err != nil {
			panic(fmt.Sprintf("FATAL: invariant violated: %v", err))
		}
	}
}
