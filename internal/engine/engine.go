package engine

import (
	"errors"
	"fmt"

	"github.com/eugene-eko2000/simple-payment-engine/internal/store"
	"github.com/eugene-eko2000/simple-payment-engine/internal/tx"
)

// Engine applies transaction events to the ledger store one at a time.
//
// Every Execute call is validate-then-apply: all checks for a kind run
// before the first balance mutation, so a rejected transaction leaves
// the store exactly as it was. There is no partial application and no
// rollback machinery to get wrong.
//
// INVARIANTS:
//   - Only the account named by the event is ever mutated, and only
//     after its lock has been checked.
//   - A locked account rejects every kind before any other rule runs,
//     including the not-disputed checks on its dispute chain.
//   - Available + Held is an account's total at all times (Total is
//     derived, never stored).
//
// The engine performs no logging and holds no configuration. Not safe
// for concurrent use; callers feed it a single ordered stream.
type Engine struct {
	store *store.Store
}

// New creates an Engine over the given store.
func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// Execute applies one transaction event.
//
// The account is fetched (lazily created) and the lock guard runs
// before dispatch; this is the engine's single guard clause. Rejections
// are returned as *ExecutionError with a specific ErrorCode; they are
// per-transaction and never corrupt state. Any other error is an
// internal invariant violation and cannot occur for adapter-produced
// events.
func (e *Engine) Execute(t tx.Transaction) error {
	acct := e.store.GetOrCreateAccount(t.Client)
	if acct.Locked {
		return execErr(ErrCodeAccountLocked, t)
	}

	switch t.Kind {
	case tx.KindDeposit:
		return e.applyDeposit(acct, t)
	case tx.KindWithdrawal:
		return e.applyWithdrawal(acct, t)
	case tx.KindDispute:
		return e.applyDispute(acct, t)
	case tx.KindResolve:
		return e.applyResolve(acct, t)
	case tx.KindChargeback:
		return e.applyChargeback(acct, t)
	default:
		return fmt.Errorf("unknown transaction kind %q", t.Kind)
	}
}

// applyDeposit credits available funds and records the deposit for
// later dispute reference.
//
// The history insert runs before the balance mutation: its duplicate
// check is the last rule that can fail, so a rejected duplicate never
// double-credits.
func (e *Engine) applyDeposit(acct *store.Account, t tx.Transaction) error {
	if t.Amount.Sign() <= 0 {
		return execErr(ErrCodeInvalidAmount, t)
	}
	if err := e.store.RecordDeposit(t.ID, t.Client, t.Amount); err != nil {
		if errors.Is(err, store.ErrDuplicateTransaction) {
			return execErr(ErrCodeDuplicateTransaction, t)
		}
		return fmt.Errorf("record deposit %d: %w", t.ID, err)
	}
	acct.Available = acct.Available.Add(t.Amount)
	return nil
}

// applyWithdrawal debits available funds.
//
// Withdrawals are not recorded in the transaction history, so they can
// never be referenced by a later dispute. Disputing funds that already
// left the account has no well-defined reversal; the chargeback model
// covers funds-in only.
func (e *Engine) applyWithdrawal(acct *store.Account, t tx.Transaction) error {
	if t.Amount.Sign() <= 0 {
		return execErr(ErrCodeInvalidAmount, t)
	}
	if acct.Available.Cmp(t.Amount) < 0 {
		return execErr(ErrCodeInsufficientFunds, t)
	}
	acct.Available = acct.Available.Sub(t.Amount)
	return nil
}

// applyDispute moves the referenced deposit's amount from available to
// held and marks the deposit disputed.
//
// Available is allowed to go negative here: if withdrawals already
// spent part of the disputed amount, the hold still covers the full
// deposit. Never clamped.
func (e *Engine) applyDispute(acct *store.Account, t tx.Transaction) error {
	dep, ok := e.store.Deposit(t.ID)
	if !ok {
		return execErr(ErrCodeTransactionNotFound, t)
	}
	if dep.Client != t.Client {
		return execErr(ErrCodeClientMismatch, t)
	}
	if dep.Disputed {
		return execErr(ErrCodeAlreadyDisputed, t)
	}
	acct.Available = acct.Available.Sub(dep.Amount)
	acct.Held = acct.Held.Add(dep.Amount)
	dep.Disputed = true
	return nil
}

// applyResolve reverses a hold: the disputed amount moves back from
// held to available and the dispute closes, reopenable by a later
// dispute.
func (e *Engine) applyResolve(acct *store.Account, t tx.Transaction) error {
	dep, err := e.disputedDeposit(t)
	if err != nil {
		return err
	}
	acct.Held = acct.Held.Sub(dep.Amount)
	acct.Available = acct.Available.Add(dep.Amount)
	dep.Disputed = false
	return nil
}

// applyChargeback withdraws the held amount and locks the account
// permanently. The dispute closes; with the account locked, no later
// event can touch this deposit again.
func (e *Engine) applyChargeback(acct *store.Account, t tx.Transaction) error {
	dep, err := e.disputedDeposit(t)
	if err != nil {
		return err
	}
	acct.Held = acct.Held.Sub(dep.Amount)
	acct.Locked = true
	dep.Disputed = false
	return nil
}

// disputedDeposit looks up the deposit a resolve or chargeback
// references and confirms it is under dispute.
//
// A deposit owned by a different client reports TRANSACTION_NOT_FOUND
// rather than a mismatch: resolve and chargeback answer only for the
// caller's own history, which keeps the mutation target identical to
// the lock-guarded account.
func (e *Engine) disputedDeposit(t tx.Transaction) (*store.DepositRecord, error) {
	dep, ok := e.store.Deposit(t.ID)
	if !ok || dep.Client != t.Client {
		return nil, execErr(ErrCodeTransactionNotFound, t)
	}
	if !dep.Disputed {
		return nil, execErr(ErrCodeNotDisputed, t)
	}
	return dep, nil
}
