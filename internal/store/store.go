package store

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"

	"github.com/eugene-eko2000/simple-payment-engine/internal/tx"
)

// ErrDuplicateTransaction is returned by RecordDeposit when the
// transaction ID has already been recorded. It is the store's only
// failure mode; the engine translates it into its public taxonomy.
var ErrDuplicateTransaction = errors.New("transaction id already recorded")

// Account is one client's balance state.
//
// Total is deliberately not a field: it is always derived from
// Available plus Held, so the books cannot drift out of balance by
// construction. Available may legitimately go negative when a dispute
// holds funds that intervening withdrawals already spent.
type Account struct {
	Client    tx.ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// Total returns Available + Held.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// DepositRecord is the retained history entry for one deposit.
// Only deposits are recorded; withdrawals are applied and forgotten,
// so they can never be referenced by a later dispute. A record is
// immutable once written except for the Disputed flag.
type DepositRecord struct {
	Client   tx.ClientID
	Amount   decimal.Decimal
	Disputed bool
}

// Store owns every account and deposit record for one run.
// The zero Store is not ready for use; call New.
type Store struct {
	accounts btree.Map[tx.ClientID, *Account]
	deposits btree.Map[tx.ID, *DepositRecord]
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// GetOrCreateAccount returns the account for client, inserting a zeroed,
// unlocked account on first reference. Never fails; accounts are never
// deleted for the lifetime of the store.
func (s *Store) GetOrCreateAccount(client tx.ClientID) *Account {
	if acct, ok := s.accounts.Get(client); ok {
		return acct
	}
	acct := &Account{Client: client}
	s.accounts.Set(client, acct)
	return acct
}

// Account returns the account for client without creating it.
func (s *Store) Account(client tx.ClientID) (*Account, bool) {
	return s.accounts.Get(client)
}

// RecordDeposit inserts the history entry for a new deposit.
// Returns ErrDuplicateTransaction if id has been recorded before;
// the existing record is left untouched.
func (s *Store) RecordDeposit(id tx.ID, client tx.ClientID, amount decimal.Decimal) error {
	if _, ok := s.deposits.Get(id); ok {
		return ErrDuplicateTransaction
	}
	s.deposits.Set(id, &DepositRecord{Client: client, Amount: amount})
	return nil
}

// Deposit returns the recorded deposit for id. The pointer is shared
// with the store so the dispute chain can flip Disputed in place.
func (s *Store) Deposit(id tx.ID) (*DepositRecord, bool) {
	return s.deposits.Get(id)
}

// Accounts iterates every account in ascending client-ID order,
// stopping early if fn returns false. Iteration order is what makes
// the account report deterministic.
func (s *Store) Accounts(fn func(client tx.ClientID, acct *Account) bool) {
	s.accounts.Scan(fn)
}

// Deposits iterates every recorded deposit in ascending transaction-ID
// order, stopping early if fn returns false.
func (s *Store) Deposits(fn func(id tx.ID, rec *DepositRecord) bool) {
	s.deposits.Scan(fn)
}

// AccountCount returns the number of accounts ever created.
func (s *Store) AccountCount() int {
	return s.accounts.Len()
}

// DepositCount returns the number of deposits recorded.
func (s *Store) DepositCount() int {
	return s.deposits.Len()
}
